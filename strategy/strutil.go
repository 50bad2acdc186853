/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package strategy

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"dirpx.dev/vroute/apis"
)

// NewLevenshtein creates an apis.Similarity based on case-sensitive
// Levenshtein distance normalized by the longer string.
func NewLevenshtein() apis.Similarity {
	m := metrics.NewLevenshtein()
	m.CaseSensitive = true
	return metric{name: Levenshtein, m: m}
}

// NewJaroWinkler creates a case-sensitive Jaro-Winkler apis.Similarity.
// It favours hints that share a prefix with the candidate.
func NewJaroWinkler() apis.Similarity {
	m := metrics.NewJaroWinkler()
	m.CaseSensitive = true
	return metric{name: JaroWinkler, m: m}
}

// metric wraps a strutil.StringMetric. The wrapped metrics are configured once
// and never mutated, so concurrent Score calls are safe.
type metric struct {
	name string
	m    strutil.StringMetric
}

// Ensure metric implements apis.Similarity.
var _ apis.Similarity = metric{}

// Name returns the registry key.
func (s metric) Name() string { return s.name }

// Score returns the normalized similarity of hint and candidate.
func (s metric) Score(hint, candidate string) float64 {
	if hint == candidate {
		return 1
	}
	return clamp(strutil.Similarity(hint, candidate, s.m))
}
