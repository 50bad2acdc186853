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
	"github.com/pmezard/go-difflib/difflib"

	"dirpx.dev/vroute/apis"
)

// NewRatio creates an apis.Similarity computing the sequence matching ratio
// 2*M/T, where M is the number of runes in matching blocks and T the total
// number of runes in both strings.
func NewRatio() apis.Similarity {
	return ratio{}
}

// ratio matches candidate (sequence A) against hint (sequence B) rune by
// rune, the same orientation close-match lookups use.
type ratio struct{}

// Ensure ratio implements apis.Similarity.
var _ apis.Similarity = ratio{}

// Name returns Ratio.
func (ratio) Name() string { return Ratio }

// Score returns the matching ratio of hint and candidate.
func (ratio) Score(hint, candidate string) float64 {
	if hint == candidate {
		return 1
	}
	m := difflib.NewMatcher(runes(candidate), runes(hint))
	return clamp(m.Ratio())
}

// runes splits s into one element per rune.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
