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

// Package strategy provides the similarity metrics used to match family
// hints against namespace names.
package strategy

import "dirpx.dev/vroute/apis"

const (
	// Ratio names the Ratcliff/Obershelp sequence matching ratio.
	Ratio = "ratio"
	// Levenshtein names the normalized edit distance similarity.
	Levenshtein = "levenshtein"
	// JaroWinkler names the Jaro-Winkler similarity.
	JaroWinkler = "jaro-winkler"
)

// All returns one instance of every built-in metric.
func All() []apis.Similarity {
	return []apis.Similarity{
		NewRatio(),
		NewLevenshtein(),
		NewJaroWinkler(),
	}
}

// clamp keeps scores inside [0,1] whatever the underlying library returns.
func clamp(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
