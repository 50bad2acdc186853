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

package apis

// Similarity scores how close a hint is to a candidate name.
// Implementations must be deterministic and safe for concurrent use.
type Similarity interface {
	// Name returns the registry key of the metric (e.g. "ratio").
	Name() string

	// Score returns a normalized similarity in [0,1]. Identical non-empty
	// strings score 1.0.
	Score(hint, candidate string) float64
}

// SimilarityFunc adapts a plain function to Similarity.
type SimilarityFunc struct {
	// Key is returned by Name.
	Key string
	// Fn computes the score.
	Fn func(hint, candidate string) float64
}

// Name returns f.Key.
func (f SimilarityFunc) Name() string { return f.Key }

// Score calls f.Fn.
func (f SimilarityFunc) Score(hint, candidate string) float64 { return f.Fn(hint, candidate) }
