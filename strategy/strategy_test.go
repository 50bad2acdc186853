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

package strategy_test

import (
	"math"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/vroute/apis"
	"dirpx.dev/vroute/strategy"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRatio_KnownValues(t *testing.T) {
	s := strategy.NewRatio()
	tests := []struct {
		hint, candidate string
		want            float64
	}{
		{"user_and_roles", "user_and_roles", 1},
		// "user" and "role" match: 2*8/(9+14)
		{"user role", "user_and_roles", 16.0 / 23.0},
		{"abc", "xyz", 0},
		{"", "users", 0},
		{"", "", 1},
	}
	for _, tt := range tests {
		got := s.Score(tt.hint, tt.candidate)
		if !approx(got, tt.want) {
			t.Errorf("Score(%q, %q) = %v, want %v", tt.hint, tt.candidate, got, tt.want)
		}
	}
}

func TestRatio_RuneAware(t *testing.T) {
	s := strategy.NewRatio()
	// Two runes, one shared: 2*1/4.
	if got := s.Score("éa", "éb"); !approx(got, 0.5) {
		t.Fatalf("Score(éa, éb) = %v, want 0.5", got)
	}
}

func TestAll_NamesAndRange(t *testing.T) {
	want := map[string]bool{strategy.Ratio: true, strategy.Levenshtein: true, strategy.JaroWinkler: true}
	pairs := [][2]string{
		{"user role", "user_and_roles"},
		{"sites", "site_design"},
		{"", "x"},
		{"devices", "devices"},
		{"Devices", "devices"},
	}
	for _, s := range strategy.All() {
		if !want[s.Name()] {
			t.Fatalf("unexpected metric %q", s.Name())
		}
		delete(want, s.Name())
		for _, p := range pairs {
			got := s.Score(p[0], p[1])
			if got < 0 || got > 1 {
				t.Errorf("%s: Score(%q, %q) = %v, outside [0,1]", s.Name(), p[0], p[1], got)
			}
		}
		if got := s.Score("devices", "devices"); got != 1 {
			t.Errorf("%s: identical strings scored %v, want 1", s.Name(), got)
		}
		if got := s.Score("Devices", "devices"); got == 1 {
			t.Errorf("%s: case-insensitive score of 1 for differing case", s.Name())
		}
	}
	if len(want) != 0 {
		t.Fatalf("missing metrics: %v", want)
	}
}

func TestLevenshtein_CloserScoresHigher(t *testing.T) {
	s := strategy.NewLevenshtein()
	near := s.Score("user_and_role", "user_and_roles")
	far := s.Score("user_and_role", "site_design")
	if near <= far {
		t.Fatalf("near=%v far=%v, want near > far", near, far)
	}
}

// TestSimilarity_ConcurrentScore_NoRace verifies that metrics are race-free
// and deterministic under heavy concurrency.
func TestSimilarity_ConcurrentScore_NoRace(t *testing.T) {
	pairs := [][2]string{
		{"user role", "user_and_roles"},
		{"site", "sites"},
		{"device", "devices"},
		{"auth", "authentication"},
	}
	for _, s := range strategy.All() {
		base := make([]float64, len(pairs))
		for i, p := range pairs {
			base[i] = s.Score(p[0], p[1])
		}

		wg := sync.WaitGroup{}
		workers := runtime.GOMAXPROCS(0) * 4
		wg.Add(workers)
		for w := 0; w < workers; w++ {
			go func(id int, s apis.Similarity) {
				defer wg.Done()
				for i := 0; i < 500; i++ {
					k := (i + id) % len(pairs)
					if got := s.Score(pairs[k][0], pairs[k][1]); got != base[k] {
						t.Errorf("%s: Score(%q, %q) = %v, want %v", s.Name(), pairs[k][0], pairs[k][1], got, base[k])
						return
					}
				}
			}(w, s)
		}
		wg.Wait()
	}
}

func TestSimilarityFunc(t *testing.T) {
	f := apis.SimilarityFunc{Key: "const", Fn: func(string, string) float64 { return 0.5 }}
	if f.Name() != "const" || f.Score("a", "b") != 0.5 {
		t.Fatalf("SimilarityFunc = (%q, %v)", f.Name(), f.Score("a", "b"))
	}
}
