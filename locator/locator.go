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

// Package locator matches family hints against the namespaces of a release.
package locator

import (
	"context"
	"errors"

	"dirpx.dev/vroute/apis"
)

var errNoCatalog = errors.New("no catalog configured")

// Locator finds the namespace closest to a family hint.
// It holds no mutable state and is safe for concurrent use when its
// Catalog is.
type Locator struct {
	cat    apis.Catalog
	sim    apis.Similarity
	cutoff float64
}

// New returns a Locator scoring candidates of cat with sim. Candidates
// scoring below cutoff never match.
func New(cat apis.Catalog, sim apis.Similarity, cutoff float64) *Locator {
	return &Locator{cat: cat, sim: sim, cutoff: cutoff}
}

// Cutoff returns the minimum matching score.
func (l *Locator) Cutoff() float64 { return l.cutoff }

// candidate is a scored namespace name.
type candidate struct {
	name  string
	score float64
	exact bool
}

// better orders an exact match first, then descending score, then
// ascending name.
func better(a, b candidate) bool {
	if a.exact != b.exact {
		return a.exact
	}
	if a.score != b.score {
		return a.score > b.score
	}
	return a.name < b.name
}

// Locate returns the best namespace of version for hint.
//
// An exact name match wins with score 1.0. Otherwise the highest score at or
// above the cutoff wins, ties going to the lexicographically smallest name.
// The returned Match also reports the runner-up among all candidates so
// callers can see how close the decision was.
func (l *Locator) Locate(ctx context.Context, version apis.Version, hint string) (apis.Match, error) {
	if l.cat == nil {
		return apis.Match{}, &apis.CatalogAccessError{Op: "namespaces", Version: version, Err: errNoCatalog}
	}
	if err := ctx.Err(); err != nil {
		return apis.Match{}, &apis.CatalogAccessError{Op: "namespaces", Version: version, Err: err}
	}
	names, err := l.cat.Namespaces(ctx, version)
	if err != nil {
		return apis.Match{}, &apis.CatalogAccessError{Op: "namespaces", Version: version, Err: err}
	}

	var best, second candidate
	seen := make(map[string]struct{}, len(names))
	n := 0
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		c := candidate{name: name}
		if name == hint {
			c.score, c.exact = 1, true
		} else {
			c.score = l.sim.Score(hint, name)
		}

		n++
		switch {
		case n == 1:
			best = c
		case better(c, best):
			second, best = best, c
		case n == 2 || better(c, second):
			second = c
		}
	}

	if n == 0 || (!best.exact && best.score < l.cutoff) {
		return apis.Match{}, &apis.NamespaceNotFoundError{
			Version:   version,
			Hint:      hint,
			Cutoff:    l.cutoff,
			Best:      best.name,
			BestScore: best.score,
		}
	}
	return apis.Match{
		Namespace:     best.name,
		Score:         best.score,
		RunnerUp:      second.name,
		RunnerUpScore: second.score,
		Candidates:    n,
	}, nil
}
