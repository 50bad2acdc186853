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

// Package member lists, filters and selects the callables of a namespace.
package member

import (
	"context"
	"errors"
	"sort"
	"strings"

	"dirpx.dev/vroute/apis"
)

var errNoCatalog = errors.New("no catalog configured")

// Enumerator lists the members declared in a namespace.
type Enumerator struct {
	cat apis.Catalog
}

// NewEnumerator returns an Enumerator reading from cat.
func NewEnumerator(cat apis.Catalog) *Enumerator {
	return &Enumerator{cat: cat}
}

// Enumerate returns the members declared in path, deduplicated and sorted
// by name. The order is stable for an unchanged catalog.
func (e *Enumerator) Enumerate(ctx context.Context, path apis.NamespacePath) ([]apis.Member, error) {
	if e.cat == nil {
		return nil, &apis.CatalogAccessError{Op: "members", Path: path, Err: errNoCatalog}
	}
	if err := ctx.Err(); err != nil {
		return nil, &apis.CatalogAccessError{Op: "members", Path: path, Err: err}
	}
	names, err := e.cat.Members(ctx, path)
	if err != nil {
		return nil, &apis.CatalogAccessError{Op: "members", Path: path, Err: err}
	}

	uniq := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		uniq = append(uniq, n)
	}
	sort.Strings(uniq)

	out := make([]apis.Member, len(uniq))
	for i, n := range uniq {
		out[i] = apis.Member{Name: n, Namespace: path}
	}
	return out, nil
}

// Filter keeps the members whose name contains hint, preserving order.
// Matching is case-sensitive. An empty hint keeps every member.
func Filter(members []apis.Member, hint string) []apis.Member {
	out := make([]apis.Member, 0, len(members))
	for _, m := range members {
		if strings.Contains(m.Name, hint) {
			out = append(out, m)
		}
	}
	return out
}

// Select returns the first candidate, or apis.ErrMethodNotFound when there
// are none.
func Select(candidates []apis.Member) (apis.Member, error) {
	if len(candidates) == 0 {
		return apis.Member{}, apis.ErrMethodNotFound
	}
	return candidates[0], nil
}
