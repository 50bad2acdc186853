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

// Package catalog provides immutable apis.Catalog implementations built once
// from explicit entries, Go types or catalog documents, plus a file-backed
// catalog that reloads when its source changes.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"dirpx.dev/vroute/apis"
	uref "dirpx.dev/vroute/utils/reflect"
	"dirpx.dev/vroute/version"
)

var (
	// ErrUnknownRelease is returned when a release root does not exist.
	ErrUnknownRelease = errors.New("vroute(catalog): unknown release")
	// ErrUnknownNamespace is returned when a family does not exist in a release.
	ErrUnknownNamespace = errors.New("vroute(catalog): unknown namespace")
	// ErrInvalidPath is returned for namespace paths that are not [root, family].
	ErrInvalidPath = errors.New("vroute(catalog): invalid namespace path")
	// ErrEmptyName is returned when a family or member name is empty.
	ErrEmptyName = errors.New("vroute(catalog): empty name")
)

// Static is an immutable Catalog. It is safe for concurrent use.
type Static struct {
	// releases maps release root -> family -> sorted, deduplicated members.
	releases map[string]map[string][]string
	// versions maps release root -> the version it was built from.
	versions map[string]apis.Version
}

// Ensure Static implements apis.Catalog.
var _ apis.Catalog = (*Static)(nil)

// Namespaces returns the families of version in ascending order.
func (s *Static) Namespaces(ctx context.Context, v apis.Version) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root := version.RootName(v)
	families, ok := s.releases[root]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRelease, root)
	}
	out := make([]string, 0, len(families))
	for name := range families {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// Members returns the members declared in path, in ascending order.
func (s *Static) Members(ctx context.Context, path apis.NamespacePath) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(path) != 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path.String())
	}
	families, ok := s.releases[path.Root()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRelease, path.Root())
	}
	members, ok := families[path.Leaf()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNamespace, path)
	}
	return append([]string(nil), members...), nil
}

// Versions returns the versions present in the catalog in ascending order.
func (s *Static) Versions() []apis.Version {
	out := make([]apis.Version, 0, len(s.versions))
	for _, v := range s.versions {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Document returns the catalog contents in document form.
func (s *Static) Document() Document {
	doc := Document{Releases: make(map[string]map[string][]string, len(s.releases))}
	for root, families := range s.releases {
		fam := make(map[string][]string, len(families))
		for name, members := range families {
			fam[name] = append([]string(nil), members...)
		}
		doc.Releases[string(s.versions[root])] = fam
	}
	return doc
}

// Builder accumulates catalog entries. It is not safe for concurrent use.
// The first error encountered is kept and returned by Build.
type Builder struct {
	releases map[apis.Version]map[string]map[string]struct{}
	err      error
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{releases: make(map[apis.Version]map[string]map[string]struct{})}
}

// Add declares family under v with the given members.
// A family may be added without members; repeated calls merge.
func (b *Builder) Add(v apis.Version, family string, members ...string) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := version.Parse(string(v)); err != nil {
		b.err = err
		return b
	}
	if family == "" {
		b.err = fmt.Errorf("%w: family in version %s", ErrEmptyName, v)
		return b
	}
	families, ok := b.releases[v]
	if !ok {
		families = make(map[string]map[string]struct{})
		b.releases[v] = families
	}
	set, ok := families[family]
	if !ok {
		set = make(map[string]struct{})
		families[family] = set
	}
	for _, m := range members {
		if m == "" {
			b.err = fmt.Errorf("%w: member of %s in version %s", ErrEmptyName, family, v)
			return b
		}
		set[m] = struct{}{}
	}
	return b
}

// AddType declares family under v with the exported methods declared
// directly on t. Methods promoted from embedded fields are not added.
func (b *Builder) AddType(v apis.Version, family string, t reflect.Type) *Builder {
	if b.err != nil {
		return b
	}
	methods, err := uref.DeclaredMethods(t)
	if err != nil {
		b.err = fmt.Errorf("vroute(catalog): %s/%s: %w", v, family, err)
		return b
	}
	return b.Add(v, family, methods...)
}

// Merge adds every entry of doc.
func (b *Builder) Merge(doc Document) *Builder {
	versions := make([]string, 0, len(doc.Releases))
	for v := range doc.Releases {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	for _, v := range versions {
		families := doc.Releases[v]
		names := make([]string, 0, len(families))
		for name := range families {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.Add(apis.Version(v), name, families[name]...)
		}
	}
	return b
}

// Build returns the immutable catalog, or the first error recorded.
func (b *Builder) Build() (*Static, error) {
	if b.err != nil {
		return nil, b.err
	}
	s := &Static{
		releases: make(map[string]map[string][]string, len(b.releases)),
		versions: make(map[string]apis.Version, len(b.releases)),
	}
	for v, families := range b.releases {
		root := version.RootName(v)
		fam := make(map[string][]string, len(families))
		for name, set := range families {
			members := make([]string, 0, len(set))
			for m := range set {
				members = append(members, m)
			}
			sort.Strings(members)
			fam[name] = members
		}
		s.releases[root] = fam
		s.versions[root] = v
	}
	return s, nil
}

// MustBuild is like Build but panics on error. Intended for package-level
// catalogs built from literals.
func (b *Builder) MustBuild() *Static {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
