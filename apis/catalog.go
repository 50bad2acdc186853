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

import (
	"context"
	"strings"
)

// Version is a release specifier in MAJOR.MINOR.PATCH.BUILD form, e.g. "2.3.7.6".
type Version string

// String returns the version as a plain string.
func (v Version) String() string { return string(v) }

// NamespacePath identifies a location inside a release surface.
// The first segment is the release root (e.g. "v2_3_7_6"), the second the family.
// Paths are always resolved relative to a single release root.
type NamespacePath []string

// Root returns the release root segment, or "" for an empty path.
func (p NamespacePath) Root() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// Leaf returns the last segment, or "" for an empty path.
func (p NamespacePath) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// String joins the segments with ".".
func (p NamespacePath) String() string {
	return strings.Join(p, ".")
}

// Equal reports whether p and o have identical segments.
func (p NamespacePath) Equal(o NamespacePath) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Catalog is a read-only view over versioned API surfaces.
// Implementations must be safe for concurrent reads; the core never mutates them.
type Catalog interface {
	// Namespaces returns the sub-namespace names directly under the release
	// root for version. Order is not significant.
	Namespaces(ctx context.Context, version Version) ([]string, error)

	// Members returns the member names declared directly in path,
	// excluding anything inherited or re-exported from elsewhere.
	Members(ctx context.Context, path NamespacePath) ([]string, error)
}
