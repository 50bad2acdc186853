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
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownVersion matches every *VersionError.
	ErrUnknownVersion = errors.New("vroute: unknown API version")
	// ErrNamespaceNotFound matches every *NamespaceNotFoundError.
	ErrNamespaceNotFound = errors.New("vroute: namespace not found")
	// ErrMethodNotFound matches every *MethodNotFoundError.
	ErrMethodNotFound = errors.New("vroute: method not found")
	// ErrCatalogAccess matches every *CatalogAccessError.
	ErrCatalogAccess = errors.New("vroute: catalog access failed")
)

// ErrorKind classifies resolution failures.
type ErrorKind int

const (
	// KindNone is returned by KindOf for nil or foreign errors.
	KindNone ErrorKind = iota
	// KindVersion marks a version outside the known set.
	KindVersion
	// KindNamespaceNotFound marks a family hint no namespace matched.
	KindNamespaceNotFound
	// KindMethodNotFound marks a method hint no member contained.
	KindMethodNotFound
	// KindCatalogAccess marks a Catalog that could not answer.
	KindCatalogAccess
)

// String returns the kind name used in logs and metric labels.
func (k ErrorKind) String() string {
	switch k {
	case KindVersion:
		return "version_error"
	case KindNamespaceNotFound:
		return "namespace_not_found"
	case KindMethodNotFound:
		return "method_not_found"
	case KindCatalogAccess:
		return "catalog_access_error"
	default:
		return "none"
	}
}

// KindOf returns the kind of the first typed resolution error in err's chain.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUnknownVersion):
		return KindVersion
	case errors.Is(err, ErrNamespaceNotFound):
		return KindNamespaceNotFound
	case errors.Is(err, ErrMethodNotFound):
		return KindMethodNotFound
	case errors.Is(err, ErrCatalogAccess):
		return KindCatalogAccess
	default:
		return KindNone
	}
}

// VersionError reports a version outside the known set.
type VersionError struct {
	Version Version
	Known   []Version
}

func (e *VersionError) Error() string {
	known := make([]string, len(e.Known))
	for i, v := range e.Known {
		known[i] = string(v)
	}
	return fmt.Sprintf("vroute: unknown API version %q, known versions are: %s",
		e.Version, strings.Join(known, ", "))
}

// Is matches ErrUnknownVersion.
func (e *VersionError) Is(target error) bool { return target == ErrUnknownVersion }

// NamespaceNotFoundError reports a family hint that no namespace matched.
type NamespaceNotFoundError struct {
	Version Version
	Hint    string
	Cutoff  float64
	// Best is the highest-scoring candidate below Cutoff, if any.
	Best      string
	BestScore float64
}

func (e *NamespaceNotFoundError) Error() string {
	if e.Best == "" {
		return fmt.Sprintf("vroute: no namespace for family %q in version %s", e.Hint, e.Version)
	}
	return fmt.Sprintf("vroute: no namespace for family %q in version %s (closest %q scored %.3f, cutoff %.2f)",
		e.Hint, e.Version, e.Best, e.BestScore, e.Cutoff)
}

// Is matches ErrNamespaceNotFound.
func (e *NamespaceNotFoundError) Is(target error) bool { return target == ErrNamespaceNotFound }

// MethodNotFoundError reports a namespace with no member containing the hint.
type MethodNotFoundError struct {
	Version Version
	Path    NamespacePath
	Hint    string
	// Members is the number of members that were searched.
	Members int
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("vroute: no member matching %q in %s (version %s, %d members searched)",
		e.Hint, e.Path, e.Version, e.Members)
}

// Is matches ErrMethodNotFound.
func (e *MethodNotFoundError) Is(target error) bool { return target == ErrMethodNotFound }

// CatalogAccessError reports a Catalog that failed to enumerate
// namespaces or members. It is distinct from the not-found errors: the
// lookup itself could not be performed.
type CatalogAccessError struct {
	// Op is "namespaces" or "members".
	Op      string
	Version Version
	Path    NamespacePath
	Err     error
}

func (e *CatalogAccessError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("vroute: catalog %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("vroute: catalog %s for version %s: %v", e.Op, e.Version, e.Err)
}

// Is matches ErrCatalogAccess.
func (e *CatalogAccessError) Is(target error) bool { return target == ErrCatalogAccess }

// Unwrap returns the underlying cause.
func (e *CatalogAccessError) Unwrap() error { return e.Err }
