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

// Package version validates release specifiers against a fixed known set
// and maps them to release root names.
package version

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"dirpx.dev/vroute/apis"
)

// ErrMalformed is returned by Parse for strings that are not four dot
// separated non-negative integers.
var ErrMalformed = errors.New("vroute(version): malformed version")

// Parse checks that s has MAJOR.MINOR.PATCH.BUILD form.
func Parse(s string) (apis.Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return "", fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	for _, p := range parts {
		if p == "" {
			return "", fmt.Errorf("%w: %q", ErrMalformed, s)
		}
		if _, err := strconv.ParseUint(p, 10, 32); err != nil {
			return "", fmt.Errorf("%w: %q", ErrMalformed, s)
		}
	}
	return apis.Version(s), nil
}

// RootName converts "2.3.7.6" to the release root segment "v2_3_7_6".
func RootName(v apis.Version) string {
	return "v" + strings.ReplaceAll(string(v), ".", "_")
}

// Validator checks versions against a fixed known set.
// It is immutable and safe for concurrent use.
type Validator struct {
	known  map[apis.Version]struct{}
	sorted []apis.Version
}

// NewValidator returns a Validator for the given known versions.
func NewValidator(known []apis.Version) *Validator {
	v := &Validator{known: make(map[apis.Version]struct{}, len(known))}
	for _, k := range known {
		if _, dup := v.known[k]; dup {
			continue
		}
		v.known[k] = struct{}{}
		v.sorted = append(v.sorted, k)
	}
	sort.Slice(v.sorted, func(i, j int) bool { return v.sorted[i] < v.sorted[j] })
	return v
}

// Validate returns nil iff version is known, and a *apis.VersionError otherwise.
func (v *Validator) Validate(version apis.Version) error {
	if _, ok := v.known[version]; ok {
		return nil
	}
	return &apis.VersionError{Version: version, Known: v.Known()}
}

// Known returns the known versions in ascending order.
func (v *Validator) Known() []apis.Version {
	return append([]apis.Version(nil), v.sorted...)
}
