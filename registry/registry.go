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

package registry

import (
	"errors"
	"reflect"
	"sort"
	"sync"

	"dirpx.dev/vroute/apis"
	"dirpx.dev/vroute/strategy"
)

var (
	// ErrNilSimilarity is returned when a nil metric is provided.
	ErrNilSimilarity = errors.New("vroute(registry): nil similarity provided")
	// ErrEmptyName is returned when an empty name is provided.
	ErrEmptyName = errors.New("vroute(registry): empty name provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a name with a different metric.
	ErrConflictingRegistration = errors.New("vroute(registry): conflicting metric registration")
)

// New constructs an empty Registry.
func New() apis.Registry {
	return &registry{}
}

// Default constructs a Registry holding every built-in metric under its own name.
func Default() apis.Registry {
	r := New()
	for _, s := range strategy.All() {
		// Built-in names are distinct, so this cannot conflict.
		_ = r.Register(s.Name(), s)
	}
	return r
}

// registry is a simple Registry implementation backed by sync.Map.
type registry struct {
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps names to registered metrics.
	m sync.Map // map[string]apis.Similarity
	// count tracks the number of registered entries.
	count int
}

// Register associates name with s.
// It is idempotent for the same (name, metric) pair.
func (r *registry) Register(name string, s apis.Similarity) error {
	// Validate inputs early.
	if s == nil {
		return ErrNilSimilarity
	}
	if name == "" {
		return ErrEmptyName
	}

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := r.m.Load(name); ok {
		if same(old.(apis.Similarity), s) {
			return nil // idempotent re-registration
		}
		return ErrConflictingRegistration
	}

	// Write path: guard with a mutex to keep counter consistent and avoid ABA.
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.m.Load(name); ok {
		if same(old.(apis.Similarity), s) {
			return nil
		}
		return ErrConflictingRegistration
	}

	r.m.Store(name, s)
	r.count++
	return nil
}

// Lookup returns the metric registered under name, if present.
func (r *registry) Lookup(name string) (apis.Similarity, bool) {
	if name == "" {
		return nil, false
	}
	if v, ok := r.m.Load(name); ok {
		return v.(apis.Similarity), true
	}
	return nil, false
}

// Entries returns a snapshot sorted by name.
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{
			Name:       key.(string),
			Similarity: value.(apis.Similarity),
		})
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Range(func(key, _ any) bool {
		r.m.Delete(key)
		return true
	})
	r.count = 0
}

// same reports whether a and b are the same metric value.
// Values that cannot be compared never compare equal. A comparable type
// can still hold a func in an interface field, so the comparison itself
// may panic.
func same(a, b apis.Similarity) (eq bool) {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
