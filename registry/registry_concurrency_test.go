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

package registry_test

import (
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/vroute/apis"
	"dirpx.dev/vroute/registry"
	"dirpx.dev/vroute/strategy"
)

// TestConcurrentRegisterAndLookup verifies that Register/Lookup/Entries/Count
// are race-free and consistent under concurrent use.
func TestConcurrentRegisterAndLookup(t *testing.T) {
	reg := registry.New()

	metrics := strategy.All()
	names := []string{"a", "b", "c"}

	// Register once (sequential) to establish baseline.
	for i, m := range metrics {
		if err := reg.Register(names[i], m); err != nil {
			t.Fatalf("register %s: %v", names[i], err)
		}
	}

	// Hammer with concurrent lookups and idempotent re-registrations.
	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4

	// Readers
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 5000; i++ {
				name := names[i%len(names)]
				if got, ok := reg.Lookup(name); !ok || got == nil {
					t.Errorf("lookup failed for %s: ok=%v", name, ok)
					return
				}
				_ = reg.Count()
				_ = reg.Entries()
			}
		}()
	}

	// Writers (idempotent re-register)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				j := (i + id) % len(names)
				_ = reg.Register(names[j], metrics[j]) // must be safe & idempotent
			}
		}(w)
	}

	wg.Wait()

	// Final consistency checks.
	if reg.Count() != len(names) {
		t.Fatalf("count mismatch: got %d want %d", reg.Count(), len(names))
	}
	for i, e := range reg.Entries() {
		if e.Name != names[i] || e.Similarity.Name() != metrics[i].Name() {
			t.Fatalf("entry mismatch for %s: got %q want %q", e.Name, e.Similarity.Name(), metrics[i].Name())
		}
	}
}

// TestResetSnapshot ensures Reset is safe and Entries returns a stable snapshot.
func TestResetSnapshot(t *testing.T) {
	reg := registry.Default()

	snap := reg.Entries() // snapshot copy expected
	reg.Reset()

	if reg.Count() != 0 {
		t.Fatalf("count after reset: got %d want 0", reg.Count())
	}
	if len(snap) != 3 {
		t.Fatalf("snapshot length changed unexpectedly: %d", len(snap))
	}
	if snap[0].Similarity == nil || snap[1].Similarity == nil {
		t.Fatalf("snapshot contents invalid after reset")
	}
}

// This ensures the interface is satisfied; not a test but a compile-time check.
var _ apis.Registry = registry.New()
