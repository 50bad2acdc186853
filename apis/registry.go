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

// Registry holds the similarity metrics available to resolvers, keyed by name.
// Keep it minimal so implementations can be lock-free or sync.Map-backed.
type Registry interface {
	// Register associates name with s.
	// Implementations should be idempotent; conflicting re-registrations fail.
	Register(name string, s Similarity) error
	// Lookup returns the metric registered under name, if present.
	Lookup(name string) (s Similarity, ok bool)
	// Entries returns a snapshot sorted by name.
	Entries() []Entry
	// Count returns the number of registered entries.
	Count() int
	// Reset clears all registered entries.
	Reset()
}

// Entry is a single (name, metric) association in a Registry snapshot.
type Entry struct {
	// Name is the registry key.
	Name string
	// Similarity is the registered metric.
	Similarity Similarity
}
