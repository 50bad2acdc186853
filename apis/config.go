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

// Config carries read-only resolution knobs.
// It is passed by value and should be treated as immutable by implementations;
// KnownVersions must not be mutated after construction.
type Config struct {
	// KnownVersions is the fixed set of releases a request may name.
	// Requests for any other version fail before the Catalog is touched.
	KnownVersions []Version

	// Cutoff is the minimum similarity score in [0,1] a namespace
	// candidate must reach to match a family hint.
	Cutoff float64

	// Metric names the registered Similarity used by namespace location.
	Metric string
}

// Clone returns a copy of c that shares no slices with it.
func (c Config) Clone() Config {
	out := c
	if c.KnownVersions != nil {
		out.KnownVersions = append([]Version(nil), c.KnownVersions...)
	}
	return out
}
