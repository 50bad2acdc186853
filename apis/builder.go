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

// Builder composes the metric Registry and the Resolver from a Config and a
// Catalog. Implementations may reuse state from previous instances, or
// ignore it.
type Builder interface {
	// BuildRegistry constructs a Registry for cfg. Entries of prev, if any,
	// carry over so custom metrics survive a rebuild.
	BuildRegistry(cfg Config, prev Registry) Registry
	// BuildResolver constructs a Resolver for cfg over cat, scoring with the
	// metric reg holds under cfg.Metric. It fails when that metric is not
	// registered.
	BuildResolver(cfg Config, reg Registry, cat Catalog, prev Resolver) (Resolver, error)
}
