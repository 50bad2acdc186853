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

// Package vroute maps a loose API call description to the exact callable
// of a versioned API client.
//
// A caller knows roughly what it wants: a release version such as
// "2.3.7.6", a family hint such as "user role" and a method hint such as
// "add_role". vroute turns that into a namespace path like
// "v2_3_7_6.user_and_roles" and a member name like "add_role_ap_i", or
// explains precisely why it could not.
//
// # Pipeline
//
// Every resolution runs the same forward-only sequence:
//
//  1. Validate the version against the configured known set.
//  2. Locate the namespace whose name is most similar to the family hint.
//     Exact names win outright. Otherwise the best score at or above the
//     cutoff (0.6 by default) wins, ties going to the lexicographically
//     smallest name. The score and the runner-up are reported so the
//     cutoff can be tuned.
//  3. Enumerate the members declared directly in that namespace, sorted.
//  4. Keep the members whose name contains the method hint.
//  5. Select the first of them.
//
// A failing stage ends the call with a typed error from package apis:
// *apis.VersionError, *apis.NamespaceNotFoundError,
// *apis.MethodNotFoundError or *apis.CatalogAccessError. Use errors.Is with
// the matching sentinel or apis.KindOf to branch on them.
//
// # Catalog
//
// The API surface is described by an apis.Catalog built ahead of time,
// never discovered per call. Package catalog builds immutable snapshots from
// code, from Go types or from YAML, TOML, JSON and CBOR documents, and can
// watch a file or directory to swap in fresh snapshots when it changes.
// The resolver caches nothing, so a swapped catalog is seen by the next
// call.
//
// # Router
//
// A Router holds a read-mostly snapshot of configuration, catalog, metric
// registry and resolver:
//
//	r, err := vroute.New(cat)
//	res, err := r.Resolve(ctx, apis.Request{
//		Version:    "2.3.7.6",
//		FamilyHint: "user role",
//		MethodHint: "add_role",
//	})
//
// Reads are lock-free. SetConfig, SetCatalog, SetBuilder and SetRegistry
// rebuild the layers that are not pinned and publish a new snapshot
// atomically. SetResolver and SetRegistry pin what they install; use
// UnpinResolver and UnpinRegistry to let rebuilds replace them again.
//
// Package connector pairs a Router (or any apis.Resolver) with an
// apis.Invoker that performs the actual call, so a transport only ever
// receives a resolved target.
package vroute
