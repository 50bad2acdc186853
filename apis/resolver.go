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

import "context"

// Request asks for the member matching MethodHint inside the family closest
// to FamilyHint under Version. It is a value; resolvers never modify it.
type Request struct {
	Version    Version
	FamilyHint string
	MethodHint string
}

// Member is a named callable declared directly in Namespace.
type Member struct {
	Name      string
	Namespace NamespacePath
}

// Match describes how a family hint was located among candidate namespaces.
type Match struct {
	// Namespace is the chosen namespace name.
	Namespace string
	// Score is the similarity of Namespace to the hint.
	Score float64
	// RunnerUp is the best-scoring other candidate, regardless of cutoff.
	// It is empty when the release holds a single namespace.
	RunnerUp string
	// RunnerUpScore is the similarity of RunnerUp to the hint.
	RunnerUpScore float64
	// Candidates is the number of namespaces that were scored.
	Candidates int
}

// Result is a successful resolution.
type Result struct {
	// Path is the namespace the member is declared in.
	Path NamespacePath
	// Member is the concrete member name.
	Member string
	// Match carries the namespace location diagnostics.
	Match Match
}

// Inspection lists every member of the namespace closest to a family hint.
type Inspection struct {
	Path    NamespacePath
	Match   Match
	Members []Member
}

// Resolver turns version-independent requests into concrete member names.
// Implementations hold no per-call state and are safe for concurrent use
// when their Catalog is.
type Resolver interface {
	// Resolve runs the full pipeline. On failure the zero Result is returned
	// together with one of the typed errors of this package.
	Resolve(ctx context.Context, req Request) (Result, error)

	// Inspect validates version, locates the family and enumerates its
	// members without filtering.
	Inspect(ctx context.Context, version Version, familyHint string) (Inspection, error)
}
