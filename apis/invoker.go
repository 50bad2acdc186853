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

// Target is a resolved, existing member handed to an Invoker.
type Target struct {
	// Path is the declaring namespace.
	Path NamespacePath
	// Member is the concrete member name.
	Member string
	// CallID correlates log lines of one invocation.
	CallID string
}

// Invoker performs the remote operation a Target names.
// It is an external collaborator; vroute only guarantees it never receives
// an unresolved or guessed Target.
type Invoker interface {
	Invoke(ctx context.Context, target Target, params map[string]any) (any, error)
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(ctx context.Context, target Target, params map[string]any) (any, error)

// Invoke calls f.
func (f InvokerFunc) Invoke(ctx context.Context, target Target, params map[string]any) (any, error) {
	return f(ctx, target, params)
}
