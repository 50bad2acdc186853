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

package main

import (
	"fmt"

	"dirpx.dev/vroute/apis"
)

// Exit codes by failure kind.
const (
	ExitFailure       = 1
	ExitVersion       = 2
	ExitNamespace     = 3
	ExitMethod        = 4
	ExitCatalogAccess = 5
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE
// handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCode maps a resolution error to the process exit code.
func exitCode(err error) int {
	switch apis.KindOf(err) {
	case apis.KindVersion:
		return ExitVersion
	case apis.KindNamespaceNotFound:
		return ExitNamespace
	case apis.KindMethodNotFound:
		return ExitMethod
	case apis.KindCatalogAccess:
		return ExitCatalogAccess
	default:
		return ExitFailure
	}
}

// withExitCode wraps err in an ExitError carrying its kind's exit code.
func withExitCode(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: exitCode(err), Err: err}
}
