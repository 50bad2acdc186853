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

package reflect

import (
	"errors"
	"reflect"
	"runtime"
	"sort"
)

// DefaultMaxUnwrap bounds container unwrapping in Normalize.
const DefaultMaxUnwrap = 8

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping containers)
	// does not contain a named type (e.g., anonymous struct, func, interface{}).
	ErrReflectTypeNotNamed = errors.New("reflect: type has no name")
)

// autogenerated is the file name the runtime reports for compiler-generated
// method wrappers.
const autogenerated = "<autogenerated>"

// Normalize unwraps containers and returns the nearest named inner type,
// or an error if none is found.
//
// Unwrapping policy:
//   - ptr/slice/array/chan/map -> Elem()
//   - default: if t.Name() != "", return t; otherwise ErrReflectTypeNotNamed.
//
// If maxUnwrap <= 0, DefaultMaxUnwrap is used.
func Normalize(t reflect.Type, maxUnwrap int) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	if maxUnwrap <= 0 {
		maxUnwrap = DefaultMaxUnwrap
	}

	for i := 0; t != nil && i < maxUnwrap; i++ {
		switch t.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Chan, reflect.Map:
			t = t.Elem()

		default:
			// Named, return; anonymous -> error
			if t.Name() != "" {
				return t, nil
			}
			return nil, ErrReflectTypeNotNamed
		}
	}

	// After reaching max depth, ensure we ended on a named type.
	if t != nil && t.Name() != "" {
		return t, nil
	}
	return nil, ErrReflectTypeNotNamed
}

// DeclaredMethods returns the sorted exported method names declared directly
// on the nearest named type of t, with both value and pointer receivers.
//
// Methods promoted from embedded fields are excluded. A method that shadows
// an embedded one is kept. Interface types report their full method set,
// since embedded interfaces cannot be told apart at run time.
func DeclaredMethods(t reflect.Type) ([]string, error) {
	base, err := Normalize(t, DefaultMaxUnwrap)
	if err != nil {
		return nil, err
	}

	if base.Kind() == reflect.Interface {
		names := make([]string, 0, base.NumMethod())
		for i := 0; i < base.NumMethod(); i++ {
			names = append(names, base.Method(i).Name)
		}
		sort.Strings(names)
		return names, nil
	}

	embedded := embeddedMethods(base)
	ptr := reflect.PointerTo(base)
	names := make([]string, 0, ptr.NumMethod())
	for i := 0; i < ptr.NumMethod(); i++ {
		m := ptr.Method(i)
		if _, ok := embedded[m.Name]; ok && promoted(base, ptr, m.Name) {
			continue
		}
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names, nil
}

// embeddedMethods collects the method names reachable through the anonymous
// fields of a struct type.
func embeddedMethods(t reflect.Type) map[string]struct{} {
	out := make(map[string]struct{})
	if t.Kind() != reflect.Struct {
		return out
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() != reflect.Ptr && ft.Kind() != reflect.Interface {
			ft = reflect.PointerTo(ft)
		}
		for j := 0; j < ft.NumMethod(); j++ {
			out[ft.Method(j).Name] = struct{}{}
		}
	}
	return out
}

// promoted reports whether the implementation of name on t is a compiler
// generated wrapper, i.e. the method is inherited rather than declared.
// Value receivers are checked on the value type, because the pointer method
// set wraps them even when they are declared directly.
func promoted(t, ptr reflect.Type, name string) bool {
	m, ok := t.MethodByName(name)
	if !ok {
		m, ok = ptr.MethodByName(name)
		if !ok {
			return false
		}
	}
	fn := runtime.FuncForPC(m.Func.Pointer())
	if fn == nil {
		return true
	}
	file, _ := fn.FileLine(fn.Entry())
	return file == autogenerated
}
