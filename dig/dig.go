// Copyright (c) 2022 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package dig

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

var (
	errNilBinding     = errors.New("binding cannot be nil")
	errParentMismatch = errors.New("child registry must extend the resolver's registry")
)

// AmbiguousBindingError is returned when two bindings that are not
// multibinding contributions produce the same Key, or when two map
// contributions use the same map key.
type AmbiguousBindingError struct {
	Key      Key
	Registry string
	Bindings []string

	// MapKey is set for duplicate map contributions.
	MapKey any
}

func (e *AmbiguousBindingError) Error() string {
	if e.MapKey != nil {
		return fmt.Sprintf("duplicate map key %v for %v in %q: %s",
			e.MapKey, e.Key, e.Registry, strings.Join(e.Bindings, ", "))
	}
	return fmt.Sprintf("%v is bound multiple times in %q: %s",
		e.Key, e.Registry, strings.Join(e.Bindings, ", "))
}

// UnsatisfiedDependencyError is returned when a required Key has no
// binding visible from the requesting registry.
type UnsatisfiedDependencyError struct {
	Key       Key
	Requester string
	Registry  string
}

func (e *UnsatisfiedDependencyError) Error() string {
	return fmt.Sprintf("missing binding for %v required by %s in %q",
		e.Key, e.Requester, e.Registry)
}

// CyclicDependencyError is returned when a binding transitively depends on
// itself. Path starts and ends with the same Key.
type CyclicDependencyError struct {
	Path []Key
}

func (e *CyclicDependencyError) Error() string {
	return "cyclic dependency: " + keyPath(e.Path)
}

// ScopeMismatchError is returned when a binding is scoped to a singleton
// scope that the component declaring it does not own.
type ScopeMismatchError struct {
	Key      Key
	Scope    Scope
	Registry string

	// RegistryScope is the scope owned by Registry, empty if unscoped.
	RegistryScope string
}

func (e *ScopeMismatchError) Error() string {
	owned := "no scope"
	if e.RegistryScope != "" {
		owned = fmt.Sprintf("scope %q", e.RegistryScope)
	}
	return fmt.Sprintf("%v is bound in %v but %q owns %s",
		e.Key, e.Scope, e.Registry, owned)
}

// ConstructionError is returned when a constructor, provider or field
// injector fails. It does not poison scope caches: a later resolution of
// the same Key calls the constructor again.
type ConstructionError struct {
	Key   Key
	Cause error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("failed to construct %v: %v", e.Key, e.Cause)
}

func (e *ConstructionError) Unwrap() error { return e.Cause }

// IsStructural reports whether err, or any error combined into it, is an
// ambiguous, unsatisfied, cyclic or scope-mismatch error.
func IsStructural(err error) bool {
	for _, e := range multierr.Errors(err) {
		var (
			ambiguous   *AmbiguousBindingError
			unsatisfied *UnsatisfiedDependencyError
			cyclic      *CyclicDependencyError
			mismatch    *ScopeMismatchError
		)
		if errors.As(e, &ambiguous) || errors.As(e, &unsatisfied) ||
			errors.As(e, &cyclic) || errors.As(e, &mismatch) {
			return true
		}
	}
	return false
}
