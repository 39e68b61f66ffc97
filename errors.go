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

package graft

import (
	"github.com/graftdi/graft/dig"
	"go.uber.org/multierr"
)

// Errors reported by Build, Get and InjectInto. Build and InjectInto may
// report several at once; use multierr.Errors to list them and errors.As
// to find one.
type (
	// AmbiguousBindingError reports a key bound more than once among a
	// component and its ancestors, or a map key contributed twice.
	AmbiguousBindingError = dig.AmbiguousBindingError

	// UnsatisfiedDependencyError reports a key with no binding.
	UnsatisfiedDependencyError = dig.UnsatisfiedDependencyError

	// CyclicDependencyError reports a dependency cycle.
	CyclicDependencyError = dig.CyclicDependencyError

	// ScopeMismatchError reports a singleton binding declared by a
	// component that does not own its scope.
	ScopeMismatchError = dig.ScopeMismatchError

	// ConstructionError wraps the failure of a constructor, including a
	// recovered panic.
	ConstructionError = dig.ConstructionError
)

// IsStructural reports whether err, or any error combined in it, is a
// problem of the graph itself rather than a failed construction.
func IsStructural(err error) bool {
	return dig.IsStructural(err)
}

func combine(errs []error) error {
	return multierr.Combine(errs...)
}
