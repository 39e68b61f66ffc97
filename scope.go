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
	"fmt"

	"github.com/graftdi/graft/dig"
	"github.com/graftdi/graft/internal/graftreflect"
)

// Lifetimes of bindings, set with Annotated.Scope.
var (
	// UnscopedScope bindings are constructed for every dependency edge.
	// This is the default.
	UnscopedScope = dig.Unscoped

	// ReusableScope bindings are constructed at most once per call to Get
	// or InjectInto.
	ReusableScope = dig.Reusable
)

// SingletonScope returns the lifetime of bindings that have one instance
// per live component owning the named scope. The binding must be declared
// by a component passed Scope(name).
func SingletonScope(name string) dig.Scope {
	return dig.Singleton(name)
}

// Scope declares the singleton scope owned by a component. It must be
// passed to NewComponent directly, not to a Module. A component owns at
// most one scope, and no subcomponent may own a scope of one of its
// ancestors.
func Scope(name string) Option {
	return scopeOption{
		Name:  name,
		Stack: graftreflect.CallerStack(1, 0),
	}
}

type scopeOption struct {
	Name  string
	Stack graftreflect.Stack
}

func (o scopeOption) apply(mod *module) {
	var err error
	switch {
	case mod.parent != nil:
		err = fmt.Errorf("must be passed to graft.NewComponent directly, not to module %q", mod.name)
	case mod.comp.scope != "" && mod.comp.scope != o.Name:
		err = fmt.Errorf("component %q cannot own scopes %q and %q", mod.comp.name, mod.comp.scope, o.Name)
	case len(o.Name) == 0:
		err = fmt.Errorf("component %q: scope name cannot be empty", mod.comp.name)
	default:
		mod.comp.scope = o.Name
		return
	}
	mod.fail(fmt.Errorf("%v from:\n%+vFailed: %w", o, o.Stack, err))
}

func (o scopeOption) String() string {
	return fmt.Sprintf("graft.Scope(%q)", o.Name)
}
