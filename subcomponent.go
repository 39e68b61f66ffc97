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
	"strings"

	"github.com/graftdi/graft/internal/graftreflect"
)

// Subcomponents declares the definitions of the components that may be
// instantiated as children of this one with Graph.NewSubcomponent. A
// subcomponent sees every binding of its parent; the parent never sees
// the bindings of its subcomponents.
//
// Subcomponents are validated when the parent is built: their entry
// points, injection sites and scopes must resolve against the parent's
// bindings, so a broken child fails fast.
func Subcomponents(defs ...*Component) Option {
	return subcomponentsOption{
		Defs:  defs,
		Stack: graftreflect.CallerStack(1, 0),
	}
}

type subcomponentsOption struct {
	Defs  []*Component
	Stack graftreflect.Stack
}

func (o subcomponentsOption) apply(mod *module) {
	for _, def := range o.Defs {
		switch {
		case def == nil:
			mod.fail(fmt.Errorf("%v from:\n%+vFailed: nil subcomponent", o, o.Stack))
		case def == mod.comp:
			mod.fail(fmt.Errorf("%v from:\n%+vFailed: component %q cannot be its own subcomponent",
				o, o.Stack, def.name))
		default:
			mod.comp.subcomponents = append(mod.comp.subcomponents, def)
		}
	}
}

func (o subcomponentsOption) String() string {
	names := make([]string, len(o.Defs))
	for i, def := range o.Defs {
		if def == nil {
			names[i] = "nil"
			continue
		}
		names[i] = fmt.Sprintf("%q", def.name)
	}
	return fmt.Sprintf("graft.Subcomponents(%v)", strings.Join(names, ", "))
}

// hasSubcomponent reports whether def was declared as a subcomponent of
// c.
func (c *Component) hasSubcomponent(def *Component) bool {
	for _, sub := range c.subcomponents {
		if sub == def {
			return true
		}
	}
	return false
}
