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
)

// Module is a named group of zero or more graft.Options. Modules group the
// bindings of one concern so that several components can install them:
//
//	var DripCoffee = graft.Module("DripCoffee",
//		graft.Provide(NewElectricHeater),
//		graft.Bind[Heater, *ElectricHeater](),
//	)
//
// Modules may be nested. The module name is reported in log events and
// errors; it does not create a new scope or change visibility, every
// binding belongs to the component the module is installed in.
func Module(name string, opts ...Option) Option {
	mo := moduleOption{
		name:    name,
		options: opts,
	}
	return mo
}

type moduleOption struct {
	name    string
	options []Option
}

func (o moduleOption) String() string {
	return fmt.Sprintf("graft.Module(%q, %v)", o.name, o.options)
}

func (o moduleOption) apply(mod *module) {
	// This gets called on any submodules that are declared as part of
	// another module.
	newModule := &module{
		name:   o.name,
		parent: mod,
		comp:   mod.comp,
	}
	for _, opt := range o.options {
		opt.apply(newModule)
	}
	mod.modules = append(mod.modules, newModule)
}

// module receives the options of a component definition. The top-level
// module of a component has no name and no parent.
type module struct {
	parent  *module
	name    string
	comp    *Component
	modules []*module
}

func (m *module) fail(err error) {
	m.comp.errs = append(m.comp.errs, err)
}

// declare adds b to the component on behalf of the module.
func (m *module) declare(b *dig.Binding, supply bool) {
	m.comp.decls = append(m.comp.decls, declaration{
		binding: b,
		module:  m.name,
		supply:  supply,
	})
}

// declaration is one binding declared by a component definition, with
// enough context to log it.
type declaration struct {
	binding *dig.Binding
	module  string
	supply  bool
}
