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
	"github.com/graftdi/graft/graftevent"
	"github.com/graftdi/graft/internal/graftreflect"
	"github.com/graftdi/graft/metrics"
	"go.uber.org/multierr"
)

// Component is the definition of a dependency graph: its bindings, the
// scope it owns, the instances it is given, its entry points and the
// definitions of its subcomponents.
//
// A Component is declared once, usually in a package-level variable, and
// instantiated any number of times with Build. Every instance has its own
// singletons.
//
//	var CoffeeShop = graft.NewComponent("CoffeeShop",
//		graft.Scope("App"),
//		DripCoffee,
//		graft.Entry[*CoffeeMaker](),
//	)
//
//	g, err := CoffeeShop.Build()
//	maker, err := graft.Get[*CoffeeMaker](g)
//
// Declaration mistakes, such as a constructor with no result, do not
// panic: they are reported by Build.
type Component struct {
	name  string
	scope string

	errs  []error
	decls []declaration

	// keys validated at Build: entry points and injection sites
	roots   []dig.Key
	entries []dig.Key

	instances     []dig.Key
	subcomponents []*Component

	// where NewComponent was called
	stack graftreflect.Stack
}

// NewComponent declares a component named name from opts.
func NewComponent(name string, opts ...Option) *Component {
	c := &Component{
		name:  name,
		stack: graftreflect.CallerStack(1, 0),
	}
	mod := &module{comp: c}
	for _, opt := range opts {
		opt.apply(mod)
	}
	return c
}

// Name returns the name of the component.
func (c *Component) Name() string { return c.name }

// Scope returns the singleton scope owned by the component, empty if it
// owns none.
func (c *Component) Scope() string { return c.scope }

func (c *Component) String() string {
	return fmt.Sprintf("graft.Component(%q)", c.name)
}

// Build instantiates the component as the root of a new graph. It
// validates the whole graph first: every entry point, injection site and
// subcomponent must resolve, and every declared instance must be
// supplied. Nothing is constructed by Build; values are constructed when
// they are first requested from the Graph.
//
// All the problems found are reported at once, combined with
// go.uber.org/multierr.
func (c *Component) Build(opts ...BuildOption) (*Graph, error) {
	o := newBuildOptions()
	for _, opt := range opts {
		opt.applyBuild(o)
	}
	o.reporter = metrics.NewReporter(o.scope)
	return c.instantiate(nil, o)
}

// instantiate builds an instance of c as a child of parent, or as a root
// when parent is nil.
func (c *Component) instantiate(parent *Graph, o *buildOptions) (g *Graph, err error) {
	start := o.clock.Now()
	var bindings int
	defer func() {
		if parent != nil {
			o.log.LogEvent(&graftevent.SubcomponentCreated{
				ComponentName: c.name,
				ParentName:    parent.def.name,
				Scope:         c.scope,
				Err:           err,
			})
			return
		}
		o.log.LogEvent(&graftevent.ComponentBuilt{
			ComponentName: c.name,
			Scope:         c.scope,
			Bindings:      bindings,
			Runtime:       o.clock.Since(start),
			Err:           err,
		})
	}()

	if parent == nil {
		c.logDeclarations(o.log)
	}
	if err := combine(append(c.errs[:len(c.errs):len(c.errs)], o.errs...)); err != nil {
		return nil, err
	}

	var (
		parentReg   *dig.Registry
		parentCache *dig.Cache
	)
	if parent != nil {
		parentReg, parentCache = parent.reg, parent.resolver.Cache()
	}

	inst, err := instanceBindings(c, o)
	if err != nil {
		return nil, err
	}
	reg, err := c.registry(parentReg, inst)
	if err != nil {
		return nil, err
	}
	bindings = len(reg.Keys())

	if parent == nil {
		if err := c.validate(reg, nil); err != nil {
			return nil, err
		}
	} else if _, err := resolveRoots(reg, c.roots); err != nil {
		return nil, err
	}

	cache := dig.NewCache(c.scope, parentCache)
	g = &Graph{def: c, parent: parent, reg: reg, opts: o}
	if parent == nil {
		g.resolver = dig.NewResolver(reg, cache, dig.WithObserver(o.observer()))
		return g, nil
	}
	if g.resolver, err = parent.resolver.Child(reg, cache); err != nil {
		return nil, err
	}
	return g, nil
}

// registry builds the registry of one instance of c. Bindings are copied
// so that instances never share mutable state.
func (c *Component) registry(parent *dig.Registry, instances []*dig.Binding) (*dig.Registry, error) {
	bindings := make([]*dig.Binding, 0, len(c.decls)+len(instances))
	for _, d := range c.decls {
		cp := *d.binding
		bindings = append(bindings, &cp)
	}
	bindings = append(bindings, instances...)

	var opts []dig.RegistryOption
	if c.scope != "" {
		opts = append(opts, dig.InScope(c.scope))
	}
	return dig.NewRegistry(c.name, parent, bindings, opts...)
}

// validate checks the roots of c against reg, then every subcomponent of
// c against a probe registry whose instances are placeholders. path holds
// the components being validated, to stop on recursive declarations.
func (c *Component) validate(reg *dig.Registry, path []*Component) error {
	_, err := resolveRoots(reg, c.roots)
	errs := []error{err}

	path = append(path, c)
	for _, sub := range c.subcomponents {
		if onPath(path, sub) {
			continue
		}
		errs = append(errs, sub.validateAsChild(reg, path))
	}
	return multierr.Combine(errs...)
}

func (c *Component) validateAsChild(parent *dig.Registry, path []*Component) error {
	if err := combine(c.errs); err != nil {
		return err
	}

	placeholders := make([]*dig.Binding, len(c.instances))
	for i, k := range c.instances {
		placeholders[i] = &dig.Binding{
			Kind: dig.InstanceBinding,
			Key:  k,
			Name: fmt.Sprintf("graft.Instance[%v]", k),
		}
	}
	probe, err := c.registry(parent, placeholders)
	if err != nil {
		return err
	}
	return c.validate(probe, path)
}

func onPath(path []*Component, c *Component) bool {
	for _, p := range path {
		if p == c {
			return true
		}
	}
	return false
}

// resolveRoots plans every root of a component at once.
func resolveRoots(reg *dig.Registry, roots []dig.Key) (*dig.Plan, error) {
	if len(roots) == 0 {
		return nil, nil
	}
	return dig.ResolveGraph(reg, roots...)
}
