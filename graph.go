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
	"context"
	"fmt"
	"io"

	"github.com/graftdi/graft/dig"
	"github.com/graftdi/graft/graftevent"
	"github.com/pkg/errors"
)

// Graph is a live instance of a Component. It constructs values on
// request and holds the singletons of the scope its component owns.
//
// A Graph is safe for concurrent use. A singleton requested by several
// goroutines at once is constructed once.
type Graph struct {
	def      *Component
	parent   *Graph
	reg      *dig.Registry
	resolver *dig.Resolver
	opts     *buildOptions
}

// Name returns the name of the graph's component.
func (g *Graph) Name() string { return g.def.name }

// Component returns the definition the graph was built from.
func (g *Graph) Component() *Component { return g.def }

// Parent returns the graph this subcomponent was created from, or nil
// for a root graph.
func (g *Graph) Parent() *Graph { return g.parent }

// Resolve returns the value bound to key, constructing it and whatever
// it depends on as needed.
func (g *Graph) Resolve(key Key) (interface{}, error) {
	return g.ResolveContext(context.Background(), key)
}

// ResolveContext is Resolve, tracing the resolution as a child of the
// span carried by ctx. Constructors are not passed ctx and the
// resolution is not cancelled with it.
func (g *Graph) ResolveContext(ctx context.Context, key Key) (v interface{}, err error) {
	start := g.opts.clock.Now()
	finish := g.opts.trace(ctx, "graft.resolve", g.def.name, key.String())
	defer func() {
		finish(err)
		g.opts.reporter.Resolved(g.opts.clock.Since(start), err)
		if err != nil {
			g.opts.log.LogEvent(&graftevent.ResolveFailed{
				TypeName:      key.String(),
				ComponentName: g.def.name,
				Err:           err,
			})
		}
	}()

	return g.resolver.Resolve(key)
}

// Has reports whether key can be resolved from the graph: whether it is
// bound by the graph's component or one of its ancestors.
func (g *Graph) Has(key Key) bool {
	return g.reg.Has(key)
}

// Plan returns the construction plan of key, in the order values would
// be constructed.
func (g *Graph) Plan(key Key) (*dig.Plan, error) {
	return g.reg.Plan(key)
}

// Visualize writes the plan of keys as a Graphviz DOT digraph. Without
// keys, the entry points of the component are drawn.
func (g *Graph) Visualize(w io.Writer, keys ...Key) error {
	if len(keys) == 0 {
		keys = g.def.entries
	}
	if len(keys) == 0 {
		return errors.Errorf("component %q declares no entry points: pass the keys to draw", g.def.name)
	}

	plan, err := dig.ResolveGraph(g.reg, keys...)
	if err != nil {
		return err
	}
	return dig.Visualize(plan, w)
}

// NewSubcomponent instantiates def as a child of g. def must have been
// declared with Subcomponents on g's component, and every instance it
// declares must be supplied with Instance. The subcomponent sees every
// binding of g and its ancestors and shares their singletons.
//
//	sub, err := g.NewSubcomponent(Activity, graft.Instance(activity))
func (g *Graph) NewSubcomponent(def *Component, opts ...BuildOption) (*Graph, error) {
	if def == nil || !g.def.hasSubcomponent(def) {
		return nil, errors.Errorf("%v is not a subcomponent of %q: declare it with graft.Subcomponents", def, g.def.name)
	}

	o := g.opts.child()
	for _, opt := range opts {
		opt.applyBuild(o)
	}
	return def.instantiate(g, o)
}

// Get resolves the value of T, refined by opts, from g.
//
//	maker, err := graft.Get[*CoffeeMaker](g)
//	name, err := graft.Get[string](g, graft.Named("user"))
func Get[T any](g *Graph, opts ...KeyOption) (T, error) {
	var zero T
	key := KeyOf[T](opts...)
	v, err := g.Resolve(key)
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%v resolved to %T", key, v)
	}
	return t, nil
}

// MustGet is Get, panicking on errors. It is meant for entry points known
// to resolve, such as the ones validated by Build.
func MustGet[T any](g *Graph, opts ...KeyOption) T {
	t, err := Get[T](g, opts...)
	if err != nil {
		panic(err)
	}
	return t
}
