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
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// CoffeeMaker ->
//     Heater (bound to *ElectricHeater)
//     Thermosiphon ->
//         Heater

type Heater interface {
	On()
	Off()
	IsHot() bool
}

type ElectricHeater struct {
	heating bool
}

func (h *ElectricHeater) On()         { h.heating = true }
func (h *ElectricHeater) Off()        { h.heating = false }
func (h *ElectricHeater) IsHot() bool { return h.heating }

type Thermosiphon struct {
	heater Heater
}

type CoffeeMaker struct {
	heater Heater
	pump   *Thermosiphon
}

var (
	heaterKey   = KeyFor[Heater]()
	electricKey = KeyFor[*ElectricHeater]()
	pumpKey     = KeyFor[*Thermosiphon]()
	makerKey    = KeyFor[*CoffeeMaker]()
)

// counter records how many times each key was constructed.
type counter struct {
	mu sync.Mutex
	n  map[Key]int
}

func newCounter() *counter {
	return &counter{n: make(map[Key]int)}
}

func (c *counter) inc(k Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n[k]++
}

func (c *counter) get(k Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n[k]
}

// provide is a ProviderBinding whose construction is counted.
func provide(c *counter, k Key, scope Scope, deps []Key, build func(args []any) any) *Binding {
	return &Binding{
		Kind:  ProviderBinding,
		Key:   k,
		Scope: scope,
		Deps:  deps,
		Name:  "provide " + k.String(),
		Build: func(args []any) (any, error) {
			c.inc(k)
			return build(args), nil
		},
	}
}

// coffeeBindings binds the coffee maker graph with the heater in
// heaterScope.
func coffeeBindings(c *counter, heaterScope Scope) []*Binding {
	return []*Binding{
		provide(c, electricKey, heaterScope, nil, func([]any) any {
			return &ElectricHeater{}
		}),
		provide(c, heaterKey, Unscoped, []Key{electricKey}, func(args []any) any {
			return args[0].(*ElectricHeater)
		}),
		provide(c, pumpKey, Unscoped, []Key{heaterKey}, func(args []any) any {
			return &Thermosiphon{heater: args[0].(Heater)}
		}),
		provide(c, makerKey, Unscoped, []Key{heaterKey, pumpKey}, func(args []any) any {
			return &CoffeeMaker{heater: args[0].(Heater), pump: args[1].(*Thermosiphon)}
		}),
	}
}

func mustRegistry(t *testing.T, name string, parent *Registry, bindings []*Binding, opts ...RegistryOption) *Registry {
	t.Helper()
	r, err := NewRegistry(name, parent, bindings, opts...)
	require.NoError(t, err, "registry %q should build", name)
	return r
}

// typed keys without any behavior, used to build abstract graphs
type (
	typeA struct{}
	typeB struct{}
	typeC struct{}
	typeD struct{}
)

var (
	keyA = KeyFor[*typeA]()
	keyB = KeyFor[*typeB]()
	keyC = KeyFor[*typeC]()
	keyD = KeyFor[*typeD]()
)

// edge builds an unscoped binding for k that depends on deps.
func edge(c *counter, k Key, deps ...Key) *Binding {
	return provide(c, k, Unscoped, deps, func([]any) any {
		return struct{ key Key }{key: k}
	})
}
