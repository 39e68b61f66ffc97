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

package graft_test

import (
	"fmt"
	"sync"

	"github.com/graftdi/graft"
)

// CoffeeMaker ->
//     Heater (bound to *ElectricHeater, one per "App")
//     Pump (a *Thermosiphon) ->
//         Heater
//     *CoffeeLogger (injected field, one per "App")

type Heater interface {
	On()
	Off()
	IsHot() bool
}

type ElectricHeater struct {
	mu      sync.Mutex
	heating bool
}

func (h *ElectricHeater) On()  { h.set(true) }
func (h *ElectricHeater) Off() { h.set(false) }

func (h *ElectricHeater) IsHot() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.heating
}

func (h *ElectricHeater) set(on bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.heating = on
}

type FireHeater struct{ ElectricHeater }

type Pump interface {
	Pump()
}

type Thermosiphon struct {
	Heater Heater
}

func (t *Thermosiphon) Pump() {}

type CoffeeLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *CoffeeLogger) Log(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *CoffeeLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

type CoffeeMaker struct {
	Heater Heater
	Pump   Pump

	Logger *CoffeeLogger
}

func (m *CoffeeMaker) InjectionPoints() []graft.Member {
	return []graft.Member{graft.Field(&m.Logger)}
}

func (m *CoffeeMaker) Brew() {
	m.Heater.On()
	m.Pump.Pump()
	m.Logger.Log("[_]P coffee! [_]P")
	m.Heater.Off()
}

// counts records how many times each constructor ran.
type counts struct {
	mu sync.Mutex
	n  map[string]int
}

func newCounts() *counts {
	return &counts{n: make(map[string]int)}
}

func (c *counts) inc(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n[name]++
}

func (c *counts) get(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n[name]
}

// dripCoffee binds the coffee maker graph, heating with an electric
// heater that is a singleton of the "App" scope.
func dripCoffee(c *counts) graft.Option {
	return graft.Module("DripCoffee",
		graft.Provide(graft.Annotated{
			Target: func() *ElectricHeater {
				c.inc("heater")
				return &ElectricHeater{}
			},
			Scope: graft.SingletonScope("App"),
		}),
		graft.Bind[Heater, *ElectricHeater](),
		pumpModule(c),
	)
}

// pumpModule binds the pump and the coffee maker, independently of the
// heater.
func pumpModule(c *counts) graft.Option {
	return graft.Module("Pump",
		graft.Provide(graft.Annotated{
			Target: func(h Heater) *Thermosiphon {
				c.inc("pump")
				return &Thermosiphon{Heater: h}
			},
			As: new(Pump),
		}),
		graft.Provide(graft.Annotated{
			Target: func() *CoffeeLogger {
				c.inc("logger")
				return &CoffeeLogger{}
			},
			Scope: graft.SingletonScope("App"),
		}),
		graft.Constructor(func(h Heater, p Pump) *CoffeeMaker {
			c.inc("maker")
			return &CoffeeMaker{Heater: h, Pump: p}
		}),
	)
}

func coffeeShop(c *counts, opts ...graft.Option) *graft.Component {
	return graft.NewComponent("CoffeeShop", append([]graft.Option{
		graft.Scope("App"),
		dripCoffee(c),
		graft.Entry[*CoffeeMaker](),
	}, opts...)...)
}
