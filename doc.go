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

// Package graft is a reflection-based dependency injection framework in the
// style of Dagger.
//
// Graft resolves object graphs from explicit declarations: constructors,
// supplied values, interface bindings and multibinding contributions,
// grouped into components. It validates the whole graph when a component
// is built, and constructs values lazily, when they are first requested.
//
//
// What's included
//
// • Components with entry points validated before anything is constructed
//
// • Singleton scopes owned by components, reusable and unscoped lifetimes
//
// • Subcomponents that see their parent's bindings and share its singletons
//
// • Map and set multibindings
//
// • Field injection into objects the graph does not construct
//
// • Logging of graph events backed by the zap logger
//
// • Construction metrics built on Tally (https://github.com/uber-go/tally)
// and resolution tracing built on OpenTracing
//
//
// Components
//
// A component is declared once from options, and built any number of
// times. Each built instance, a Graph, has its own singletons.
//
//   var CoffeeShop = graft.NewComponent("CoffeeShop",
//     graft.Scope("App"),
//     graft.Provide(graft.Annotated{
//       Target: NewElectricHeater,
//       Scope:  graft.SingletonScope("App"),
//     }),
//     graft.Bind[Heater, *ElectricHeater](),
//     graft.Constructor(NewThermosiphon, NewCoffeeMaker),
//     graft.Entry[*CoffeeMaker](),
//   )
//
//   g, err := CoffeeShop.Build(graft.WithLogger(&graftevent.ConsoleLogger{W: os.Stderr}))
//   if err != nil {
//     log.Fatal(err)
//   }
//   maker := graft.MustGet[*CoffeeMaker](g)
//
// Build reports every missing, ambiguous, cyclic or mis-scoped binding
// reachable from the entry points at once.
//
//
// Scopes
//
// A binding's scope decides how often its constructor runs:
//
// • UnscopedScope, the default: once per dependency edge.
//
// • ReusableScope: at most once per call to Get, InjectInto or Populate.
//
// • SingletonScope(name): once per live graph whose component owns the
// scope name, declared with graft.Scope(name).
//
// A singleton binding must be declared by the component owning its
// scope. Singleton constructions are serialized per key, so concurrent
// requests construct at most once; failed constructions are not cached.
//
//
// Subcomponents
//
// A component lists its children with graft.Subcomponents; a live graph
// creates them with Graph.NewSubcomponent. A child sees every binding of
// its ancestors, shares their singletons and may own a scope of its own.
// Ancestors never see the bindings of their children.
//
//
// Modules
//
// Bindings are grouped into named, reusable graft.Modules. Modules name
// the origin of bindings in logs and errors; they do not create scopes.
//
//
// Metrics
//
// Graft reports constructions, cache hits and resolution times to the
// tally.Scope passed with WithMetrics. By default, metrics are not
// reported (using a tally.NoopScope). See package metrics.
//
//
// License
//
// MIT (LICENSE.txt)
//
//
package graft
