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

// Package dig is the Dependency Injection Graph.
//
// package dig resolves object graphs from explicit binding declarations.
// It does not inspect functions or struct tags: every Binding names the Key
// it produces, the Keys it consumes and a Build function that receives the
// resolved dependencies in declaration order. Package graft builds these
// declarations from ordinary Go constructors.
//
// There are three sides of dig: Registry, Plan and Resolver.
//
// Registry
//
// A Registry is the immutable set of bindings of one component. A
// Registry may have a parent, in which case every key of the parent is
// visible from the child but not the other way around.
//
//   reg, err := dig.NewRegistry("CoffeeShop", nil, []*dig.Binding{
//       {
//           Kind:  dig.ProviderBinding,
//           Key:   dig.KeyFor[Heater](),
//           Scope: dig.Singleton("App"),
//           Build: func([]any) (any, error) { return &ElectricHeater{}, nil },
//       },
//       {
//           Kind:  dig.ConstructorBinding,
//           Key:   dig.KeyFor[*Pump](),
//           Deps:  []dig.Key{dig.KeyFor[Heater]()},
//           Build: func(args []any) (any, error) { return &Pump{Heater: args[0].(Heater)}, nil },
//       },
//   }, dig.InScope("App"))
//
// Two bindings for the same Key are an AmbiguousBindingError, reported
// when the Registry is created. Multibinding contributions for the same
// Key are merged into a map or a slice instead.
//
// Plan
//
// ResolveGraph walks every dependency reachable from a set of root keys
// and returns a Plan: the nodes in construction order, each after all of
// its dependencies. Missing bindings, cycles and scope mismatches are
// reported here, before anything is constructed.
//
//   plan, err := dig.ResolveGraph(reg, dig.KeyFor[*Pump]())
//
// Resolver
//
// A Resolver owns the scope Cache of one component instance and constructs
// values by walking plans bottom up.
//
//   r := dig.NewResolver(reg, dig.NewCache("App", nil))
//   pump, err := r.Resolve(dig.KeyFor[*Pump]())
//
// Singleton bindings are constructed at most once per Cache, even when
// requested concurrently. Reusable bindings are shared within one call to
// Resolve. Unscoped bindings are constructed for every dependency edge.
package dig
