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

// Package tracing is the Tracing package.
//
// package tracing wraps an opentracing.Tracer
// (https://github.com/opentracing/opentracing-go) to trace the top-level
// resolutions of a graft graph: every Get, InjectInto and Populate starts
// a span tagged with the component and the requested key, and a failed
// resolution flags its span as an error.
//
//
// Sample usage
//
//   tracer, closer := jaeger.NewTracer(...)
//   defer closer.Close()
//
//   g, err := CoffeeShop.Build(graft.WithTracer(tracer))
//
// A span started inside a request is a child of the request's span when
// the graph is resolved with Graph.ResolveContext.
//
package tracing
