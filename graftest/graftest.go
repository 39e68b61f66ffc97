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

// Package graftest provides helpers to build and query graft graphs in
// tests, failing the test instead of returning errors.
package graftest

import (
	"github.com/graftdi/graft"
	"github.com/graftdi/graft/graftevent"
)

// TB is a subset of the standard library's testing.TB interface. It's
// satisfied by both *testing.T and *testing.B.
type TB interface {
	Logf(string, ...interface{})
	Errorf(string, ...interface{})
	FailNow()
}

// Build builds c, failing the test if the graph is invalid. Events are
// logged to the test log unless opts specify another logger.
func Build(t TB, c *graft.Component, opts ...graft.BuildOption) *graft.Graph {
	opts = append([]graft.BuildOption{graft.WithLogger(NewTestLogger(t))}, opts...)
	g, err := c.Build(opts...)
	if err != nil {
		t.Errorf("component %q didn't build cleanly: %v", c.Name(), err)
		t.FailNow()
	}
	return g
}

// NewSubcomponent creates def as a child of g, failing the test on
// errors.
func NewSubcomponent(t TB, g *graft.Graph, def *graft.Component, opts ...graft.BuildOption) *graft.Graph {
	sub, err := g.NewSubcomponent(def, opts...)
	if err != nil {
		t.Errorf("subcomponent %q of %q didn't build cleanly: %v", def.Name(), g.Name(), err)
		t.FailNow()
	}
	return sub
}

// Get resolves T, refined by opts, from g, failing the test on errors.
func Get[T any](t TB, g *graft.Graph, opts ...graft.KeyOption) T {
	v, err := graft.Get[T](g, opts...)
	if err != nil {
		t.Errorf("could not resolve %v from %q: %v", graft.KeyOf[T](opts...), g.Name(), err)
		t.FailNow()
	}
	return v
}

// InjectInto injects target from g, failing the test on errors.
func InjectInto(t TB, g *graft.Graph, target graft.Injectable) {
	if err := g.InjectInto(target); err != nil {
		t.Errorf("could not inject %T from %q: %v", target, g.Name(), err)
		t.FailNow()
	}
}

// NewTestLogger returns a graftevent.Logger that logs to the test's
// logger.
func NewTestLogger(t TB) graftevent.Logger {
	return &graftevent.ConsoleLogger{W: testWriter{t}}
}

type testWriter struct{ t TB }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Logf("%s", p)
	return len(p), nil
}
