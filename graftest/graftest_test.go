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

package graftest

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/graftdi/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ TB = (*testing.T)(nil)

// recorder is a TB that records what a helper reports instead of failing
// the enclosing test.
type recorder struct {
	failures int
	errs     []string
	logs     []string
}

func (r *recorder) FailNow() { r.failures++ }

func (r *recorder) Errorf(format string, args ...interface{}) {
	r.errs = append(r.errs, fmt.Sprintf(format, args...))
}

func (r *recorder) Logf(format string, args ...interface{}) {
	r.logs = append(r.logs, fmt.Sprintf(format, args...))
}

func (r *recorder) errorOutput() string { return strings.Join(r.errs, "\n") }

func (r *recorder) logOutput() string { return strings.Join(r.logs, "\n") }

type greeter struct{ name string }

func newGreeter(name string) *greeter { return &greeter{name: name} }

var (
	_session = graft.NewComponent("Session",
		graft.BindsInstance[string](),
	)

	_app = graft.NewComponent("App",
		graft.Supply("gopher"),
		graft.Provide(newGreeter),
		graft.Entry[*greeter](),
	)
)

func TestBuild(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		spy := &recorder{}

		g := Build(spy, _app)
		require.NotNil(t, g)
		assert.Zero(t, spy.failures)
		assert.Empty(t, spy.errorOutput())
		assert.Contains(t, spy.logOutput(), "[Graft] PROVIDE", "events must go to the test log")
	})

	t.Run("failure", func(t *testing.T) {
		spy := &recorder{}

		broken := graft.NewComponent("Broken", graft.Error(errors.New("great sadness")))
		Build(spy, broken)
		assert.Equal(t, 1, spy.failures)
		assert.Contains(t, spy.errorOutput(), `component "Broken" didn't build cleanly`)
		assert.Contains(t, spy.errorOutput(), "great sadness")
	})
}

func TestGet(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		spy := &recorder{}

		g := Build(spy, _app)
		assert.Equal(t, "gopher", Get[*greeter](spy, g).name)
		assert.Zero(t, spy.failures)
	})

	t.Run("failure", func(t *testing.T) {
		spy := &recorder{}

		g := Build(spy, _app)
		assert.Zero(t, Get[int](spy, g))
		assert.Equal(t, 1, spy.failures)
		assert.Contains(t, spy.errorOutput(), "could not resolve int")
	})
}

func TestNewSubcomponent(t *testing.T) {
	t.Run("not declared", func(t *testing.T) {
		spy := &recorder{}

		g := Build(spy, _app)
		NewSubcomponent(spy, g, _session, graft.Instance("request"))
		assert.Equal(t, 1, spy.failures)
		assert.Contains(t, spy.errorOutput(), `subcomponent "Session" of "App" didn't build cleanly`)
	})
}

func TestInjectInto(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		spy := &recorder{}

		var name string
		InjectInto(spy, Build(spy, _app), graft.Members(graft.Field(&name)))
		assert.Zero(t, spy.failures)
		assert.Equal(t, "gopher", name)
	})

	t.Run("failure", func(t *testing.T) {
		spy := &recorder{}

		var n int
		InjectInto(spy, Build(spy, _app), graft.Members(graft.Field(&n)))
		assert.Equal(t, 1, spy.failures)
		assert.Contains(t, spy.errorOutput(), "could not inject")
	})
}
