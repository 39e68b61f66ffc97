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

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/graftdi/graft/dig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v4"
)

type heater struct{}

var _heaterKey = dig.KeyFor[*heater]()

// counter returns the value of the counter named name with the given
// scope tag, or zero.
func counter(t *testing.T, scope tally.TestScope, name, tag string) int64 {
	t.Helper()
	for _, c := range scope.Snapshot().Counters() {
		if c.Name() == name && c.Tags()[_scopeTag] == tag {
			return c.Value()
		}
	}
	return 0
}

func timer(t *testing.T, scope tally.TestScope, name, tag string) []time.Duration {
	t.Helper()
	for _, tm := range scope.Snapshot().Timers() {
		if tm.Name() == name && tm.Tags()[_scopeTag] == tag {
			return tm.Values()
		}
	}
	return nil
}

func TestReporterConstructed(t *testing.T) {
	t.Parallel()

	scope := tally.NewTestScope("", nil)
	r := NewReporter(scope)

	r.Constructed(_heaterKey, dig.Singleton("App"), time.Millisecond, nil)
	r.Constructed(_heaterKey, dig.Unscoped, 2*time.Millisecond, nil)
	r.Constructed(_heaterKey, dig.Unscoped, time.Millisecond, errors.New("great sadness"))

	assert.Equal(t, int64(1), counter(t, scope, "graft.constructions", "App"))
	assert.Equal(t, int64(1), counter(t, scope, "graft.constructions", "unscoped"))
	assert.Equal(t, int64(1), counter(t, scope, "graft.construction_errors", "unscoped"))
	assert.Equal(t, []time.Duration{time.Millisecond}, timer(t, scope, "graft.construction", "App"))
}

func TestReporterCacheHit(t *testing.T) {
	t.Parallel()

	scope := tally.NewTestScope("", nil)
	r := NewReporter(scope)

	r.CacheHit(_heaterKey, dig.Reusable)
	r.CacheHit(_heaterKey, dig.Reusable)
	assert.Equal(t, int64(2), counter(t, scope, "graft.cache_hits", "reusable"))
}

func TestReporterResolved(t *testing.T) {
	t.Parallel()

	scope := tally.NewTestScope("", nil)
	r := NewReporter(scope)

	r.Resolved(time.Second, nil)
	r.Resolved(time.Second, errors.New("great sadness"))

	var found bool
	for _, tm := range scope.Snapshot().Timers() {
		if tm.Name() == "graft.resolve" {
			found = true
			assert.Len(t, tm.Values(), 2)
		}
	}
	require.True(t, found, "resolve timer must be reported")

	for _, c := range scope.Snapshot().Counters() {
		if c.Name() == "graft.resolve_errors" {
			assert.Equal(t, int64(1), c.Value())
		}
	}
}

func TestNilScopeReportsNothing(t *testing.T) {
	t.Parallel()

	r := NewReporter(nil)
	assert.NotPanics(t, func() {
		r.Constructed(_heaterKey, dig.Unscoped, time.Millisecond, nil)
		r.CacheHit(_heaterKey, dig.Reusable)
		r.Resolved(time.Millisecond, nil)
	})
}
