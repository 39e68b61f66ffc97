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

// Package metrics reports how a graft graph constructs its values to a
// tally scope.
//
// Every metric is emitted under the "graft" sub-scope:
//
//	graft.constructions        counter, tagged by scope
//	graft.construction_errors  counter, tagged by scope
//	graft.cache_hits           counter, tagged by scope
//	graft.construction         timer, tagged by scope
//	graft.resolve              timer
//	graft.resolve_errors       counter
//
// The scope tag is "unscoped", "reusable" or the name of the singleton
// scope.
package metrics

import (
	"time"

	"github.com/graftdi/graft/dig"
	"github.com/uber-go/tally/v4"
)

const _scopeTag = "scope"

// Reporter observes the constructions of a graph and reports them to a
// tally.Scope. It is safe for concurrent use.
type Reporter struct {
	scope tally.Scope
}

var _ dig.Observer = (*Reporter)(nil)

// NewReporter builds a Reporter emitting to a "graft" sub-scope of scope.
// A nil scope reports nothing.
func NewReporter(scope tally.Scope) *Reporter {
	if scope == nil {
		scope = tally.NoopScope
	}
	return &Reporter{scope: scope.SubScope("graft")}
}

// Constructed records one call to a constructor.
func (r *Reporter) Constructed(key dig.Key, scope dig.Scope, runtime time.Duration, err error) {
	s := r.tagged(scope)
	if err != nil {
		s.Counter("construction_errors").Inc(1)
		return
	}
	s.Counter("constructions").Inc(1)
	s.Timer("construction").Record(runtime)
}

// CacheHit records a scoped value reused instead of constructed.
func (r *Reporter) CacheHit(key dig.Key, scope dig.Scope) {
	r.tagged(scope).Counter("cache_hits").Inc(1)
}

// Resolved records one top-level resolution: a Get, an InjectInto or a
// Populate.
func (r *Reporter) Resolved(runtime time.Duration, err error) {
	if err != nil {
		r.scope.Counter("resolve_errors").Inc(1)
	}
	r.scope.Timer("resolve").Record(runtime)
}

func (r *Reporter) tagged(scope dig.Scope) tally.Scope {
	return r.scope.Tagged(map[string]string{_scopeTag: scopeTag(scope)})
}

func scopeTag(s dig.Scope) string {
	switch {
	case s.IsSingleton():
		return s.Name()
	case s.IsReusable():
		return "reusable"
	default:
		return "unscoped"
	}
}
