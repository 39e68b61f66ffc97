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

	"github.com/graftdi/graft/dig"
	"github.com/graftdi/graft/graftevent"
	"github.com/graftdi/graft/internal/graftclock"
	"github.com/graftdi/graft/metrics"
	"github.com/graftdi/graft/tracing"
	"github.com/opentracing/opentracing-go"
	"github.com/uber-go/tally/v4"
)

// A BuildOption configures the instantiation of a component, by
// Component.Build or Graph.NewSubcomponent.
//
// Subcomponents inherit the logger, metrics scope and tracer of their
// parent.
type BuildOption interface {
	applyBuild(*buildOptions)
}

type buildOptions struct {
	log    graftevent.Logger
	scope  tally.Scope
	tracer opentracing.Tracer
	clock  graftclock.Clock

	// set once per root graph from scope
	reporter *metrics.Reporter

	// instances supplied with Instance, for one component only
	instances map[dig.Key]interface{}
	errs      []error
}

func newBuildOptions() *buildOptions {
	return &buildOptions{
		log:    graftevent.NopLogger,
		scope:  tally.NoopScope,
		tracer: opentracing.NoopTracer{},
		clock:  graftclock.System,
	}
}

// child returns the options of a subcomponent of a graph built with o.
func (o *buildOptions) child() *buildOptions {
	return &buildOptions{
		log:      o.log,
		scope:    o.scope,
		tracer:   o.tracer,
		clock:    o.clock,
		reporter: o.reporter,
	}
}

// observer reports every construction of the graph to the logger and to
// the metrics scope.
func (o *buildOptions) observer() dig.Observer {
	return observers{eventObserver{log: o.log}, o.reporter}
}

// trace starts a span for a top-level operation on a graph, returning the
// function that finishes it.
func (o *buildOptions) trace(ctx context.Context, operation, component, key string) func(error) {
	span, _ := tracing.StartSpan(ctx, o.tracer, operation, component, key)
	return func(err error) {
		tracing.Finish(span, err)
	}
}

// WithLogger specifies the logger receiving the events of the graph. By
// default, nothing is logged.
//
//	g, err := CoffeeShop.Build(graft.WithLogger(&graftevent.ZapLogger{Logger: log}))
func WithLogger(logger graftevent.Logger) BuildOption {
	return loggerOption{logger}
}

type loggerOption struct{ logger graftevent.Logger }

func (l loggerOption) applyBuild(o *buildOptions) {
	if l.logger == nil {
		o.log = graftevent.NopLogger
		return
	}
	o.log = l.logger
}

func (l loggerOption) String() string {
	return fmt.Sprintf("graft.WithLogger(%v)", l.logger)
}

// WithMetrics reports the constructions and resolutions of the graph to
// scope. See package metrics for the emitted metrics.
func WithMetrics(scope tally.Scope) BuildOption {
	return metricsOption{scope}
}

type metricsOption struct{ scope tally.Scope }

func (m metricsOption) applyBuild(o *buildOptions) {
	if m.scope == nil {
		o.scope = tally.NoopScope
		return
	}
	o.scope = m.scope
}

// WithTracer traces every top-level resolution of the graph with tracer.
// See package tracing for the reported spans.
func WithTracer(tracer opentracing.Tracer) BuildOption {
	return tracerOption{tracer}
}

type tracerOption struct{ tracer opentracing.Tracer }

func (t tracerOption) applyBuild(o *buildOptions) {
	if t.tracer == nil {
		o.tracer = opentracing.NoopTracer{}
		return
	}
	o.tracer = t.tracer
}

// withClock sets the clock used to measure build and resolution times.
func withClock(clock graftclock.Clock) BuildOption {
	return clockOption{clock}
}

type clockOption struct{ clock graftclock.Clock }

func (c clockOption) applyBuild(o *buildOptions) { o.clock = c.clock }
