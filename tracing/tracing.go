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

package tracing

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/opentracing/opentracing-go/log"
)

// Span tags set on every resolution span.
const (
	ComponentTag = "graft.component"
	KeyTag       = "graft.key"
)

// StartSpan starts a span named operation for the resolution of key in
// component. The span is a child of the span carried by ctx, if any. A
// nil tracer falls back to the global tracer.
func StartSpan(
	ctx context.Context,
	tracer opentracing.Tracer,
	operation, component, key string,
) (opentracing.Span, context.Context) {
	if tracer == nil {
		tracer = opentracing.GlobalTracer()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []opentracing.StartSpanOption{
		opentracing.Tag{Key: ComponentTag, Value: component},
		opentracing.Tag{Key: KeyTag, Value: key},
	}
	if parent := opentracing.SpanFromContext(ctx); parent != nil {
		opts = append(opts, opentracing.ChildOf(parent.Context()))
	}

	span := tracer.StartSpan(operation, opts...)
	return span, opentracing.ContextWithSpan(ctx, span)
}

// Finish finishes span, flagging it as an error and logging err when err
// is non-nil.
func Finish(span opentracing.Span, err error) {
	if err != nil {
		ext.Error.Set(span, true)
		span.LogFields(log.String("event", "error"), log.Error(err))
	}
	span.Finish()
}
