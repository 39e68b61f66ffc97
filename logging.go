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
	"time"

	"github.com/graftdi/graft/dig"
	"github.com/graftdi/graft/graftevent"
)

// eventObserver turns the constructions of a graph into log events.
type eventObserver struct {
	log graftevent.Logger
}

func (o eventObserver) Constructed(key dig.Key, scope dig.Scope, runtime time.Duration, err error) {
	o.log.LogEvent(&graftevent.Constructed{
		TypeName: key.String(),
		Scope:    scope.String(),
		Runtime:  runtime,
		Err:      err,
	})
}

func (o eventObserver) CacheHit(key dig.Key, scope dig.Scope) {
	o.log.LogEvent(&graftevent.CacheHit{
		TypeName: key.String(),
		Scope:    scope.String(),
	})
}

// observers fans out to every observer in order.
type observers []dig.Observer

func (os observers) Constructed(key dig.Key, scope dig.Scope, runtime time.Duration, err error) {
	for _, o := range os {
		o.Constructed(key, scope, runtime, err)
	}
}

func (os observers) CacheHit(key dig.Key, scope dig.Scope) {
	for _, o := range os {
		o.CacheHit(key, scope)
	}
}

// logDeclarations logs every binding declared by c, and every error made
// declaring them.
func (c *Component) logDeclarations(log graftevent.Logger) {
	for _, d := range c.decls {
		b := d.binding
		if d.supply {
			log.LogEvent(&graftevent.Supplied{
				TypeName:      b.Key.String(),
				ComponentName: c.name,
				ModuleName:    d.module,
			})
			continue
		}
		log.LogEvent(&graftevent.Provided{
			ConstructorName: b.Name,
			ComponentName:   c.name,
			ModuleName:      d.module,
			OutputTypeName:  b.Key.String(),
			Kind:            b.Kind.String(),
			Scope:           b.Scope.String(),
		})
	}
	for _, err := range c.errs {
		log.LogEvent(&graftevent.Provided{
			ComponentName: c.name,
			Err:           err,
		})
	}
}
