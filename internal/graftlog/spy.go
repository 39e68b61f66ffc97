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

// Package graftlog holds logging helpers shared by graft's tests.
package graftlog

import (
	"reflect"
	"sync"

	"github.com/graftdi/graft/graftevent"
)

// Events is a list of events captured by a Spy.
type Events []graftevent.Event

// Len returns the number of events.
func (es Events) Len() int { return len(es) }

// SelectByTypeName returns the events whose type name, such as
// "Constructed", is name.
func (es Events) SelectByTypeName(name string) Events {
	var out Events
	for _, e := range es {
		if typeName(e) == name {
			out = append(out, e)
		}
	}
	return out
}

// Spy is a graftevent.Logger that captures events. It may be used in
// tests of graft logs, including concurrent ones.
type Spy struct {
	mu     sync.Mutex
	events Events
}

var _ graftevent.Logger = (*Spy)(nil)

// LogEvent appends an Event.
func (s *Spy) LogEvent(event graftevent.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// Events returns all captured events.
func (s *Spy) Events() Events {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make(Events, len(s.events))
	copy(events, s.events)
	return events
}

// EventTypes returns all captured event types.
func (s *Spy) EventTypes() []string {
	events := s.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = typeName(e)
	}
	return types
}

// Reset clears all events from the Spy.
func (s *Spy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = s.events[:0]
}

func typeName(e graftevent.Event) string {
	return reflect.TypeOf(e).Elem().Name()
}
