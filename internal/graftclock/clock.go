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

// Package graftclock abstracts time so that the runtime of constructions
// and builds can be asserted in tests.
package graftclock

import (
	"sync"
	"time"
)

// Clock defines how graft accesses time.
type Clock interface {
	Now() time.Time
	Since(time.Time) time.Duration
}

// System is the default implementation of Clock based on real time.
var System Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// Mock is a fake source of time. Time only moves when Add is called.
type Mock struct {
	mu  sync.RWMutex
	now time.Time

	// step is added to the current time on every call to Now.
	step time.Duration
}

var _ Clock = (*Mock)(nil)

// NewMock builds a new mock clock using the current actual time as the
// initial time.
func NewMock() *Mock {
	return &Mock{now: time.Now()}
}

// Now reports the current time, then advances it by the step set with
// Tick.
func (c *Mock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

// Since reports the time elapsed since t.
func (c *Mock) Since(t time.Time) time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now.Sub(t)
}

// Add progresses time by the given duration.
func (c *Mock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Tick makes every subsequent call to Now advance time by d, so that
// code measuring a runtime with Now and Since observes d.
func (c *Mock) Tick(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = d
}
