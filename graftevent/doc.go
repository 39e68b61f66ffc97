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

// Package graftevent defines a means of changing how graft logs internal
// events.
//
// # Changing the Logger
//
// By default, the [NopLogger] is used and nothing is logged. Pass a
// different [Logger] to Build with the graft.WithLogger option.
//
//	g, err := CoffeeShop.Build(
//		graft.WithLogger(&graftevent.ConsoleLogger{W: os.Stderr}),
//	)
//
// If you're using Zap inside your application, you can use the
// [ZapLogger] implementation of the interface.
//
//	graft.WithLogger(&graftevent.ZapLogger{Logger: log})
//
// Subcomponents inherit the logger of their parent.
//
// # Implementing a Custom Logger
//
// To implement a custom logger, you need to implement the [Logger]
// interface. The Logger.LogEvent method accepts an [Event] object.
//
// [Event] is a union type that represents all the different events that
// graft can emit. You can use a type switch to handle each event type.
// See 'event.go' for a list of all the possible events.
//
//	func (l *MyLogger) LogEvent(e graftevent.Event) {
//		switch e := e.(type) {
//		case *graftevent.Constructed:
//			// ...
//		// ...
//		}
//	}
//
// Constructed and CacheHit are emitted while values are resolved, possibly
// from several goroutines at once; loggers must be safe for concurrent
// use.
package graftevent
