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

package graftevent

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// ConsoleLogger is a graft event logger that attempts to write
// human-readable messages to the console.
//
// Use this during development.
type ConsoleLogger struct {
	W io.Writer

	mu sync.Mutex
}

var _ Logger = (*ConsoleLogger)(nil)

func (l *ConsoleLogger) logf(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.W, "[Graft] "+msg+"\n", args...)
}

// LogEvent logs the given event to the provided io.Writer.
func (l *ConsoleLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *Provided:
		if e.Err != nil {
			l.logf("Error after options were applied: %+v", e.Err)
		} else {
			l.logf("PROVIDE\t%v <= %v%v", e.OutputTypeName, e.ConstructorName, where(e.ComponentName, e.ModuleName))
		}
	case *Supplied:
		if e.Err != nil {
			l.logf("ERROR\tFailed to supply %v: %+v", e.TypeName, e.Err)
		} else {
			l.logf("SUPPLY\t%v%v", e.TypeName, where(e.ComponentName, e.ModuleName))
		}
	case *ComponentBuilt:
		if e.Err != nil {
			l.logf("ERROR\t\tFailed to build %v: %+v", e.ComponentName, e.Err)
		} else {
			l.logf("BUILT\t%v with %d bindings in %v", e.ComponentName, e.Bindings, e.Runtime)
		}
	case *SubcomponentCreated:
		if e.Err != nil {
			l.logf("ERROR\t\tFailed to create %v from %v: %+v", e.ComponentName, e.ParentName, e.Err)
		} else {
			l.logf("SUBCOMPONENT\t%v <= %v", e.ComponentName, e.ParentName)
		}
	case *Constructed:
		if e.Err != nil {
			l.logf("ERROR\t\tFailed to construct %v: %v", e.TypeName, e.Err)
		} else {
			l.logf("CONSTRUCT\t%v (%v) in %v", e.TypeName, e.Scope, e.Runtime)
		}
	case *CacheHit:
		l.logf("REUSE\t%v (%v)", e.TypeName, e.Scope)
	case *Injected:
		if e.Err != nil {
			l.logf("ERROR\t\tFailed to inject %v: %v", e.TargetName, e.Err)
		} else {
			l.logf("INJECT\t%v <= %v", e.TargetName, strings.Join(e.MemberTypeNames, ", "))
		}
	case *ResolveFailed:
		l.logf("ERROR\t\tFailed to resolve %v from %v: %v", e.TypeName, e.ComponentName, e.Err)
	}
}

func where(component, module string) string {
	switch {
	case len(module) > 0:
		return fmt.Sprintf(" in %v/%v", component, module)
	case len(component) > 0:
		return fmt.Sprintf(" in %v", component)
	}
	return ""
}
