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
	"context"
	"log/slog"
	"strings"
)

var _ Logger = (*SlogLogger)(nil)

// SlogLogger is a graft event logger that logs events using a slog logger.
type SlogLogger struct {
	Logger *slog.Logger

	ctx        context.Context
	logLevel   slog.Level
	errorLevel *slog.Level
}

// UseContext sets the context that will be used when logging to slog.
func (l *SlogLogger) UseContext(ctx context.Context) {
	l.ctx = ctx
}

// UseLogLevel sets the level of non-error logs emitted by graft to level.
func (l *SlogLogger) UseLogLevel(level slog.Level) {
	l.logLevel = level
}

// UseErrorLevel sets the level of error logs emitted by graft to level.
func (l *SlogLogger) UseErrorLevel(level slog.Level) {
	l.errorLevel = &level
}

func (l *SlogLogger) filter(fields []any) []any {
	filtered := []any{}

	for _, field := range fields {
		if field, ok := field.(slog.Attr); ok {
			if _, ok := field.Value.Any().(slogFieldSkip); ok {
				continue
			}
		}

		filtered = append(filtered, field)
	}

	return filtered
}

func (l *SlogLogger) context() context.Context {
	if l.ctx == nil {
		return context.Background()
	}
	return l.ctx
}

func (l *SlogLogger) logEvent(msg string, fields ...any) {
	l.Logger.Log(l.context(), l.logLevel, msg, l.filter(fields)...)
}

func (l *SlogLogger) logError(msg string, fields ...any) {
	lvl := slog.LevelError
	if l.errorLevel != nil {
		lvl = *l.errorLevel
	}

	l.Logger.Log(l.context(), lvl, msg, l.filter(fields)...)
}

// LogEvent logs the given event to the provided slog logger.
func (l *SlogLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *Provided:
		if e.Err != nil {
			l.logError("error encountered while declaring binding",
				slog.String("constructor", e.ConstructorName),
				slog.String("component", e.ComponentName),
				slogMaybeModuleField(e.ModuleName),
				slogErr(e.Err))
		} else {
			l.logEvent("provided",
				slog.String("constructor", e.ConstructorName),
				slog.String("component", e.ComponentName),
				slogMaybeModuleField(e.ModuleName),
				slog.String("type", e.OutputTypeName),
				slog.String("kind", e.Kind),
				slog.String("scope", e.Scope))
		}
	case *Supplied:
		if e.Err != nil {
			l.logError("error encountered while supplying",
				slog.String("type", e.TypeName),
				slog.String("component", e.ComponentName),
				slogMaybeModuleField(e.ModuleName),
				slogErr(e.Err))
		} else {
			l.logEvent("supplied",
				slog.String("type", e.TypeName),
				slog.String("component", e.ComponentName),
				slogMaybeModuleField(e.ModuleName))
		}
	case *ComponentBuilt:
		if e.Err != nil {
			l.logError("component build failed",
				slog.String("component", e.ComponentName),
				slogErr(e.Err))
		} else {
			l.logEvent("component built",
				slog.String("component", e.ComponentName),
				slog.String("scope", e.Scope),
				slog.Int("bindings", e.Bindings),
				slog.String("runtime", e.Runtime.String()))
		}
	case *SubcomponentCreated:
		if e.Err != nil {
			l.logError("subcomponent creation failed",
				slog.String("component", e.ComponentName),
				slog.String("parent", e.ParentName),
				slogErr(e.Err))
		} else {
			l.logEvent("subcomponent created",
				slog.String("component", e.ComponentName),
				slog.String("parent", e.ParentName),
				slog.String("scope", e.Scope))
		}
	case *Constructed:
		if e.Err != nil {
			l.logError("construction failed",
				slog.String("type", e.TypeName),
				slog.String("scope", e.Scope),
				slogErr(e.Err))
		} else {
			l.logEvent("constructed",
				slog.String("type", e.TypeName),
				slog.String("scope", e.Scope),
				slog.String("runtime", e.Runtime.String()))
		}
	case *CacheHit:
		l.logEvent("cache hit",
			slog.String("type", e.TypeName),
			slog.String("scope", e.Scope))
	case *Injected:
		if e.Err != nil {
			l.logError("injection failed",
				slog.String("target", e.TargetName),
				slogErr(e.Err))
		} else {
			l.logEvent("injected",
				slog.String("target", e.TargetName),
				slog.String("members", strings.Join(e.MemberTypeNames, ", ")))
		}
	case *ResolveFailed:
		l.logError("resolve failed",
			slog.String("type", e.TypeName),
			slog.String("component", e.ComponentName),
			slogErr(e.Err))
	}
}

type slogFieldSkip struct{}

func slogMaybeModuleField(name string) slog.Attr {
	if len(name) == 0 {
		return slog.Any("module", slogFieldSkip{})
	}
	return slog.String("module", name)
}

func slogErr(err error) slog.Attr {
	return slog.String("error", err.Error())
}
