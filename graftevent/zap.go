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
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger is a graft event logger that logs events to Zap.
type ZapLogger struct {
	Logger *zap.Logger

	logLevel   zapcore.Level // default: zapcore.InfoLevel
	errorLevel *zapcore.Level
}

var _ Logger = (*ZapLogger)(nil)

// UseErrorLevel sets the level of error logs emitted by graft to level.
func (l *ZapLogger) UseErrorLevel(level zapcore.Level) {
	l.errorLevel = &level
}

// UseLogLevel sets the level of non-error logs emitted by graft to level.
func (l *ZapLogger) UseLogLevel(level zapcore.Level) {
	l.logLevel = level
}

func (l *ZapLogger) logEvent(msg string, fields ...zap.Field) {
	l.Logger.Log(l.logLevel, msg, fields...)
}

func (l *ZapLogger) logError(msg string, fields ...zap.Field) {
	lvl := zapcore.ErrorLevel
	if l.errorLevel != nil {
		lvl = *l.errorLevel
	}
	l.Logger.Log(lvl, msg, fields...)
}

// LogEvent logs the given event to the provided Zap logger.
func (l *ZapLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *Provided:
		if e.Err != nil {
			l.logError("error encountered while declaring binding",
				zap.String("constructor", e.ConstructorName),
				zap.String("component", e.ComponentName),
				moduleField(e.ModuleName),
				zap.Error(e.Err))
		} else {
			l.logEvent("provided",
				zap.String("constructor", e.ConstructorName),
				zap.String("component", e.ComponentName),
				moduleField(e.ModuleName),
				zap.String("type", e.OutputTypeName),
				zap.String("kind", e.Kind),
				zap.String("scope", e.Scope))
		}
	case *Supplied:
		if e.Err != nil {
			l.logError("error encountered while supplying",
				zap.String("type", e.TypeName),
				zap.String("component", e.ComponentName),
				moduleField(e.ModuleName),
				zap.Error(e.Err))
		} else {
			l.logEvent("supplied",
				zap.String("type", e.TypeName),
				zap.String("component", e.ComponentName),
				moduleField(e.ModuleName))
		}
	case *ComponentBuilt:
		if e.Err != nil {
			l.logError("component build failed",
				zap.String("component", e.ComponentName),
				zap.Error(e.Err))
		} else {
			l.logEvent("component built",
				zap.String("component", e.ComponentName),
				zap.String("scope", e.Scope),
				zap.Int("bindings", e.Bindings),
				zap.String("runtime", e.Runtime.String()))
		}
	case *SubcomponentCreated:
		if e.Err != nil {
			l.logError("subcomponent creation failed",
				zap.String("component", e.ComponentName),
				zap.String("parent", e.ParentName),
				zap.Error(e.Err))
		} else {
			l.logEvent("subcomponent created",
				zap.String("component", e.ComponentName),
				zap.String("parent", e.ParentName),
				zap.String("scope", e.Scope))
		}
	case *Constructed:
		if e.Err != nil {
			l.logError("construction failed",
				zap.String("type", e.TypeName),
				zap.String("scope", e.Scope),
				zap.Error(e.Err))
		} else {
			l.logEvent("constructed",
				zap.String("type", e.TypeName),
				zap.String("scope", e.Scope),
				zap.String("runtime", e.Runtime.String()))
		}
	case *CacheHit:
		l.logEvent("cache hit",
			zap.String("type", e.TypeName),
			zap.String("scope", e.Scope))
	case *Injected:
		if e.Err != nil {
			l.logError("injection failed",
				zap.String("target", e.TargetName),
				zap.Error(e.Err))
		} else {
			l.logEvent("injected",
				zap.String("target", e.TargetName),
				zap.String("members", strings.Join(e.MemberTypeNames, ", ")))
		}
	case *ResolveFailed:
		l.logError("resolve failed",
			zap.String("type", e.TypeName),
			zap.String("component", e.ComponentName),
			zap.Error(e.Err))
	}
}

func moduleField(name string) zap.Field {
	if len(name) == 0 {
		return zap.Skip()
	}
	return zap.String("module", name)
}
