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
	"fmt"
	"reflect"
	"strings"

	"github.com/graftdi/graft/dig"
	"github.com/graftdi/graft/internal/graftreflect"
	"github.com/pkg/errors"
)

// Provide registers any number of provider functions with the component.
// A provider is a function returning T or (T, error); its parameters are
// its dependencies. Parameters may be grouped in a struct embedding
// graft.In to request qualified keys.
//
//	graft.Provide(
//		NewElectricHeater,
//		graft.Annotated{Target: NewGreeting, Name: "greeting"},
//	)
//
// Providers are called lazily, when a value they produce is needed, and
// as often as the scope of the binding requires. Wrap a provider in
// graft.Annotated to qualify its key, scope it, or bind it as an
// interface.
func Provide(constructors ...interface{}) Option {
	return provideOption{
		Targets: constructors,
		Kind:    dig.ProviderBinding,
		Stack:   graftreflect.CallerStack(1, 0),
	}
}

// Constructor registers the injectable constructors of types. They
// behave like providers, and additionally, when a constructor returns a
// pointer to a struct implementing Injectable, the injection points of
// the struct are filled after construction:
//
//	type Thermosiphon struct {
//		heater Heater
//		Logger *zap.Logger
//	}
//
//	func (t *Thermosiphon) InjectionPoints() []graft.Member {
//		return []graft.Member{graft.Field(&t.Logger)}
//	}
//
//	graft.Constructor(NewThermosiphon)
//
// Injection points are discovered once, on a zero value of the struct, so
// InjectionPoints must return the same keys for every instance.
func Constructor(constructors ...interface{}) Option {
	return provideOption{
		Targets: constructors,
		Kind:    dig.ConstructorBinding,
		Stack:   graftreflect.CallerStack(1, 0),
	}
}

type provideOption struct {
	Targets []interface{}
	Kind    dig.Kind
	Stack   graftreflect.Stack
}

func (o provideOption) apply(mod *module) {
	for _, target := range o.Targets {
		b, err := runProvide(target, o.Kind)
		if err != nil {
			mod.fail(fmt.Errorf("%v(%v) from:\n%+vFailed: %w", o.name(), describe(target), o.Stack, err))
			continue
		}
		mod.declare(b, false)
	}
}

func (o provideOption) name() string {
	if o.Kind == dig.ConstructorBinding {
		return "graft.Constructor"
	}
	return "graft.Provide"
}

func (o provideOption) String() string {
	items := make([]string, len(o.Targets))
	for i, c := range o.Targets {
		items[i] = describe(c)
	}
	return fmt.Sprintf("%v(%v)", o.name(), strings.Join(items, ", "))
}

func describe(target interface{}) string {
	switch target := target.(type) {
	case nil:
		return "nil"
	case Annotated:
		return target.String()
	case fmt.Stringer:
		return target.String()
	default:
		return targetName(target)
	}
}

func runProvide(target interface{}, kind dig.Kind) (*dig.Binding, error) {
	switch target := target.(type) {
	case nil:
		return nil, errors.New("cannot provide nil")
	case Option:
		return nil, errors.Errorf("graft.Option should be passed to graft.NewComponent directly, "+
			"not to graft.Provide: received %v", target)
	case Annotated:
		ann, err := target.annotation()
		if err != nil {
			return nil, err
		}
		if target.Target == nil {
			return nil, errors.New("graft.Annotated has no Target")
		}
		return newFuncBinding(target.Target, kind, ann)
	default:
		return newFuncBinding(target, kind, annotation{})
	}
}

// newFuncBinding reflects on a constructor function to declare its
// binding.
func newFuncBinding(fn interface{}, kind dig.Kind, ann annotation) (*dig.Binding, error) {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return nil, errors.Errorf("must provide constructor function, got %v (type %v)", fn, ft)
	}
	if ft.IsVariadic() {
		return nil, errors.Errorf("variadic constructors are not supported: %v", ft)
	}

	out, err := resultType(ft)
	if err != nil {
		return nil, err
	}

	ps, deps, err := params(ft)
	if err != nil {
		return nil, err
	}

	key, err := ann.key(out)
	if err != nil {
		return nil, err
	}

	b := &dig.Binding{
		Kind:  kind,
		Key:   key,
		Scope: ann.scope,
		Deps:  deps,
		Name:  graftreflect.FuncName(fn),
		Build: func(args []interface{}) (interface{}, error) {
			results := fv.Call(values(ps, args))
			if len(results) == 2 {
				if err, _ := results[1].Interface().(error); err != nil {
					return nil, err
				}
			}
			return results[0].Interface(), nil
		},
	}

	if kind == dig.ConstructorBinding {
		if err := discoverFields(b, out); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// resultType returns T for a function returning T or (T, error).
func resultType(ft reflect.Type) (reflect.Type, error) {
	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != _errType {
			return nil, errors.Errorf("second result of %v must be an error", ft)
		}
	default:
		return nil, errors.Errorf("constructor must return T or (T, error), got %v", ft)
	}

	out := ft.Out(0)
	switch {
	case graftreflect.IsErr(out):
		return nil, errors.Errorf("constructor must not return only an error: %v", ft)
	case out == _annotatedType:
		return nil, errors.New("graft.Annotated should be passed to graft.Provide directly, " +
			"it should not be returned by the constructor")
	}
	return out, nil
}

var (
	_errType       = reflect.TypeOf((*error)(nil)).Elem()
	_annotatedType = reflect.TypeOf(Annotated{})
)
