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
	"reflect"

	"github.com/graftdi/graft/dig"
	"github.com/graftdi/graft/graftevent"
	"github.com/graftdi/graft/internal/graftreflect"
	"github.com/pkg/errors"
)

// Member is one injection point: the key it wants and how the resolved
// value is assigned.
type Member = dig.Member

// Injectable is implemented by types with injection points: objects the
// graph does not construct itself, injected with Graph.InjectInto, and
// types declared with graft.Constructor that need fields set after
// construction.
//
//	type CoffeeApp struct {
//		Maker  *CoffeeMaker
//		Heater Heater
//	}
//
//	func (a *CoffeeApp) InjectionPoints() []graft.Member {
//		return []graft.Member{
//			graft.Field(&a.Maker),
//			graft.Field(&a.Heater),
//		}
//	}
type Injectable interface {
	InjectionPoints() []Member
}

var _injectableType = reflect.TypeOf((*Injectable)(nil)).Elem()

// Field returns the injection point of the value pointed to by ptr. Its
// key is T, refined by opts.
func Field[T any](ptr *T, opts ...KeyOption) Member {
	key := KeyOf[T](opts...)
	return Member{
		Key: key,
		Set: func(v interface{}) error {
			if v == nil {
				var zero T
				*ptr = zero
				return nil
			}
			t, ok := v.(T)
			if !ok {
				return errors.Errorf("cannot assign %T to %v", v, key)
			}
			*ptr = t
			return nil
		},
	}
}

// Members converts the injection points of an object to the members of
// an ad hoc Injectable.
//
//	var maker *CoffeeMaker
//	err := g.InjectInto(graft.Members(graft.Field(&maker)))
func Members(members ...Member) Injectable {
	return memberList(members)
}

type memberList []Member

func (ml memberList) InjectionPoints() []Member { return ml }

// Injects declares that objects of type T, a pointer to a struct
// implementing Injectable, are injected from the component. Their
// injection points are validated when the component is built, so a
// missing binding is reported before any object is injected.
func Injects[T Injectable]() Option {
	return injectsOption{
		Type:  reflect.TypeFor[T](),
		Stack: graftreflect.CallerStack(1, 0),
	}
}

type injectsOption struct {
	Type  reflect.Type
	Stack graftreflect.Stack
}

func (o injectsOption) apply(mod *module) {
	keys, err := probeInjectionPoints(o.Type)
	if err != nil {
		mod.fail(fmt.Errorf("%v from:\n%+vFailed: %w", o, o.Stack, err))
		return
	}
	mod.comp.roots = append(mod.comp.roots, keys...)
}

func (o injectsOption) String() string {
	return fmt.Sprintf("graft.Injects[%v]()", o.Type)
}

// probeInjectionPoints lists the keys of the injection points of t on a
// zero value.
func probeInjectionPoints(t reflect.Type) (keys []dig.Key, err error) {
	if t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		return nil, errors.Errorf("%v must be a pointer to a struct", t)
	}
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("%v.InjectionPoints panicked on a zero value: %v", t, p)
		}
	}()

	probe := reflect.New(t.Elem()).Interface().(Injectable)
	for _, m := range probe.InjectionPoints() {
		if m.Key.IsZero() || m.Set == nil {
			return nil, errors.Errorf("%v has an invalid injection point %v", t, m.Key)
		}
		keys = append(keys, m.Key)
	}
	return keys, nil
}

// discoverFields declares the injection points of a constructor's result.
func discoverFields(b *dig.Binding, out reflect.Type) error {
	if out.Kind() != reflect.Ptr || !out.Implements(_injectableType) {
		return nil
	}

	keys, err := probeInjectionPoints(out)
	if err != nil || len(keys) == 0 {
		return err
	}

	b.Fields = keys
	b.Inject = func(instance interface{}, values []interface{}) error {
		target, ok := instance.(Injectable)
		if !ok {
			return errors.Errorf("%T is not injectable", instance)
		}
		members := target.InjectionPoints()
		if len(members) != len(values) {
			return errors.Errorf("%T declared %d injection points, now has %d",
				instance, len(values), len(members))
		}
		for i, m := range members {
			if err := m.Set(values[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// InjectInto resolves every injection point of target and assigns it.
// target itself is not constructed by the graph. All the points are
// validated before anything is constructed; Reusable bindings are shared
// among them.
func (g *Graph) InjectInto(target Injectable) (err error) {
	if target == nil {
		return errors.New("graft.InjectInto expected a non-nil target")
	}
	if v := reflect.ValueOf(target); v.Kind() == reflect.Ptr && v.IsNil() {
		return errors.Errorf("graft.InjectInto expected a non-nil target, got nil %T", target)
	}

	members := target.InjectionPoints()
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Key.String()
	}

	start := g.opts.clock.Now()
	finish := g.opts.trace(context.Background(), "graft.inject", g.def.name, fmt.Sprintf("%T", target))
	defer func() {
		finish(err)
		g.opts.reporter.Resolved(g.opts.clock.Since(start), err)
		g.opts.log.LogEvent(&graftevent.Injected{
			TargetName:      fmt.Sprintf("%T", target),
			MemberTypeNames: names,
			Err:             err,
		})
	}()

	return g.resolver.InjectInto(members...)
}
