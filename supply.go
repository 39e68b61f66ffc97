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

// Supply binds instantiated values as if they had been provided using a
// constructor that simply returns them. The most specific type of each
// value (as determined by reflection) is used, unless the value is
// wrapped in an Annotated with As set.
//
// For example, given:
//
//	type (
//		TypeA struct{}
//		TypeB struct{}
//		TypeC struct{}
//	)
//
//	var a, b, c = &TypeA{}, TypeB{}, &TypeC{}
//
// The following two forms are equivalent:
//
//	graft.Supply(a, b, graft.Annotated{Target: c, Name: "c"})
//
//	graft.Provide(
//		func() *TypeA { return a },
//		func() TypeB { return b },
//		graft.Annotated{Target: func() *TypeC { return c }, Name: "c"},
//	)
//
// except that supplied values are never constructed: every dependent
// sees the very same value.
//
// Supply panics if a value (or annotation target) is an untyped nil or an
// error.
func Supply(values ...interface{}) Option {
	for _, value := range values {
		if ann, ok := value.(Annotated); ok {
			value = ann.Target
		}
		switch value.(type) {
		case nil:
			panic("untyped nil passed to graft.Supply")
		case error:
			panic("error value passed to graft.Supply")
		}
	}

	return supplyOption{
		Targets: values,
		Stack:   graftreflect.CallerStack(1, 0),
	}
}

type supplyOption struct {
	Targets []interface{}
	Stack   graftreflect.Stack
}

func (o supplyOption) apply(mod *module) {
	for _, target := range o.Targets {
		b, err := newSupplyBinding(target)
		if err != nil {
			mod.fail(fmt.Errorf("graft.Supply(%v) from:\n%+vFailed: %w", describe(target), o.Stack, err))
			continue
		}
		mod.declare(b, true)
	}
}

func (o supplyOption) String() string {
	items := make([]string, 0, len(o.Targets))
	for _, target := range o.Targets {
		if ann, ok := target.(Annotated); ok {
			target = ann.Target
		}
		items = append(items, reflect.TypeOf(target).String())
	}

	return fmt.Sprintf("graft.Supply(%s)", strings.Join(items, ", "))
}

func newSupplyBinding(target interface{}) (*dig.Binding, error) {
	var ann annotation
	if a, ok := target.(Annotated); ok {
		if !a.Scope.IsUnscoped() {
			return nil, errors.Errorf("supplied values cannot be scoped: got %v", a.Scope)
		}
		var err error
		if ann, err = a.annotation(); err != nil {
			return nil, err
		}
		target = a.Target
	}

	key, err := ann.key(reflect.TypeOf(target))
	if err != nil {
		return nil, err
	}
	return &dig.Binding{
		Kind:  dig.InstanceBinding,
		Key:   key,
		Value: target,
		Name:  fmt.Sprintf("graft.Supply(%v)", key),
	}, nil
}
