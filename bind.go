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

	"github.com/graftdi/graft/dig"
	"github.com/graftdi/graft/internal/graftreflect"
)

// Bind declares that requests for I are satisfied by the binding of T,
// typically an implementation of the interface I.
//
//	graft.Provide(NewElectricHeater),
//	graft.Bind[Heater, *ElectricHeater](),
//
// The alias itself is unscoped: the scope of T decides whether dependents
// of I share an instance. opts qualify I; the binding of T is looked up
// unqualified.
func Bind[I, T any](opts ...KeyOption) Option {
	return bindOption{
		From:  KeyOf[I](opts...),
		To:    dig.KeyFor[T](),
		Stack: graftreflect.CallerStack(1, 0),
	}
}

type bindOption struct {
	From  dig.Key
	To    dig.Key
	Stack graftreflect.Stack
}

func (o bindOption) apply(mod *module) {
	if !o.To.Type.AssignableTo(o.From.Type) {
		mod.fail(fmt.Errorf("%v from:\n%+vFailed: %v is not assignable to %v",
			o, o.Stack, o.To.Type, o.From.Type))
		return
	}

	to := o.To.Type
	mod.declare(&dig.Binding{
		Kind: dig.ProviderBinding,
		Key:  o.From,
		Deps: []dig.Key{o.To},
		Name: o.String(),
		Build: func(args []interface{}) (interface{}, error) {
			if args[0] == nil {
				return reflect.Zero(to).Interface(), nil
			}
			return args[0], nil
		},
	}, false)
}

func (o bindOption) String() string {
	return fmt.Sprintf("graft.Bind[%v, %v]()", o.From, o.To)
}
