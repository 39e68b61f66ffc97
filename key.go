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
)

// Key identifies a dependency: a type and an optional qualifier.
type Key = dig.Key

// KeyOption refines the key a declaration or a request refers to.
type KeyOption interface {
	applyKey(*dig.Key)
}

type named string

func (n named) applyKey(k *dig.Key) { k.Qualifier = string(n) }

func (n named) String() string { return fmt.Sprintf("graft.Named(%q)", string(n)) }

// Named qualifies a key, telling apart several bindings of the same type.
//
//	graft.BindsInstance[string](graft.Named("user"))
//	name, err := graft.Get[string](g, graft.Named("user"))
func Named(name string) KeyOption {
	return named(name)
}

// KeyOf returns the key of T refined by opts.
func KeyOf[T any](opts ...KeyOption) Key {
	return keyOf(reflect.TypeFor[T](), opts)
}

func keyOf(t reflect.Type, opts []KeyOption) Key {
	k := dig.TypeKey(t)
	for _, opt := range opts {
		opt.applyKey(&k)
	}
	return k
}
