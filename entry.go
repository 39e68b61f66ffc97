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

	"github.com/graftdi/graft/dig"
	"github.com/graftdi/graft/internal/graftreflect"
)

// Entry declares T, refined by opts, as an entry point of the component:
// a key that is requested from the graph. Build fails if the graph of an
// entry point is incomplete, cyclic or scoped inconsistently, before
// anything is constructed.
//
//	graft.NewComponent("CoffeeShop",
//		graft.Provide(NewCoffeeMaker),
//		graft.Entry[*CoffeeMaker](),
//	)
func Entry[T any](opts ...KeyOption) Option {
	return entryOption{
		Keys:  []dig.Key{KeyOf[T](opts...)},
		Stack: graftreflect.CallerStack(1, 0),
	}
}

// EntryKey declares entry points by key.
func EntryKey(keys ...Key) Option {
	return entryOption{
		Keys:  keys,
		Stack: graftreflect.CallerStack(1, 0),
	}
}

type entryOption struct {
	Keys  []dig.Key
	Stack graftreflect.Stack
}

func (o entryOption) apply(mod *module) {
	for _, k := range o.Keys {
		if k.IsZero() {
			mod.fail(fmt.Errorf("%v from:\n%+vFailed: entry point has no type", o, o.Stack))
			continue
		}
		mod.comp.roots = append(mod.comp.roots, k)
		mod.comp.entries = append(mod.comp.entries, k)
	}
}

func (o entryOption) String() string {
	return fmt.Sprintf("graft.EntryKey(%v)", o.Keys)
}
