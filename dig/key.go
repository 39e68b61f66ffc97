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

package dig

import (
	"fmt"
	"reflect"
)

// Key identifies a dependency: a type plus an optional qualifier used to
// tell apart several bindings of the same type.
//
// Keys are comparable and are used directly as map keys.
type Key struct {
	Type      reflect.Type
	Qualifier string
}

// KeyFor returns the unqualified Key of T.
func KeyFor[T any]() Key {
	return Key{Type: reflect.TypeFor[T]()}
}

// TypeKey returns the unqualified Key of t.
func TypeKey(t reflect.Type) Key {
	return Key{Type: t}
}

// Named returns a copy of k qualified with name.
func (k Key) Named(name string) Key {
	k.Qualifier = name
	return k
}

// IsZero reports whether k has no type.
func (k Key) IsZero() bool {
	return k.Type == nil
}

func (k Key) String() string {
	t := "<nil>"
	if k.Type != nil {
		t = k.Type.String()
	}
	if k.Qualifier == "" {
		return t
	}
	return fmt.Sprintf("%s[name=%q]", t, k.Qualifier)
}

// keyPath renders a sequence of keys as "a -> b -> c".
func keyPath(keys []Key) string {
	s := ""
	for i, k := range keys {
		if i > 0 {
			s += " -> "
		}
		s += k.String()
	}
	return s
}
