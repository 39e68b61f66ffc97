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

	"go.uber.org/multierr"
)

// aggregate returns the memoized AggregateBinding for k as seen from r.
// Contributions of ancestors come first, then r's own, each registry in
// declaration order.
func (r *Registry) aggregate(k Key) *Binding {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.aggregates[k]; ok {
		return b
	}

	var chain []*Registry
	for cur := r; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}

	b := &Binding{
		Kind:  AggregateBinding,
		Key:   k,
		Scope: Unscoped,
		Name:  "multibinding " + k.String(),
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for _, c := range chain[i].contribs[k] {
			b.contributions = append(b.contributions, c)
			b.sources = append(b.sources, chain[i])
		}
	}
	b.Build = aggregateBuilder(k.Type, b.contributions)

	r.aggregates[k] = b
	return b
}

// Contributions returns the contributions merged by an aggregate binding.
func (b *Binding) Contributions() []*Binding {
	out := make([]*Binding, len(b.contributions))
	copy(out, b.contributions)
	return out
}

// aggregateBuilder builds the map or slice of t from contribution values
// passed in the order of contribs.
func aggregateBuilder(t reflect.Type, contribs []*Binding) func([]any) (any, error) {
	if t.Kind() == reflect.Map {
		return func(args []any) (any, error) {
			m := reflect.MakeMapWithSize(t, len(args))
			for i, arg := range args {
				v, err := elemValue(t.Elem(), arg)
				if err != nil {
					return nil, err
				}
				m.SetMapIndex(reflect.ValueOf(contribs[i].MapKey).Convert(t.Key()), v)
			}
			return m.Interface(), nil
		}
	}
	return func(args []any) (any, error) {
		s := reflect.MakeSlice(t, 0, len(args))
		for _, arg := range args {
			v, err := elemValue(t.Elem(), arg)
			if err != nil {
				return nil, err
			}
			s = reflect.Append(s, v)
		}
		return s.Interface(), nil
	}
}

func elemValue(t reflect.Type, arg any) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("contribution of type %v is not assignable to %v", v.Type(), t)
	}
	return v, nil
}

// checkMapKeys reports map keys contributed twice to the same map, taking
// ancestors' contributions into account.
func (r *Registry) checkMapKeys() error {
	var errs error
	for _, k := range r.keys {
		contribs := r.contribs[k]
		if len(contribs) == 0 || k.Type.Kind() != reflect.Map {
			continue
		}

		seen := make(map[any]*Binding)
		for cur := r.parent; cur != nil; cur = cur.parent {
			for _, c := range cur.contribs[k] {
				seen[c.MapKey] = c
			}
		}
		for _, c := range contribs {
			if prev, ok := seen[c.MapKey]; ok {
				errs = multierr.Append(errs, &AmbiguousBindingError{
					Key:      k,
					Registry: r.name,
					Bindings: []string{prev.label(), c.label()},
					MapKey:   c.MapKey,
				})
				continue
			}
			seen[c.MapKey] = c
		}
	}
	return errs
}
