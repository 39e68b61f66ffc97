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

// In can be embedded in a constructor's param struct in order to request
// qualified dependencies. Each exported field is a dependency; the name
// tag qualifies its key.
//
//	type CoffeeMakerParams struct {
//		graft.In
//
//		Heater Heater
//		Name   string `name:"barista"`
//	}
//
//	func NewCoffeeMaker(p CoffeeMakerParams) *CoffeeMaker
type In struct{}

var _inType = reflect.TypeOf(In{})

// isIn reports whether t is a parameter struct embedding In.
func isIn(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == _inType {
			return true
		}
	}
	return false
}

// param is one parameter of a constructor. It consumes one dependency, or
// one per field for parameter structs.
type param struct {
	t      reflect.Type
	fields []int
}

// params lists the dependency keys of the constructor type ft.
func params(ft reflect.Type) ([]param, []dig.Key, error) {
	ps := make([]param, ft.NumIn())
	var keys []dig.Key
	for i := 0; i < ft.NumIn(); i++ {
		t := ft.In(i)
		ps[i].t = t
		if !isIn(t) {
			keys = append(keys, dig.TypeKey(t))
			continue
		}

		for j := 0; j < t.NumField(); j++ {
			f := t.Field(j)
			if f.Anonymous && f.Type == _inType {
				continue
			}
			if !f.IsExported() {
				return nil, nil, fmt.Errorf("bad field %q of %v: unexported fields not allowed in graft.In", f.Name, t)
			}
			ps[i].fields = append(ps[i].fields, j)
			keys = append(keys, dig.Key{Type: f.Type, Qualifier: f.Tag.Get("name")})
		}
	}
	return ps, keys, nil
}

// values builds the arguments of a call from the resolved dependencies.
func values(ps []param, args []interface{}) []reflect.Value {
	in := make([]reflect.Value, len(ps))
	pos := 0
	for i, p := range ps {
		if !isIn(p.t) {
			in[i] = valueOf(p.t, args[pos])
			pos++
			continue
		}

		v := reflect.New(p.t).Elem()
		for _, j := range p.fields {
			v.Field(j).Set(valueOf(p.t.Field(j).Type, args[pos]))
			pos++
		}
		in[i] = v
	}
	return in
}

// valueOf converts a resolved value to t, mapping nil to the zero value.
func valueOf(t reflect.Type, v interface{}) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(v)
}
