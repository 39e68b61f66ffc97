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
	"github.com/pkg/errors"
)

// Populate sets the values pointed to by targets from the graph.
//
//	var (
//		maker  *CoffeeMaker
//		heater Heater
//	)
//	err := g.Populate(&maker, &heater)
//
// A target pointing to a struct that embeds graft.In has each of its
// exported fields populated instead, qualified by their name tags:
//
//	var target struct {
//		graft.In
//
//		Maker *CoffeeMaker
//		User  string `name:"user"`
//	}
//	err := g.Populate(&target)
//
// Targets are populated together, as by InjectInto.
func (g *Graph) Populate(targets ...interface{}) error {
	var members []Member
	for _, target := range targets {
		ms, err := populateMembers(target)
		if err != nil {
			return err
		}
		members = append(members, ms...)
	}
	return g.InjectInto(populateTarget(members))
}

// populateTarget names the Injected event of Populate.
type populateTarget []Member

func (pt populateTarget) InjectionPoints() []Member { return pt }

func populateMembers(target interface{}) ([]Member, error) {
	v := reflect.ValueOf(target)
	if target == nil || v.Kind() != reflect.Ptr || v.IsNil() {
		return nil, errors.Errorf("graft.Populate expected a non-nil pointer, got %T", target)
	}

	v = v.Elem()
	t := v.Type()
	if !isIn(t) {
		return []Member{valueMember(v, dig.TypeKey(t))}, nil
	}

	var members []Member
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == _inType {
			continue
		}
		if !f.IsExported() {
			return nil, fmt.Errorf("bad field %q of %v: unexported fields not allowed in graft.In", f.Name, t)
		}
		members = append(members, valueMember(v.Field(i), dig.Key{Type: f.Type, Qualifier: f.Tag.Get("name")}))
	}
	return members, nil
}

func valueMember(v reflect.Value, key dig.Key) Member {
	return Member{
		Key: key,
		Set: func(x interface{}) error {
			xv := valueOf(v.Type(), x)
			if !xv.Type().AssignableTo(v.Type()) {
				return errors.Errorf("cannot assign %v to %v", xv.Type(), v.Type())
			}
			v.Set(xv)
			return nil
		},
	}
}
