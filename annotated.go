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
)

// Annotated annotates a constructor, a supplied value or a multibinding
// contribution, refining the binding it declares.
//
// For example,
//
//	graft.Provide(graft.Annotated{
//		Target: NewElectricHeater,
//		Scope:  graft.SingletonScope("App"),
//		As:     new(Heater),
//	})
//
// declares a provider of Heater, backed by NewElectricHeater, with one
// instance per component owning the "App" scope. It is equivalent to
// providing NewElectricHeater in the "App" scope and binding Heater to
// *ElectricHeater, without exposing *ElectricHeater itself.
type Annotated struct {
	// If specified, this will be used as the qualifier for the key
	// produced by the binding. For multibinding contributions, it
	// qualifies the map or slice key.
	//
	// Name is equivalent to graft.Named.
	Name string

	// Scope is the lifetime of the produced value. The zero value is
	// UnscopedScope. Supplied values cannot be scoped.
	Scope dig.Scope

	// As is a pointer to an interface, such as new(io.Writer). If
	// specified, the value is bound as that interface instead of its
	// own type.
	As interface{}

	// Target is the constructor, value or contribution being annotated.
	Target interface{}
}

func (a Annotated) String() string {
	var fields []string
	if len(a.Name) > 0 {
		fields = append(fields, fmt.Sprintf("Name: %q", a.Name))
	}
	if !a.Scope.IsUnscoped() {
		fields = append(fields, fmt.Sprintf("Scope: %v", a.Scope))
	}
	if a.As != nil {
		fields = append(fields, fmt.Sprintf("As: %v", reflect.TypeOf(a.As).Elem()))
	}
	if a.Target != nil {
		fields = append(fields, fmt.Sprintf("Target: %v", targetName(a.Target)))
	}
	return fmt.Sprintf("graft.Annotated{%v}", strings.Join(fields, ", "))
}

// annotation is the part of Annotated applied to an output type.
type annotation struct {
	name  string
	scope dig.Scope
	as    reflect.Type
}

func (a Annotated) annotation() (annotation, error) {
	ann := annotation{name: a.Name, scope: a.Scope}
	if a.As == nil {
		return ann, nil
	}

	t := reflect.TypeOf(a.As)
	if t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Interface {
		return ann, fmt.Errorf("graft.Annotated.As must be a pointer to an interface, such as new(io.Writer): got %v", t)
	}
	ann.as = t.Elem()
	return ann, nil
}

// outputType returns the type out is bound as.
func (ann annotation) outputType(out reflect.Type) (reflect.Type, error) {
	if ann.as == nil {
		return out, nil
	}
	if !out.Implements(ann.as) {
		return nil, fmt.Errorf("%v does not implement %v", out, ann.as)
	}
	return ann.as, nil
}

func (ann annotation) key(out reflect.Type) (dig.Key, error) {
	t, err := ann.outputType(out)
	if err != nil {
		return dig.Key{}, err
	}
	return dig.Key{Type: t, Qualifier: ann.name}, nil
}

// targetName names a constructor or a value for diagnostics.
func targetName(target interface{}) string {
	if reflect.TypeOf(target).Kind() == reflect.Func {
		return graftreflect.FuncName(target)
	}
	return fmt.Sprintf("%T", target)
}
