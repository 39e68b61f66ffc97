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
	"github.com/pkg/errors"
)

// IntoMap contributes one entry to a map multibinding. The map's key type
// is the type of mapKey and its value type is the type produced by
// target, so
//
//	graft.IntoMap("espresso", NewEspressoRecipe)
//
// contributes to map[string]*EspressoRecipe. target may be a constructor,
// a plain value, or an Annotated wrapping either: Annotated.As sets the
// map's value type, Annotated.Name qualifies the map and Annotated.Scope
// scopes this one contribution.
//
// Contributions of a component and of its ancestors are merged when the
// map is requested. Contributing the same map key twice to a map visible
// from one component fails Build.
func IntoMap(mapKey, target interface{}) Option {
	return contributionOption{
		MapKey: mapKey,
		Target: target,
		Stack:  graftreflect.CallerStack(1, 0),
	}
}

// IntoSet contributes one element to a set multibinding, a slice of the
// type produced by target. Elements are ordered by declaration, the
// contributions of ancestors first.
//
//	graft.IntoSet(graft.Annotated{Target: NewAuditLog, As: new(Listener)})
//
// contributes to []Listener.
func IntoSet(target interface{}) Option {
	return contributionOption{
		Set:    true,
		Target: target,
		Stack:  graftreflect.CallerStack(1, 0),
	}
}

type contributionOption struct {
	Set    bool
	MapKey interface{}
	Target interface{}
	Stack  graftreflect.Stack
}

func (o contributionOption) apply(mod *module) {
	b, err := o.binding()
	if err != nil {
		mod.fail(fmt.Errorf("%v from:\n%+vFailed: %w", o, o.Stack, err))
		return
	}
	mod.declare(b, false)
}

func (o contributionOption) binding() (*dig.Binding, error) {
	target, ann := o.Target, annotation{}
	if a, ok := target.(Annotated); ok {
		var err error
		if ann, err = a.annotation(); err != nil {
			return nil, err
		}
		target = a.Target
	}
	if target == nil {
		return nil, errors.New("cannot contribute nil")
	}

	var b *dig.Binding
	if reflect.TypeOf(target).Kind() == reflect.Func {
		var err error
		if b, err = newFuncBinding(target, dig.ContributionBinding, annotation{scope: ann.scope}); err != nil {
			return nil, err
		}
	} else {
		value := target
		b = &dig.Binding{
			Kind:  dig.ContributionBinding,
			Key:   dig.TypeKey(reflect.TypeOf(value)),
			Scope: ann.scope,
			Name:  fmt.Sprintf("%T", value),
			Build: func([]interface{}) (interface{}, error) { return value, nil },
		}
	}

	elem, err := ann.outputType(b.Key.Type)
	if err != nil {
		return nil, err
	}

	if o.Set {
		b.Key = dig.Key{Type: reflect.SliceOf(elem), Qualifier: ann.name}
		return b, nil
	}

	if o.MapKey == nil {
		return nil, errors.New("map key cannot be nil")
	}
	kt := reflect.TypeOf(o.MapKey)
	if !kt.Comparable() {
		return nil, errors.Errorf("map key %v of type %v is not comparable", o.MapKey, kt)
	}
	b.Key = dig.Key{Type: reflect.MapOf(kt, elem), Qualifier: ann.name}
	b.MapKey = o.MapKey
	return b, nil
}

func (o contributionOption) String() string {
	if o.Set {
		return fmt.Sprintf("graft.IntoSet(%v)", describe(o.Target))
	}
	return fmt.Sprintf("graft.IntoMap(%#v, %v)", o.MapKey, describe(o.Target))
}

// Multibinds declares a map or set multibinding that may have no
// contributions. Requesting it then yields an empty map or slice instead
// of failing with a missing binding.
func Multibinds[T any](opts ...KeyOption) Option {
	return multibindsOption{
		Key:   KeyOf[T](opts...),
		Stack: graftreflect.CallerStack(1, 0),
	}
}

type multibindsOption struct {
	Key   dig.Key
	Stack graftreflect.Stack
}

func (o multibindsOption) apply(mod *module) {
	switch o.Key.Type.Kind() {
	case reflect.Map, reflect.Slice:
	default:
		mod.fail(fmt.Errorf("%v from:\n%+vFailed: multibinding must be a map or a slice", o, o.Stack))
		return
	}
	mod.declare(&dig.Binding{
		Kind: dig.MultibindingDeclaration,
		Key:  o.Key,
		Name: o.String(),
	}, false)
}

func (o multibindsOption) String() string {
	return fmt.Sprintf("graft.Multibinds[%v]()", o.Key)
}
