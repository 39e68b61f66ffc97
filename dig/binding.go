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

// Kind tells how a Binding produces its value.
type Kind int

const (
	// ConstructorBinding is a type's own injectable constructor. It is the
	// only kind that may declare field injection.
	ConstructorBinding Kind = iota + 1

	// ProviderBinding is a function declared in a module.
	ProviderBinding

	// InstanceBinding is a value supplied when the component is created.
	InstanceBinding

	// ContributionBinding is one entry of a map or set multibinding.
	ContributionBinding

	// MultibindingDeclaration declares a map or set key that may have no
	// contributions at all.
	MultibindingDeclaration

	// AggregateBinding is synthesized by a Registry for multibound keys.
	AggregateBinding
)

func (k Kind) String() string {
	switch k {
	case ConstructorBinding:
		return "constructor"
	case ProviderBinding:
		return "provider"
	case InstanceBinding:
		return "instance"
	case ContributionBinding:
		return "contribution"
	case MultibindingDeclaration:
		return "multibinds"
	case AggregateBinding:
		return "aggregate"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Binding is a recipe for producing the value of a Key.
type Binding struct {
	Kind  Kind
	Key   Key
	Scope Scope

	// Deps are the keys passed to Build, in order.
	Deps []Key

	// Build produces the value from the resolved Deps.
	Build func(args []any) (any, error)

	// Value is the value of an InstanceBinding.
	Value any

	// Fields are keys injected into the value after Build returns. Inject
	// receives them in the same order. Only constructor bindings may
	// declare fields.
	Fields []Key
	Inject func(instance any, values []any) error

	// MapKey is the entry key of a map contribution.
	MapKey any

	// Name is a human-readable label for diagnostics, typically the
	// constructor's function name.
	Name string

	// slot tells apart contributions to the same Key along a registry's
	// parent chain.
	slot int

	// aggregates only
	contributions []*Binding
	sources       []*Registry
}

func (b *Binding) String() string {
	if b.Name != "" {
		return fmt.Sprintf("%v (%v %s)", b.Key, b.Kind, b.Name)
	}
	return fmt.Sprintf("%v (%v)", b.Key, b.Kind)
}

// label is used to name a binding as the requester of a dependency.
func (b *Binding) label() string {
	if b == nil {
		return "root request"
	}
	if b.Name != "" {
		return b.Name
	}
	return b.Key.String()
}

// isMultibinding reports whether the binding feeds an aggregate.
func (b *Binding) isMultibinding() bool {
	return b.Kind == ContributionBinding || b.Kind == MultibindingDeclaration
}

func (b *Binding) validate() error {
	if b.Key.IsZero() {
		return fmt.Errorf("binding %v has no type", b)
	}
	switch b.Kind {
	case InstanceBinding:
		if len(b.Deps) > 0 || len(b.Fields) > 0 {
			return fmt.Errorf("instance binding %v cannot have dependencies", b.Key)
		}
		return nil
	case MultibindingDeclaration:
		return validateAggregateType(b.Key)
	case ContributionBinding:
		if err := validateAggregateType(b.Key); err != nil {
			return err
		}
		if b.Key.Type.Kind() == reflect.Map {
			if b.MapKey == nil {
				return fmt.Errorf("map contribution to %v has no map key", b.Key)
			}
			if !reflect.TypeOf(b.MapKey).AssignableTo(b.Key.Type.Key()) {
				return fmt.Errorf("map key %v (%T) is not assignable to %v",
					b.MapKey, b.MapKey, b.Key.Type.Key())
			}
			if !reflect.TypeOf(b.MapKey).Comparable() {
				return fmt.Errorf("map key %v (%T) is not comparable", b.MapKey, b.MapKey)
			}
		}
	case ConstructorBinding, ProviderBinding:
	default:
		return fmt.Errorf("binding %v has unsupported kind %v", b.Key, b.Kind)
	}

	if b.Build == nil {
		return fmt.Errorf("binding %v has no build function", b)
	}
	if len(b.Fields) > 0 {
		if b.Kind != ConstructorBinding {
			return fmt.Errorf("%v binding %v cannot declare injected fields", b.Kind, b.Key)
		}
		if b.Inject == nil {
			return fmt.Errorf("binding %v declares fields but no injector", b.Key)
		}
	}
	return nil
}

func validateAggregateType(k Key) error {
	switch k.Type.Kind() {
	case reflect.Map, reflect.Slice:
		return nil
	default:
		return fmt.Errorf("multibinding key %v must be a map or a slice", k)
	}
}
