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

// BindsInstance declares a value that is only known when the component
// is instantiated, such as a request or an Android activity. Every
// declared instance must be passed exactly once, with Instance, to Build
// or Graph.NewSubcomponent.
//
//	var Activity = graft.NewComponent("Activity",
//		graft.Scope("Activity"),
//		graft.BindsInstance[*MainActivity](),
//	)
//
//	sub, err := g.NewSubcomponent(Activity, graft.Instance(activity))
func BindsInstance[T any](opts ...KeyOption) Option {
	return bindsInstanceOption{
		Key:   KeyOf[T](opts...),
		Stack: graftreflect.CallerStack(1, 0),
	}
}

type bindsInstanceOption struct {
	Key   dig.Key
	Stack graftreflect.Stack
}

func (o bindsInstanceOption) apply(mod *module) {
	for _, k := range mod.comp.instances {
		if k == o.Key {
			mod.fail(fmt.Errorf("%v from:\n%+vFailed: instance %v already declared", o, o.Stack, o.Key))
			return
		}
	}
	mod.comp.instances = append(mod.comp.instances, o.Key)
}

func (o bindsInstanceOption) String() string {
	return fmt.Sprintf("graft.BindsInstance[%v]()", o.Key)
}

// Instance supplies the value of an instance declared with BindsInstance.
// Its key is T, refined by opts. To supply an interface, name it:
//
//	graft.Instance[Heater](heater)
func Instance[T any](v T, opts ...KeyOption) BuildOption {
	return instanceOption{
		Key:   KeyOf[T](opts...),
		Value: v,
		Stack: graftreflect.CallerStack(1, 0),
	}
}

type instanceOption struct {
	Key   dig.Key
	Value interface{}
	Stack graftreflect.Stack
}

func (o instanceOption) applyBuild(opts *buildOptions) {
	if _, ok := opts.instances[o.Key]; ok {
		opts.errs = append(opts.errs,
			fmt.Errorf("%v from:\n%+vFailed: instance %v supplied twice", o, o.Stack, o.Key))
		return
	}
	if opts.instances == nil {
		opts.instances = make(map[dig.Key]interface{})
	}
	opts.instances[o.Key] = o.Value
}

func (o instanceOption) String() string {
	return fmt.Sprintf("graft.Instance[%v]()", o.Key)
}

// instanceBindings binds the instances declared by c to the values
// supplied in opts. Every declared instance must be supplied, and every
// supplied instance declared.
func instanceBindings(c *Component, opts *buildOptions) ([]*dig.Binding, error) {
	var errs []error
	bindings := make([]*dig.Binding, 0, len(c.instances))
	declared := make(map[dig.Key]struct{}, len(c.instances))
	for _, k := range c.instances {
		declared[k] = struct{}{}
		v, ok := opts.instances[k]
		if !ok {
			errs = append(errs, fmt.Errorf(
				"component %q declares instance %v: pass graft.Instance to supply it", c.name, k))
			continue
		}
		bindings = append(bindings, &dig.Binding{
			Kind:  dig.InstanceBinding,
			Key:   k,
			Value: v,
			Name:  fmt.Sprintf("graft.Instance[%v]", k),
		})
	}
	for k := range opts.instances {
		if _, ok := declared[k]; !ok {
			errs = append(errs, fmt.Errorf(
				"instance %v was supplied but component %q does not declare it with graft.BindsInstance", k, c.name))
		}
	}
	return bindings, combine(errs)
}
