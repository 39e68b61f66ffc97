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

package graphspec

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/graftdi/graft/dig"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Value is what every declared binding builds.
type Value struct {
	Key       string
	Component string

	// Deps and Fields hold the resolved values in declaration order.
	Deps   []any
	Fields []any

	// Instance is set for values supplied at creation.
	Instance bool
}

func (v *Value) String() string {
	return fmt.Sprintf("%s@%s", v.Key, v.Component)
}

var (
	_valueType = reflect.TypeOf((*Value)(nil))
	_setType   = reflect.SliceOf(_valueType)
	_mapType   = reflect.MapOf(reflect.TypeOf(""), _valueType)
)

// Instance is one compiled component instance. Subcomponents reachable
// from the root are compiled under their parent.
type Instance struct {
	Component Component
	Path      []string
	Registry  *dig.Registry
	Resolver  *dig.Resolver
	Children  []*Instance

	keys map[string]dig.Key
}

// Name returns the instance path joined with "/".
func (i *Instance) Name() string {
	return strings.Join(i.Path, "/")
}

// Key returns the dig Key of a declared key name.
func (i *Instance) Key(name string) dig.Key {
	return keyOf(i.keys, name)
}

// EntryKeys returns the keys of the component's entries.
func (i *Instance) EntryKeys() []dig.Key {
	keys := make([]dig.Key, len(i.Component.Entries))
	for j, e := range i.Component.Entries {
		keys[j] = i.Key(e)
	}
	return keys
}

// Plan returns the construction plan of the component's entries.
func (i *Instance) Plan() (*dig.Plan, error) {
	return dig.ResolveGraph(i.Registry, i.EntryKeys()...)
}

// Resolve builds the value of the named key.
func (i *Instance) Resolve(name string) (any, error) {
	return i.Resolver.Resolve(i.Key(name))
}

// Find returns the instance at path, relative to i. Path elements are
// separated by "/" and the first one names i itself.
func (i *Instance) Find(path string) (*Instance, bool) {
	parts := strings.Split(path, "/")
	if parts[0] != i.Component.Name {
		return nil, false
	}
	cur := i
	for _, p := range parts[1:] {
		var next *Instance
		for _, c := range cur.Children {
			if c.Component.Name == p {
				next = c
				break
			}
		}
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Walk calls fn for i and every instance below it, parents first.
func (i *Instance) Walk(fn func(*Instance) error) error {
	if err := fn(i); err != nil {
		return err
	}
	for _, c := range i.Children {
		if err := c.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// Compile builds the registries of the root component and of every
// subcomponent below it. All structural errors are reported together.
func (g *Graph) Compile(opts ...dig.ResolverOption) (*Instance, error) {
	keys, err := g.keyTypes()
	if err != nil {
		return nil, err
	}

	c := compiler{graph: g, keys: keys, opts: opts}
	root, _ := g.Component(g.Root)
	inst := c.compile(root, nil, nil)
	return inst, c.errs
}

type compiler struct {
	graph *Graph
	keys  map[string]dig.Key
	opts  []dig.ResolverOption
	errs  error
}

func (c *compiler) compile(comp Component, parent *Instance, path []string) *Instance {
	path = append(append([]string(nil), path...), comp.Name)
	for _, p := range path[:len(path)-1] {
		if p == comp.Name {
			c.errs = multierr.Append(c.errs, errors.Errorf(
				"subcomponent cycle: %s", strings.Join(path, " -> ")))
			return nil
		}
	}

	var (
		parentReg   *dig.Registry
		parentCache *dig.Cache
	)
	if parent != nil {
		parentReg = parent.Registry
		parentCache = parent.Resolver.Cache()
	}

	var regOpts []dig.RegistryOption
	if comp.Scope != "" {
		regOpts = append(regOpts, dig.InScope(comp.Scope))
	}
	name := strings.Join(path, "/")
	reg, err := dig.NewRegistry(name, parentReg, c.bindings(comp), regOpts...)
	if err != nil {
		c.errs = multierr.Append(c.errs, err)
		return nil
	}

	cache := dig.NewCache(comp.Scope, parentCache)
	var resolver *dig.Resolver
	if parent == nil {
		resolver = dig.NewResolver(reg, cache, c.opts...)
	} else if resolver, err = parent.Resolver.Child(reg, cache); err != nil {
		c.errs = multierr.Append(c.errs, err)
		return nil
	}

	inst := &Instance{
		Component: comp,
		Path:      path,
		Registry:  reg,
		Resolver:  resolver,
		keys:      c.keys,
	}
	if _, err := inst.Plan(); err != nil {
		c.errs = multierr.Append(c.errs, err)
	}

	for _, sub := range comp.Subcomponents {
		def, _ := c.graph.Component(sub)
		if child := c.compile(def, inst, path); child != nil {
			inst.Children = append(inst.Children, child)
		}
	}
	return inst
}

func (c *compiler) bindings(comp Component) []*dig.Binding {
	bindings := make([]*dig.Binding, 0, len(comp.Instances)+len(comp.Bindings))
	for _, name := range comp.Instances {
		bindings = append(bindings, &dig.Binding{
			Kind:  dig.InstanceBinding,
			Key:   keyOf(c.keys, name),
			Value: &Value{Key: name, Component: comp.Name, Instance: true},
			Name:  "instance " + name,
		})
	}
	for _, b := range comp.Bindings {
		bindings = append(bindings, c.binding(comp, b))
	}
	return bindings
}

func (c *compiler) binding(comp Component, b Binding) *dig.Binding {
	key, component := b.Key, comp.Name
	db := &dig.Binding{
		Kind:  dig.ProviderBinding,
		Key:   keyOf(c.keys, key),
		Scope: scopeOf(b.Scope),
		Deps:  c.keyList(b.Deps),
		Name:  fmt.Sprintf("%s.%s", component, key),
		Build: func(args []any) (any, error) {
			return &Value{Key: key, Component: component, Deps: args}, nil
		},
	}

	switch {
	case b.Declare:
		return &dig.Binding{
			Kind: dig.MultibindingDeclaration,
			Key:  db.Key,
			Name: db.Name,
		}
	case b.Into == IntoMap:
		db.Kind = dig.ContributionBinding
		db.MapKey = b.MapKey
		db.Name = fmt.Sprintf("%s.%s[%s]", component, key, b.MapKey)
	case b.Into == IntoSet:
		db.Kind = dig.ContributionBinding
	case len(b.Fields) > 0:
		db.Kind = dig.ConstructorBinding
		db.Fields = c.keyList(b.Fields)
		db.Inject = func(instance any, values []any) error {
			instance.(*Value).Fields = values
			return nil
		}
	}
	return db
}

func (c *compiler) keyList(names []string) []dig.Key {
	if len(names) == 0 {
		return nil
	}
	keys := make([]dig.Key, len(names))
	for i, n := range names {
		keys[i] = keyOf(c.keys, n)
	}
	return keys
}

// keyTypes decides the type behind every multibound key name. A name
// contributed to both a set and a map is an error.
func (g *Graph) keyTypes() (map[string]dig.Key, error) {
	keys := make(map[string]dig.Key)
	var errs error
	for _, comp := range g.Components {
		for _, b := range comp.Bindings {
			if b.Into == "" {
				continue
			}
			t := _setType
			if b.Into == IntoMap {
				t = _mapType
			}
			k := dig.TypeKey(t).Named(b.Key)
			if prev, ok := keys[b.Key]; ok && prev != k {
				errs = multierr.Append(errs, errors.Errorf(
					"key %q is contributed to both a set and a map", b.Key))
				continue
			}
			keys[b.Key] = k
		}
	}
	return keys, errs
}

func keyOf(keys map[string]dig.Key, name string) dig.Key {
	if k, ok := keys[name]; ok {
		return k
	}
	return dig.TypeKey(_valueType).Named(name)
}

func scopeOf(name string) dig.Scope {
	switch name {
	case "":
		return dig.Unscoped
	case Reusable:
		return dig.Reusable
	default:
		return dig.Singleton(name)
	}
}
