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
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Observer is notified of constructions and cache hits. Implementations
// must be safe for concurrent use.
type Observer interface {
	Constructed(key Key, scope Scope, runtime time.Duration, err error)
	CacheHit(key Key, scope Scope)
}

type nopObserver struct{}

func (nopObserver) Constructed(Key, Scope, time.Duration, error) {}
func (nopObserver) CacheHit(Key, Scope)                           {}

// ResolverOption configures a Resolver.
type ResolverOption interface {
	applyResolver(*Resolver)
}

type observerOption struct{ o Observer }

func (o observerOption) applyResolver(r *Resolver) { r.observer = o.o }

// WithObserver installs o on the resolver and every child created from it.
func WithObserver(o Observer) ResolverOption {
	return observerOption{o: o}
}

// Member is one injection point of an object that the graph does not
// construct: the key it wants and how to assign the resolved value.
type Member struct {
	Key Key
	Set func(value any) error
}

// Resolver constructs values of one component instance.
type Resolver struct {
	reg      *Registry
	cache    *Cache
	parent   *Resolver
	observer Observer
}

// NewResolver returns the resolver of a root component instance.
func NewResolver(reg *Registry, cache *Cache, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		reg:      reg,
		cache:    cache,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt.applyResolver(r)
	}
	return r
}

// Child returns the resolver of a subcomponent instance. reg must have
// been created with r's registry as its parent, and cache with r's cache
// as its parent.
func (r *Resolver) Child(reg *Registry, cache *Cache) (*Resolver, error) {
	if reg.parent != r.reg || cache.parent != r.cache {
		return nil, errParentMismatch
	}
	return &Resolver{
		reg:      reg,
		cache:    cache,
		parent:   r,
		observer: r.observer,
	}, nil
}

// Registry returns the registry of the resolver's component.
func (r *Resolver) Registry() *Registry { return r.reg }

// Cache returns the scope cache of the resolver's component.
func (r *Resolver) Cache() *Cache { return r.cache }

// Resolve returns the value of key, constructing whatever is missing.
func (r *Resolver) Resolve(key Key) (any, error) {
	plan, err := r.reg.Plan(key)
	if err != nil {
		return nil, err
	}
	return r.instantiate(plan.Roots[0], newResolutionCache())
}

// InjectInto resolves the key of every member and assigns it. The members'
// keys are validated together before anything is constructed; Reusable
// bindings are shared among the members.
func (r *Resolver) InjectInto(members ...Member) error {
	var errs error
	plans := make([]*Plan, len(members))
	for i, m := range members {
		p, err := r.reg.Plan(m.Key)
		errs = multierr.Append(errs, err)
		plans[i] = p
	}
	if errs != nil {
		return errs
	}

	rc := newResolutionCache()
	for i, m := range members {
		v, err := r.instantiate(plans[i].Roots[0], rc)
		if err != nil {
			return err
		}
		if err := m.Set(v); err != nil {
			return &ConstructionError{Key: m.Key, Cause: errors.Wrap(err, "assign injected member")}
		}
	}
	return nil
}

// owning returns the resolver whose registry declares n.
func (r *Resolver) owning(n *Node) (*Resolver, error) {
	for cur := r; cur != nil; cur = cur.parent {
		if cur.reg == n.Owner {
			return cur, nil
		}
	}
	return nil, fmt.Errorf("%v is not owned by %q or its ancestors", n.Key(), r.reg.name)
}

// instantiate returns the value of n, honoring its scope.
func (r *Resolver) instantiate(n *Node, rc *Cache) (any, error) {
	b := n.Binding
	if b.Kind == InstanceBinding {
		return b.Value, nil
	}

	owner, err := r.owning(n)
	if err != nil {
		return nil, err
	}

	ck, scoped, err := ScopeKeyFor(b, owner.cache, rc)
	if err != nil {
		return nil, err
	}
	if !scoped {
		return owner.construct(n, rc)
	}

	v, hit, err := ck.getOrCreate(func() (any, error) {
		return owner.construct(n, rc)
	})
	if hit {
		r.observer.CacheHit(b.Key, b.Scope)
	}
	return v, err
}

// construct builds n from freshly instantiated dependencies, then injects
// its fields.
func (r *Resolver) construct(n *Node, rc *Cache) (any, error) {
	b := n.Binding

	args := make([]any, len(n.Deps))
	for i, dep := range n.Deps {
		v, err := r.instantiate(dep, rc)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	var fields []any
	if len(n.Fields) > 0 {
		fields = make([]any, len(n.Fields))
		for i, dep := range n.Fields {
			v, err := r.instantiate(dep, rc)
			if err != nil {
				return nil, err
			}
			fields[i] = v
		}
	}

	begin := time.Now()
	v, err := call(b, args)
	if err == nil && b.Inject != nil && len(fields) > 0 {
		err = inject(b, v, fields)
	}
	r.observer.Constructed(b.Key, b.Scope, time.Since(begin), err)
	if err != nil {
		return nil, &ConstructionError{Key: b.Key, Cause: err}
	}
	return v, nil
}

func call(b *Binding, args []any) (v any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("panic: %v", p)
		}
	}()
	return b.Build(args)
}

func inject(b *Binding, instance any, values []any) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("panic during field injection: %v", p)
		}
	}()
	return errors.Wrap(b.Inject(instance, values), "inject fields")
}
