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
	"sync"

	"go.uber.org/multierr"
)

// Registry is the immutable set of bindings of one component instance.
//
// A Registry sees every key of its ancestors; ancestors never see the keys
// of their descendants.
type Registry struct {
	name   string
	scope  string
	parent *Registry

	bindings map[Key]*Binding
	contribs map[Key][]*Binding
	declared map[Key]struct{}
	keys     []Key

	mu         sync.Mutex
	aggregates map[Key]*Binding
	plans      map[Key]*Plan
}

// RegistryOption configures a Registry.
type RegistryOption interface {
	applyRegistry(*Registry)
}

type inScope string

func (s inScope) applyRegistry(r *Registry) { r.scope = string(s) }

// InScope sets the singleton scope owned by the component of the
// registry. Bindings scoped Singleton(scope) may only be declared in a
// registry owning that scope.
func InScope(scope string) RegistryOption {
	return inScope(scope)
}

// NewRegistry builds a registry from bindings. Every ambiguity is
// reported at once, combined with go.uber.org/multierr.
func NewRegistry(name string, parent *Registry, bindings []*Binding, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		name:       name,
		parent:     parent,
		bindings:   make(map[Key]*Binding),
		contribs:   make(map[Key][]*Binding),
		declared:   make(map[Key]struct{}),
		aggregates: make(map[Key]*Binding),
		plans:      make(map[Key]*Plan),
	}
	for _, opt := range opts {
		opt.applyRegistry(r)
	}

	var errs error
	if r.scope != "" {
		for p := parent; p != nil; p = p.parent {
			if p.scope == r.scope {
				errs = multierr.Append(errs, fmt.Errorf(
					"%q cannot own scope %q: already owned by ancestor %q", name, r.scope, p.name))
				break
			}
		}
	}

	for _, b := range bindings {
		errs = multierr.Append(errs, r.register(b))
	}
	errs = multierr.Append(errs, r.checkMapKeys())
	if errs != nil {
		return nil, errs
	}
	return r, nil
}

// register adds b under its Key.
func (r *Registry) register(b *Binding) error {
	if b == nil {
		return errNilBinding
	}
	if err := b.validate(); err != nil {
		return err
	}

	if _, seen := r.bindings[b.Key]; !seen && !r.multiboundHere(b.Key) {
		r.keys = append(r.keys, b.Key)
	}

	switch b.Kind {
	case ContributionBinding:
		if existing := r.visibleBinding(b.Key); existing != nil {
			return r.ambiguous(b.Key, existing, b)
		}
		b.slot = r.visibleContributions(b.Key) + 1
		r.contribs[b.Key] = append(r.contribs[b.Key], b)
	case MultibindingDeclaration:
		if existing := r.visibleBinding(b.Key); existing != nil {
			return r.ambiguous(b.Key, existing, b)
		}
		r.declared[b.Key] = struct{}{}
	default:
		if existing := r.visibleBinding(b.Key); existing != nil {
			return r.ambiguous(b.Key, existing, b)
		}
		if r.multibound(b.Key) {
			return &AmbiguousBindingError{
				Key:      b.Key,
				Registry: r.name,
				Bindings: []string{"multibinding", b.label()},
			}
		}
		r.bindings[b.Key] = b
	}
	return nil
}

func (r *Registry) ambiguous(k Key, bindings ...*Binding) error {
	names := make([]string, len(bindings))
	for i, b := range bindings {
		names[i] = b.label()
	}
	return &AmbiguousBindingError{Key: k, Registry: r.name, Bindings: names}
}

// visibleBinding returns the non-multibinding for k in r or its
// ancestors.
func (r *Registry) visibleBinding(k Key) *Binding {
	for cur := r; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[k]; ok {
			return b
		}
	}
	return nil
}

// visibleContributions counts the contributions to k in r and its
// ancestors. Slots stay unique along a parent chain, which is all a
// resolution cache can see.
func (r *Registry) visibleContributions(k Key) int {
	n := 0
	for cur := r; cur != nil; cur = cur.parent {
		n += len(cur.contribs[k])
	}
	return n
}

func (r *Registry) multiboundHere(k Key) bool {
	_, declared := r.declared[k]
	return declared || len(r.contribs[k]) > 0
}

// multibound reports whether any registry visible from r has contributions
// or a declaration for k.
func (r *Registry) multibound(k Key) bool {
	for cur := r; cur != nil; cur = cur.parent {
		if cur.multiboundHere(k) {
			return true
		}
	}
	return false
}

// Name returns the name of the component owning the registry.
func (r *Registry) Name() string { return r.name }

// Scope returns the singleton scope owned by the registry's component.
func (r *Registry) Scope() string { return r.scope }

// Parent returns the parent registry, or nil.
func (r *Registry) Parent() *Registry { return r.parent }

// Keys returns the keys declared in this registry, not its ancestors, in
// declaration order.
func (r *Registry) Keys() []Key {
	keys := make([]Key, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Has reports whether k can be looked up from r.
func (r *Registry) Has(k Key) bool {
	return r.visibleBinding(k) != nil || r.multibound(k)
}

// Lookup returns the binding for k visible from r and the registry that
// declares it. Multibound keys resolve to a synthetic AggregateBinding
// owned by r.
func (r *Registry) Lookup(k Key) (*Binding, *Registry, error) {
	for cur := r; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[k]; ok {
			return b, cur, nil
		}
	}
	if r.multibound(k) {
		return r.aggregate(k), r, nil
	}
	return nil, nil, &UnsatisfiedDependencyError{Key: k, Requester: "root request", Registry: r.name}
}

// Plan returns the memoized construction plan of k.
func (r *Registry) Plan(k Key) (*Plan, error) {
	r.mu.Lock()
	p, ok := r.plans[k]
	r.mu.Unlock()
	if ok {
		return p, nil
	}

	p, err := ResolveGraph(r, k)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.plans[k]; ok {
		return existing, nil
	}
	r.plans[k] = p
	return p, nil
}
