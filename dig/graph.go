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
	"go.uber.org/multierr"
)

type visitState int

const (
	white visitState = iota
	grey
	black
)

// planner performs the depth-first walk of ResolveGraph.
type planner struct {
	state map[*Binding]visitState
	nodes map[*Binding]*Node
	stack []*Binding
	order []*Node
}

// ResolveGraph validates every binding reachable from roots and returns
// the nodes in construction order. Errors of independent roots are
// combined; nothing is constructed.
func ResolveGraph(reg *Registry, roots ...Key) (*Plan, error) {
	p := &planner{
		state: make(map[*Binding]visitState),
		nodes: make(map[*Binding]*Node),
	}

	plan := &Plan{Roots: make([]*Node, 0, len(roots))}
	var errs error
	for _, k := range roots {
		n, err := p.visitKey(reg, k, nil)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		plan.Roots = append(plan.Roots, n)
	}
	if errs != nil {
		return nil, errs
	}

	plan.Order = p.order
	return plan, nil
}

// visitKey looks k up from reg on behalf of requester.
func (p *planner) visitKey(reg *Registry, k Key, requester *Binding) (*Node, error) {
	b, owner, err := reg.Lookup(k)
	if err != nil {
		return nil, &UnsatisfiedDependencyError{
			Key:       k,
			Requester: requester.label(),
			Registry:  reg.name,
		}
	}
	return p.visit(b, owner)
}

func (p *planner) visit(b *Binding, owner *Registry) (*Node, error) {
	switch p.state[b] {
	case black:
		return p.nodes[b], nil
	case grey:
		return nil, p.cycle(b)
	}

	if b.Scope.IsSingleton() && b.Scope.name != owner.scope {
		return nil, &ScopeMismatchError{
			Key:           b.Key,
			Scope:         b.Scope,
			Registry:      owner.name,
			RegistryScope: owner.scope,
		}
	}

	p.state[b] = grey
	p.stack = append(p.stack, b)
	n, err := p.expand(b, owner)
	p.stack = p.stack[:len(p.stack)-1]
	if err != nil {
		p.state[b] = white
		return nil, err
	}

	p.state[b] = black
	p.nodes[b] = n
	p.order = append(p.order, n)
	return n, nil
}

// expand visits the dependencies of b.
func (p *planner) expand(b *Binding, owner *Registry) (*Node, error) {
	n := &Node{Binding: b, Owner: owner}
	if b.Kind == AggregateBinding {
		for i, c := range b.contributions {
			dep, err := p.visit(c, b.sources[i])
			if err != nil {
				return nil, err
			}
			n.Deps = append(n.Deps, dep)
		}
		return n, nil
	}

	for _, k := range b.Deps {
		dep, err := p.visitKey(owner, k, b)
		if err != nil {
			return nil, err
		}
		n.Deps = append(n.Deps, dep)
	}
	for _, k := range b.Fields {
		dep, err := p.visitKey(owner, k, b)
		if err != nil {
			return nil, err
		}
		n.Fields = append(n.Fields, dep)
	}
	return n, nil
}

// cycle builds the error for a grey revisit of b.
func (p *planner) cycle(b *Binding) error {
	start := 0
	for i, s := range p.stack {
		if s == b {
			start = i
			break
		}
	}

	path := make([]Key, 0, len(p.stack)-start+1)
	for _, s := range p.stack[start:] {
		path = append(path, s.Key)
	}
	path = append(path, b.Key)
	return &CyclicDependencyError{Path: path}
}
