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
)

// Node is one binding of a Plan together with the resolved nodes of its
// dependencies.
type Node struct {
	Binding *Binding

	// Owner is the registry that declares Binding. Dependencies of the
	// binding are looked up from Owner.
	Owner *Registry

	// Deps are aligned with Binding.Deps, or with the contributions of an
	// aggregate binding.
	Deps []*Node

	// Fields are aligned with Binding.Fields.
	Fields []*Node
}

// Key returns the key produced by the node.
func (n *Node) Key() Key { return n.Binding.Key }

func (n *Node) String() string {
	return fmt.Sprintf("%v in %q", n.Binding, n.Owner.name)
}

// Plan is the validated construction plan of a set of root keys.
type Plan struct {
	// Roots are aligned with the keys passed to ResolveGraph.
	Roots []*Node

	// Order lists every reachable node after all of its dependencies.
	Order []*Node
}

// Keys returns the keys of Order. Multibinding contributions repeat the
// key of their aggregate.
func (p *Plan) Keys() []Key {
	keys := make([]Key, len(p.Order))
	for i, n := range p.Order {
		keys[i] = n.Key()
	}
	return keys
}

// Len returns the number of nodes in the plan.
func (p *Plan) Len() int { return len(p.Order) }
