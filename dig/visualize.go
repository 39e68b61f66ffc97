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
	"io"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
	"github.com/pkg/errors"
)

// Visualize writes p as a Graphviz DOT digraph. Edges point from a
// dependency to its dependent; field injections are dashed.
func Visualize(p *Plan, w io.Writer) error {
	g := graph.New(graph.StringHash, graph.Directed(), graph.Acyclic())

	ids := make(map[*Node]string, len(p.Order))
	for i, n := range p.Order {
		id := fmt.Sprintf("n%d", i)
		ids[n] = id
		err := g.AddVertex(id,
			graph.VertexAttribute("label", dotEscape(nodeLabel(n))),
			graph.VertexAttribute("shape", nodeShape(n.Binding)),
		)
		if err != nil {
			return errors.Wrapf(err, "add vertex for %v", n.Key())
		}
	}

	for _, n := range p.Order {
		for _, dep := range n.Deps {
			if err := addEdge(g, ids[dep], ids[n]); err != nil {
				return err
			}
		}
		for _, dep := range n.Fields {
			if err := addEdge(g, ids[dep], ids[n], graph.EdgeAttribute("style", "dashed")); err != nil {
				return err
			}
		}
	}

	return draw.DOT(g, w)
}

func addEdge(g graph.Graph[string, string], from, to string, opts ...func(*graph.EdgeProperties)) error {
	err := g.AddEdge(from, to, opts...)
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return errors.Wrapf(err, "add edge %s -> %s", from, to)
	}
	return nil
}

func nodeLabel(n *Node) string {
	label := n.Key().String()
	if !n.Binding.Scope.IsUnscoped() {
		label += "\\n" + n.Binding.Scope.String()
	}
	if n.Binding.Kind == ContributionBinding && n.Binding.MapKey != nil {
		label += fmt.Sprintf("\\nkey=%v", n.Binding.MapKey)
	}
	return label
}

func nodeShape(b *Binding) string {
	switch b.Kind {
	case InstanceBinding:
		return "note"
	case AggregateBinding:
		return "folder"
	case ContributionBinding:
		return "component"
	}
	if b.Scope.IsSingleton() {
		return "doubleoctagon"
	}
	return "box"
}

func dotEscape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
