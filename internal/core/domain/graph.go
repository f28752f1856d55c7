// Package domain contains the core types of the material shader pipeline.
package domain

import (
	"iter"
	"strings"

	"go.trai.ch/zerr"
)

// NodeGraph is a directed graph of material nodes with typed sockets.
// Nodes keep their declaration order, which makes every traversal deterministic.
type NodeGraph struct {
	nodes  map[InternedString]*Node
	order  []InternedString
	links  []Link
	output InternedString
}

// NewNodeGraph creates an empty NodeGraph.
func NewNodeGraph() *NodeGraph {
	return &NodeGraph{
		nodes: make(map[InternedString]*Node),
	}
}

// AddNode adds a node to the graph.
// It returns an error if a node with the same name already exists.
func (g *NodeGraph) AddNode(n *Node) error {
	if _, exists := g.nodes[n.Name]; exists {
		return zerr.With(zerr.Wrap(ErrNodeAlreadyExists, ""), "node", n.Name.String())
	}
	g.nodes[n.Name] = n.clone()
	g.order = append(g.order, n.Name)
	return nil
}

// Connect links the output socket fromSocket of node from to the input socket toSocket of node to.
func (g *NodeGraph) Connect(from, fromSocket, to, toSocket string) error {
	link := Link{
		From:       NewInternedString(from),
		FromSocket: NewInternedString(fromSocket),
		To:         NewInternedString(to),
		ToSocket:   NewInternedString(toSocket),
	}

	src, ok := g.nodes[link.From]
	if !ok {
		return zerr.With(zerr.Wrap(ErrMissingNode, ""), "node", from)
	}
	dst, ok := g.nodes[link.To]
	if !ok {
		return zerr.With(zerr.Wrap(ErrMissingNode, ""), "node", to)
	}
	out, ok := src.Output(link.FromSocket)
	if !ok {
		return zerr.With(zerr.With(zerr.Wrap(ErrMissingSocket, ""), "node", from), "socket", fromSocket)
	}
	in, ok := dst.Input(link.ToSocket)
	if !ok {
		return zerr.With(zerr.With(zerr.Wrap(ErrMissingSocket, ""), "node", to), "socket", toSocket)
	}
	if out.Type != in.Type {
		err := zerr.With(zerr.Wrap(ErrSocketTypeMismatch, ""), "from", from+"."+fromSocket)
		err = zerr.With(err, "to", to+"."+toSocket)
		return zerr.With(err, "types", out.Type.String()+" != "+in.Type.String())
	}
	if _, linked := g.LinkTo(link.To, link.ToSocket); linked {
		return zerr.With(zerr.With(zerr.Wrap(ErrInputAlreadyLinked, ""), "node", to), "socket", toSocket)
	}

	g.links = append(g.links, link)
	return nil
}

// SetOutput marks the node whose result the shader writes.
func (g *NodeGraph) SetOutput(name string) error {
	n := NewInternedString(name)
	if _, ok := g.nodes[n]; !ok {
		return zerr.With(zerr.Wrap(ErrMissingNode, ""), "node", name)
	}
	g.output = n
	return nil
}

// Output returns the output node: the one set with SetOutput, or the last declared node.
func (g *NodeGraph) Output() (InternedString, bool) {
	if !g.output.IsZero() {
		return g.output, true
	}
	if len(g.order) == 0 {
		return InternedString{}, false
	}
	return g.order[len(g.order)-1], true
}

// Node returns a copy of the named node.
func (g *NodeGraph) Node(name InternedString) (Node, bool) {
	n, ok := g.nodes[name]
	if !ok {
		return Node{}, false
	}
	return *n.clone(), true
}

// Len returns the number of nodes.
func (g *NodeGraph) Len() int {
	return len(g.order)
}

// Nodes yields the nodes in declaration order.
func (g *NodeGraph) Nodes() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, name := range g.order {
			if !yield(*g.nodes[name].clone()) {
				return
			}
		}
	}
}

// Links yields the links in declaration order.
func (g *NodeGraph) Links() iter.Seq[Link] {
	return func(yield func(Link) bool) {
		for _, l := range g.links {
			if !yield(l) {
				return
			}
		}
	}
}

// LinkTo returns the link feeding an input socket, if any.
func (g *NodeGraph) LinkTo(node, socket InternedString) (Link, bool) {
	for _, l := range g.links {
		if l.To == node && l.ToSocket == socket {
			return l, true
		}
	}
	return Link{}, false
}

// Clone returns an independent snapshot of the graph.
func (g *NodeGraph) Clone() *NodeGraph {
	c := &NodeGraph{
		nodes:  make(map[InternedString]*Node, len(g.nodes)),
		order:  append([]InternedString(nil), g.order...),
		links:  append([]Link(nil), g.links...),
		output: g.output,
	}
	for name, n := range g.nodes {
		c.nodes[name] = n.clone()
	}
	return c
}

// Upstream returns the nodes the output depends on, dependencies first.
// Inputs are visited in socket declaration order, so a node reached through
// several paths is placed by its first-declared consumer input.
func (g *NodeGraph) Upstream() ([]InternedString, error) {
	root, ok := g.Output()
	if !ok {
		return nil, ErrEmptyGraph
	}

	order := make([]InternedString, 0, len(g.nodes))
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		node, exists := g.nodes[u]
		if !exists {
			return zerr.With(zerr.Wrap(ErrMissingNode, ""), "node", u.String())
		}

		for _, in := range node.Inputs {
			link, linked := g.LinkTo(u, in.Name)
			if !linked {
				continue
			}
			if visited[link.From] == 1 {
				return buildCycleError(path, link.From)
			}
			if visited[link.From] == 0 {
				if err := visit(link.From); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		order = append(order, u)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []InternedString, dep InternedString) error {
	startIdx := 0
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	var b strings.Builder
	for _, node := range path[startIdx:] {
		b.WriteString(node.String())
		b.WriteString(" -> ")
	}
	b.WriteString(dep.String())
	return zerr.With(zerr.Wrap(ErrCyclicGraph, ""), "cycle", b.String())
}
