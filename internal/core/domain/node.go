package domain

import "maps"

// NodeKind selects the code generator used for a node.
type NodeKind string

// Node is a single material node.
type Node struct {
	Name    InternedString
	Kind    NodeKind
	Inputs  []Socket
	Outputs []Socket
	// Params holds kind specific settings such as the math operation.
	Params map[string]string
}

// Input looks up an input socket by name.
func (n *Node) Input(name InternedString) (Socket, bool) {
	return findSocket(n.Inputs, name)
}

// Output looks up an output socket by name.
func (n *Node) Output(name InternedString) (Socket, bool) {
	return findSocket(n.Outputs, name)
}

// Param returns a custom parameter, or def if it is not set.
func (n *Node) Param(key, def string) string {
	if v, ok := n.Params[key]; ok {
		return v
	}
	return def
}

func (n *Node) clone() *Node {
	c := *n
	c.Inputs = append([]Socket(nil), n.Inputs...)
	c.Outputs = append([]Socket(nil), n.Outputs...)
	c.Params = maps.Clone(n.Params)
	return &c
}

func findSocket(sockets []Socket, name InternedString) (Socket, bool) {
	for _, s := range sockets {
		if s.Name == name {
			return s, true
		}
	}
	return Socket{}, false
}

// Link connects an output socket of one node to an input socket of another.
type Link struct {
	From       InternedString
	FromSocket InternedString
	To         InternedString
	ToSocket   InternedString
}
