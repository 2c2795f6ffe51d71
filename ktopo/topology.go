package ktopo

import "slices"

// Topology is an immutable, validated network description.
type Topology struct {
	graph *Graph
}

// Nodes returns all nodes in insertion order.
func (t *Topology) Nodes() []*Node {
	nodes := make([]*Node, 0, len(t.graph.NodeOrder))
	for _, id := range t.graph.NodeOrder {
		nodes = append(nodes, t.graph.Nodes[id])
	}
	return nodes
}

// Node returns the node with the given id.
func (t *Topology) Node(id NodeID) (*Node, bool) {
	node, ok := t.graph.Nodes[id]
	return node, ok
}

// Edges returns all edges in connection order.
func (t *Topology) Edges() []*Edge {
	edges := make([]*Edge, 0, len(t.graph.EdgeOrder))
	for _, id := range t.graph.EdgeOrder {
		edges = append(edges, t.graph.Edges[id])
	}
	return edges
}

// Seeds returns the registered seeds in registration order.
func (t *Topology) Seeds() []Seed {
	return slices.Clone(t.graph.Seeds)
}

// ValidateSeeded checks that the network can make progress: every cycle
// passes through a seeded node and every node is reachable from one.
func (t *Topology) ValidateSeeded() error {
	return t.graph.ValidateSeeded()
}
