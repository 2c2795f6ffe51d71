package ktopo

import (
	"fmt"
)

// Builder constructs a network topology.
//
// IMPORTANT: Builder is NOT safe for concurrent use. All registration
// methods must be called from a single goroutine. The resulting Topology
// is immutable and safe to use concurrently.
type Builder struct {
	graph *Graph
}

// NewBuilder creates a new topology builder.
func NewBuilder() *Builder {
	return &Builder{
		graph: NewGraph(),
	}
}

// Build validates arity and finalizes the topology.
// Seeding is checked separately by Topology.ValidateSeeded.
func (b *Builder) Build() (*Topology, error) {
	if err := b.graph.Validate(); err != nil {
		return nil, err
	}
	return &Topology{graph: b.graph}, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Topology {
	topo, err := b.Build()
	if err != nil {
		panic(err)
	}
	return topo
}

// GetGraph returns the underlying graph for read-only access.
func (b *Builder) GetGraph() *Graph {
	return b.graph
}

// GetNode returns a node by ID if it exists.
func (b *Builder) GetNode(id NodeID) (*Node, bool) {
	node, ok := b.graph.Nodes[id]
	return node, ok
}

// AddTransform adds a node multiplying every value by factor.
func (b *Builder) AddTransform(id NodeID, factor int64) error {
	if factor <= 0 {
		return fmt.Errorf("%w: transform %s has non-positive factor %d", ErrInvalidTopology, id, factor)
	}
	return b.graph.AddNode(&Node{ID: id, Type: NodeTypeTransform, Factor: factor})
}

// AddFanOut adds a node copying every value to all of its children.
func (b *Builder) AddFanOut(id NodeID) error {
	return b.graph.AddNode(&Node{ID: id, Type: NodeTypeFanOut})
}

// AddMerge adds a node merging three ascending inputs.
func (b *Builder) AddMerge(id NodeID) error {
	return b.graph.AddNode(&Node{ID: id, Type: NodeTypeMerge})
}

// AddSink adds a terminal node.
func (b *Builder) AddSink(id NodeID) error {
	return b.graph.AddNode(&Node{ID: id, Type: NodeTypeSink})
}

// Connect adds a channel from parent to child. The order of calls defines
// the order of a node's inputs and outputs.
func (b *Builder) Connect(parent, child NodeID) (ChannelID, error) {
	return b.graph.AddEdge(parent, child)
}

// MustConnect is like Connect but panics on error.
func (b *Builder) MustConnect(parent, child NodeID) ChannelID {
	id, err := b.Connect(parent, child)
	if err != nil {
		panic(err)
	}
	return id
}

// Seed registers a value to be placed on the first input of node before
// the network starts.
func (b *Builder) Seed(node NodeID, value int64) error {
	if _, ok := b.graph.Nodes[node]; !ok {
		return fmt.Errorf("%w: seed target %s", ErrNodeNotFound, node)
	}
	b.graph.Seeds = append(b.graph.Seeds, Seed{Node: node, Value: value})
	return nil
}

// MustSeed is like Seed but panics on error.
func (b *Builder) MustSeed(node NodeID, value int64) {
	if err := b.Seed(node, value); err != nil {
		panic(err)
	}
}
