package ktopo

import (
	"errors"
	"fmt"
	"strings"
)

// MaxFanOut is the maximum number of children of a fan-out node.
const MaxFanOut = 16

// NodeID is a strongly-typed identifier for graph nodes.
// NodeIDs must be non-empty and cannot contain whitespace.
type NodeID string

// Validate checks if the NodeID is valid.
// Returns ErrInvalidNodeID if the ID is empty or contains whitespace.
func (id NodeID) Validate() error {
	if id == "" {
		return fmt.Errorf("%w: NodeID cannot be empty", ErrInvalidNodeID)
	}
	if strings.ContainsAny(string(id), " \t\n\r") {
		return fmt.Errorf("%w: NodeID %q cannot contain whitespace", ErrInvalidNodeID, id)
	}
	return nil
}

// ChannelID identifies the channel behind an edge.
type ChannelID string

// NodeType represents the kind of node in the topology
type NodeType int

const (
	NodeTypeTransform NodeType = iota
	NodeTypeFanOut
	NodeTypeMerge
	NodeTypeSink
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeTransform:
		return "Transform"
	case NodeTypeFanOut:
		return "FanOut"
	case NodeTypeMerge:
		return "Merge"
	case NodeTypeSink:
		return "Sink"
	default:
		return "Unknown"
	}
}

// Arity is the number of parents and children a node type needs.
// MaxOut may be larger than MinOut for node types with a variable number of
// children.
type Arity struct {
	In     int
	MinOut int
	MaxOut int
}

// Arity returns the arity of the node type.
func (t NodeType) Arity() Arity {
	switch t {
	case NodeTypeTransform:
		return Arity{In: 1, MinOut: 1, MaxOut: 1}
	case NodeTypeFanOut:
		return Arity{In: 1, MinOut: 1, MaxOut: MaxFanOut}
	case NodeTypeMerge:
		return Arity{In: 3, MinOut: 1, MaxOut: 1}
	case NodeTypeSink:
		return Arity{In: 1, MinOut: 0, MaxOut: 0}
	default:
		return Arity{}
	}
}

// Node is the build-time representation of a node.
type Node struct {
	ID   NodeID
	Type NodeType

	// Factor is the multiplier of a transform node.
	Factor int64

	// Incoming and outgoing edges in connection order.
	Inputs  []ChannelID
	Outputs []ChannelID
}

// Edge is a directed connection between two nodes, backed by one channel.
type Edge struct {
	ID   ChannelID
	From NodeID
	To   NodeID
}

// Seed is a value placed on a node's first input before the network starts.
type Seed struct {
	Node  NodeID
	Value int64
}

// Graph is the build-time topology representation.
// It contains only structural information - no runtime behavior.
type Graph struct {
	Nodes map[NodeID]*Node
	Edges map[ChannelID]*Edge
	Seeds []Seed

	// Deterministic ordering (insertion order)
	NodeOrder []NodeID
	EdgeOrder []ChannelID
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:     make(map[NodeID]*Node),
		Edges:     make(map[ChannelID]*Edge),
		NodeOrder: make([]NodeID, 0),
		EdgeOrder: make([]ChannelID, 0),
	}
}

// AddNode adds a node to the graph.
func (g *Graph) AddNode(node *Node) error {
	if err := node.ID.Validate(); err != nil {
		return err
	}
	if _, exists := g.Nodes[node.ID]; exists {
		return fmt.Errorf("%w: %s", ErrNodeAlreadyExists, node.ID)
	}
	g.Nodes[node.ID] = node
	g.NodeOrder = append(g.NodeOrder, node.ID)
	return nil
}

// AddEdge adds a directed edge from parent to child and returns the id of
// the channel backing it. Parallel edges get a numeric suffix.
func (g *Graph) AddEdge(parentID, childID NodeID) (ChannelID, error) {
	parent, ok := g.Nodes[parentID]
	if !ok {
		return "", fmt.Errorf("%w: parent %s", ErrNodeNotFound, parentID)
	}
	child, ok := g.Nodes[childID]
	if !ok {
		return "", fmt.Errorf("%w: child %s", ErrNodeNotFound, childID)
	}

	if err := parent.ValidateDownstream(child); err != nil {
		return "", fmt.Errorf("cannot connect %s -> %s: %w", parentID, childID, err)
	}

	id := ChannelID(fmt.Sprintf("%s_to_%s", parentID, childID))
	for i := 2; ; i++ {
		if _, exists := g.Edges[id]; !exists {
			break
		}
		id = ChannelID(fmt.Sprintf("%s_to_%s_%d", parentID, childID, i))
	}

	g.Edges[id] = &Edge{ID: id, From: parentID, To: childID}
	g.EdgeOrder = append(g.EdgeOrder, id)
	parent.Outputs = append(parent.Outputs, id)
	child.Inputs = append(child.Inputs, id)
	return id, nil
}

// ValidateDownstream checks if this node can get one more child and the
// child one more parent.
func (n *Node) ValidateDownstream(child *Node) error {
	if n.Type == NodeTypeSink {
		return fmt.Errorf("%w: sink nodes cannot have children", ErrInvalidTopology)
	}
	if max := n.Type.Arity().MaxOut; len(n.Outputs) >= max {
		return fmt.Errorf("%w: %s node %s has all %d outputs connected",
			ErrCapacity, n.Type, n.ID, max)
	}
	if in := child.Type.Arity().In; len(child.Inputs) >= in {
		return fmt.Errorf("%w: %s node %s has all %d inputs connected",
			ErrCapacity, child.Type, child.ID, in)
	}
	return nil
}

// Sentinel errors for common failure cases.
var (
	ErrNodeAlreadyExists = errors.New("node already exists")
	ErrNodeNotFound      = errors.New("node not found")
	ErrInvalidNodeID     = errors.New("invalid node ID")
	ErrInvalidTopology   = errors.New("invalid topology")
	ErrCapacity          = errors.New("node capacity exceeded")
	ErrUnseededCycle     = errors.New("cycle without seed")
	ErrOrphanedNodes     = errors.New("orphaned nodes found")
)
