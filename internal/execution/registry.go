package execution

import (
	"fmt"

	"github.com/birdayz/hamming/internal/runtime"
	"github.com/birdayz/hamming/ktopo"
)

// NodeFactory creates the runtime node for a topology node.
type NodeFactory func(node *ktopo.Node) (runtime.Wirable, error)

// Registry owns the runtime nodes and channels created from a topology.
type Registry struct {
	order    []ktopo.NodeID
	nodes    map[ktopo.NodeID]runtime.Wirable
	channels map[ktopo.ChannelID]*runtime.Channel
}

// Wire creates one runtime node per topology node and one channel per edge.
// Channels are attached in edge order, so every node sees its inputs and
// outputs in the order they were connected. Seed values are pushed onto the
// back of the seeded node's first input.
func Wire(topo *ktopo.Topology, factory NodeFactory) (*Registry, error) {
	r := &Registry{
		nodes:    make(map[ktopo.NodeID]runtime.Wirable),
		channels: make(map[ktopo.ChannelID]*runtime.Channel),
	}

	for _, node := range topo.Nodes() {
		rn, err := factory(node)
		if err != nil {
			return nil, fmt.Errorf("failed to create node %s: %w", node.ID, err)
		}
		r.nodes[node.ID] = rn
		r.order = append(r.order, node.ID)
	}

	for _, edge := range topo.Edges() {
		ch := runtime.NewChannel(string(edge.ID))
		if err := r.nodes[edge.From].AddOutput(ch); err != nil {
			return nil, fmt.Errorf("failed to wire %s: %w", edge.ID, err)
		}
		if err := r.nodes[edge.To].AddInput(ch); err != nil {
			return nil, fmt.Errorf("failed to wire %s: %w", edge.ID, err)
		}
		r.channels[edge.ID] = ch
	}

	for _, seed := range topo.Seeds() {
		node, _ := topo.Node(seed.Node)
		if len(node.Inputs) == 0 {
			return nil, fmt.Errorf("%w: seeded node %s has no input", ktopo.ErrInvalidTopology, seed.Node)
		}
		r.channels[node.Inputs[0]].PushBack(seed.Value)
	}

	return r, nil
}

// Nodes returns all nodes in topology order.
func (r *Registry) Nodes() []runtime.Node {
	nodes := make([]runtime.Node, 0, len(r.order))
	for _, id := range r.order {
		nodes = append(nodes, r.nodes[id])
	}
	return nodes
}

func (r *Registry) Node(id ktopo.NodeID) (runtime.Wirable, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

func (r *Registry) Channel(id ktopo.ChannelID) (*runtime.Channel, bool) {
	ch, ok := r.channels[id]
	return ch, ok
}
