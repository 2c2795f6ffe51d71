package hamming

import (
	"fmt"

	"github.com/birdayz/hamming/internal/runtime"
	"github.com/birdayz/hamming/ktopo"
)

const (
	nodeMult2  ktopo.NodeID = "mult2"
	nodeMult3  ktopo.NodeID = "mult3"
	nodeMult5  ktopo.NodeID = "mult5"
	nodeCopy4  ktopo.NodeID = "copy4"
	nodeMerge3 ktopo.NodeID = "merge3"
	nodePrint1 ktopo.NodeID = "print1"
)

// Seed is the value the cycle starts from.
const Seed Value = 1

// buildTopology describes the fixed network. Connections are made from the
// terminal node backwards.
func buildTopology(seed bool) (*ktopo.Topology, error) {
	b := ktopo.NewBuilder()

	for _, m := range []struct {
		id     ktopo.NodeID
		factor int64
	}{{nodeMult2, 2}, {nodeMult3, 3}, {nodeMult5, 5}} {
		if err := b.AddTransform(m.id, m.factor); err != nil {
			return nil, err
		}
	}
	if err := b.AddFanOut(nodeCopy4); err != nil {
		return nil, err
	}
	if err := b.AddMerge(nodeMerge3); err != nil {
		return nil, err
	}
	if err := b.AddSink(nodePrint1); err != nil {
		return nil, err
	}

	for _, e := range [][2]ktopo.NodeID{
		{nodeCopy4, nodePrint1},
		{nodeCopy4, nodeMult2},
		{nodeCopy4, nodeMult3},
		{nodeCopy4, nodeMult5},
		{nodeMerge3, nodeCopy4},
		{nodeMult2, nodeMerge3},
		{nodeMult3, nodeMerge3},
		{nodeMult5, nodeMerge3},
	} {
		if _, err := b.Connect(e[0], e[1]); err != nil {
			return nil, err
		}
	}

	if seed {
		if err := b.Seed(nodeCopy4, Seed); err != nil {
			return nil, err
		}
	}

	topo, err := b.Build()
	if err != nil {
		return nil, err
	}
	if seed {
		if err := topo.ValidateSeeded(); err != nil {
			return nil, err
		}
	}
	return topo, nil
}

// newNode creates the runtime node for a topology node.
func (n *Network) newNode(node *ktopo.Node) (runtime.Wirable, error) {
	id := string(node.ID)
	opts := []runtime.Option{
		runtime.WithLogr(n.log),
		runtime.WithMetrics(n.metrics),
	}

	switch node.Type {
	case ktopo.NodeTypeTransform:
		return runtime.NewMultiplyNode(id, node.Factor, opts...), nil
	case ktopo.NodeTypeFanOut:
		return runtime.NewFanOutNode(id, len(node.Outputs), opts...)
	case ktopo.NodeTypeMerge:
		return runtime.NewMergeNode(id, n.strategy, opts...), nil
	case ktopo.NodeTypeSink:
		return runtime.NewSinkNode(id, n.count, n.signal, n.consumer, opts...), nil
	default:
		return nil, fmt.Errorf("%w: unsupported node type %s", ktopo.ErrInvalidTopology, node.Type)
	}
}
