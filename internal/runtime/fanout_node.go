package runtime

import (
	"context"
	"fmt"
)

// MaxFanOut is the maximum number of outputs of a fan-out node.
const MaxFanOut = 16

// FanOutNode copies every value from its input to all of its outputs.
type FanOutNode struct {
	base
}

// NewFanOutNode creates a fan-out node with exactly k outputs.
func NewFanOutNode(id string, k int, opts ...Option) (*FanOutNode, error) {
	if k < 1 || k > MaxFanOut {
		return nil, fmt.Errorf("%w: fan-out node %s wants %d outputs, allowed 1..%d", ErrCapacity, id, k, MaxFanOut)
	}
	return &FanOutNode{
		base: newBase(id, 1, k, newOptions(opts)),
	}, nil
}

func (n *FanOutNode) Run(ctx context.Context) error {
	ctx, done := n.begin(ctx)
	defer done()

	in := n.inputs[0]
	for {
		v, err := in.PopFront(ctx)
		if err != nil {
			return exitErr(ctx, err)
		}

		// Every output sees values in the order they were read.
		for _, out := range n.outputs {
			out.PushBack(v)
		}
		n.log.V(2).Info("Copied", "value", v, "outputs", len(n.outputs))
	}
}
