package runtime

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/birdayz/hamming/kconsumer"
)

// SinkNode counts the values it receives and hands them to a consumer until
// the count exceeds its target. The value that exceeds the target is not
// handed over; instead the shutdown signal is sent.
type SinkNode struct {
	base
	target   int64
	signal   *Signal
	consumer kconsumer.Consumer
	count    atomic.Int64
}

func NewSinkNode(id string, target int, signal *Signal, consumer kconsumer.Consumer, opts ...Option) *SinkNode {
	return &SinkNode{
		base:     newBase(id, 1, 0, newOptions(opts)),
		target:   int64(target),
		signal:   signal,
		consumer: consumer,
	}
}

// Count returns how many values the sink has taken from its input.
func (n *SinkNode) Count() int64 {
	return n.count.Load()
}

func (n *SinkNode) Run(ctx context.Context) error {
	ctx, done := n.begin(ctx)
	defer done()

	in := n.inputs[0]
	for {
		v, err := in.PopFront(ctx)
		if err != nil {
			return exitErr(ctx, err)
		}

		if c := n.count.Add(1); c > n.target {
			n.log.Info("Target reached, requesting shutdown", "target", n.target)
			n.signal.Send()
			return nil
		}

		if err := n.consumer.Consume(ctx, v); err != nil {
			return exitErr(ctx, fmt.Errorf("node %s: consume %d: %w", n.id, v, err))
		}
		n.metrics.ValueEmitted()
		n.log.V(2).Info("Emitted", "value", v)
	}
}
