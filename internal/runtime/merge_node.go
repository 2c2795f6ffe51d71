package runtime

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
)

// MergeInputs is the number of ascending streams a merge node combines.
const MergeInputs = 3

// MergeStrategy selects how a merge node synchronizes its inputs.
type MergeStrategy int

const (
	// MergeBarrier runs one reader per input. Readers expose the head of their
	// input and meet at a barrier whose action does the compare and drain.
	MergeBarrier MergeStrategy = iota
	// MergeCoordinator runs a single goroutine that holds the head of every
	// input and does the compare and drain itself.
	MergeCoordinator
)

func (s MergeStrategy) String() string {
	switch s {
	case MergeBarrier:
		return "barrier"
	case MergeCoordinator:
		return "coordinator"
	default:
		return "unknown"
	}
}

// ParseMergeStrategy is the inverse of MergeStrategy.String.
func ParseMergeStrategy(s string) (MergeStrategy, error) {
	switch s {
	case "barrier":
		return MergeBarrier, nil
	case "coordinator":
		return MergeCoordinator, nil
	default:
		return 0, fmt.Errorf("unknown merge strategy %q", s)
	}
}

// MergeNode merges ascending input streams into one strictly ascending
// output stream. Values present at the head of several inputs in the same
// round are emitted once.
type MergeNode struct {
	base
	strategy MergeStrategy

	// Only touched by the goroutine completing a round.
	last    Value
	emitted bool
}

func NewMergeNode(id string, strategy MergeStrategy, opts ...Option) *MergeNode {
	return &MergeNode{
		base:     newBase(id, MergeInputs, 1, newOptions(opts)),
		strategy: strategy,
	}
}

func (n *MergeNode) Run(ctx context.Context) error {
	ctx, done := n.begin(ctx)
	defer done()

	var err error
	switch n.strategy {
	case MergeCoordinator:
		err = n.runCoordinator(ctx)
	default:
		err = n.runBarrier(ctx)
	}
	return exitErr(ctx, err)
}

func (n *MergeNode) runBarrier(ctx context.Context) error {
	// One slot per input, written by that input's reader before it arrives at
	// the barrier and read by the barrier action.
	round := make([]Value, len(n.inputs))

	barrier := NewBarrier(len(n.inputs), func() error {
		return n.drainRound(round)
	})

	g, gctx := errgroup.WithContext(ctx)
	for i, in := range n.inputs {
		g.Go(func() error {
			for {
				v, err := in.PopFront(gctx)
				if err != nil {
					return err
				}
				round[i] = v
				in.PushFront(v)

				if err := barrier.Await(gctx); err != nil {
					return err
				}
			}
		})
	}
	return g.Wait()
}

// drainRound runs while every reader waits at the barrier, so the head of
// each input is the value recorded for it in round.
func (n *MergeNode) drainRound(round []Value) error {
	minimum := slices.Min(round)

	drained := 0
	for _, in := range n.inputs {
		v, ok := in.TryPopFront()
		if !ok {
			return fmt.Errorf("node %s: input %s lost its head", n.id, in.Name())
		}
		if v > minimum {
			in.PushFront(v)
		} else {
			drained++
		}
	}

	clear(round)
	return n.emit(minimum, drained)
}

func (n *MergeNode) runCoordinator(ctx context.Context) error {
	heads := make([]Value, len(n.inputs))
	held := make([]bool, len(n.inputs))

	// Borrowed heads go back to the front of their inputs on exit.
	defer func() {
		for i, in := range n.inputs {
			if held[i] {
				in.PushFront(heads[i])
			}
		}
	}()

	for {
		for i, in := range n.inputs {
			if held[i] {
				continue
			}
			v, err := in.PopFront(ctx)
			if err != nil {
				return err
			}
			heads[i] = v
			held[i] = true
		}

		minimum := slices.Min(heads)
		drained := 0
		for i := range heads {
			if heads[i] == minimum {
				held[i] = false
				drained++
			}
		}

		if err := n.emit(minimum, drained); err != nil {
			return err
		}
	}
}

func (n *MergeNode) emit(v Value, drained int) error {
	if n.emitted && v <= n.last {
		return fmt.Errorf("%w: node %s would emit %d after %d", ErrOrderViolation, n.id, v, n.last)
	}
	n.last = v
	n.emitted = true

	out := n.outputs[0]
	out.PushBack(v)

	n.metrics.MergeRound(drained)
	for _, in := range n.inputs {
		n.metrics.ChannelDepth(in.Name(), in.Len())
	}
	n.log.V(2).Info("Merged", "value", v, "drained", drained)
	return nil
}
