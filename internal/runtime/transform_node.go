package runtime

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// TransformFunc is a pure unary function applied to every value.
type TransformFunc func(Value) (Value, error)

// Multiplier multiplies every value by a fixed positive factor.
type Multiplier Value

func (m Multiplier) Apply(v Value) (Value, error) {
	f := Value(m)
	if v > 0 && v > math.MaxInt64/f || v < 0 && v < math.MinInt64/f {
		return 0, fmt.Errorf("%w: %d * %d", ErrOverflow, v, f)
	}
	return v * f, nil
}

// TransformNode reads one value at a time from its input, transforms it and
// writes the result to its output. Results that overflow Value are dropped.
type TransformNode struct {
	base
	fn      TransformFunc
	dropped int64
}

// NewTransformNode creates a node applying fn.
func NewTransformNode(id string, fn TransformFunc, opts ...Option) *TransformNode {
	return &TransformNode{
		base: newBase(id, 1, 1, newOptions(opts)),
		fn:   fn,
	}
}

// NewMultiplyNode creates a node multiplying every value by factor.
func NewMultiplyNode(id string, factor Value, opts ...Option) *TransformNode {
	if factor <= 0 {
		panic(fmt.Sprintf("multiply node %s: factor must be positive, got %d", id, factor))
	}
	return NewTransformNode(id, Multiplier(factor).Apply, opts...)
}

func (n *TransformNode) Run(ctx context.Context) error {
	ctx, done := n.begin(ctx)
	defer done()

	in, out := n.inputs[0], n.outputs[0]
	for {
		v, err := in.PopFront(ctx)
		if err != nil {
			return exitErr(ctx, err)
		}

		res, err := n.fn(v)
		if errors.Is(err, ErrOverflow) {
			if n.dropped == 0 {
				n.log.Info("Value out of range, dropping", "in", v, "error", err.Error())
			}
			n.dropped++
			continue
		}
		if err != nil {
			return fmt.Errorf("node %s: %w", n.id, err)
		}

		out.PushBack(res)
		n.log.V(2).Info("Transformed", "in", v, "out", res)
	}
}
