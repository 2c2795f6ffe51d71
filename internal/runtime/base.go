package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/birdayz/hamming/internal/metrics"
	"github.com/go-logr/logr"
)

// Option configures a node.
type Option func(*options)

type options struct {
	log     logr.Logger
	metrics *metrics.Metrics
}

// WithLogr sets the logger of a node.
func WithLogr(log logr.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithMetrics sets the metrics a node records to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func newOptions(opts []Option) options {
	o := options{log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// base holds what every node shares: identity, fixed arity, attached
// channels and the stop handle.
type base struct {
	id      string
	log     logr.Logger
	metrics *metrics.Metrics

	numInputs  int
	numOutputs int

	mu      sync.Mutex
	inputs  []*Channel
	outputs []*Channel
	cancel  context.CancelFunc
	closed  bool
}

func newBase(id string, numInputs, numOutputs int, o options) base {
	return base{
		id:         id,
		log:        o.log.WithValues("node", id),
		metrics:    o.metrics,
		numInputs:  numInputs,
		numOutputs: numOutputs,
		inputs:     make([]*Channel, 0, numInputs),
		outputs:    make([]*Channel, 0, numOutputs),
	}
}

func (b *base) ID() string {
	return b.id
}

func (b *base) AddInput(ch *Channel) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.inputs) == b.numInputs {
		return fmt.Errorf("%w: node %s accepts %d input(s)", ErrCapacity, b.id, b.numInputs)
	}
	b.inputs = append(b.inputs, ch)
	return nil
}

func (b *base) AddOutput(ch *Channel) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.numOutputs == 0 {
		return fmt.Errorf("%w: %s", ErrOutputsForbidden, b.id)
	}
	if len(b.outputs) == b.numOutputs {
		return fmt.Errorf("%w: node %s accepts %d output(s)", ErrCapacity, b.id, b.numOutputs)
	}
	b.outputs = append(b.outputs, ch)
	return nil
}

func (b *base) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.inputs) != b.numInputs || len(b.outputs) != b.numOutputs {
		return fmt.Errorf("%w: node %s has %d/%d inputs and %d/%d outputs",
			ErrArity, b.id, len(b.inputs), b.numInputs, len(b.outputs), b.numOutputs)
	}
	return nil
}

// Close cancels the context handed out by begin. Closing before Run makes Run
// return immediately.
func (b *base) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	if b.cancel != nil {
		b.cancel()
	}
	return nil
}

// begin derives the context a node runs with. The returned function must be
// called when Run returns.
func (b *base) begin(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		cancel()
	}
	b.cancel = cancel
	b.log.V(1).Info("Starting")
	return ctx, func() {
		cancel()
		b.log.V(1).Info("Stopped")
	}
}
