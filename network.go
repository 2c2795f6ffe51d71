package hamming

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/birdayz/hamming/internal/execution"
	"github.com/birdayz/hamming/internal/metrics"
	"github.com/birdayz/hamming/internal/runtime"
	"github.com/birdayz/hamming/kconsumer"
	"github.com/go-logr/logr"
)

// Value is a number travelling through the network.
type Value = runtime.Value

// Signal requests the network to shut down. It may be sent before the
// network is configured; the request then takes effect on Start.
type Signal = runtime.Signal

type State string

const (
	StateUnconfigured State = "UNCONFIGURED"
	StateConfigured   State = "CONFIGURED"
	StateRunning      State = "RUNNING"
	StateStopping     State = "STOPPING"
	StateStopped      State = "STOPPED"
)

// Network owns the nodes and channels generating regular numbers.
type Network struct {
	log             logr.Logger
	consumer        kconsumer.Consumer
	strategy        MergeStrategy
	teardownTimeout time.Duration
	metrics         *metrics.Metrics
	seed            bool

	signal *Signal

	mu            sync.Mutex
	state         State
	count         int
	budget        time.Duration
	sink          *runtime.SinkNode
	runner        *execution.Runner
	cancel        context.CancelFunc
	stopRequested bool
	stopped       chan struct{}
}

func New(opts ...Option) *Network {
	n := &Network{
		log:             logr.Discard(),
		consumer:        kconsumer.Discard,
		strategy:        MergeBarrier,
		teardownTimeout: DefaultTeardownTimeout,
		seed:            true,
		signal:          runtime.NewSignal(),
		state:           StateUnconfigured,
		stopped:         make(chan struct{}),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Configure builds and wires all nodes and seeds the cycle. The network will
// emit count values and run for at most budget.
func (n *Network) Configure(count int, budget time.Duration) error {
	if count <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	if budget <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidBudget, budget)
	}

	n.mu.Lock()
	if n.state != StateUnconfigured {
		state := n.state
		n.mu.Unlock()
		return fmt.Errorf("%w: state is %s", ErrAlreadyConfigured, state)
	}

	if err := n.configure(count, budget); err != nil {
		n.mu.Unlock()
		return err
	}
	n.changeState(StateConfigured)
	n.mu.Unlock()

	// A signal sent before this point fires right away.
	return n.signal.Attach(n.requestStop)
}

func (n *Network) configure(count int, budget time.Duration) error {
	n.count = count
	n.budget = budget

	topo, err := buildTopology(n.seed)
	if err != nil {
		return fmt.Errorf("failed to build topology: %w", err)
	}

	reg, err := execution.Wire(topo, n.newNode)
	if err != nil {
		return fmt.Errorf("failed to wire network: %w", err)
	}

	node, _ := reg.Node(nodePrint1)
	sink, ok := node.(*runtime.SinkNode)
	if !ok {
		return fmt.Errorf("node %s is not a sink", nodePrint1)
	}
	n.sink = sink

	n.runner = execution.NewRunner(reg.Nodes(),
		execution.WithLogr(n.log.WithName("runner")),
		execution.WithTeardownTimeout(n.teardownTimeout),
	)
	return nil
}

// Start runs every node and blocks until the count is reached, the time
// budget is exhausted, ctx is done, Shutdown is called or a node fails. Only
// a node failure is returned as error.
func (n *Network) Start(ctx context.Context) error {
	n.mu.Lock()
	switch n.state {
	case StateUnconfigured:
		n.mu.Unlock()
		return ErrNotConfigured
	case StateConfigured:
	default:
		state := n.state
		n.mu.Unlock()
		return fmt.Errorf("%w: state is %s", ErrAlreadyStarted, state)
	}

	ctx, cancel := context.WithTimeout(ctx, n.budget)
	defer cancel()
	n.cancel = cancel
	if n.stopRequested {
		cancel()
	}
	n.changeState(StateRunning)
	runner := n.runner
	n.mu.Unlock()

	start := time.Now()
	result := make(chan error, 1)
	go func() {
		result <- runner.Run(ctx)
	}()

	var err error
	select {
	case <-ctx.Done():
		n.logStopReason(ctx)
		n.setState(StateStopping)
		err = <-result
	case err = <-result:
		n.setState(StateStopping)
	}

	n.mu.Lock()
	n.changeState(StateStopped)
	close(n.stopped)
	n.mu.Unlock()

	if err != nil {
		return fmt.Errorf("network failed: %w", err)
	}
	n.log.Info("Network stopped", "emitted", n.Count(), "duration", time.Since(start))
	return nil
}

// Shutdown requests the network to stop and waits up to the teardown timeout
// for it. It is safe to call from any goroutine, any number of times.
// Failures of individual nodes to stop are logged, not returned.
func (n *Network) Shutdown() error {
	n.mu.Lock()
	switch n.state {
	case StateStopped:
		n.mu.Unlock()
		return nil
	case StateUnconfigured, StateConfigured:
		n.stopRequested = true
		n.changeState(StateStopped)
		close(n.stopped)
		n.mu.Unlock()
		return nil
	}
	n.stopRequested = true
	if n.cancel != nil {
		n.cancel()
	}
	stopped := n.stopped
	n.mu.Unlock()

	select {
	case <-stopped:
	case <-time.After(n.teardownTimeout):
		n.log.Info("Shutdown timeout exceeded, network still stopping", "timeout", n.teardownTimeout)
	}
	return nil
}

// Signal returns the shutdown signal of the network.
func (n *Network) Signal() *Signal {
	return n.signal
}

func (n *Network) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Count returns how many values print1 has observed.
func (n *Network) Count() int64 {
	n.mu.Lock()
	sink := n.sink
	n.mu.Unlock()
	if sink == nil {
		return 0
	}
	return sink.Count()
}

// requestStop is attached to the signal. It must not wait for the network,
// as it runs on the goroutine of the node sending the signal.
func (n *Network) requestStop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopRequested = true
	if n.cancel != nil {
		n.cancel()
	}
}

func (n *Network) logStopReason(ctx context.Context) {
	n.mu.Lock()
	requested := n.stopRequested
	n.mu.Unlock()

	switch {
	case requested:
		n.log.V(1).Info("Shutdown requested")
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		n.log.Info("Time budget exhausted", "budget", n.budget)
	default:
		n.log.V(1).Info("Context done", "cause", context.Cause(ctx))
	}
}

func (n *Network) setState(state State) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changeState(state)
}

// changeState must be called with mu held.
func (n *Network) changeState(state State) {
	n.log.Info("Change state", "from", n.state, "to", state)
	n.state = state
}
