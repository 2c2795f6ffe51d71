package hamming

import (
	"time"

	"github.com/birdayz/hamming/internal/execution"
	"github.com/birdayz/hamming/internal/metrics"
	"github.com/birdayz/hamming/internal/runtime"
	"github.com/birdayz/hamming/kconsumer"
	"github.com/go-logr/logr"
)

// Option is a function that configures a Network
type Option func(*Network)

// MergeStrategy selects how merge3 synchronizes its inputs.
type MergeStrategy = runtime.MergeStrategy

const (
	MergeBarrier     = runtime.MergeBarrier
	MergeCoordinator = runtime.MergeCoordinator
)

// ParseMergeStrategy parses "barrier" or "coordinator".
func ParseMergeStrategy(s string) (MergeStrategy, error) {
	return runtime.ParseMergeStrategy(s)
}

// DefaultTeardownTimeout is how long shutdown waits for nodes to stop.
const DefaultTeardownTimeout = execution.DefaultTeardownTimeout

// WithLogr sets the logger for the network and its nodes
var WithLogr = func(log logr.Logger) Option {
	return func(n *Network) {
		n.log = log
	}
}

// WithConsumer sets where print1 hands the generated values to.
// Defaults to kconsumer.Discard.
var WithConsumer = func(c kconsumer.Consumer) Option {
	return func(n *Network) {
		n.consumer = c
	}
}

// WithMergeStrategy sets the merge strategy. Defaults to MergeBarrier.
var WithMergeStrategy = func(s MergeStrategy) Option {
	return func(n *Network) {
		n.strategy = s
	}
}

// WithTeardownTimeout bounds how long nodes get to stop once shutdown is
// requested.
var WithTeardownTimeout = func(timeout time.Duration) Option {
	return func(n *Network) {
		n.teardownTimeout = timeout
	}
}

// WithMetrics records network activity to m.
var WithMetrics = func(m *metrics.Metrics) Option {
	return func(n *Network) {
		n.metrics = m
	}
}
