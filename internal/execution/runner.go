package execution

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/birdayz/hamming/internal/runtime"
	"github.com/go-logr/logr"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// DefaultTeardownTimeout bounds how long Run waits for nodes after asking
// them to stop.
const DefaultTeardownTimeout = time.Second

var (
	// ErrTeardownTimeout is logged when nodes are still running after the
	// teardown timeout.
	ErrTeardownTimeout = errors.New("teardown timed out")
	ErrNodePanic       = errors.New("node panicked")
)

type RunnerOption func(*Runner)

var WithLogr = func(log logr.Logger) RunnerOption {
	return func(r *Runner) {
		r.log = log
	}
}

var WithTeardownTimeout = func(timeout time.Duration) RunnerOption {
	return func(r *Runner) {
		r.teardownTimeout = timeout
	}
}

// Runner executes a set of nodes concurrently and tears them down.
type Runner struct {
	log             logr.Logger
	nodes           []runtime.Node
	teardownTimeout time.Duration

	mu      sync.Mutex
	running map[string]struct{}
	err     error
}

func NewRunner(nodes []runtime.Node, opts ...RunnerOption) *Runner {
	r := &Runner{
		log:             logr.Discard(),
		nodes:           nodes,
		teardownTimeout: DefaultTeardownTimeout,
		running:         make(map[string]struct{}, len(nodes)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run initializes and starts every node, then blocks until ctx is done, a
// node fails or all nodes have returned. Afterwards every node is closed and
// Run waits up to the teardown timeout for them to finish. Nodes still
// running after that are logged and left behind.
//
// The first node failure is returned. Cancellation is not a failure.
func (r *Runner) Run(ctx context.Context) error {
	for _, n := range r.nodes {
		if err := n.Init(); err != nil {
			return fmt.Errorf("failed to init node %s: %w", n.ID(), err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, n := range r.nodes {
		id := n.ID()
		r.setRunning(id, true)
		g.Go(func() error {
			defer r.setRunning(id, false)
			if err := r.runNode(gctx, n); err != nil {
				r.recordErr(err)
				r.log.Error(err, "Node failed", "node", id)
				return err
			}
			return nil
		})
	}

	finished := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(finished)
	}()

	r.log.V(1).Info("Nodes started", "count", len(r.nodes))
	<-gctx.Done()

	r.teardown(finished)

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Running returns the ids of nodes whose Run has not returned yet.
func (r *Runner) Running() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.running))
	for id := range r.running {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (r *Runner) runNode(ctx context.Context, n runtime.Node) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %s: %v", ErrNodePanic, n.ID(), p)
		}
	}()
	return n.Run(ctx)
}

func (r *Runner) teardown(finished <-chan struct{}) {
	var errs error
	for _, n := range r.nodes {
		errs = multierr.Append(errs, closeNode(n))
	}
	if errs != nil {
		r.log.Error(errs, "Ignoring errors while closing nodes")
	}

	select {
	case <-finished:
		r.log.V(1).Info("All nodes stopped")
	case <-time.After(r.teardownTimeout):
		r.log.Error(ErrTeardownTimeout, "Teardown timeout exceeded",
			"timeout", r.teardownTimeout, "running", r.Running())
	}
}

func closeNode(n runtime.Node) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: close %s: %v", ErrNodePanic, n.ID(), p)
		}
	}()
	if err := n.Close(); err != nil {
		return fmt.Errorf("failed to close node %s: %w", n.ID(), err)
	}
	return nil
}

func (r *Runner) setRunning(id string, running bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if running {
		r.running[id] = struct{}{}
	} else {
		delete(r.running, id)
	}
}

func (r *Runner) recordErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		r.err = err
	}
}
