package runtime

import (
	"context"
	"errors"

	"github.com/birdayz/hamming/internal/channel"
)

// Value is the payload carried between nodes.
type Value = int64

// Channel connects exactly one producing node to one consuming node.
type Channel = channel.Deque[Value]

// NewChannel creates an empty channel.
func NewChannel(name string) *Channel {
	return channel.New[Value](name)
}

// Node does not know anything about the topology it is part of. Its only
// coupling to other nodes are the channels attached to it.
type Node interface {
	ID() string

	// Init verifies that the node is fully wired.
	Init() error

	// Run executes the node until its context is done, Close is called, or
	// the node finishes on its own. Cancellation is a normal exit and
	// returns nil.
	Run(ctx context.Context) error

	// Close requests the node to stop. It does not wait for Run to return
	// and may be called any number of times.
	Close() error
}

// Wirable is a node that channels can be attached to.
type Wirable interface {
	Node
	AddInput(ch *Channel) error
	AddOutput(ch *Channel) error
}

var (
	ErrCapacity         = errors.New("channel capacity exceeded")
	ErrOutputsForbidden = errors.New("node does not accept outputs")
	ErrArity            = errors.New("node not fully wired")
	ErrOverflow         = errors.New("value overflow")
	ErrOrderViolation   = errors.New("merge output not ascending")
	ErrBrokenBarrier    = errors.New("barrier broken")
	ErrSignalAttached   = errors.New("signal already attached")
)

// exitErr maps errors caused by the node being stopped to nil.
func exitErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
