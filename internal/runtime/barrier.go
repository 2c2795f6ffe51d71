package runtime

import (
	"context"
	"fmt"
	"sync"
)

// Barrier is a reusable rendezvous for a fixed number of parties. The last
// party to arrive runs the action before any party is released, after which
// the barrier resets for the next round.
type Barrier struct {
	parties int
	action  func() error

	mu      sync.Mutex
	arrived int
	gen     *generation
}

type generation struct {
	done   chan struct{}
	broken bool
	err    error
}

func newGeneration() *generation {
	return &generation{done: make(chan struct{})}
}

// NewBarrier creates a barrier for parties participants. action may be nil.
func NewBarrier(parties int, action func() error) *Barrier {
	if parties < 1 {
		panic(fmt.Sprintf("barrier needs at least one party, got %d", parties))
	}
	return &Barrier{
		parties: parties,
		action:  action,
		gen:     newGeneration(),
	}
}

// Await blocks until all parties have arrived. It returns the action's error
// to every party of the round if the action failed, and ErrBrokenBarrier to
// waiting parties if any party of the round gave up because its context was
// done. A broken barrier stays broken.
func (b *Barrier) Await(ctx context.Context) error {
	b.mu.Lock()
	g := b.gen
	if g.broken {
		b.mu.Unlock()
		return ErrBrokenBarrier
	}

	b.arrived++
	if b.arrived == b.parties {
		var err error
		if b.action != nil {
			err = b.action()
		}
		if err != nil {
			g.broken = true
			g.err = err
		} else {
			b.arrived = 0
			b.gen = newGeneration()
		}
		close(g.done)
		b.mu.Unlock()
		return err
	}
	b.mu.Unlock()

	select {
	case <-g.done:
		if g.err != nil {
			return g.err
		}
		if g.broken {
			return ErrBrokenBarrier
		}
		return nil
	case <-ctx.Done():
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.gen == g && !g.broken {
			g.broken = true
			close(g.done)
			return ctx.Err()
		}
		// Tripped or broken while we were being cancelled.
		if g.broken {
			if g.err != nil {
				return g.err
			}
			return ErrBrokenBarrier
		}
		return nil
	}
}

// Broken reports whether a party gave up or the action failed.
func (b *Barrier) Broken() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gen.broken
}
