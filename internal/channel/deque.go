// Package channel provides the blocking double-ended queue that connects
// nodes of a network.
package channel

import (
	"context"
	"sync"
)

const defaultCapacity = 16

// Deque is an unbounded, thread-safe, blocking double-ended queue.
//
// Pushes never block. Pops block until a value is available or the context
// passed to them is done. Ordering is FIFO when values are pushed to the back
// and popped from the front. A value popped from the front for inspection must
// be returned with PushFront to keep its position.
type Deque[T any] struct {
	name string

	mu   sync.Mutex
	buf  []T
	head int
	size int

	// notify is closed and replaced on every push to wake blocked pops.
	notify chan struct{}
}

// New creates an empty deque. The name is only used for identification.
func New[T any](name string) *Deque[T] {
	return &Deque[T]{
		name:   name,
		buf:    make([]T, defaultCapacity),
		notify: make(chan struct{}),
	}
}

// Name returns the name the deque was created with.
func (d *Deque[T]) Name() string {
	return d.name
}

func (d *Deque[T]) String() string {
	return d.name
}

// Len returns the number of values currently queued.
func (d *Deque[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.size
}

// PushFront inserts v before the current head.
func (d *Deque[T]) PushFront(v T) {
	d.mu.Lock()
	d.grow()
	d.head = (d.head - 1 + len(d.buf)) % len(d.buf)
	d.buf[d.head] = v
	d.size++
	d.wake()
	d.mu.Unlock()
}

// PushBack appends v after the current tail.
func (d *Deque[T]) PushBack(v T) {
	d.mu.Lock()
	d.grow()
	d.buf[(d.head+d.size)%len(d.buf)] = v
	d.size++
	d.wake()
	d.mu.Unlock()
}

// PopFront removes and returns the head, blocking until one is available.
// If ctx is done first, the context error is returned.
func (d *Deque[T]) PopFront(ctx context.Context) (T, error) {
	return d.pop(ctx, d.takeFront)
}

// PopBack removes and returns the tail, blocking until one is available.
// If ctx is done first, the context error is returned.
func (d *Deque[T]) PopBack(ctx context.Context) (T, error) {
	return d.pop(ctx, d.takeBack)
}

// TryPopFront removes and returns the head if there is one.
func (d *Deque[T]) TryPopFront() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.size == 0 {
		var zero T
		return zero, false
	}
	return d.takeFront(), true
}

func (d *Deque[T]) pop(ctx context.Context, take func() T) (T, error) {
	for {
		// Cancellation wins over available data so a stopped node does not
		// keep consuming.
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}

		d.mu.Lock()
		if d.size > 0 {
			v := take()
			d.mu.Unlock()
			return v, nil
		}
		wait := d.notify
		d.mu.Unlock()

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-wait:
		}
	}
}

// takeFront requires d.mu held and d.size > 0.
func (d *Deque[T]) takeFront() T {
	var zero T
	v := d.buf[d.head]
	d.buf[d.head] = zero
	d.head = (d.head + 1) % len(d.buf)
	d.size--
	return v
}

// takeBack requires d.mu held and d.size > 0.
func (d *Deque[T]) takeBack() T {
	var zero T
	i := (d.head + d.size - 1) % len(d.buf)
	v := d.buf[i]
	d.buf[i] = zero
	d.size--
	return v
}

func (d *Deque[T]) grow() {
	if d.size < len(d.buf) {
		return
	}
	buf := make([]T, len(d.buf)*2)
	for i := 0; i < d.size; i++ {
		buf[i] = d.buf[(d.head+i)%len(d.buf)]
	}
	d.buf = buf
	d.head = 0
}

func (d *Deque[T]) wake() {
	close(d.notify)
	d.notify = make(chan struct{})
}
