// Package kconsumer contains the external consumers a network hands its
// output values to.
package kconsumer

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/birdayz/hamming/kserde"
	"go.uber.org/multierr"
)

// Consumer receives every value the sink emits, in emission order. Consume is
// called from a single goroutine.
type Consumer interface {
	Consume(ctx context.Context, v int64) error
}

// Func adapts a plain function to a Consumer.
type Func func(ctx context.Context, v int64) error

func (f Func) Consume(ctx context.Context, v int64) error {
	return f(ctx, v)
}

// ForEach calls fn for every value.
func ForEach(fn func(v int64)) Consumer {
	return Func(func(_ context.Context, v int64) error {
		fn(v)
		return nil
	})
}

// Discard drops every value.
var Discard Consumer = Func(func(context.Context, int64) error { return nil })

// Collector keeps every value in memory. Safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	values []int64
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Consume(_ context.Context, v int64) error {
	c.mu.Lock()
	c.values = append(c.values, v)
	c.mu.Unlock()
	return nil
}

// Values returns a copy of the collected values.
func (c *Collector) Values() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int64, len(c.values))
	copy(out, c.values)
	return out
}

// Writer writes one serialized value per line to w.
func Writer(w io.Writer, serializer kserde.Serializer[int64]) Consumer {
	return Func(func(_ context.Context, v int64) error {
		data, err := serializer(v)
		if err != nil {
			return fmt.Errorf("serialize %d: %w", v, err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	})
}

// Tee forwards every value to all consumers, even if some of them fail.
func Tee(consumers ...Consumer) Consumer {
	return Func(func(ctx context.Context, v int64) error {
		var err error
		for _, c := range consumers {
			err = multierr.Append(err, c.Consume(ctx, v))
		}
		return err
	})
}
