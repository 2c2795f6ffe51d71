package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/hamming/kconsumer"
)

func TestSinkNode(t *testing.T) {
	in := NewChannel("in")
	signal := NewSignal()
	collector := kconsumer.NewCollector()

	var signalled int
	assert.NoError(t, signal.Attach(func() { signalled++ }))

	n := NewSinkNode("print1", 3, signal, collector)
	assert.NoError(t, n.AddInput(in))
	assert.NoError(t, n.Init())

	pushAll(in, 1, 2, 3, 4, 5)
	assert.NoError(t, waitResult(t, runNode(context.Background(), n)))

	assert.Equal(t, []int64{1, 2, 3}, collector.Values())
	assert.Equal(t, int64(4), n.Count())
	assert.Equal(t, 1, signalled)
	assert.True(t, signal.Sent())
	// The sink stops at the value exceeding the target.
	assert.Equal(t, 1, in.Len())
}

func TestSinkNode_ConsumerError(t *testing.T) {
	in := NewChannel("in")
	boom := errors.New("disk full")
	n := NewSinkNode("print1", 10, NewSignal(), kconsumer.Func(func(context.Context, int64) error {
		return boom
	}))
	assert.NoError(t, n.AddInput(in))

	in.PushBack(1)
	err := waitResult(t, runNode(context.Background(), n))
	assert.True(t, errors.Is(err, boom))
}

func TestSignal(t *testing.T) {
	t.Run("send before attach fires on attach", func(t *testing.T) {
		s := NewSignal()
		s.Send()
		s.Send()

		calls := 0
		assert.NoError(t, s.Attach(func() { calls++ }))
		assert.Equal(t, 1, calls)
	})

	t.Run("attach twice", func(t *testing.T) {
		s := NewSignal()
		assert.NoError(t, s.Attach(func() {}))
		assert.True(t, errors.Is(s.Attach(func() {}), ErrSignalAttached))
	})

	t.Run("concurrent sends fire once", func(t *testing.T) {
		s := NewSignal()
		calls := make(chan struct{}, 100)
		assert.NoError(t, s.Attach(func() { calls <- struct{}{} }))

		done := make(chan struct{})
		for range 50 {
			go func() {
				s.Send()
				done <- struct{}{}
			}()
		}
		for range 50 {
			<-done
		}
		assert.Equal(t, 1, len(calls))
	})
}
