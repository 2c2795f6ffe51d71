package runtime

import (
	"context"
	"testing"
	"time"
)

const testTimeout = 5 * time.Second

// runNode runs n in the background and returns a channel receiving its
// result.
func runNode(ctx context.Context, n Node) <-chan error {
	result := make(chan error, 1)
	go func() {
		result <- n.Run(ctx)
	}()
	return result
}

// take pops count values from ch, failing the test on timeout.
func take(t *testing.T, ch *Channel, count int) []Value {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	out := make([]Value, 0, count)
	for range count {
		v, err := ch.PopFront(ctx)
		if err != nil {
			t.Fatalf("waiting for value %d of %d from %s: %v", len(out)+1, count, ch.Name(), err)
		}
		out = append(out, v)
	}
	return out
}

// waitResult waits for a node started with runNode to return.
func waitResult(t *testing.T, result <-chan error) error {
	t.Helper()
	select {
	case err := <-result:
		return err
	case <-time.After(testTimeout):
		t.Fatal("node did not stop")
		return nil
	}
}

func pushAll(ch *Channel, values ...Value) {
	for _, v := range values {
		ch.PushBack(v)
	}
}
