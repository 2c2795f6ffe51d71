package execution

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/hamming/internal/runtime"
	"github.com/birdayz/hamming/kconsumer"
	"github.com/birdayz/hamming/ktopo"
	"github.com/go-logr/logr/testr"
)

const testTimeout = 5 * time.Second

func testFactory(signal *runtime.Signal, consumer kconsumer.Consumer, target int) NodeFactory {
	return func(node *ktopo.Node) (runtime.Wirable, error) {
		id := string(node.ID)
		switch node.Type {
		case ktopo.NodeTypeTransform:
			return runtime.NewMultiplyNode(id, node.Factor), nil
		case ktopo.NodeTypeFanOut:
			return runtime.NewFanOutNode(id, len(node.Outputs))
		case ktopo.NodeTypeMerge:
			return runtime.NewMergeNode(id, runtime.MergeCoordinator), nil
		case ktopo.NodeTypeSink:
			return runtime.NewSinkNode(id, target, signal, consumer), nil
		default:
			return nil, fmt.Errorf("unsupported node type %s", node.Type)
		}
	}
}

// echoTopology is a seeded cycle copy -> times1 -> copy that also feeds a
// sink. Multiplying by one keeps the cycle from ever overflowing.
func echoTopology(t *testing.T) *ktopo.Topology {
	t.Helper()
	b := ktopo.NewBuilder()
	assert.NoError(t, b.AddFanOut("copy"))
	assert.NoError(t, b.AddTransform("times1", 1))
	assert.NoError(t, b.AddSink("sink"))
	b.MustConnect("copy", "times1")
	b.MustConnect("copy", "sink")
	b.MustConnect("times1", "copy")
	b.MustSeed("copy", 7)

	topo := b.MustBuild()
	assert.NoError(t, topo.ValidateSeeded())
	return topo
}

func TestWire(t *testing.T) {
	reg, err := Wire(echoTopology(t), testFactory(runtime.NewSignal(), kconsumer.Discard, 1))
	assert.NoError(t, err)

	ids := make([]string, 0)
	for _, n := range reg.Nodes() {
		ids = append(ids, n.ID())
		assert.NoError(t, n.Init())
	}
	assert.Equal(t, []string{"copy", "times1", "sink"}, ids)

	seeded, ok := reg.Channel("times1_to_copy")
	assert.True(t, ok)
	assert.Equal(t, 1, seeded.Len())

	toSink, ok := reg.Channel("copy_to_sink")
	assert.True(t, ok)
	assert.Equal(t, 0, toSink.Len())

	_, ok = reg.Node("times1")
	assert.True(t, ok)
	_, ok = reg.Node("missing")
	assert.False(t, ok)
}

func TestWire_FactoryError(t *testing.T) {
	_, err := Wire(echoTopology(t), func(node *ktopo.Node) (runtime.Wirable, error) {
		return nil, fmt.Errorf("no node for %s", node.ID)
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "copy")
}

func TestWireAndRun(t *testing.T) {
	signal := runtime.NewSignal()
	collector := kconsumer.NewCollector()

	reg, err := Wire(echoTopology(t), testFactory(signal, collector, 5))
	assert.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	assert.NoError(t, signal.Attach(cancel))

	r := NewRunner(reg.Nodes(), WithLogr(testr.New(t)))
	assert.NoError(t, r.Run(ctx))

	assert.True(t, signal.Sent())
	assert.Equal(t, []int64{7, 7, 7, 7, 7}, collector.Values())
	assert.Equal(t, []string{}, r.Running())
}
