package ktopo

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestValidateSeeded(t *testing.T) {
	t.Run("seeded cycle", func(t *testing.T) {
		b := hammingTopology(t)
		b.MustSeed("copy4", 1)
		assert.NoError(t, b.MustBuild().ValidateSeeded())
	})

	t.Run("seed on merge", func(t *testing.T) {
		b := hammingTopology(t)
		b.MustSeed("merge3", 1)
		assert.NoError(t, b.MustBuild().ValidateSeeded())
	})

	t.Run("no seeds", func(t *testing.T) {
		err := hammingTopology(t).MustBuild().ValidateSeeded()
		assert.True(t, errors.Is(err, ErrUnseededCycle))
	})

	t.Run("second cycle without seed", func(t *testing.T) {
		b := NewBuilder()
		assert.NoError(t, b.AddFanOut("a"))
		assert.NoError(t, b.AddTransform("b", 2))
		assert.NoError(t, b.AddFanOut("c"))
		assert.NoError(t, b.AddTransform("d", 3))
		b.MustConnect("a", "b")
		b.MustConnect("b", "a")
		b.MustConnect("c", "d")
		b.MustConnect("d", "c")
		b.MustSeed("a", 1)

		err := b.MustBuild().ValidateSeeded()
		assert.True(t, errors.Is(err, ErrUnseededCycle))
		assert.Contains(t, err.Error(), "c -> d -> c")
	})

	t.Run("multiple seeded components", func(t *testing.T) {
		b := NewBuilder()
		assert.NoError(t, b.AddFanOut("a"))
		assert.NoError(t, b.AddTransform("b", 2))
		assert.NoError(t, b.AddTransform("x", 2))
		assert.NoError(t, b.AddSink("y"))
		b.MustConnect("a", "b")
		b.MustConnect("b", "a")
		b.MustConnect("a", "x")
		b.MustConnect("x", "y")
		assert.NoError(t, b.AddTransform("p", 2))
		assert.NoError(t, b.AddFanOut("q"))
		assert.NoError(t, b.AddSink("r"))
		b.MustConnect("p", "q")
		b.MustConnect("q", "r")
		b.MustConnect("q", "p")
		b.MustSeed("a", 1)
		b.MustSeed("p", 1)

		assert.NoError(t, b.MustBuild().ValidateSeeded())
	})

	t.Run("orphaned nodes", func(t *testing.T) {
		// Unbuilt graph: x has no parent at all.
		b := NewBuilder()
		assert.NoError(t, b.AddFanOut("a"))
		assert.NoError(t, b.AddTransform("b", 2))
		assert.NoError(t, b.AddTransform("x", 2))
		assert.NoError(t, b.AddSink("y"))
		b.MustConnect("a", "b")
		b.MustConnect("b", "a")
		b.MustConnect("x", "y")
		b.MustSeed("a", 1)

		err := b.GetGraph().ValidateSeeded()
		assert.True(t, errors.Is(err, ErrOrphanedNodes))
		assert.Contains(t, err.Error(), "x, y")
	})
}
