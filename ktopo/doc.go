// Package ktopo describes the shape of a network: which nodes exist, which
// channels connect them and where the cycle is seeded.
//
// # Overview
//
// A topology is a directed multigraph. Nodes are identified by NodeID, edges
// by ChannelID. Unlike a processing DAG, a network topology may contain
// cycles; every cycle must however pass through a seeded node, otherwise no
// node on it ever has input to read and the network deadlocks.
//
// The package only holds structure. Runtime nodes and channels are created
// from a Topology by the execution package, which keeps nodes holding channel
// handles while the registry owns the graph.
//
// # Basic Usage
//
//	b := ktopo.NewBuilder()
//	_ = b.AddTransform("times2", 2)
//	_ = b.AddFanOut("copy2")
//	_ = b.AddSink("print1")
//
//	b.MustConnect("copy2", "print1")
//	b.MustConnect("copy2", "times2")
//	b.MustConnect("times2", "copy2")
//	b.MustSeed("copy2", 1)
//
//	topo := b.MustBuild()
//	if err := topo.ValidateSeeded(); err != nil {
//	    // copy2 holds the seed, so this cycle is live
//	}
//
// # Validation
//
// Build checks structure:
//
//   - **Arity**: every node has exactly the inputs and outputs its type needs
//   - **Sink Validation**: sinks cannot have children
//
// ValidateSeeded checks liveness:
//
//   - **Seeded Cycles**: every cycle passes through a seeded node
//   - **Orphan Detection**: every node is reachable from a seeded node
//
// All validation errors wrap sentinel errors (ErrUnseededCycle, ErrCapacity,
// etc.) that can be checked with errors.Is().
//
// # Thread Safety
//
// Builder is NOT safe for concurrent use. The resulting Topology is
// immutable and safe to use concurrently.
package ktopo
