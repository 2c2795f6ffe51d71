package ktopo

import (
	"fmt"
	"slices"
	"strings"
)

// Validation limits to prevent pathological cases
const (
	MaxNodes = 10000
	MaxDepth = 500
)

// Validate performs structural validation.
// Returns early on first error for better UX.
func (g *Graph) Validate() error {
	if len(g.Nodes) > MaxNodes {
		return fmt.Errorf("%w: node count %d exceeds maximum %d",
			ErrInvalidTopology, len(g.Nodes), MaxNodes)
	}

	if err := g.validateSinks(); err != nil {
		return fmt.Errorf("topology validation failed: %w", err)
	}

	if err := g.validateArity(); err != nil {
		return fmt.Errorf("topology validation failed: %w", err)
	}

	return nil
}

// ValidateSeeded checks that every cycle contains a seeded node and that
// all nodes are reachable from seeded nodes.
func (g *Graph) ValidateSeeded() error {
	if len(g.Seeds) == 0 {
		return fmt.Errorf("%w: no seeds registered", ErrUnseededCycle)
	}

	if err := g.detectUnseededCycles(); err != nil {
		return fmt.Errorf("topology validation failed: %w", err)
	}

	if err := g.validateNoOrphans(); err != nil {
		return fmt.Errorf("topology validation failed: %w", err)
	}

	return nil
}

func (g *Graph) seeded() map[NodeID]bool {
	seeded := make(map[NodeID]bool, len(g.Seeds))
	for _, s := range g.Seeds {
		seeded[s.Node] = true
	}
	return seeded
}

func (g *Graph) children(nodeID NodeID) []NodeID {
	node := g.Nodes[nodeID]
	children := make([]NodeID, 0, len(node.Outputs))
	for _, ch := range node.Outputs {
		children = append(children, g.Edges[ch].To)
	}
	return children
}

// detectUnseededCycles runs a DFS that never enters a seeded node through an
// edge. Seeded nodes are cut points, so any cycle left is one without a seed.
// Time complexity: O(V + E) where V is vertices and E is edges.
func (g *Graph) detectUnseededCycles() error {
	seeded := g.seeded()
	visited := make(map[NodeID]bool, len(g.Nodes))
	recStack := make(map[NodeID]bool, len(g.Nodes))

	var dfs func(NodeID, []NodeID, int) error
	dfs = func(nodeID NodeID, path []NodeID, depth int) error {
		if depth > MaxDepth {
			return fmt.Errorf("%w: maximum depth %d exceeded", ErrInvalidTopology, MaxDepth)
		}

		visited[nodeID] = true
		recStack[nodeID] = true
		path = append(path, nodeID)

		for _, childID := range g.children(nodeID) {
			if seeded[childID] {
				continue
			}
			if !visited[childID] {
				if err := dfs(childID, path, depth+1); err != nil {
					return err
				}
			} else if recStack[childID] {
				cyclePath := append(path, childID)
				pathStr := make([]string, len(cyclePath))
				for i, id := range cyclePath {
					pathStr[i] = string(id)
				}
				return fmt.Errorf("%w: %s", ErrUnseededCycle, strings.Join(pathStr, " -> "))
			}
		}

		recStack[nodeID] = false
		return nil
	}

	// Insertion order keeps the reported path deterministic.
	for _, nodeID := range g.NodeOrder {
		if !visited[nodeID] {
			if err := dfs(nodeID, nil, 0); err != nil {
				return err
			}
		}
	}

	return nil
}

// validateNoOrphans checks that all nodes are reachable from at least one
// seeded node.
func (g *Graph) validateNoOrphans() error {
	reachable := make(map[NodeID]bool, len(g.Nodes))

	for _, seed := range g.Seeds {
		g.markReachable(seed.Node, reachable)
	}

	var orphans []NodeID
	for nodeID := range g.Nodes {
		if !reachable[nodeID] {
			orphans = append(orphans, nodeID)
		}
	}

	if len(orphans) > 0 {
		slices.Sort(orphans) // Deterministic error message
		orphanStrs := make([]string, len(orphans))
		for i, id := range orphans {
			orphanStrs[i] = string(id)
		}
		return fmt.Errorf("%w (unreachable from seeds): %s",
			ErrOrphanedNodes, strings.Join(orphanStrs, ", "))
	}

	return nil
}

// markReachable marks all nodes reachable from the given node.
func (g *Graph) markReachable(nodeID NodeID, reachable map[NodeID]bool) {
	if reachable[nodeID] {
		return
	}

	reachable[nodeID] = true
	for _, childID := range g.children(nodeID) {
		g.markReachable(childID, reachable)
	}
}

// validateSinks ensures that sink nodes don't have children.
func (g *Graph) validateSinks() error {
	for _, nodeID := range g.NodeOrder {
		node := g.Nodes[nodeID]
		if node.Type == NodeTypeSink && len(node.Outputs) > 0 {
			childStrs := make([]string, 0, len(node.Outputs))
			for _, id := range g.children(nodeID) {
				childStrs = append(childStrs, string(id))
			}
			return fmt.Errorf("%w: sink node %s has children: %s",
				ErrInvalidTopology, nodeID, strings.Join(childStrs, ", "))
		}
	}
	return nil
}

// validateArity checks every node is fully connected.
func (g *Graph) validateArity() error {
	for _, nodeID := range g.NodeOrder {
		node := g.Nodes[nodeID]
		arity := node.Type.Arity()
		if len(node.Inputs) != arity.In {
			return fmt.Errorf("%w: %s node %s has %d inputs, needs %d",
				ErrInvalidTopology, node.Type, nodeID, len(node.Inputs), arity.In)
		}
		if len(node.Outputs) < arity.MinOut || len(node.Outputs) > arity.MaxOut {
			return fmt.Errorf("%w: %s node %s has %d outputs, needs %d to %d",
				ErrInvalidTopology, node.Type, nodeID, len(node.Outputs), arity.MinOut, arity.MaxOut)
		}
	}
	return nil
}
