// Package usage holds the per-run usage counters that the usage pass
// fills in and that usage-aware strategies read.
//
// A usage count is the number of strategy-surviving dependency paths from
// the propagation root to a node. It is not the in-degree: filtering
// strategies can suppress whole paths. Counters live in a [Table] owned by a
// single generation run rather than on the graph, so two runs over the same
// graph never see each other's counts.
//
// The derived aggregates [Table.MaxLeaf] and [Table.SumLeaf] summarize the
// counts of a node's transitive leaves. They give smoother orderings than
// raw counts and do not depend on the order in which siblings were visited.
package usage

import (
	"github.com/matzehuels/progression/pkg/dag"
)

// Table is a usage counter per node of one graph, indexed by NodeID.
// It is not safe for concurrent mutation.
type Table struct {
	counts []int
}

// New returns a zeroed table sized for every node currently in g.
func New(g *dag.Graph) *Table {
	return &Table{counts: make([]int, g.Len())}
}

// Reset sets every counter to zero.
func (t *Table) Reset() {
	clear(t.counts)
}

// Inc adds one to the counter of id. Counters grow on demand so a table
// stays usable if nodes were registered after it was created.
func (t *Table) Inc(id dag.NodeID) {
	if int(id) >= len(t.counts) {
		t.counts = append(t.counts, make([]int, int(id)-len(t.counts)+1)...)
	}
	t.counts[id]++
}

// Count returns the counter of id, or zero for ids the table has never seen.
// A nil table reads as all zeros.
func (t *Table) Count(id dag.NodeID) int {
	if t == nil || id < 0 || int(id) >= len(t.counts) {
		return 0
	}
	return t.counts[id]
}

// Total returns the sum of all counters.
func (t *Table) Total() int {
	if t == nil {
		return 0
	}
	sum := 0
	for _, c := range t.counts {
		sum += c
	}
	return sum
}

// Snapshot returns a copy of the counters indexed by NodeID.
func (t *Table) Snapshot() []int {
	if t == nil {
		return nil
	}
	return append([]int(nil), t.counts...)
}

// MaxLeaf returns the max-leaf-usage of id: its own count if it has no
// dependencies or options, otherwise the maximum MaxLeaf over them.
// The value is recomputed on every call.
func (t *Table) MaxLeaf(g *dag.Graph, id dag.NodeID) int {
	memo := make(map[dag.NodeID]int)
	var walk func(dag.NodeID) int
	walk = func(id dag.NodeID) int {
		if v, ok := memo[id]; ok {
			return v
		}
		memo[id] = 0 // guards cycles; Validate reports them properly
		n, ok := g.Node(id)
		if !ok {
			return 0
		}
		edges := n.Edges()
		v := t.Count(id)
		if len(edges) > 0 {
			v = walk(edges[0])
			for _, e := range edges[1:] {
				v = max(v, walk(e))
			}
		}
		memo[id] = v
		return v
	}
	return walk(id)
}

// SumLeaf returns the sum-leaf-usage of id: its own count if it has no
// dependencies or options, otherwise the sum of SumLeaf over them. The
// node's own count is not added for inner nodes; it is implied by its leaves.
// Shared leaves are counted once per path. The value is recomputed on
// every call.
func (t *Table) SumLeaf(g *dag.Graph, id dag.NodeID) int {
	memo := make(map[dag.NodeID]int)
	var walk func(dag.NodeID) int
	walk = func(id dag.NodeID) int {
		if v, ok := memo[id]; ok {
			return v
		}
		memo[id] = 0
		n, ok := g.Node(id)
		if !ok {
			return 0
		}
		edges := n.Edges()
		v := t.Count(id)
		if len(edges) > 0 {
			v = 0
			for _, e := range edges {
				v += walk(e)
			}
		}
		memo[id] = v
		return v
	}
	return walk(id)
}

// FromSnapshot rebuilds a table from counters returned by Snapshot.
func FromSnapshot(counts []int) *Table {
	return &Table{counts: append([]int(nil), counts...)}
}
