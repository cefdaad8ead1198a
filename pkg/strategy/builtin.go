package strategy

import (
	"cmp"
	"slices"

	"github.com/matzehuels/progression/pkg/dag"
)

// Baseline strategies. All sorts are stable, so ties keep their input order.
var (
	// All keeps every candidate in order.
	All PassStrategy = identity{}

	// Reverse reverses the candidates.
	Reverse = NewStructural("reverse", func(_ *dag.Graph, ids []dag.NodeID) []dag.NodeID {
		out := slices.Clone(ids)
		slices.Reverse(out)
		return out
	})

	// First keeps only the first candidate.
	First = NewStructural("first", func(_ *dag.Graph, ids []dag.NodeID) []dag.NodeID {
		if len(ids) == 0 {
			return nil
		}
		return []dag.NodeID{ids[0]}
	})

	// None drops every candidate.
	None = NewStructural("none", func(_ *dag.Graph, ids []dag.NodeID) []dag.NodeID {
		return nil
	})

	// Unique drops repeated occurrences of a node, keeping the first.
	Unique = NewStructural("unique", func(_ *dag.Graph, ids []dag.NodeID) []dag.NodeID {
		seen := make(map[dag.NodeID]bool, len(ids))
		out := make([]dag.NodeID, 0, len(ids))
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
		return out
	})

	// LargerFirst sorts by descending payload size.
	LargerFirst PassStrategy = passSort{keyedSort{"larger-first", func(env Env, id dag.NodeID) int {
		return -payloadSize(env.Graph, id)
	}}}

	// SmallerFirst sorts by ascending payload size.
	SmallerFirst PassStrategy = passSort{keyedSort{"smaller-first", func(env Env, id dag.NodeID) int {
		return payloadSize(env.Graph, id)
	}}}

	// ByCreation sorts by ascending creation order.
	ByCreation PassStrategy = passSort{keyedSort{"creation", func(_ Env, id dag.NodeID) int {
		return int(id)
	}}}

	// ByCreationReverse sorts by descending creation order.
	ByCreationReverse PassStrategy = passSort{keyedSort{"creation-reverse", func(_ Env, id dag.NodeID) int {
		return -int(id)
	}}}

	// PreferredFirst moves units tagged as preferred to the front.
	PreferredFirst PassStrategy = passSort{keyedSort{"preferred-first", func(env Env, id dag.NodeID) int {
		if n, ok := env.Graph.Node(id); ok && n.Preferred {
			return 0
		}
		return 1
	}}}

	// Frontload sorts by descending usage count. It reads the counters
	// directly and is not allowed in the usage pass.
	Frontload Strategy = keyedSort{"frontload", func(env Env, id dag.NodeID) int {
		return -env.Usages.Count(id)
	}}

	// Backload sorts by ascending usage count. Not allowed in the usage pass.
	Backload Strategy = keyedSort{"backload", func(env Env, id dag.NodeID) int {
		return env.Usages.Count(id)
	}}

	// Leaf aggregates do not depend on sibling order, so sorting by them is
	// accepted for the usage pass.

	// FrontloadMaxLeaf sorts by descending max-leaf-usage.
	FrontloadMaxLeaf PassStrategy = passSort{keyedSort{"frontload-max", func(env Env, id dag.NodeID) int {
		return -env.Usages.MaxLeaf(env.Graph, id)
	}}}

	// BackloadMaxLeaf sorts by ascending max-leaf-usage.
	BackloadMaxLeaf PassStrategy = passSort{keyedSort{"backload-max", func(env Env, id dag.NodeID) int {
		return env.Usages.MaxLeaf(env.Graph, id)
	}}}

	// FrontloadSumLeaf sorts by descending sum-leaf-usage.
	FrontloadSumLeaf PassStrategy = passSort{keyedSort{"frontload-sum", func(env Env, id dag.NodeID) int {
		return -env.Usages.SumLeaf(env.Graph, id)
	}}}

	// BackloadSumLeaf sorts by ascending sum-leaf-usage.
	BackloadSumLeaf PassStrategy = passSort{keyedSort{"backload-sum", func(env Env, id dag.NodeID) int {
		return env.Usages.SumLeaf(env.Graph, id)
	}}}
)

// identity is All. It has its own type so TieBreak can tell it apart.
type identity struct{}

func (identity) Name() string { return "all" }

func (identity) Apply(_ Env, ids []dag.NodeID) []dag.NodeID { return slices.Clone(ids) }

func (identity) usagePassSafe() {}

// keyedSort stably sorts by key, smallest first.
type keyedSort struct {
	name string
	key  func(env Env, id dag.NodeID) int
}

func (s keyedSort) Name() string { return s.name }

func (s keyedSort) Key(env Env, id dag.NodeID) int { return s.key(env, id) }

func (s keyedSort) Apply(env Env, ids []dag.NodeID) []dag.NodeID {
	return sortKeyed(ids, func(id dag.NodeID) int { return s.key(env, id) }, nil)
}

// passSort is a keyedSort whose key never depends on sibling order.
type passSort struct {
	keyedSort
}

func (passSort) usagePassSafe() {}

func payloadSize(g *dag.Graph, id dag.NodeID) int {
	if n, ok := g.Node(id); ok {
		return n.Size()
	}
	return 0
}

// sortKeyed returns a stably sorted copy of ids, ordered by key and then by
// tie when tie is non-nil. Keys are computed once per element.
func sortKeyed(ids []dag.NodeID, key func(dag.NodeID) int, tie func(a, b dag.NodeID) int) []dag.NodeID {
	type keyed struct {
		id  dag.NodeID
		key int
	}
	ks := make([]keyed, len(ids))
	for i, id := range ids {
		ks[i] = keyed{id: id, key: key(id)}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		if c := cmp.Compare(a.key, b.key); c != 0 || tie == nil {
			return c
		}
		return tie(a.id, b.id)
	})
	out := make([]dag.NodeID, len(ks))
	for i, k := range ks {
		out[i] = k.id
	}
	return out
}
