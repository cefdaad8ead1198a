package strategy

import (
	"cmp"

	"github.com/matzehuels/progression/pkg/dag"
)

// Keyed is implemented by strategies that stably sort candidates by an
// integer key, smallest first. Candidates with equal keys keep their input
// order; [TieBreak] orders them by creation instead.
type Keyed interface {
	Strategy
	Key(env Env, id dag.NodeID) int
}

// TieBreak returns s with the ties its sorts leave open broken by creation
// order, ascending or descending when desc is set.
//
// Keyed strategies sort by their key first and creation second. A bare All
// leaves every candidate tied and becomes a pure creation-order sort.
// Compositions are rewritten part by part, except that an All inside a
// composition stays the identity, so the decisions of the parts around it
// are not changed. Every other strategy, such as First or Reverse, decides
// by position and is returned unchanged.
func TieBreak(s Strategy, desc bool) Strategy {
	if _, ok := s.(identity); ok {
		return tieBreakPass{tieBreak{allTied{}, desc}}
	}
	return tieBreakPart(s, desc)
}

// TieBreakPass is TieBreak for usage-pass strategies. The result is still
// safe for the usage pass.
func TieBreakPass(s PassStrategy, desc bool) PassStrategy {
	return TieBreak(s, desc).(PassStrategy)
}

func tieBreakPart(s Strategy, desc bool) Strategy {
	switch s := s.(type) {
	case composedPass:
		return composedPass{rewrite(s.composed, desc)}
	case composed:
		return rewrite(s, desc)
	case passSort:
		return tieBreakPass{tieBreak{s, desc}}
	case tieBreak, tieBreakPass:
		return s
	case Keyed:
		if IsPassSafe(s) {
			return tieBreakPass{tieBreak{s, desc}}
		}
		return tieBreak{s, desc}
	}
	return s
}

func rewrite(c composed, desc bool) composed {
	parts := make([]Strategy, len(c.parts))
	for i, p := range c.parts {
		parts[i] = tieBreakPart(p, desc)
	}
	return composed{parts: parts}
}

// allTied is the key of a bare All.
type allTied struct{}

func (allTied) Name() string { return "all" }

func (allTied) Key(Env, dag.NodeID) int { return 0 }

func (allTied) Apply(env Env, ids []dag.NodeID) []dag.NodeID { return All.Apply(env, ids) }

type tieBreak struct {
	inner Keyed
	desc  bool
}

func (t tieBreak) Name() string { return t.inner.Name() }

func (t tieBreak) Apply(env Env, ids []dag.NodeID) []dag.NodeID {
	byCreation := func(a, b dag.NodeID) int {
		if t.desc {
			return cmp.Compare(b, a)
		}
		return cmp.Compare(a, b)
	}
	return sortKeyed(ids, func(id dag.NodeID) int { return t.inner.Key(env, id) }, byCreation)
}

type tieBreakPass struct {
	tieBreak
}

func (tieBreakPass) usagePassSafe() {}
