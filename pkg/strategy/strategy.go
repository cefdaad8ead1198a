package strategy

import (
	"strings"

	"github.com/matzehuels/progression/pkg/dag"
	"github.com/matzehuels/progression/pkg/usage"
)

// Env is what a strategy may read while it filters or reorders candidates.
// Usages is the counter table of the run in progress; during the usage pass
// it is still being filled in.
type Env struct {
	Graph  *dag.Graph
	Usages *usage.Table
}

// Strategy filters and reorders a sequence of candidate nodes. The result
// must only contain nodes from ids; order and length may change. Apply
// must not modify ids and must be deterministic for a given Env.
type Strategy interface {
	Name() string
	Apply(env Env, ids []dag.NodeID) []dag.NodeID
}

// PassStrategy is a Strategy that may drive the usage pass. Strategies
// that read raw usage counters do not implement it, because the usage pass
// is what produces those counters.
type PassStrategy interface {
	Strategy
	usagePassSafe()
}

// Func is the signature of a general strategy.
type Func func(env Env, ids []dag.NodeID) []dag.NodeID

// StructuralFunc is the signature of a strategy that only looks at the
// graph: names, payloads, creation order and preference flags.
type StructuralFunc func(g *dag.Graph, ids []dag.NodeID) []dag.NodeID

// New wraps fn as a named Strategy. The result can read usage counters and
// therefore cannot be used for the usage pass.
func New(name string, fn Func) Strategy {
	return general{name: name, fn: fn}
}

// NewStructural wraps fn as a named PassStrategy. fn never sees the usage
// table, which is what makes it safe for the usage pass.
func NewStructural(name string, fn StructuralFunc) PassStrategy {
	return structural{name: name, fn: fn}
}

type general struct {
	name string
	fn   Func
}

func (s general) Name() string { return s.name }

func (s general) Apply(env Env, ids []dag.NodeID) []dag.NodeID { return s.fn(env, ids) }

type structural struct {
	name string
	fn   StructuralFunc
}

func (s structural) Name() string { return s.name }

func (s structural) Apply(env Env, ids []dag.NodeID) []dag.NodeID { return s.fn(env.Graph, ids) }

func (structural) usagePassSafe() {}

// Compose returns a strategy that applies fs from last to first:
// Compose(a, b) runs b, then runs a on b's result. With no arguments it
// returns All.
func Compose(fs ...Strategy) Strategy {
	switch len(fs) {
	case 0:
		return All
	case 1:
		return fs[0]
	}
	return composed{parts: fs}
}

// ComposePass is Compose for usage-pass strategies. The result is itself
// safe for the usage pass.
func ComposePass(fs ...PassStrategy) PassStrategy {
	switch len(fs) {
	case 0:
		return All
	case 1:
		return fs[0]
	}
	parts := make([]Strategy, len(fs))
	for i, f := range fs {
		parts[i] = f
	}
	return composedPass{composed{parts: parts}}
}

type composed struct {
	parts []Strategy
}

func (c composed) Name() string {
	names := make([]string, len(c.parts))
	for i, p := range c.parts {
		names[i] = p.Name()
	}
	return strings.Join(names, "+")
}

func (c composed) Apply(env Env, ids []dag.NodeID) []dag.NodeID {
	acc := ids
	for i := len(c.parts) - 1; i >= 0; i-- {
		acc = c.parts[i].Apply(env, acc)
	}
	return acc
}

type composedPass struct {
	composed
}

func (composedPass) usagePassSafe() {}

// IsPassSafe reports whether s may be used for the usage pass.
func IsPassSafe(s Strategy) bool {
	_, ok := s.(PassStrategy)
	return ok
}
