package strategy

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrUnknownStrategy is returned when a strategy name is not registered.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrNotPassSafe is returned when a strategy that reads usage counters
	// is requested for the usage pass.
	ErrNotPassSafe = errors.New("strategy reads usage counters and cannot drive the usage pass")
)

// builtins lists the registered strategies in display order.
var builtins = []Strategy{
	All,
	Reverse,
	First,
	None,
	Unique,
	SmallerFirst,
	LargerFirst,
	ByCreation,
	ByCreationReverse,
	PreferredFirst,
	Frontload,
	Backload,
	FrontloadMaxLeaf,
	BackloadMaxLeaf,
	FrontloadSumLeaf,
	BackloadSumLeaf,
}

// aliases maps legacy underscore names to strategies.
var aliases = map[string]string{
	"takeall":          "all",
	"takeall_reversed": "reverse",
	"takefirst":        "first",
	"takenone":         "none",
	"smaller_first":    "smaller-first",
	"larger_first":     "larger-first",
}

// Builtins returns the registered strategies in display order.
func Builtins() []Strategy {
	return append([]Strategy(nil), builtins...)
}

// AliasesOf returns the legacy names that resolve to name, sorted.
func AliasesOf(name string) []string {
	var out []string
	for alias, target := range aliases {
		if target == name {
			out = append(out, alias)
		}
	}
	slices.Sort(out)
	return out
}

// Names returns the names of the registered strategies.
func Names() []string {
	names := make([]string, len(builtins))
	for i, s := range builtins {
		names[i] = s.Name()
	}
	return names
}

// Lookup returns the registered strategy with the given name.
func Lookup(name string) (Strategy, error) {
	name = strings.TrimSpace(name)
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	for _, s := range builtins {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownStrategy, name, strings.Join(Names(), ", "))
}

// LookupPass returns the registered strategy with the given name if it may
// drive the usage pass.
func LookupPass(name string) (PassStrategy, error) {
	s, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	ps, ok := s.(PassStrategy)
	if !ok {
		return nil, fmt.Errorf("%q: %w", s.Name(), ErrNotPassSafe)
	}
	return ps, nil
}

// Parse resolves an expression of "+"-separated strategy names into a
// composed strategy. As with Compose, the rightmost name runs first:
// "reverse+smaller-first" sorts by size and then reverses. An empty
// expression yields All.
func Parse(expr string) (Strategy, error) {
	names := splitExpr(expr)
	parts := make([]Strategy, 0, len(names))
	for _, n := range names {
		s, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	return Compose(parts...), nil
}

// ParsePass is Parse for the usage pass. Every component must be pass-safe.
func ParsePass(expr string) (PassStrategy, error) {
	names := splitExpr(expr)
	parts := make([]PassStrategy, 0, len(names))
	for _, n := range names {
		s, err := LookupPass(n)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	return ComposePass(parts...), nil
}

func splitExpr(expr string) []string {
	var names []string
	for _, n := range strings.Split(expr, "+") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
