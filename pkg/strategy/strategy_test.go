package strategy

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/progression/pkg/dag"
	"github.com/matzehuels/progression/pkg/usage"
)

// fixture has four units with payload sizes 3, 1, 3, 2; "b" is preferred.
func fixture(t *testing.T) (Env, []dag.NodeID) {
	t.Helper()
	g := dag.New()
	a := g.MustUnit("a", "aaa")
	b, err := g.AddUnit(dag.Unit{Name: "b", Payload: "b", Preferred: true})
	if err != nil {
		t.Fatal(err)
	}
	c := g.MustUnit("c", "c\ncc")
	d := g.MustUnit("d", "dd")

	u := usage.New(g)
	u.Inc(c)
	u.Inc(c)
	u.Inc(a)
	return Env{Graph: g, Usages: u}, []dag.NodeID{a, b, c, d}
}

func TestBuiltins(t *testing.T) {
	env, ids := fixture(t)
	a, b, c, d := ids[0], ids[1], ids[2], ids[3]

	tests := []struct {
		s    Strategy
		want []dag.NodeID
	}{
		{All, []dag.NodeID{a, b, c, d}},
		{Reverse, []dag.NodeID{d, c, b, a}},
		{First, []dag.NodeID{a}},
		{None, nil},
		{SmallerFirst, []dag.NodeID{b, d, a, c}},
		{LargerFirst, []dag.NodeID{a, c, d, b}},
		{ByCreation, []dag.NodeID{a, b, c, d}},
		{ByCreationReverse, []dag.NodeID{d, c, b, a}},
		{PreferredFirst, []dag.NodeID{b, a, c, d}},
		{Frontload, []dag.NodeID{c, a, b, d}},
		{Backload, []dag.NodeID{b, d, a, c}},
		{FrontloadMaxLeaf, []dag.NodeID{c, a, b, d}},
		{BackloadSumLeaf, []dag.NodeID{b, d, a, c}},
	}

	for _, tt := range tests {
		t.Run(tt.s.Name(), func(t *testing.T) {
			got := tt.s.Apply(env, ids)
			if !slices.Equal(got, tt.want) {
				t.Errorf("%s.Apply() = %v, want %v", tt.s.Name(), got, tt.want)
			}
		})
	}
}

func TestBuiltins_DoNotModifyInput(t *testing.T) {
	env, ids := fixture(t)
	orig := slices.Clone(ids)
	for _, s := range Builtins() {
		s.Apply(env, ids)
		if !slices.Equal(ids, orig) {
			t.Fatalf("%s modified its input: %v", s.Name(), ids)
		}
	}
}

func TestBuiltins_ReturnSubset(t *testing.T) {
	env, ids := fixture(t)
	for _, s := range Builtins() {
		for _, id := range s.Apply(env, ids) {
			if !slices.Contains(ids, id) {
				t.Errorf("%s introduced node %d", s.Name(), id)
			}
		}
	}
}

func TestFirst_Empty(t *testing.T) {
	env, _ := fixture(t)
	if got := First.Apply(env, nil); got != nil {
		t.Errorf("First.Apply(nil) = %v, want nil", got)
	}
}

func TestUnique(t *testing.T) {
	env, ids := fixture(t)
	a, b := ids[0], ids[1]
	got := Unique.Apply(env, []dag.NodeID{b, a, b, a, b})
	if want := []dag.NodeID{b, a}; !slices.Equal(got, want) {
		t.Errorf("Unique.Apply() = %v, want %v", got, want)
	}
}

func TestCompose(t *testing.T) {
	env, ids := fixture(t)
	a, b, c, d := ids[0], ids[1], ids[2], ids[3]

	// SmallerFirst runs first, then Reverse
	s := Compose(Reverse, SmallerFirst)
	if got, want := s.Apply(env, ids), []dag.NodeID{c, a, d, b}; !slices.Equal(got, want) {
		t.Errorf("Compose(Reverse, SmallerFirst) = %v, want %v", got, want)
	}
	if s.Name() != "reverse+smaller-first" {
		t.Errorf("Name() = %q", s.Name())
	}

	// First after a sort picks the sort's winner
	if got := Compose(First, LargerFirst).Apply(env, ids); !slices.Equal(got, []dag.NodeID{a}) {
		t.Errorf("Compose(First, LargerFirst) = %v, want [a]", got)
	}

	if got := Compose().Name(); got != "all" {
		t.Errorf("Compose().Name() = %q, want all", got)
	}
	if got := Compose(Reverse).Name(); got != "reverse" {
		t.Errorf("Compose(Reverse).Name() = %q, want reverse", got)
	}
}

func TestCompose_Associative(t *testing.T) {
	env, ids := fixture(t)
	left := Compose(Compose(Reverse, SmallerFirst), PreferredFirst)
	right := Compose(Reverse, Compose(SmallerFirst, PreferredFirst))
	flat := Compose(Reverse, SmallerFirst, PreferredFirst)

	l, r, f := left.Apply(env, ids), right.Apply(env, ids), flat.Apply(env, ids)
	if !slices.Equal(l, r) || !slices.Equal(r, f) {
		t.Errorf("composition not associative: %v / %v / %v", l, r, f)
	}
}

func TestPassSafety(t *testing.T) {
	tests := []struct {
		s    Strategy
		want bool
	}{
		{All, true},
		{First, true},
		{SmallerFirst, true},
		{FrontloadMaxLeaf, true},
		{BackloadSumLeaf, true},
		{Frontload, false},
		{Backload, false},
		{ComposePass(Reverse, SmallerFirst), true},
		{Compose(Reverse, SmallerFirst), false},
		{New("custom", func(_ Env, ids []dag.NodeID) []dag.NodeID { return ids }), false},
		{NewStructural("custom", func(_ *dag.Graph, ids []dag.NodeID) []dag.NodeID { return ids }), true},
	}
	for _, tt := range tests {
		if got := IsPassSafe(tt.s); got != tt.want {
			t.Errorf("IsPassSafe(%s) = %v, want %v", tt.s.Name(), got, tt.want)
		}
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		s, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q) error: %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("Lookup(%q).Name() = %q", name, s.Name())
		}
	}

	if s, err := Lookup("smaller_first"); err != nil || s.Name() != "smaller-first" {
		t.Errorf("Lookup(alias) = %v, %v", s, err)
	}
	if _, err := Lookup("bogus"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("Lookup(bogus) error = %v, want ErrUnknownStrategy", err)
	}
}

func TestLookupPass(t *testing.T) {
	if _, err := LookupPass("frontload"); !errors.Is(err, ErrNotPassSafe) {
		t.Errorf("LookupPass(frontload) error = %v, want ErrNotPassSafe", err)
	}
	if _, err := LookupPass("frontload-max"); err != nil {
		t.Errorf("LookupPass(frontload-max) error: %v", err)
	}
}

func TestParse(t *testing.T) {
	env, ids := fixture(t)

	s, err := Parse(" reverse + smaller-first ")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := Compose(Reverse, SmallerFirst).Apply(env, ids)
	if got := s.Apply(env, ids); !slices.Equal(got, want) {
		t.Errorf("Parse().Apply() = %v, want %v", got, want)
	}

	empty, err := Parse("")
	if err != nil || empty.Name() != "all" {
		t.Errorf("Parse(\"\") = %v, %v, want All", empty, err)
	}

	if _, err := Parse("reverse+nope"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("Parse() error = %v, want ErrUnknownStrategy", err)
	}
	if _, err := ParsePass("reverse+backload"); !errors.Is(err, ErrNotPassSafe) {
		t.Errorf("ParsePass() error = %v, want ErrNotPassSafe", err)
	}
	ps, err := ParsePass("first+backload-max")
	if err != nil || !IsPassSafe(ps) {
		t.Errorf("ParsePass() = %v, %v", ps, err)
	}
}

func TestTieBreak(t *testing.T) {
	env, ids := fixture(t)
	a, b, c, d := ids[0], ids[1], ids[2], ids[3]
	in := []dag.NodeID{c, d, a, b}

	tests := []struct {
		name string
		s    Strategy
		desc bool
		want []dag.NodeID
	}{
		// a and c both have size 3.
		{"keyed ascending", LargerFirst, false, []dag.NodeID{a, c, d, b}},
		{"keyed descending", LargerFirst, true, []dag.NodeID{c, a, d, b}},
		{"bare all", All, false, []dag.NodeID{a, b, c, d}},
		{"bare all descending", All, true, []dag.NodeID{d, c, b, a}},
		{"first untouched", First, false, []dag.NodeID{c}},
		{"reverse untouched", Reverse, false, []dag.NodeID{b, a, d, c}},
		{"all inside composition stays identity", Compose(First, All), false, []dag.NodeID{c}},
		{"composition parts", Compose(First, SmallerFirst), true, []dag.NodeID{b}},
		{"usage keyed", Backload, true, []dag.NodeID{d, b, a, c}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TieBreak(tt.s, tt.desc).Apply(env, in)
			if !slices.Equal(got, tt.want) {
				t.Errorf("TieBreak(%s).Apply() = %v, want %v", tt.s.Name(), got, tt.want)
			}
		})
	}
}

func TestTieBreak_KeepsNameAndPassSafety(t *testing.T) {
	for _, s := range []Strategy{All, SmallerFirst, ComposePass(Reverse, SmallerFirst), FrontloadSumLeaf, Frontload} {
		tb := TieBreak(s, true)
		if tb.Name() != s.Name() {
			t.Errorf("TieBreak(%s).Name() = %q", s.Name(), tb.Name())
		}
		if IsPassSafe(tb) != IsPassSafe(s) {
			t.Errorf("TieBreak(%s) pass safety = %v, want %v", s.Name(), IsPassSafe(tb), IsPassSafe(s))
		}
	}
	if got := TieBreakPass(All, false).Apply(Env{}, []dag.NodeID{2, 0, 1}); !slices.Equal(got, []dag.NodeID{0, 1, 2}) {
		t.Errorf("TieBreakPass(All).Apply() = %v", got)
	}
}
