package compare

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/progression/pkg/dag"
	"github.com/matzehuels/progression/pkg/progression"
	"github.com/matzehuels/progression/pkg/strategy"
)

func siblings() (*dag.Graph, dag.NodeID) {
	g := dag.New()
	a := g.MustUnit("A", "aaa")
	b := g.MustUnit("B", "b")
	c := g.MustUnit("C", "cc")
	return g, g.MustUnit("R", "", a, b, c)
}

func TestRun_IdentityLeavesTiesOpen(t *testing.T) {
	g, root := siblings()

	r, err := Run(g, root, progression.Params{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got, want := names(g, r.Ascending), []string{"A", "B", "C", "R"}; !slices.Equal(got, want) {
		t.Errorf("Ascending = %v, want %v", got, want)
	}
	if got, want := names(g, r.Descending), []string{"C", "B", "A", "R"}; !slices.Equal(got, want) {
		t.Errorf("Descending = %v, want %v", got, want)
	}
	if got := r.Differences(); got != 2 {
		t.Errorf("Differences() = %d, want 2", got)
	}
}

func TestRun_DecisiveStrategy(t *testing.T) {
	g, root := siblings()

	r, err := Run(g, root, progression.Params{Level: strategy.SmallerFirst})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := r.Differences(); got != 0 {
		t.Errorf("Differences() = %d, want 0", got)
	}
	if got, want := names(g, r.Ascending), []string{"B", "C", "A", "R"}; !slices.Equal(got, want) {
		t.Errorf("Ascending = %v, want %v", got, want)
	}
}

func TestRun_StableSortFallsBackOnCreation(t *testing.T) {
	g := dag.New()
	a := g.MustUnit("A", "xx")
	b := g.MustUnit("B", "yy")
	c := g.MustUnit("C", "z")
	root := g.MustUnit("R", "", b, a, c)

	r, err := Run(g, root, progression.Params{Level: strategy.LargerFirst})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	// A and B tie on size.
	if got, want := names(g, r.Ascending), []string{"A", "B", "C", "R"}; !slices.Equal(got, want) {
		t.Errorf("Ascending = %v, want %v", got, want)
	}
	if got, want := names(g, r.Descending), []string{"B", "A", "C", "R"}; !slices.Equal(got, want) {
		t.Errorf("Descending = %v, want %v", got, want)
	}
}

func TestRun_ChoiceKeepsDeclaredFirst(t *testing.T) {
	g := dag.New()
	a := g.MustUnit("A", "a")
	b := g.MustUnit("B", "b")
	root := g.MustUnit("R", "", g.MustChoice(b, a))

	gen, err := progression.Generate(g, root, progression.Params{})
	if err != nil {
		t.Fatal(err)
	}
	r, err := Run(g, root, progression.Params{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want := names(g, gen.Order)
	if got := names(g, r.Ascending); !slices.Equal(got, want) {
		t.Errorf("Ascending = %v, want %v as generated", got, want)
	}
	if got := names(g, r.Descending); !slices.Equal(got, want) {
		t.Errorf("Descending = %v, want %v as generated", got, want)
	}
}

func TestRun_PositionalLevelIsNotOverridden(t *testing.T) {
	g := dag.New()
	x := g.MustUnit("X", "x")
	y := g.MustUnit("Y", "y")
	root := g.MustUnit("R", "", y, x)

	r, err := Run(g, root, progression.Params{Level: strategy.Reverse})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want := []string{"X", "Y", "R"}
	if got := names(g, r.Ascending); !slices.Equal(got, want) {
		t.Errorf("Ascending = %v, want %v", got, want)
	}
	if got := r.Differences(); got != 0 {
		t.Errorf("Differences() = %d, want 0", got)
	}
}

func TestRun_PropagatesErrors(t *testing.T) {
	g := dag.New()
	x := g.MustUnit("X", "")
	c := g.MustChoice(x)
	if _, err := Run(g, c, progression.Params{}); err == nil {
		t.Error("Run() on a choice root should fail")
	}
}

func TestReport_Render(t *testing.T) {
	g, root := siblings()
	r, err := Run(g, root, progression.Params{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	gap := strings.Repeat(" ", 10)
	want := strings.Join([]string{
		"#  ascending  descending",
		"1  A" + gap + "C  *",
		"2  B" + gap + "B",
		"3  C" + gap + "A  *",
		"4  R" + gap + "R",
	}, "\n") + "\n"
	if got := buf.String(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestReport_RenderWideRunes(t *testing.T) {
	g := dag.New()
	a := g.MustUnit("Überlänge", "a")
	b := g.MustUnit("B", "b")
	root := g.MustUnit("R", "", a, b)

	r, err := Run(g, root, progression.Params{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	// The descending column starts at the same display cell on every row.
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	col := -1
	for _, line := range lines[1:] {
		fields := strings.SplitN(line[3:], "  ", 2)
		start := len([]rune(fields[0]))
		if rest := strings.TrimLeft(fields[1], " "); rest != "" {
			start += 2 + len([]rune(fields[1])) - len([]rune(rest))
		}
		if col >= 0 && start != col {
			t.Errorf("misaligned row %q", line)
		}
		col = start
	}
}

func names(g *dag.Graph, ids []dag.NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = g.MustNode(id).Name
	}
	return out
}
