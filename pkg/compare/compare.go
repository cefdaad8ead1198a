// Package compare shows how much of a progression the strategies actually
// decide.
//
// [Run] generates the same progression twice, once with every remaining tie
// broken by ascending creation order and once by descending creation order.
// Only ties are broken: sorting strategies order equal keys by creation, and
// strategies that pick by position (first, reverse) decide as they would in
// a plain run. Rows where the two disagree are positions the strategies
// left open; rows that agree are pinned down by the strategies or by the
// dependency order.
package compare

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/progression/pkg/dag"
	"github.com/matzehuels/progression/pkg/progression"
	"github.com/matzehuels/progression/pkg/strategy"
)

// Report holds the two tie-broken progressions side by side.
type Report struct {
	Ascending  []dag.NodeID
	Descending []dag.NodeID

	graph *dag.Graph
}

// Run generates the ascending and descending progressions for root. See
// [strategy.TieBreak] for how each strategy is tie-broken.
func Run(g *dag.Graph, root dag.NodeID, p progression.Params) (*Report, error) {
	p = p.WithDefaults()

	asc, err := progression.Generate(g, root, tieBreak(p, false))
	if err != nil {
		return nil, fmt.Errorf("ascending: %w", err)
	}
	desc, err := progression.Generate(g, root, tieBreak(p, true))
	if err != nil {
		return nil, fmt.Errorf("descending: %w", err)
	}
	return &Report{Ascending: asc.Order, Descending: desc.Order, graph: g}, nil
}

func tieBreak(p progression.Params, desc bool) progression.Params {
	p.Level = strategy.TieBreak(p.Level, desc)
	p.Choice = strategy.TieBreak(p.Choice, desc)
	p.UsageLevel = strategy.TieBreakPass(p.UsageLevel, desc)
	p.UsageChoice = strategy.TieBreakPass(p.UsageChoice, desc)
	return p
}

// Len returns the number of rows, the length of the longer progression.
func (r *Report) Len() int {
	return max(len(r.Ascending), len(r.Descending))
}

// Differences returns the number of rows where the two progressions differ.
func (r *Report) Differences() int {
	n := 0
	for i := 0; i < r.Len(); i++ {
		if r.differs(i) {
			n++
		}
	}
	return n
}

func (r *Report) differs(i int) bool {
	a, aok := at(r.Ascending, i)
	d, dok := at(r.Descending, i)
	return aok != dok || a != d
}

// Render writes the report as aligned columns: row number, ascending name,
// descending name, and a "*" on rows that differ.
func (r *Report) Render(w io.Writer) error {
	rows := r.Len()
	left := make([]string, rows)
	right := make([]string, rows)
	nameWidth := lipgloss.Width("ascending")
	for i := 0; i < rows; i++ {
		left[i] = r.name(r.Ascending, i)
		right[i] = r.name(r.Descending, i)
		nameWidth = max(nameWidth, lipgloss.Width(left[i]))
	}
	numWidth := len(strconv.Itoa(rows))

	var b strings.Builder
	b.WriteString(pad("#", numWidth) + "  " + pad("ascending", nameWidth) + "  descending\n")
	for i := 0; i < rows; i++ {
		b.WriteString(pad(strconv.Itoa(i+1), numWidth))
		b.WriteString("  ")
		b.WriteString(pad(left[i], nameWidth))
		b.WriteString("  ")
		b.WriteString(right[i])
		if r.differs(i) {
			b.WriteString("  *")
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Report) name(order []dag.NodeID, i int) string {
	id, ok := at(order, i)
	if !ok {
		return ""
	}
	return r.graph.Label(id)
}

func at(order []dag.NodeID, i int) (dag.NodeID, bool) {
	if i < len(order) {
		return order[i], true
	}
	return 0, false
}

// pad right-pads s with spaces to width display cells.
func pad(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
