package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/progression/pkg/dag"
	"github.com/matzehuels/progression/pkg/usage"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Root limits the diagram to the nodes reachable from it when HasRoot
	// is set. Otherwise every node is drawn.
	Root    dag.NodeID
	HasRoot bool

	// Order numbers the units by their position in a progression. Units
	// missing from a non-empty Order were filtered out by the strategies and
	// are drawn dashed.
	Order []dag.NodeID

	// Usages adds usage counts to the labels when set.
	Usages *usage.Table
}

// ToDOT converts a graph to Graphviz DOT format. Units are rounded boxes,
// choices are diamonds, and edges point from a dependency to the node that
// needs it.
func ToDOT(g *dag.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	ids := make([]dag.NodeID, 0, g.Len())
	if opts.HasRoot {
		ids = g.Reachable(opts.Root)
	} else {
		for _, n := range g.Nodes() {
			ids = append(ids, n.ID)
		}
	}

	position := make(map[dag.NodeID]int, len(opts.Order))
	for i, id := range opts.Order {
		position[id] = i + 1
	}

	for _, id := range ids {
		n := g.MustNode(id)
		attrs := fmtAttrs(n, fmtLabel(n, position[id], opts.Usages))
		if n.IsUnit() && len(opts.Order) > 0 && position[id] == 0 {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, id := range ids {
		for _, e := range g.MustNode(id).Edges() {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", e, id)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *dag.Node, position int, usages *usage.Table) string {
	var parts []string
	switch n.Kind {
	case dag.KindUnit:
		parts = append(parts, n.Name)
		if position > 0 {
			parts = append(parts, "#"+strconv.Itoa(position))
		}
	case dag.KindChoice:
		parts = append(parts, "or")
	}
	if usages != nil {
		parts = append(parts, fmt.Sprintf("usages: %d", usages.Count(n.ID)))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *dag.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Kind {
	case dag.KindChoice:
		attrs = append(attrs, "shape=diamond", "style=filled", "fontsize=18")
	case dag.KindUnit:
		if n.Preferred {
			attrs = append(attrs, "penwidth=3")
		}
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag to a zero-origin viewBox with
// matching width and height so the diagram scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
