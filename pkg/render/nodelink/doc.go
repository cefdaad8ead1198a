// Package nodelink renders progression graphs as node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Root: root, HasRoot: true, Order: res.Order})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// Units are drawn as rounded boxes labeled with their name and, when an
// order is supplied, their position in the progression. Choices are
// diamonds labeled "or". Edges run from a dependency to its dependent, so
// with rankdir=TB the diagram reads top to bottom in learning order.
//
// Units that a strategy filtered out of the progression are dashed and
// grey, which makes it easy to see which branches of a choice were skipped.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. The DOT source can also be fed to the dot command directly.
package nodelink
