// Package export turns a generated progression into text for people and
// tools.
//
// Three formats are supported:
//
//   - names: one line per unit, "<name> (<size>)"
//   - layouts: an optional prelude followed by one "message Level <i>" block
//     per unit that carries a payload, numbered from 1
//   - json: an indented list with usage statistics per unit
//
// [Clipboard] abstracts the system clipboard so the CLI can copy an export
// or step through payloads one at a time.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/progression/pkg/dag"
	"github.com/matzehuels/progression/pkg/progression"
)

// ErrUnknownFormat is returned for an unsupported export format.
var ErrUnknownFormat = errors.New("unknown export format")

// Format is an export format.
type Format string

// Export formats.
const (
	FormatNames   Format = "names"
	FormatLayouts Format = "layouts"
	FormatJSON    Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatNames, FormatLayouts, FormatJSON}

// ParseFormat validates a format name. The empty string means names.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatNames, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (must be one of: names, layouts, json)", ErrUnknownFormat, s)
}

// Write renders res in the given format. prelude is only used by layouts.
func Write(w io.Writer, format Format, g *dag.Graph, res *progression.Result, prelude string) error {
	switch format {
	case FormatNames, "":
		return WriteNames(w, g, res.Order)
	case FormatLayouts:
		return WriteLayouts(w, g, res.Order, prelude)
	case FormatJSON:
		return WriteJSON(w, g, res)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// WriteNames writes "<name> (<size>)" per unit.
func WriteNames(w io.Writer, g *dag.Graph, order []dag.NodeID) error {
	var b strings.Builder
	for _, id := range order {
		n := g.MustNode(id)
		fmt.Fprintf(&b, "%s (%d)\n", n.Name, n.Size())
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteLayouts writes prelude followed by a numbered message block for
// every unit with a payload. Units without a payload are skipped and do not
// consume a number.
func WriteLayouts(w io.Writer, g *dag.Graph, order []dag.NodeID, prelude string) error {
	var b strings.Builder
	b.WriteString(prelude)
	i := 0
	for _, id := range order {
		n := g.MustNode(id)
		if !n.Exportable() {
			continue
		}
		i++
		fmt.Fprintf(&b, "message Level %d\n\n%s\n\n", i, n.Payload)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Entry is one unit of a JSON export.
type Entry struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Size      int    `json:"size"`
	Usages    int    `json:"usages"`
	MaxLeaf   int    `json:"max_leaf_usage"`
	SumLeaf   int    `json:"sum_leaf_usage"`
	Preferred bool   `json:"preferred,omitempty"`
	Payload   string `json:"payload,omitempty"`
}

// Entries builds the JSON export rows for res, indexed from 1.
func Entries(g *dag.Graph, res *progression.Result) []Entry {
	out := make([]Entry, len(res.Order))
	for i, id := range res.Order {
		n := g.MustNode(id)
		out[i] = Entry{
			Index:     i + 1,
			Name:      n.Name,
			Size:      n.Size(),
			Usages:    res.Usages.Count(id),
			MaxLeaf:   res.Usages.MaxLeaf(g, id),
			SumLeaf:   res.Usages.SumLeaf(g, id),
			Preferred: n.Preferred,
			Payload:   n.Payload,
		}
	}
	return out
}

// WriteJSON writes Entries as an indented JSON array.
func WriteJSON(w io.Writer, g *dag.Graph, res *progression.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Entries(g, res)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Step returns what to paste when playing a single unit: the prelude
// followed by the unit's payload.
func Step(prelude string, n *dag.Node) string {
	return prelude + n.Payload
}
