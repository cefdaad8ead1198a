package definition

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/matzehuels/progression/pkg/dag"
)

var (
	// ErrInvalid is returned for definitions that decode but do not describe
	// a usable graph: bad kinds, misplaced fields or a missing root.
	ErrInvalid = errors.New("invalid definition")

	// ErrUnknownFormat is returned for an unsupported file format.
	ErrUnknownFormat = errors.New("unknown definition format")
)

// Node kinds as written in definition files.
const (
	KindUnit   = "unit"
	KindChoice = "choice"
)

// =============================================================================
// Document - Serialized Form
// =============================================================================

// Document is the on-disk form of a graph. Nodes may be listed in three
// tables; they are declared in the order Nodes, Units, Choices, each in file
// order, and that order becomes the creation order of the graph.
type Document struct {
	Root    string `toml:"root,omitempty" json:"root,omitempty"`
	Nodes   []Node `toml:"node,omitempty" json:"nodes,omitempty"`     // kind required
	Units   []Node `toml:"unit,omitempty" json:"units,omitempty"`     // kind implied
	Choices []Node `toml:"choice,omitempty" json:"choices,omitempty"` // kind implied
}

// Node is one declared unit or choice. References in Deps and Opts are keys
// of other nodes and may point forward.
type Node struct {
	Kind      string   `toml:"kind,omitempty" json:"kind,omitempty"`
	Key       string   `toml:"key" json:"key"`
	Name      string   `toml:"name,omitempty" json:"name,omitempty"` // defaults to Key
	Payload   string   `toml:"payload,omitempty" json:"payload,omitempty"`
	Preferred bool     `toml:"preferred,omitempty" json:"preferred,omitempty"`
	Deps      []string `toml:"deps,omitempty" json:"deps,omitempty"`
	Opts      []string `toml:"opts,omitempty" json:"opts,omitempty"`
}

// =============================================================================
// File - Loaded Graph
// =============================================================================

// File is a decoded and validated definition.
type File struct {
	Graph   *dag.Graph
	Keys    map[string]dag.NodeID
	Root    dag.NodeID // valid only if HasRoot
	HasRoot bool

	names map[dag.NodeID]string
}

// Lookup returns the node declared under key.
func (f *File) Lookup(key string) (dag.NodeID, error) {
	id, ok := f.Keys[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", dag.ErrUnknownNode, key)
	}
	return id, nil
}

// Key returns the key id was declared under.
func (f *File) Key(id dag.NodeID) string {
	if k, ok := f.names[id]; ok {
		return k
	}
	return "n" + strconv.Itoa(int(id))
}

// ResolveRoot picks the unit to generate from. An explicit key wins, then
// the root declared in the file, then the only source unit of the graph.
func (f *File) ResolveRoot(key string) (dag.NodeID, error) {
	var id dag.NodeID
	switch {
	case key != "":
		var err error
		if id, err = f.Lookup(key); err != nil {
			return 0, err
		}
	case f.HasRoot:
		id = f.Root
	default:
		var roots []dag.NodeID
		for _, n := range f.Graph.Sources() {
			if n.IsUnit() {
				roots = append(roots, n.ID)
			}
		}
		if len(roots) != 1 {
			return 0, fmt.Errorf("%w: no root declared and %d candidate source units", ErrInvalid, len(roots))
		}
		id = roots[0]
	}
	if !f.Graph.MustNode(id).IsUnit() {
		return 0, fmt.Errorf("%w: %s", dag.ErrNotUnit, f.Key(id))
	}
	return id, nil
}

// =============================================================================
// Conversion
// =============================================================================

// Build declares every node of d, resolves references and validates the
// resulting graph.
func (d *Document) Build() (*File, error) {
	b := dag.NewBuilder()
	declare := func(table string, i int, n Node, implied string) error {
		kind := n.Kind
		if kind == "" {
			kind = implied
		}
		if implied != "" && kind != implied {
			return fmt.Errorf("%w: %s[%d] %q: kind %q in a %s table", ErrInvalid, table, i, n.Key, n.Kind, implied)
		}
		switch kind {
		case KindUnit:
			if len(n.Opts) > 0 {
				return fmt.Errorf("%w: unit %q has opts", ErrInvalid, n.Key)
			}
			name := n.Name
			if name == "" {
				name = n.Key
			}
			b.Unit(n.Key, name, n.Payload, n.Preferred, n.Deps...)
		case KindChoice:
			if len(n.Deps) > 0 || n.Payload != "" || n.Preferred {
				return fmt.Errorf("%w: choice %q may only have opts", ErrInvalid, n.Key)
			}
			b.Choice(n.Key, n.Opts...)
		default:
			return fmt.Errorf("%w: %s[%d] %q: unknown kind %q", ErrInvalid, table, i, n.Key, n.Kind)
		}
		return nil
	}

	for i, n := range d.Nodes {
		if err := declare("node", i, n, ""); err != nil {
			return nil, err
		}
	}
	for i, n := range d.Units {
		if err := declare("unit", i, n, KindUnit); err != nil {
			return nil, err
		}
	}
	for i, n := range d.Choices {
		if err := declare("choice", i, n, KindChoice); err != nil {
			return nil, err
		}
	}

	g, keys, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	f := &File{Graph: g, Keys: keys, names: make(map[dag.NodeID]string, len(keys))}
	for k, id := range keys {
		f.names[id] = k
	}
	if d.Root != "" {
		id, err := f.Lookup(d.Root)
		if err != nil {
			return nil, fmt.Errorf("root: %w", err)
		}
		if !g.MustNode(id).IsUnit() {
			return nil, fmt.Errorf("root: %w: %s", dag.ErrNotUnit, d.Root)
		}
		f.Root, f.HasRoot = id, true
	}
	return f, nil
}

// FromFile converts f back into a Document. Every node is written to the
// Nodes table in creation order so that re-reading it reproduces the same
// NodeIDs.
func FromFile(f *File) Document {
	var d Document
	if f.HasRoot {
		d.Root = f.Key(f.Root)
	}
	keys := func(ids []dag.NodeID) []string {
		if len(ids) == 0 {
			return nil
		}
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = f.Key(id)
		}
		return out
	}
	for _, n := range f.Graph.Nodes() {
		switch n.Kind {
		case dag.KindUnit:
			name := n.Name
			if name == f.Key(n.ID) {
				name = ""
			}
			d.Nodes = append(d.Nodes, Node{
				Kind:      KindUnit,
				Key:       f.Key(n.ID),
				Name:      name,
				Payload:   n.Payload,
				Preferred: n.Preferred,
				Deps:      keys(n.Deps),
			})
		case dag.KindChoice:
			d.Nodes = append(d.Nodes, Node{
				Kind: KindChoice,
				Key:  f.Key(n.ID),
				Opts: keys(n.Opts),
			})
		}
	}
	return d
}
