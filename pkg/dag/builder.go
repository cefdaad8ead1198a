package dag

import (
	"fmt"
)

// Builder assembles a Graph from nodes declared by string key, allowing
// references to keys that are declared later. Declaration order becomes
// creation order, so the first declared node gets NodeID 0.
//
// Build resolves references but does not check for cycles; call
// Graph.Validate on the result before traversing it.
type Builder struct {
	decls []decl
	keys  map[string]int
	err   error
}

type decl struct {
	key  string
	kind Kind
	unit Unit
	refs []string
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{keys: make(map[string]int)}
}

// Unit declares a unit. deps are keys of other declared nodes.
func (b *Builder) Unit(key, name, payload string, preferred bool, deps ...string) *Builder {
	return b.declare(decl{
		key:  key,
		kind: KindUnit,
		unit: Unit{Name: name, Payload: payload, Preferred: preferred},
		refs: deps,
	})
}

// Choice declares a choice over the nodes with the given keys.
func (b *Builder) Choice(key string, opts ...string) *Builder {
	return b.declare(decl{key: key, kind: KindChoice, refs: opts})
}

func (b *Builder) declare(d decl) *Builder {
	if b.err != nil {
		return b
	}
	if d.key == "" {
		b.err = ErrEmptyKey
		return b
	}
	if _, dup := b.keys[d.key]; dup {
		b.err = fmt.Errorf("%q: %w", d.key, ErrDuplicateKey)
		return b
	}
	if d.kind == KindChoice && len(d.refs) == 0 {
		b.err = fmt.Errorf("choice %q: %w", d.key, ErrEmptyChoice)
		return b
	}
	b.keys[d.key] = len(b.decls)
	b.decls = append(b.decls, d)
	return b
}

// Build resolves every reference and returns the graph together with the
// key to NodeID mapping. The first declaration error, if any, is returned
// instead.
func (b *Builder) Build() (*Graph, map[string]NodeID, error) {
	if b.err != nil {
		return nil, nil, b.err
	}

	g := New()
	ids := make(map[string]NodeID, len(b.decls))
	for _, d := range b.decls {
		n := &Node{Kind: d.kind}
		if d.kind == KindUnit {
			n.Name = d.unit.Name
			n.Payload = d.unit.Payload
			n.Preferred = d.unit.Preferred
		}
		ids[d.key] = g.register(n)
	}

	for _, d := range b.decls {
		refs := make([]NodeID, len(d.refs))
		for i, r := range d.refs {
			id, ok := ids[r]
			if !ok {
				return nil, nil, fmt.Errorf("%s %q: reference %q: %w", d.kind, d.key, r, ErrUnknownNode)
			}
			refs[i] = id
		}
		n := g.nodes[ids[d.key]]
		switch d.kind {
		case KindUnit:
			n.Deps = refs
		case KindChoice:
			n.Opts = refs
		}
	}
	return g, ids, nil
}
