package dag

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

var (
	// ErrUnknownNode is returned when a dependency or option refers to a node
	// that was never registered in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrEmptyChoice is returned when a choice is created without options.
	// A choice with nothing to pick from can satisfy no dependent.
	ErrEmptyChoice = errors.New("choice has no options")

	// ErrCycle is returned (wrapped in a *CycleError) when a dependency cycle
	// is found, either by Validate or by a traversal that re-enters a node
	// already on its call stack.
	ErrCycle = errors.New("dependency cycle")

	// ErrNotUnit is returned when an operation that needs a concrete unit
	// (such as generating a progression) is given a choice.
	ErrNotUnit = errors.New("node is not a unit")

	// ErrEmptyKey is returned by the Builder when a node is declared without a key.
	ErrEmptyKey = errors.New("node key must not be empty")

	// ErrDuplicateKey is returned by the Builder when two nodes share a key.
	ErrDuplicateKey = errors.New("duplicate node key")
)

// NodeID identifies a node in a Graph. It is the node's index in the
// registry and therefore also its creation sequence number: a node created
// earlier always has a smaller NodeID.
type NodeID int

// Kind distinguishes the two node variants.
type Kind int

const (
	// KindUnit is a concrete, directly orderable node with its own dependencies.
	KindUnit Kind = iota
	// KindChoice is an abstract node satisfied by any one of its options.
	KindChoice
)

// String returns "unit" or "choice".
func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindChoice:
		return "choice"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Unit describes a concrete node to add with AddUnit.
type Unit struct {
	Name      string   // Display name
	Payload   string   // Opaque content; empty means a non-exportable placeholder
	Deps      []NodeID // Dependencies, units or choices, in order
	Preferred bool     // Read-only hint for strategies
}

// Node is a registered vertex. Exactly one of Deps (units) and Opts
// (choices) is used, depending on Kind.
type Node struct {
	ID        NodeID
	Kind      Kind
	Name      string
	Payload   string
	Preferred bool
	Deps      []NodeID
	Opts      []NodeID
}

// IsUnit reports whether the node is a unit.
func (n *Node) IsUnit() bool { return n.Kind == KindUnit }

// IsChoice reports whether the node is a choice.
func (n *Node) IsChoice() bool { return n.Kind == KindChoice }

// Edges returns the node's outgoing references: Deps for a unit, Opts for a choice.
func (n *Node) Edges() []NodeID {
	if n.Kind == KindChoice {
		return n.Opts
	}
	return n.Deps
}

// Size returns the payload length in runes, not counting newlines.
func (n *Node) Size() int {
	return utf8.RuneCountInString(strings.ReplaceAll(n.Payload, "\n", ""))
}

// Exportable reports whether the node carries a payload.
func (n *Node) Exportable() bool { return n.Payload != "" }

// Label returns a human-readable label: the name for units and
// "(a or b)" for choices.
func (g *Graph) Label(id NodeID) string {
	return g.label(id, nil)
}

func (g *Graph) label(id NodeID, open []NodeID) string {
	n, ok := g.Node(id)
	if !ok {
		return fmt.Sprintf("#%d", id)
	}
	if n.Kind == KindUnit {
		return n.Name
	}
	if slices.Contains(open, id) {
		return "(...)"
	}
	open = append(open, id)
	parts := make([]string, len(n.Opts))
	for i, o := range n.Opts {
		parts[i] = g.label(o, open)
	}
	return "(" + strings.Join(parts, " or ") + ")"
}

// Graph is the insertion-ordered registry of all nodes. Nodes are
// identified by NodeID and never removed or modified after creation, so a
// Graph can be shared by concurrent readers once construction is finished.
//
// The zero value is an empty graph ready for use.
type Graph struct {
	nodes []*Node
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{}
}

// register appends n to the registry and assigns the next sequence number.
func (g *Graph) register(n *Node) NodeID {
	n.ID = NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	return n.ID
}

// AddUnit registers a unit. Every dependency must already exist in the graph.
func (g *Graph) AddUnit(u Unit) (NodeID, error) {
	for _, d := range u.Deps {
		if !g.Has(d) {
			return 0, fmt.Errorf("unit %q: dependency #%d: %w", u.Name, d, ErrUnknownNode)
		}
	}
	return g.register(&Node{
		Kind:      KindUnit,
		Name:      u.Name,
		Payload:   u.Payload,
		Preferred: u.Preferred,
		Deps:      slices.Clone(u.Deps),
	}), nil
}

// NewUnit registers a unit with the given name, payload and dependencies.
func (g *Graph) NewUnit(name, payload string, deps ...NodeID) (NodeID, error) {
	return g.AddUnit(Unit{Name: name, Payload: payload, Deps: deps})
}

// NewChoice registers a choice over opts. It returns ErrEmptyChoice when
// opts is empty and ErrUnknownNode when an option is not registered.
func (g *Graph) NewChoice(opts ...NodeID) (NodeID, error) {
	if len(opts) == 0 {
		return 0, ErrEmptyChoice
	}
	for _, o := range opts {
		if !g.Has(o) {
			return 0, fmt.Errorf("choice option #%d: %w", o, ErrUnknownNode)
		}
	}
	return g.register(&Node{Kind: KindChoice, Opts: slices.Clone(opts)}), nil
}

// MustUnit is like NewUnit but panics on error. It is meant for graphs
// wired by hand in code, where a bad reference is a programming error.
func (g *Graph) MustUnit(name, payload string, deps ...NodeID) NodeID {
	id, err := g.NewUnit(name, payload, deps...)
	if err != nil {
		panic(err)
	}
	return id
}

// MustChoice is like NewChoice but panics on error.
func (g *Graph) MustChoice(opts ...NodeID) NodeID {
	id, err := g.NewChoice(opts...)
	if err != nil {
		panic(err)
	}
	return id
}

// Has reports whether id refers to a registered node.
func (g *Graph) Has(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

// Node returns the node with the given id and true, or nil and false.
// The returned node must not be modified.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	if !g.Has(id) {
		return nil, false
	}
	return g.nodes[id], true
}

// MustNode returns the node with the given id and panics if it does not exist.
func (g *Graph) MustNode(id NodeID) *Node {
	n, ok := g.Node(id)
	if !ok {
		panic(fmt.Errorf("node #%d: %w", id, ErrUnknownNode))
	}
	return n
}

// Len returns the number of registered nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns all nodes in creation order.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Units returns all units in creation order.
func (g *Graph) Units() []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Kind == KindUnit {
			out = append(out, n)
		}
	}
	return out
}

// Sinks returns the nodes without outgoing references (leaf units).
func (g *Graph) Sinks() []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if len(n.Edges()) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Sources returns the nodes that no other node refers to. Candidate roots
// for a progression are the units among them.
func (g *Graph) Sources() []*Node {
	referenced := make([]bool, len(g.nodes))
	for _, n := range g.nodes {
		for _, e := range n.Edges() {
			referenced[e] = true
		}
	}
	var out []*Node
	for i, n := range g.nodes {
		if !referenced[i] {
			out = append(out, n)
		}
	}
	return out
}

// Reachable returns the ids reachable from root (root included) in
// depth-first preorder, following every dependency and every option.
func (g *Graph) Reachable(root NodeID) []NodeID {
	if !g.Has(root) {
		return nil
	}
	seen := make([]bool, len(g.nodes))
	var out []NodeID
	var visit func(id NodeID)
	visit = func(id NodeID) {
		if seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
		for _, e := range g.nodes[id].Edges() {
			visit(e)
		}
	}
	visit(root)
	return out
}

// Validate checks that the graph is acyclic and that every choice has at
// least one option. Graphs built only through NewUnit and NewChoice are
// acyclic by construction; graphs assembled with a Builder are not, so
// callers should validate them before generating progressions.
//
// A cycle is reported as a *CycleError wrapping ErrCycle.
func (g *Graph) Validate() error {
	for _, n := range g.nodes {
		if n.Kind == KindChoice && len(n.Opts) == 0 {
			return fmt.Errorf("choice #%d: %w", n.ID, ErrEmptyChoice)
		}
		for _, e := range n.Edges() {
			if !g.Has(e) {
				return fmt.Errorf("%s: reference #%d: %w", g.Label(n.ID), e, ErrUnknownNode)
			}
		}
	}
	return g.detectCycles()
}

func (g *Graph) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(g.nodes))
	var stack []NodeID
	var cycle *CycleError

	var dfs func(id NodeID)
	dfs = func(id NodeID) {
		color[id] = gray
		stack = append(stack, id)
		for _, child := range g.nodes[id].Edges() {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				cycle = newCycleError(g, stack, child)
			}
			if cycle != nil {
				return
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for i := range g.nodes {
		if color[i] == white {
			dfs(NodeID(i))
			if cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
