package progression

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/progression/pkg/dag"
	"github.com/matzehuels/progression/pkg/strategy"
	"github.com/matzehuels/progression/pkg/usage"
)

// ErrStrategyContract is returned when a strategy returns a node that was not
// among the candidates it was given.
var ErrStrategyContract = errors.New("strategy returned a node outside its input")

// walker carries the state of one traversal: the strategies in force, the
// chain of nodes currently being expanded, and optional memo tables.
type walker struct {
	g      *dag.Graph
	env    strategy.Env
	level  strategy.Strategy
	choice strategy.Strategy

	stack   []dag.NodeID
	onStack map[dag.NodeID]bool

	// nil during the usage pass, where counters change under the walk
	flat map[dag.NodeID][]dag.NodeID
	prog map[dag.NodeID][]dag.NodeID
}

func newWalker(g *dag.Graph, t *usage.Table, level, choice strategy.Strategy, memo bool) *walker {
	w := &walker{
		g:       g,
		env:     strategy.Env{Graph: g, Usages: t},
		level:   level,
		choice:  choice,
		onStack: make(map[dag.NodeID]bool),
	}
	if memo {
		w.flat = make(map[dag.NodeID][]dag.NodeID)
		w.prog = make(map[dag.NodeID][]dag.NodeID)
	}
	return w
}

// Flatten resolves id into the units it stands for. A unit flattens to
// itself. A choice flattens to the concatenation of its flattened options,
// filtered once by choice. The result may repeat a unit if several options
// lead to it. A nil choice strategy means strategy.First.
func Flatten(g *dag.Graph, t *usage.Table, id dag.NodeID, choice strategy.Strategy) ([]dag.NodeID, error) {
	if choice == nil {
		choice = strategy.First
	}
	w := newWalker(g, t, strategy.All, choice, false)
	out, err := w.flatten(id)
	if err != nil {
		return nil, err
	}
	return slices.Clone(out), nil
}

// Progression returns the ordered units needed to reach root, ending with
// root. Strategies read counters from t, which may be nil. Nil strategies
// mean strategy.All for level and strategy.First for choice.
func Progression(g *dag.Graph, t *usage.Table, root dag.NodeID, level, choice strategy.Strategy) ([]dag.NodeID, error) {
	if level == nil {
		level = strategy.All
	}
	if choice == nil {
		choice = strategy.First
	}
	n, err := unitNode(g, root)
	if err != nil {
		return nil, err
	}
	w := newWalker(g, t, level, choice, true)
	out, err := w.progression(n)
	if err != nil {
		return nil, err
	}
	return slices.Clone(out), nil
}

func unitNode(g *dag.Graph, id dag.NodeID) (*dag.Node, error) {
	n, ok := g.Node(id)
	if !ok {
		return nil, fmt.Errorf("%w: #%d", dag.ErrUnknownNode, id)
	}
	if n.Kind != dag.KindUnit {
		return nil, fmt.Errorf("%w: %s", dag.ErrNotUnit, g.Label(id))
	}
	return n, nil
}

func (w *walker) node(id dag.NodeID) (*dag.Node, error) {
	n, ok := w.g.Node(id)
	if !ok {
		return nil, fmt.Errorf("%w: #%d", dag.ErrUnknownNode, id)
	}
	return n, nil
}

func (w *walker) enter(id dag.NodeID) error {
	if w.onStack[id] {
		return dag.NewCycleError(w.g, w.stack, id)
	}
	w.onStack[id] = true
	w.stack = append(w.stack, id)
	return nil
}

func (w *walker) leave() {
	id := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	delete(w.onStack, id)
}

// apply runs s and checks that it only returned candidates from ids.
func (w *walker) apply(s strategy.Strategy, ids []dag.NodeID) ([]dag.NodeID, error) {
	out := s.Apply(w.env, ids)
	if len(out) == 0 {
		return out, nil
	}
	in := make(map[dag.NodeID]struct{}, len(ids))
	for _, id := range ids {
		in[id] = struct{}{}
	}
	for _, id := range out {
		if _, ok := in[id]; !ok {
			return nil, fmt.Errorf("%w: %s returned %s", ErrStrategyContract, s.Name(), w.g.Label(id))
		}
	}
	return out, nil
}

func (w *walker) flatten(id dag.NodeID) ([]dag.NodeID, error) {
	n, err := w.node(id)
	if err != nil {
		return nil, err
	}
	switch n.Kind {
	case dag.KindUnit:
		return []dag.NodeID{id}, nil
	case dag.KindChoice:
		if out, ok := w.flat[id]; ok {
			return out, nil
		}
		if len(n.Opts) == 0 {
			return nil, fmt.Errorf("%w: #%d", dag.ErrEmptyChoice, id)
		}
		if err := w.enter(id); err != nil {
			return nil, err
		}
		defer w.leave()

		var all []dag.NodeID
		for _, opt := range n.Opts {
			leaves, err := w.flatten(opt)
			if err != nil {
				return nil, err
			}
			all = append(all, leaves...)
		}
		out, err := w.apply(w.choice, all)
		if err != nil {
			return nil, err
		}
		if w.flat != nil {
			w.flat[id] = out
		}
		return out, nil
	default:
		return nil, fmt.Errorf("flatten %s: unexpected node kind %v", w.g.Label(id), n.Kind)
	}
}

// levelDeps flattens the dependencies of unit n and applies the level
// strategy to the combined list.
func (w *walker) levelDeps(n *dag.Node) ([]dag.NodeID, error) {
	var flat []dag.NodeID
	for _, d := range n.Deps {
		leaves, err := w.flatten(d)
		if err != nil {
			return nil, err
		}
		flat = append(flat, leaves...)
	}
	return w.apply(w.level, flat)
}

// progression expects n to be a unit; flatten only ever yields units.
func (w *walker) progression(n *dag.Node) ([]dag.NodeID, error) {
	if out, ok := w.prog[n.ID]; ok {
		return out, nil
	}
	if err := w.enter(n.ID); err != nil {
		return nil, err
	}
	defer w.leave()

	deps, err := w.levelDeps(n)
	if err != nil {
		return nil, err
	}

	order := []dag.NodeID{n.ID}
	for i := len(deps) - 1; i >= 0; i-- {
		dn, err := w.node(deps[i])
		if err != nil {
			return nil, err
		}
		sub, err := w.progression(dn)
		if err != nil {
			return nil, err
		}
		for j := len(sub) - 1; j >= 0; j-- {
			order = moveToFront(order, sub[j])
		}
	}

	if w.prog != nil {
		w.prog[n.ID] = order
	}
	return order, nil
}

// moveToFront removes id from seq if present and inserts it at the front.
// seq never holds duplicates, so at most one occurrence is removed.
func moveToFront(seq []dag.NodeID, id dag.NodeID) []dag.NodeID {
	if i := slices.Index(seq, id); i >= 0 {
		seq = slices.Delete(seq, i, i+1)
	}
	return slices.Insert(seq, 0, id)
}
