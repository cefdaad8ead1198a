package progression

import (
	"errors"
	"fmt"

	"github.com/matzehuels/progression/pkg/dag"
	"github.com/matzehuels/progression/pkg/strategy"
	"github.com/matzehuels/progression/pkg/usage"
)

// CalcUsages adds to t the number of strategy-surviving paths from root to
// every node below it. For a unit, the flattened dependencies that level
// keeps are each counted once and walked. For a choice, the options that
// choice keeps are each counted once and walked. The root itself is not
// counted. Nil strategies mean strategy.All.
//
// Only pass-safe strategies are accepted: the counters are still being
// written while the walk runs. t is not reset first.
func CalcUsages(g *dag.Graph, t *usage.Table, root dag.NodeID, level, choice strategy.PassStrategy) error {
	if t == nil {
		return errors.New("calc usages: nil usage table")
	}
	var lv, ch strategy.Strategy = strategy.All, strategy.All
	if level != nil {
		lv = level
	}
	if choice != nil {
		ch = choice
	}
	if _, ok := g.Node(root); !ok {
		return fmt.Errorf("%w: #%d", dag.ErrUnknownNode, root)
	}
	w := newWalker(g, t, lv, ch, false)
	return w.count(root)
}

func (w *walker) count(id dag.NodeID) error {
	n, err := w.node(id)
	if err != nil {
		return err
	}

	var next []dag.NodeID
	switch n.Kind {
	case dag.KindUnit:
		if err := w.enter(id); err != nil {
			return err
		}
		defer w.leave()
		if next, err = w.levelDeps(n); err != nil {
			return err
		}
	case dag.KindChoice:
		if len(n.Opts) == 0 {
			return fmt.Errorf("%w: #%d", dag.ErrEmptyChoice, id)
		}
		if err := w.enter(id); err != nil {
			return err
		}
		defer w.leave()
		if next, err = w.apply(w.choice, n.Opts); err != nil {
			return err
		}
	default:
		return fmt.Errorf("count %s: unexpected node kind %v", w.g.Label(id), n.Kind)
	}

	for _, d := range next {
		w.env.Usages.Inc(d)
		if err := w.count(d); err != nil {
			return err
		}
	}
	return nil
}
