package progression

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/progression/pkg/dag"
	"github.com/matzehuels/progression/pkg/strategy"
	"github.com/matzehuels/progression/pkg/usage"
)

// Params selects the strategies for a generation run. Zero fields take the
// defaults listed on each field.
type Params struct {
	Level       strategy.Strategy     // default strategy.All
	Choice      strategy.Strategy     // default strategy.First
	UsageLevel  strategy.PassStrategy // default strategy.All
	UsageChoice strategy.PassStrategy // default strategy.All

	// Logger receives debug output. Defaults to a discarding logger.
	Logger *log.Logger
}

// WithDefaults returns a copy of p with every unset field filled in.
func (p Params) WithDefaults() Params {
	if p.Level == nil {
		p.Level = strategy.All
	}
	if p.Choice == nil {
		p.Choice = strategy.First
	}
	if p.UsageLevel == nil {
		p.UsageLevel = strategy.All
	}
	if p.UsageChoice == nil {
		p.UsageChoice = strategy.All
	}
	if p.Logger == nil {
		p.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return p
}

// Result is the outcome of a generation run.
type Result struct {
	Root   dag.NodeID
	Order  []dag.NodeID // units in progression order, ending with Root
	Usages *usage.Table // counters written by the usage pass

	UsageTime time.Duration
	OrderTime time.Duration
}

// Generate runs the usage pass from root on a fresh counter table and then
// builds the progression with the same table visible to the strategies.
//
// Generate only reads g, so concurrent calls on the same graph are safe.
func Generate(g *dag.Graph, root dag.NodeID, p Params) (*Result, error) {
	p = p.WithDefaults()

	n, err := unitNode(g, root)
	if err != nil {
		return nil, err
	}

	table := usage.New(g)
	start := time.Now()
	if err := CalcUsages(g, table, root, p.UsageLevel, p.UsageChoice); err != nil {
		return nil, err
	}
	usageTime := time.Since(start)
	p.Logger.Debug("usage pass",
		"root", n.Name,
		"level", p.UsageLevel.Name(),
		"choice", p.UsageChoice.Name(),
		"total", table.Total(),
		"duration", usageTime)

	start = time.Now()
	order, err := Progression(g, table, root, p.Level, p.Choice)
	if err != nil {
		return nil, err
	}
	orderTime := time.Since(start)
	p.Logger.Debug("progression",
		"root", n.Name,
		"level", p.Level.Name(),
		"choice", p.Choice.Name(),
		"units", len(order),
		"duration", orderTime)

	return &Result{
		Root:      root,
		Order:     order,
		Usages:    table,
		UsageTime: usageTime,
		OrderTime: orderTime,
	}, nil
}

// Names returns the names of the units in r.Order.
func (r *Result) Names(g *dag.Graph) []string {
	names := make([]string, len(r.Order))
	for i, id := range r.Order {
		names[i] = g.MustNode(id).Name
	}
	return names
}
