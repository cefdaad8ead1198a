package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/progression/pkg/dag"
	"github.com/matzehuels/progression/pkg/definition"
	"github.com/matzehuels/progression/pkg/pipeline"
	"github.com/matzehuels/progression/pkg/progression"
)

// usagesCommand creates the usages command.
func (c *CLI) usagesCommand() *cobra.Command {
	var (
		inputFormat string
		cf          cacheFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "usages [file]",
		Short: "Tabulate usage counts for every node reachable from the root",
		Long: `Run the usage pass and print, for every node reachable from the root, how
many strategy-surviving paths lead to it, the maximum and sum of those counts
over its leaves, and its position in the progression ("-" if a strategy
filtered it out).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setSource(cmd, args[0], inputFormat, &opts); err != nil {
				return err
			}
			return c.runUsages(cmd.Context(), cmd, opts, cf)
		},
	}

	strategyFlags(cmd, &opts)
	cmd.Flags().StringVar(&inputFormat, "input-format", "toml", "definition format when reading stdin: toml, json")
	cf.register(cmd)

	return cmd
}

func (c *CLI) runUsages(ctx context.Context, cmd *cobra.Command, opts pipeline.Options, cf cacheFlags) error {
	runner, err := c.newRunner(ctx, cf)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	f, hash, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	res, err := runner.Generate(ctx, f, hash, opts)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), usageTable(f, res))
	printInfo(cmd.ErrOrStderr(), "%d usages in total", res.Usages.Total())
	return nil
}

// usageTable renders one row per node reachable from the root, in
// depth-first order.
func usageTable(f *definition.File, res *progression.Result) string {
	g := f.Graph
	position := make(map[dag.NodeID]int, len(res.Order))
	for i, id := range res.Order {
		position[id] = i + 1
	}

	var rows [][]string
	for _, id := range g.Reachable(res.Root) {
		n := g.MustNode(id)
		pos, name := "-", oneLine(n.Name)
		if p, ok := position[id]; ok {
			pos = strconv.Itoa(p)
		}
		if n.Kind == dag.KindChoice {
			name = StyleDim.Render("any of " + strconv.Itoa(len(n.Opts)))
		}
		rows = append(rows, []string{
			f.Key(id),
			n.Kind.String(),
			name,
			pos,
			strconv.Itoa(res.Usages.Count(id)),
			strconv.Itoa(res.Usages.MaxLeaf(g, id)),
			strconv.Itoa(res.Usages.SumLeaf(g, id)),
		})
	}
	return renderTable([]string{"Key", "Kind", "Name", "#", "Usages", "Max leaf", "Sum leaf"}, rows, 3, 4, 5, 6)
}
