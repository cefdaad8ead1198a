package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/progression/pkg/strategy"
)

// strategiesCommand creates the strategies command.
func (c *CLI) strategiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the registered strategies",
		Long: `List the registered strategies. Structural strategies only look at the graph
and may drive the usage pass; the others read usage counts and are only
allowed for --level and --choice.

Combine strategies with "+"; the rightmost runs first, so
"reverse+smaller-first" sorts by size and then reverses.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), strategyTable())
			return nil
		},
	}
}

func strategyTable() string {
	var rows [][]string
	for _, s := range strategy.Builtins() {
		kind := "structural"
		if !strategy.IsPassSafe(s) {
			kind = StyleWarning.Render("reads usages")
		}
		rows = append(rows, []string{s.Name(), kind, strings.Join(strategy.AliasesOf(s.Name()), ", ")})
	}
	return renderTable([]string{"Name", "Kind", "Aliases"}, rows)
}
