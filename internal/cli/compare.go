package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/progression/pkg/pipeline"
)

// compareCommand creates the compare command.
func (c *CLI) compareCommand() *cobra.Command {
	var inputFormat string
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "compare [file]",
		Short: "Show how sensitive a progression is to tie-breaking",
		Long: `Generate the progression twice, once with every strategy breaking ties in
creation order and once in reverse creation order, and print both side by
side. Rows marked with * differ. Many marks mean the strategies leave most of
the order to chance; add a decisive strategy such as smaller-first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setSource(cmd, args[0], inputFormat, &opts); err != nil {
				return err
			}
			return c.runCompare(cmd.Context(), cmd, opts)
		},
	}

	strategyFlags(cmd, &opts)
	cmd.Flags().StringVar(&inputFormat, "input-format", "toml", "definition format when reading stdin: toml, json")

	return cmd
}

func (c *CLI) runCompare(ctx context.Context, cmd *cobra.Command, opts pipeline.Options) error {
	runner, err := c.newRunner(ctx, cacheFlags{noCache: true})
	if err != nil {
		return err
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	report, _, err := runner.Compare(ctx, opts)
	if err != nil {
		return err
	}
	if err := report.Render(cmd.OutOrStdout()); err != nil {
		return err
	}

	status := cmd.ErrOrStderr()
	if d := report.Differences(); d == 0 {
		printSuccess(status, "Both tie-breaks agree on all %d rows", report.Len())
	} else {
		printWarning(status, "%d of %d rows depend on tie-breaking", d, report.Len())
		printNextStep(status, "Try a decisive level strategy", "progression compare --level smaller-first "+opts.Definition)
	}
	return nil
}
