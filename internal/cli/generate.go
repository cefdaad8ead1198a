package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/progression/pkg/definition"
	perrors "github.com/matzehuels/progression/pkg/errors"
	"github.com/matzehuels/progression/pkg/pipeline"
)

// generateOpts holds the flags of the generate command besides the
// pipeline options.
type generateOpts struct {
	output      string
	prelude     string
	clipboard   bool
	inputFormat string
	cache       cacheFlags
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var flags generateOpts
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Order the units of a definition file",
		Long: `Order the units of a definition file into a progression.

The file is TOML unless its name ends in .json. Use "-" to read from stdin
together with --input-format.

Strategy flags take expressions of registered names joined by "+", applied
right to left. Run 'progression strategies' to list them. The usage strategies
drive the counting pass that usage-aware strategies such as frontload read,
and must be structural.

Exports:
  names    one "name (size)" line per unit
  layouts  the prelude followed by one "message Level N" block per unit
  json     index, size, usage counts and payload per unit

Results are cached on disk, or in Redis with --redis.`,
		Example: `  progression generate examples/lasers.toml
  progression generate examples/lasers.toml -l smaller-first -c all
  progression generate examples/lasers.toml -f layouts --prelude core.txt --clipboard`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setSource(cmd, args[0], flags.inputFormat, &opts); err != nil {
				return err
			}
			prelude, err := readPrelude(flags.prelude)
			if err != nil {
				return err
			}
			opts.Prelude = prelude
			return c.runGenerate(cmd.Context(), cmd, opts, flags)
		},
	}

	strategyFlags(cmd, &opts)
	cmd.Flags().StringVarP(&opts.Format, "format", "f", string(pipeline.DefaultFormat), "export format: names, layouts, json")
	cmd.Flags().StringVar(&flags.prelude, "prelude", "", "file prepended to the layouts export")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&flags.clipboard, "clipboard", false, "also copy the export to the clipboard")
	cmd.Flags().StringVar(&flags.inputFormat, "input-format", "toml", "definition format when reading stdin: toml, json")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
	flags.cache.register(cmd)

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, cmd *cobra.Command, opts pipeline.Options, flags generateOpts) error {
	runner, err := c.newRunner(ctx, flags.cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}

	status := cmd.ErrOrStderr()
	if err := writeOutput(cmd.OutOrStdout(), flags.output, result.Output); err != nil {
		return err
	}

	root := result.File.Graph.MustNode(result.Root)
	printSuccess(status, "Generated %d units for %s", result.Stats.Units, StyleHighlight.Render(root.Name))
	printStats(status, result.Stats.NodeCount, result.Stats.Units, result.CacheInfo.ProgressionHit)
	if flags.output != "" {
		printFile(status, flags.output)
	}

	if flags.clipboard {
		if err := c.Clipboard.Copy(string(result.Output)); err != nil {
			printWarning(status, "Could not copy to clipboard: %v", err)
		} else {
			printInfo(status, "Copied %s export to the clipboard", opts.Format)
		}
	}
	return nil
}

// setSource points opts at a definition file, or at stdin for "-".
func setSource(cmd *cobra.Command, arg, inputFormat string, opts *pipeline.Options) error {
	if arg != "-" {
		opts.Definition = arg
		return nil
	}
	format, err := definition.ParseFormat(inputFormat)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	opts.Source = data
	opts.SourceFormat = format
	return nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := perrors.ValidateOutputPath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
