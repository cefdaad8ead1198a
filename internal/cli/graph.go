package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/progression/pkg/definition"
	"github.com/matzehuels/progression/pkg/pipeline"
	"github.com/matzehuels/progression/pkg/render/nodelink"
)

// Graph output formats.
const (
	graphDOT  = "dot"
	graphSVG  = "svg"
	graphTOML = "toml"
	graphJSON = "json"
)

type graphOpts struct {
	format      string
	output      string
	all         bool
	order       bool
	inputFormat string
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var flags graphOpts
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "graph [file]",
		Short: "Draw a definition file as a node-link diagram",
		Long: `Draw the graph of a definition file as Graphviz DOT or SVG, or convert the
definition between TOML and JSON.

Units are boxes, choices are diamonds, and edges run from a dependency to the
unit that needs it. With --order the units are numbered by their position in
the progression and usage counts are shown; units a strategy filtered out are
drawn dashed.`,
		Example: `  progression graph examples/lasers.toml --order -f svg -o lasers.svg
  progression graph examples/lasers.toml -f json > lasers.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.format = strings.ToLower(flags.format)
			switch flags.format {
			case graphDOT, graphSVG, graphTOML, graphJSON:
			default:
				return fmt.Errorf("invalid format: %q (must be one of: dot, svg, toml, json)", flags.format)
			}
			if err := setSource(cmd, args[0], flags.inputFormat, &opts); err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), cmd, opts, flags)
		},
	}

	strategyFlags(cmd, &opts)
	cmd.Flags().StringVarP(&flags.format, "format", "f", graphDOT, "output format: dot, svg, toml, json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&flags.all, "all", false, "draw every node, not only those reachable from the root")
	cmd.Flags().BoolVar(&flags.order, "order", false, "number units by their position in the progression")
	cmd.Flags().StringVar(&flags.inputFormat, "input-format", "toml", "definition format when reading stdin: toml, json")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, cmd *cobra.Command, opts pipeline.Options, flags graphOpts) error {
	runner, err := c.newRunner(ctx, cacheFlags{noCache: true})
	if err != nil {
		return err
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	f, hash, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch flags.format {
	case graphTOML:
		err = definition.Write(&buf, definition.FromFile(f), definition.FormatTOML)
	case graphJSON:
		err = definition.Write(&buf, definition.FromFile(f), definition.FormatJSON)
	default:
		var dot string
		if dot, err = c.dot(ctx, runner, f, hash, opts, flags); err != nil {
			return err
		}
		if flags.format == graphDOT {
			buf.WriteString(dot)
			break
		}
		spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering SVG...")
		spinner.Start()
		svg, rerr := nodelink.RenderSVG(ctx, dot)
		spinner.Stop()
		buf.Write(svg)
		err = rerr
	}
	if err != nil {
		return err
	}

	if err := writeOutput(cmd.OutOrStdout(), flags.output, buf.Bytes()); err != nil {
		return err
	}
	if flags.output != "" {
		printSuccess(cmd.ErrOrStderr(), "Wrote %s graph with %d nodes", flags.format, f.Graph.Len())
		printFile(cmd.ErrOrStderr(), flags.output)
	}
	return nil
}

// dot builds the DOT source, running the progression first when the
// diagram should show the order.
func (c *CLI) dot(ctx context.Context, runner *pipeline.Runner, f *definition.File, hash string, opts pipeline.Options, flags graphOpts) (string, error) {
	var do nodelink.Options
	if !flags.all || flags.order {
		root, err := f.ResolveRoot(opts.Root)
		if err != nil {
			return "", err
		}
		do.Root, do.HasRoot = root, !flags.all
	}
	if flags.order {
		res, err := runner.Generate(ctx, f, hash, opts)
		if err != nil {
			return "", err
		}
		do.Order, do.Usages = res.Order, res.Usages
	}
	return nodelink.ToDOT(f.Graph, do), nil
}
