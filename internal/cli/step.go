package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/progression/pkg/definition"
	"github.com/matzehuels/progression/pkg/export"
	"github.com/matzehuels/progression/pkg/pipeline"
	"github.com/matzehuels/progression/pkg/progression"
)

// stepCommand creates the step command.
func (c *CLI) stepCommand() *cobra.Command {
	var (
		prelude string
		cf      cacheFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "step [file]",
		Short: "Copy the units of a progression to the clipboard one at a time",
		Long: `Generate the progression and step through it interactively. Each ENTER
copies the prelude followed by the current unit's payload to the clipboard
and moves to the next unit, for pasting levels into an online editor one by
one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Definition = args[0]
			text, err := readPrelude(prelude)
			if err != nil {
				return err
			}
			return c.runStep(cmd.Context(), cmd, opts, text, cf)
		},
	}

	strategyFlags(cmd, &opts)
	cmd.Flags().StringVar(&prelude, "prelude", "", "file prepended to every copied unit")
	cf.register(cmd)

	return cmd
}

func (c *CLI) runStep(ctx context.Context, cmd *cobra.Command, opts pipeline.Options, prelude string, cf cacheFlags) error {
	if c.Clipboard == nil {
		return export.ErrClipboardUnsupported
	}
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

	p := tea.NewProgram(NewStepModel(stepItems(f, res, prelude), c.Clipboard),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.ErrOrStderr()))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if m, ok := final.(StepModel); ok {
		printSuccess(cmd.ErrOrStderr(), "Copied %d of %d units", m.Done(), len(m.Items))
	}
	return nil
}

// stepItems pairs every unit of the progression with its clipboard text.
func stepItems(f *definition.File, res *progression.Result, prelude string) []StepItem {
	items := make([]StepItem, len(res.Order))
	for i, id := range res.Order {
		n := f.Graph.MustNode(id)
		items[i] = StepItem{Name: n.Name, Text: export.Step(prelude, n)}
	}
	return items
}
