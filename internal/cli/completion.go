package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/progression/pkg/strategy"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for progression.

To load completions:

Bash:
  $ source <(progression completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ progression completion bash > /etc/bash_completion.d/progression
  # macOS:
  $ progression completion bash > $(brew --prefix)/etc/bash_completion.d/progression

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ progression completion zsh > "${fpath[1]}/_progression"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ progression completion fish | source

  # To load completions for each session, execute once:
  $ progression completion fish > ~/.config/fish/completions/progression.fish

PowerShell:
  PS> progression completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> progression completion powershell > progression.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completeStrategies completes strategy names for the --level and --choice
// flags.
func completeStrategies(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return strategy.Names(), cobra.ShellCompDirectiveNoFileComp
}

// completePassStrategies completes the structural strategy names allowed in
// the usage pass.
func completePassStrategies(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, s := range strategy.Builtins() {
		if strategy.IsPassSafe(s) {
			names = append(names, s.Name())
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
