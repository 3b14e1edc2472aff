package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bspgen/pkg/pipeline"
)

// completionCommand prints shell completion scripts. Beyond commands and
// flags, the scripts complete --format values and snapshot paths.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for your shell.

  bash:        source <(bspgen completion bash)
  zsh:         bspgen completion zsh > "${fpath[1]}/_bspgen"
  fish:        bspgen completion fish | source
  powershell:  bspgen completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeFormats completes a comma-separated format list: the part before
// the last comma is kept and the last element is matched against choices.
func completeFormats(choices []string) cobra.CompletionFunc {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		done, partial := "", toComplete
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			done, partial = toComplete[:i+1], toComplete[i+1:]
		}
		var out []string
		for _, f := range choices {
			if strings.HasPrefix(f, partial) && !strings.Contains(","+done, ","+f+",") {
				out = append(out, done+f)
			}
		}
		return out, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
	}
}

// completeSnapshots offers JSON files for commands that read a snapshot.
func completeSnapshots(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{pipeline.Extension(pipeline.FormatJSON)}, cobra.ShellCompDirectiveFilterFileExt
}
