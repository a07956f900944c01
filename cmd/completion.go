package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/rsteube/carapace"
	"github.com/spf13/cobra"
)

var completionShells = []string{"bash", "elvish", "fish", "powershell", "xonsh", "zsh"}

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [shell]",
	Short: "Generates the shell autocompletion",
	Long: heredoc.Doc(`
		Prints the completion script for the given shell. Without an argument
		the shell is detected from the environment.`),
	Example: heredoc.Doc(`
		source <(glarch completion bash)
		glarch completion zsh > "${fpath[1]}/_glarch"`),
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: completionShells,
	Run: func(cmd *cobra.Command, args []string) {
		shell := ""
		if len(args) > 0 {
			shell = args[0]
		}
		snippet, err := carapace.Gen(RootCmd).Snippet(shell)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), snippet)
	},
}

func init() {
	RootCmd.AddCommand(completionCmd)
	carapace.Gen(completionCmd).PositionalCompletion(
		carapace.ActionValues(completionShells...),
	)
}
