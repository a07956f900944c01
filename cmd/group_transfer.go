package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/glarch/glarch/internal/action"
	"github.com/rsteube/carapace"
	"github.com/spf13/cobra"
)

var groupTransferCmd = &cobra.Command{
	Use:     "transfer <group> <new-parent>",
	Aliases: []string{"mv"},
	Short:   "Move a group under another parent group",
	Example: heredoc.Doc(`
		glarch group transfer 57 42`),
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := transferGroup(cmd.OutOrStdout(), args[0], args[1]); err != nil {
			fatal(err)
		}
	},
}

func init() {
	groupCmd.AddCommand(groupTransferCmd)
	carapace.Gen(groupTransferCmd).PositionalCompletion(
		action.Groups(),
		action.Groups(),
	)
}
