package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/glarch/glarch/internal/action"
	"github.com/rsteube/carapace"
	"github.com/spf13/cobra"
)

var groupDeleteCmd = &cobra.Command{
	Use:     "delete <group>",
	Aliases: []string{"rm"},
	Short:   "Delete a group",
	Long: heredoc.Doc(`
		Deletes a group with all its subgroups and projects. Depending on the
		instance settings GitLab only marks the group for deletion.`),
	Example: heredoc.Doc(`
		glarch group delete 42
		glarch group delete acme/old --yes`),
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := confirmDestructive(cmd, fmt.Sprintf("Delete group %s and everything below it?", args[0]))
		if err == errCancelled {
			return
		}
		if err == nil {
			err = deleteGroup(cmd.OutOrStdout(), args[0])
		}
		if err != nil {
			fatal(err)
		}
	},
}

func init() {
	groupDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	groupCmd.AddCommand(groupDeleteCmd)
	carapace.Gen(groupDeleteCmd).PositionalCompletion(
		action.Groups(),
	)
}
