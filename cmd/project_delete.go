package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

var projectDeleteCmd = &cobra.Command{
	Use:     "delete <project>",
	Aliases: []string{"rm"},
	Short:   "Delete a project",
	Example: heredoc.Doc(`
		glarch project delete 1234
		glarch project delete acme/legacy-api --yes`),
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := confirmDestructive(cmd, fmt.Sprintf("Delete project %s?", args[0]))
		if err == errCancelled {
			return
		}
		if err == nil {
			err = deleteProject(cmd.OutOrStdout(), args[0])
		}
		if err != nil {
			fatal(err)
		}
	},
}

func init() {
	projectDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	projectCmd.AddCommand(projectDeleteCmd)
}
