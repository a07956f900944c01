package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

var projectArchiveCmd = &cobra.Command{
	Use:   "archive <project>",
	Short: "Archive a project",
	Long: heredoc.Doc(`
		Archives a project, making it read only. The project accepts its
		numeric id or its full path.`),
	Example: heredoc.Doc(`
		glarch project archive 1234
		glarch project archive acme/legacy-api`),
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := archiveProject(cmd.OutOrStdout(), args[0]); err != nil {
			fatal(err)
		}
	},
}

var projectUnarchiveCmd = &cobra.Command{
	Use:     "unarchive <project>",
	Short:   "Unarchive a project",
	Example: `glarch project unarchive 1234`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := unarchiveProject(cmd.OutOrStdout(), args[0]); err != nil {
			fatal(err)
		}
	},
}

func init() {
	projectCmd.AddCommand(projectArchiveCmd)
	projectCmd.AddCommand(projectUnarchiveCmd)
}
