package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var projectSearchConfig struct {
	Number int
}

var projectSearchCmd = &cobra.Command{
	Use:     "search <query>",
	Aliases: []string{"find"},
	Short:   "Search projects by name",
	Example: `glarch project search billing -n 25`,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.Join(args, " ")
		if err := searchProjects(cmd.OutOrStdout(), query, projectSearchConfig.Number); err != nil {
			fatal(err)
		}
	},
}

func init() {
	projectCmd.AddCommand(projectSearchCmd)
	projectSearchCmd.Flags().IntVarP(&projectSearchConfig.Number, "number", "n", 10, "Number of projects to return (at most 100)")
}
