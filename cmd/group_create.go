package cmd

import (
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/glarch/glarch/internal/action"
	"github.com/rsteube/carapace"
	"github.com/spf13/cobra"
)

var groupCreateCmd = &cobra.Command{
	Use:     "create <parent> <name>",
	Aliases: []string{"add"},
	Short:   "Create a subgroup",
	Long: heredoc.Doc(`
		Creates a subgroup under the numeric parent group id. The path is
		derived from the name: lower case with spaces replaced by dashes.`),
	Example: heredoc.Doc(`
		glarch group create 42 backend
		glarch group create 42 "Data Science"`),
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := createSubgroup(cmd.OutOrStdout(), args[0], strings.Join(args[1:], " ")); err != nil {
			fatal(err)
		}
	},
}

func init() {
	groupCmd.AddCommand(groupCreateCmd)
	carapace.Gen(groupCreateCmd).PositionalCompletion(
		action.Groups(),
	)
}
