package cmd

import (
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/glarch/glarch/internal/action"
	"github.com/rsteube/carapace"
	"github.com/spf13/cobra"
)

var labelListCmd = &cobra.Command{
	Use:     "list <group> [search]",
	Aliases: []string{"ls", "search"},
	Short:   "List labels of a group",
	Example: heredoc.Doc(`
		glarch label list 42                  # list all labels
		glarch label list 42 "search term"    # labels with "search term" in name or description
		glarch label search acme "bug"        # same as above by group path`),
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		search := strings.Join(args[1:], " ")
		if err := listLabels(cmd.OutOrStdout(), args[0], search); err != nil {
			fatal(err)
		}
	},
}

func init() {
	labelCmd.AddCommand(labelListCmd)
	carapace.Gen(labelListCmd).PositionalCompletion(
		action.Groups(),
		action.Labels(0),
	)
}
