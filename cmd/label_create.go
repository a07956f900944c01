package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/glarch/glarch/internal/action"
	"github.com/rsteube/carapace"
	"github.com/spf13/cobra"
)

var labelCreateCmd = &cobra.Command{
	Use:     "create <group> <name>",
	Aliases: []string{"add"},
	Short:   "Create a new group label",
	Example: heredoc.Doc(`
		glarch label create 42 my-label
		glarch label create 42 --color cornflowerblue --description "Blue as a cornflower" blue
		glarch label create 42 --color #6495ed --description "Also blue as a cornflower" blue2`),
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		color, err := cmd.Flags().GetString("color")
		if err != nil {
			log.Fatal(err)
		}

		desc, err := cmd.Flags().GetString("description")
		if err != nil {
			log.Fatal(err)
		}

		if err := createLabel(cmd.OutOrStdout(), args[0], args[1], color, desc); err != nil {
			fatal(err)
		}
	},
}

func init() {
	labelCreateCmd.Flags().String("color", defaultLabelColor, "color of the new label in HTML hex notation or CSS color name")
	labelCreateCmd.Flags().String("description", "", "description of the new label")
	labelCmd.AddCommand(labelCreateCmd)
	carapace.Gen(labelCreateCmd).PositionalCompletion(
		action.Groups(),
	)
}

const defaultLabelColor = "#428BCA"
