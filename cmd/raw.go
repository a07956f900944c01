package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/glarch/glarch/internal/action"
	"github.com/rsteube/carapace"
	"github.com/spf13/cobra"
)

var rawCmd = &cobra.Command{
	Use:   "raw <method> <endpoint>",
	Short: "Send a request to the GitLab API",
	Long: heredoc.Doc(`
		Sends an authenticated request to an endpoint relative to /api/v4
		and prints the status and the response body. JSON bodies are
		indented. Supported methods are GET, POST, PUT and DELETE.`),
	Example: heredoc.Doc(`
		glarch raw GET /groups/42
		glarch raw GET "projects?search=billing&simple=true"`),
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := rawRequest(cmd.OutOrStdout(), args[0], args[1]); err != nil {
			fatal(err)
		}
	},
}

func init() {
	RootCmd.AddCommand(rawCmd)
	carapace.Gen(rawCmd).PositionalCompletion(
		action.Methods(),
	)
}
