package cmd

import (
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/glarch/glarch/internal/logger"
	"github.com/spf13/cobra"
)

var log = logger.GetInstance()

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "glarch",
	Short: "Explore and administer GitLab group hierarchies",
	Long: heredoc.Doc(`
		glarch renders the subgroups and projects below a GitLab group as a
		tree and performs administrative actions on groups, labels and
		projects. Run without arguments for the interactive menu.`),
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if ok, err := cmd.Flags().GetBool("version"); err == nil && ok {
			versionCmd.Run(cmd, args)
			return
		}
		m := newMenu(os.Stdin, cmd.OutOrStdout())
		m.live = isTerminal(os.Stdin) && isTerminal(os.Stdout)
		if err := m.run(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	RootCmd.Flags().Bool("version", false, "Show the glarch version")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Execute has already logged the error
		os.Exit(1)
	}
}
