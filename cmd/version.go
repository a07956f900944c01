package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set by main during build
var Version string

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the glarch version",
	Long:  ``,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "glarch version %s\n", Version)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
