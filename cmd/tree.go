package cmd

import (
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/glarch/glarch/internal/action"
	"github.com/glarch/glarch/internal/hierarchy"
	"github.com/rsteube/carapace"
	"github.com/spf13/cobra"
)

var treeConfig struct {
	Depth           int
	IncludeInactive bool
	ProjectLimit    int
	SubgroupLimit   int
	Live            bool
}

var treeCmd = &cobra.Command{
	Use:   "tree <group>",
	Short: "Show the subgroups and projects below a group",
	Long: heredoc.Doc(`
		Walks the group depth first, listing projects before subgroups, and
		prints the result as a tree. Groups and projects pending deletion are
		hidden unless --include-inactive is given. Branches that cannot be
		read are shown with an error marker.`),
	Example: heredoc.Doc(`
		glarch tree 42
		glarch tree acme/platform --depth 5
		glarch tree 42 -i --project-limit 100
		glarch tree 42 --live`),
	Args:             cobra.ExactArgs(1),
	PersistentPreRun: configPersistentPreRun("tree."),
	Run: func(cmd *cobra.Command, args []string) {
		live := treeConfig.Live && isTerminal(os.Stdout)
		req := hierarchy.Request{
			RootID:          args[0],
			MaxDepth:        treeConfig.Depth,
			IncludeInactive: treeConfig.IncludeInactive,
			ProjectLimit:    treeConfig.ProjectLimit,
			SubgroupLimit:   treeConfig.SubgroupLimit,
		}
		if err := showTree(cmd.OutOrStdout(), req, live); err != nil {
			fatal(err)
		}
	},
}

func init() {
	treeCmd.Flags().IntVarP(&treeConfig.Depth, "depth", "d", hierarchy.DefaultMaxDepth, "maximum subgroup depth to descend")
	treeCmd.Flags().BoolVarP(&treeConfig.IncludeInactive, "include-inactive", "i", false, "include groups and projects pending deletion")
	treeCmd.Flags().IntVar(&treeConfig.ProjectLimit, "project-limit", hierarchy.DefaultProjectLimit, "projects listed per group")
	treeCmd.Flags().IntVar(&treeConfig.SubgroupLimit, "subgroup-limit", hierarchy.DefaultSubgroupLimit, "subgroups listed per group")
	treeCmd.Flags().BoolVar(&treeConfig.Live, "live", false, "grow the tree on screen while walking")
	RootCmd.AddCommand(treeCmd)
	carapace.Gen(treeCmd).FlagCompletion(carapace.ActionMap{
		"depth": action.Depths(),
	})
	carapace.Gen(treeCmd).PositionalCompletion(
		action.Groups(),
	)
}
