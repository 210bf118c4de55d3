package cmd

import (
	"fmt"

	"github.com/enmccarthy/lbann/internal/cluster"
	"github.com/enmccarthy/lbann/internal/utils"
	"github.com/spf13/cobra"
)

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "List the known clusters and their scheduler family",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(utils.StyleTitle("Known clusters:"))
		for _, clus := range cluster.Known() {
			attrs := clus.Attrs()
			line := fmt.Sprintf("  %-10s %s", utils.StyleName(string(clus)), attrs.Scheduler)
			if attrs.ScratchMount != "" {
				line += fmt.Sprintf("  (scratch mount: %s)", attrs.ScratchMount)
			}
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(clustersCmd)
}
