package cmd

import (
	"fmt"

	"github.com/pgrxgen/pgrxgen/internal/version"
	"github.com/spf13/cobra"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display the version number of pgrxgen",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pgrxgen v%s@%s %s %s\n", version.App(), GitCommit, platform(), BuildDate)
	},
}

func init() {
	RootCmd.AddCommand(VersionCmd)
}
