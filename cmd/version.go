package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riseshia/athenadef/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("athenadef v%s@%s %s %s\n", version.App(), version.GitCommit, version.Platform(), version.BuildDate)
	},
}
