package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/riseshia/athenadef/cmd/apply"
	"github.com/riseshia/athenadef/cmd/export"
	initcmd "github.com/riseshia/athenadef/cmd/init"
	"github.com/riseshia/athenadef/cmd/plan"
	"github.com/riseshia/athenadef/cmd/util"
	"github.com/riseshia/athenadef/internal/logger"
	"github.com/riseshia/athenadef/internal/version"
)

var RootCmd = &cobra.Command{
	Use:   "athenadef",
	Short: "Schema management tool for Amazon Athena",
	Long: fmt.Sprintf(`athenadef manages Athena table schemas declaratively: table definitions
live as SQL files in a <database>/<table>.sql tree, and athenadef plans and
applies the changes needed to make the remote catalog match them.

Version: %s@%s %s %s

Commands:
  plan    Show changes required by the current definitions
  apply   Create or update tables according to the definitions
  export  Export remote table definitions to local SQL files
  init    Generate an initial configuration file

Use "athenadef [command] --help" for more information about a command.`,
		version.App(), version.GitCommit, version.Platform(), version.BuildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Setup(util.Debug)
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&util.ConfigPath, "config", "c", "athenadef.yaml", "Path to configuration file")
	RootCmd.PersistentFlags().BoolVar(&util.Debug, "debug", false, "Enable debug logging")
	RootCmd.PersistentFlags().StringSliceVarP(&util.Targets, "target", "t", nil, "Limit operations to matching tables (database.table, * wildcards)")

	RootCmd.AddCommand(plan.PlanCmd)
	RootCmd.AddCommand(apply.ApplyCmd)
	RootCmd.AddCommand(export.ExportCmd)
	RootCmd.AddCommand(initcmd.InitCmd)
	RootCmd.AddCommand(versionCmd)
}

func Execute() {
	// An interrupt stops scheduling new remote work; in-flight queries are
	// cancelled through the service's own stop call.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
