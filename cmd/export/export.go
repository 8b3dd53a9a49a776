// Package export implements the export subcommand: download the DDL of remote
// tables into the local <database>/<table>.sql tree.
package export

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riseshia/athenadef/cmd/util"
	"github.com/riseshia/athenadef/internal/definition"
	"github.com/riseshia/athenadef/internal/source"
)

var exportOverwrite bool

var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export remote table definitions to local SQL files",
	Long:  "Fetch the DDL of every targeted table from the remote catalog and write it into the <database>/<table>.sql tree. Existing files are kept unless --overwrite is set.",
	RunE:  runExport,
}

func init() {
	ExportCmd.Flags().BoolVar(&exportOverwrite, "overwrite", false, "Replace existing definition files")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := util.LoadConfig()
	if err != nil {
		return err
	}
	cat, err := util.NewCatalog(ctx, cfg)
	if err != nil {
		return err
	}

	remote, err := cat.ListTables(ctx, util.Targets)
	if err != nil {
		return err
	}
	if len(remote) == 0 {
		fmt.Println("No tables matched.")
		return nil
	}

	written, skipped := 0, 0
	for _, id := range definition.SortedIDs(remote) {
		path, err := source.WriteTable(".", remote[id], exportOverwrite)
		if err != nil {
			if errors.Is(err, source.ErrExists) {
				fmt.Printf("skip  %s (%s exists)\n", id, path)
				skipped++
				continue
			}
			return err
		}
		fmt.Printf("write %s -> %s\n", id, path)
		written++
	}

	fmt.Printf("\nExported %d table(s), skipped %d.\n", written, skipped)
	return nil
}
