// Package initcmd implements the init subcommand: scaffold a starter
// configuration file.
package initcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riseshia/athenadef/cmd/util"
)

var initForce bool

const configTemplate = `# athenadef configuration
workgroup: primary

# Where query results are written. Optional when the workgroup enforces an
# output location.
# output_location: s3://your-bucket/athena-results/

# region: us-east-1

# Restrict athenadef to specific databases. Leave empty to manage every
# database the credentials can see.
# databases:
#   - salesdb
#   - marketing

# query_timeout_seconds: 300
# max_concurrent_queries: 5
`

var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate an initial configuration file",
	Long:  "Write a starter configuration file with the default settings commented for editing. Refuses to replace an existing file unless --force is set.",
	RunE:  runInit,
}

func init() {
	InitCmd.Flags().BoolVar(&initForce, "force", false, "Replace an existing configuration file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := util.ConfigPath

	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to replace it", path)
		}
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Printf("Created %s\n", path)
	return nil
}
