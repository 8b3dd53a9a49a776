// Package plan implements the plan subcommand: compute and print the changes
// required to make the remote catalog match the local definitions.
package plan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riseshia/athenadef/cmd/util"
	"github.com/riseshia/athenadef/internal/diff"
)

var (
	planFormat        string
	planShowUnchanged bool
	planNoColor       bool
)

var PlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show changes required by the current definitions",
	Long:  "Compare the local SQL definition files with the remote catalog and print the operations an apply would run. No remote state is modified.",
	RunE:  runPlan,
}

func init() {
	PlanCmd.Flags().StringVar(&planFormat, "format", "text", "Output format: text, json")
	PlanCmd.Flags().BoolVar(&planShowUnchanged, "show-unchanged", false, "List tables with no changes")
	PlanCmd.Flags().BoolVar(&planNoColor, "no-color", false, "Disable colored output")
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := util.LoadConfig()
	if err != nil {
		return err
	}
	cat, err := util.NewCatalog(ctx, cfg)
	if err != nil {
		return err
	}

	local, remote, err := util.FetchStates(ctx, ".", cat, util.Targets, cfg)
	if err != nil {
		return err
	}

	p := diff.Compute(local, remote, diff.Options{IncludeUnchanged: planShowUnchanged})

	switch planFormat {
	case "json":
		out, err := p.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to generate JSON output: %w", err)
		}
		fmt.Println(out)
	case "text":
		fmt.Print(p.Render(planShowUnchanged, !planNoColor))
	default:
		return fmt.Errorf("unknown format: %s", planFormat)
	}

	return nil
}
