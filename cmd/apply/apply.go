// Package apply implements the apply subcommand: plan, ask for approval, and
// run the operations against the remote catalog.
package apply

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/riseshia/athenadef/cmd/util"
	"github.com/riseshia/athenadef/internal/color"
	"github.com/riseshia/athenadef/internal/diff"
	"github.com/riseshia/athenadef/internal/executor"
	"github.com/riseshia/athenadef/internal/plan"
)

var (
	applyAutoApprove bool
	applyDryRun      bool
	applyNoColor     bool
)

var ApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Create or update tables according to the definitions",
	Long:  "Compare the local SQL definition files with the remote catalog and apply the necessary changes. Prompts for approval before touching remote state unless --auto-approve is set.",
	RunE:  runApply,
}

func init() {
	ApplyCmd.Flags().BoolVar(&applyAutoApprove, "auto-approve", false, "Apply changes without prompting for approval")
	ApplyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Show planned changes without applying them")
	ApplyCmd.Flags().BoolVar(&applyNoColor, "no-color", false, "Disable colored output")
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c := color.New(!applyNoColor)

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

	p := diff.Compute(local, remote, diff.Options{})
	fmt.Print(p.Render(false, !applyNoColor))

	if !p.HasChanges() {
		return nil
	}

	if !applyDryRun && !applyAutoApprove {
		approved, err := confirm()
		if err != nil {
			return fmt.Errorf("failed to read user input: %w", err)
		}
		if !approved {
			fmt.Println("Apply cancelled.")
			return nil
		}
	}

	exec := executor.New(cat, cfg.MaxConcurrentQueries, applyDryRun)
	result := exec.Execute(ctx, p, local)

	fmt.Println()
	for _, o := range result.Outcomes {
		switch o.Status {
		case executor.StatusSucceeded:
			if applyDryRun {
				fmt.Printf("%s %s: %s\n", c.Success("✓"), o.ID, futureTense(o.Operation))
			} else {
				fmt.Printf("%s %s: %s (%s)\n", c.Success("✓"), o.ID, pastTense(o.Operation), o.Duration.Round(time.Millisecond))
			}
		case executor.StatusFailed:
			fmt.Printf("%s %s: %v\n", c.Error("✗"), o.ID, o.Err)
		default:
			fmt.Printf("  %s: not applied\n", o.ID)
		}
	}

	fmt.Println()
	if !result.OK() {
		fmt.Printf("Apply failed: %d succeeded, %d failed.\n", result.Succeeded, result.Failed)
		return fmt.Errorf("apply finished with errors")
	}

	if applyDryRun {
		fmt.Println("Dry run complete. No changes were applied.")
		return nil
	}

	fmt.Printf("Apply complete! Resources: %d added, %d changed, %d destroyed.\n",
		p.Summary.ToAdd, p.Summary.ToChange, p.Summary.ToDestroy)
	return nil
}

func pastTense(op plan.Operation) string {
	switch op {
	case plan.OperationCreate:
		return "created"
	case plan.OperationUpdate:
		return "updated"
	case plan.OperationDelete:
		return "destroyed"
	}
	return string(op)
}

func futureTense(op plan.Operation) string {
	switch op {
	case plan.OperationCreate:
		return "would create"
	case plan.OperationUpdate:
		return "would update"
	case plan.OperationDelete:
		return "would destroy"
	}
	return string(op)
}

// confirm asks for explicit approval on stdin.
func confirm() (bool, error) {
	fmt.Print("\nDo you want to apply these changes? (yes/no): ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "yes" || response == "y", nil
}
