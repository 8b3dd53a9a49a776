// Package executor applies an approved plan against the remote catalog with a
// bounded worker pool. Failures are isolated per table: one failed operation
// never prevents unrelated operations from running.
package executor

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/riseshia/athenadef/internal/definition"
	"github.com/riseshia/athenadef/internal/logger"
	"github.com/riseshia/athenadef/internal/plan"
)

// Catalog is the mutating slice of the remote catalog the executor needs.
type Catalog interface {
	CreateTable(ctx context.Context, def *definition.TableDefinition) error
	UpdateTable(ctx context.Context, def *definition.TableDefinition) error
	DeleteTable(ctx context.Context, id definition.TableID) error
}

// Status is the lifecycle state of a single planned operation.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusRunning   Status = "Running"
	StatusSucceeded Status = "Succeeded"
	StatusFailed    Status = "Failed"
)

// Outcome records what happened to one planned operation.
type Outcome struct {
	ID        definition.TableID
	Operation plan.Operation
	Status    Status
	Duration  time.Duration
	Err       error
}

// Result aggregates the outcomes of an apply run.
type Result struct {
	Outcomes  []Outcome
	Succeeded int
	Failed    int
	Pending   int
}

// OK reports whether every planned operation succeeded.
func (r *Result) OK() bool {
	return r.Failed == 0 && r.Pending == 0
}

// Executor runs plan operations through the catalog port.
type Executor struct {
	catalog     Catalog
	concurrency int
	dryRun      bool
}

// New builds an executor. Concurrency values below one are clamped to one.
func New(catalog Catalog, concurrency int, dryRun bool) *Executor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Executor{catalog: catalog, concurrency: concurrency, dryRun: dryRun}
}

// Execute runs every change in the plan. NoChange diffs are skipped. Each
// worker writes only its own outcome slot, so no lock is needed. When the
// context is cancelled, operations not yet started stay Pending.
func (e *Executor) Execute(ctx context.Context, p *plan.Plan, local map[definition.TableID]*definition.TableDefinition) *Result {
	var work []plan.TableDiff
	for _, diff := range p.TableDiffs {
		if diff.IsChange() {
			work = append(work, diff)
		}
	}

	outcomes := make([]Outcome, len(work))
	for i, diff := range work {
		outcomes[i] = Outcome{ID: diff.ID, Operation: diff.Operation, Status: StatusPending}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, diff := range work {
		i, diff := i, diff
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				// Cancelled before this operation started; leave it Pending.
				return nil
			}
			if e.dryRun {
				// Nothing runs in dry-run mode; the outcome goes straight to
				// its terminal state.
				logger.Get().Debug("dry run, skipping operation", "table", diff.QualifiedName(), "operation", string(diff.Operation))
				outcomes[i].Status = StatusSucceeded
				return nil
			}
			outcomes[i].Status = StatusRunning
			start := time.Now()
			err := e.apply(gctx, diff, local)
			outcomes[i].Duration = time.Since(start)
			if err != nil {
				outcomes[i].Status = StatusFailed
				outcomes[i].Err = err
				logger.Get().Error("operation failed", "table", diff.QualifiedName(), "operation", string(diff.Operation), "error", err)
			} else {
				outcomes[i].Status = StatusSucceeded
				logger.Get().Debug("operation succeeded", "table", diff.QualifiedName(), "operation", string(diff.Operation))
			}
			// Failures are reported through the outcome, never through the
			// group, so sibling operations keep running.
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].ID.Less(outcomes[j].ID) })

	result := &Result{Outcomes: outcomes}
	for _, o := range outcomes {
		switch o.Status {
		case StatusSucceeded:
			result.Succeeded++
		case StatusFailed:
			result.Failed++
		default:
			result.Pending++
		}
	}
	return result
}

func (e *Executor) apply(ctx context.Context, diff plan.TableDiff, local map[definition.TableID]*definition.TableDefinition) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch diff.Operation {
	case plan.OperationCreate:
		return e.catalog.CreateTable(ctx, local[diff.ID])
	case plan.OperationUpdate:
		return e.catalog.UpdateTable(ctx, local[diff.ID])
	case plan.OperationDelete:
		return e.catalog.DeleteTable(ctx, diff.ID)
	}
	return nil
}
