// Package diff implements the reconciliation differ: it classifies each table
// as Create, Update, Delete, or NoChange by comparing local definitions with
// the remote catalog, and derives the structural and textual description of
// every update. The differ is a pure function over its two input maps.
package diff

import (
	"github.com/riseshia/athenadef/internal/definition"
	"github.com/riseshia/athenadef/internal/plan"
)

// Options control plan computation.
type Options struct {
	// IncludeUnchanged keeps NoChange entries in the plan's diff list.
	IncludeUnchanged bool
}

// Compute builds a Plan from the local and remote definition sets. Both maps
// must already be restricted to the filtered target set.
//
// Classification:
//   - present locally, absent remotely: Create
//   - absent locally, present remotely: Delete
//   - present in both: NoChange when the normalized DDL matches, else Update
//     with a unified text diff and structural changes.
func Compute(local, remote map[definition.TableID]*definition.TableDefinition, opts Options) *plan.Plan {
	var diffs []plan.TableDiff

	for _, id := range definition.SortedIDs(local) {
		if _, ok := remote[id]; !ok {
			diffs = append(diffs, plan.TableDiff{ID: id, Operation: plan.OperationCreate})
		}
	}

	for _, id := range definition.SortedIDs(remote) {
		if _, ok := local[id]; !ok {
			diffs = append(diffs, plan.TableDiff{ID: id, Operation: plan.OperationDelete})
		}
	}

	for _, id := range definition.SortedIDs(local) {
		remoteDef, ok := remote[id]
		if !ok {
			continue
		}
		localDef := local[id]

		if NormalizeForComparison(remoteDef.RawText) == NormalizeForComparison(localDef.RawText) {
			if opts.IncludeUnchanged {
				diffs = append(diffs, plan.TableDiff{ID: id, Operation: plan.OperationNoChange})
			}
			continue
		}

		// Both structural models are derived from the DDL text so the two
		// sides are symmetric. The remote definition's own structural fields
		// come from the catalog service, which decorates them with bookkeeping
		// parameters that never appear in DDL.
		diffs = append(diffs, plan.TableDiff{
			ID:        id,
			Operation: plan.OperationUpdate,
			TextDiff:  unifiedDiff(id.String(), remoteDef.RawText, localDef.RawText),
			Changes: detectChanges(
				definition.ScanDDL(id, remoteDef.RawText),
				definition.ScanDDL(id, localDef.RawText),
			),
		})
	}

	return plan.New(diffs)
}
