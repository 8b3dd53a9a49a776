// Package plan defines the reconciliation plan produced by the differ: the
// ordered set of per-table diffs, the derived summary, and its text and JSON
// renderings. A Plan is an immutable value once built.
package plan

import (
	"sort"
	"strings"

	"github.com/riseshia/athenadef/internal/color"
	"github.com/riseshia/athenadef/internal/definition"
)

// Operation classifies what has to happen to a table. The string values are
// part of the JSON output contract and must not change.
type Operation string

const (
	OperationCreate   Operation = "Create"
	OperationUpdate   Operation = "Update"
	OperationDelete   Operation = "Delete"
	OperationNoChange Operation = "NoChange"
)

// ChangeKind identifies a single structural change within an update.
type ChangeKind string

const (
	ChangeAddColumn          ChangeKind = "add_column"
	ChangeRemoveColumn       ChangeKind = "remove_column"
	ChangeColumnType         ChangeKind = "change_column_type"
	ChangeAddPartitionKey    ChangeKind = "add_partition_key"
	ChangeRemovePartitionKey ChangeKind = "remove_partition_key"
	ChangeStorageLocation    ChangeKind = "change_storage_location"
	ChangeProperty           ChangeKind = "change_property"
)

// Change is one structural difference between the remote and local definition
// of a table. Name holds the column name or property key; OldValue and
// NewValue are nil where no value exists on that side.
type Change struct {
	Kind     ChangeKind
	Name     string
	OldValue *string
	NewValue *string
}

// TableDiff is the per-table reconciliation decision.
type TableDiff struct {
	ID        definition.TableID
	Operation Operation
	// TextDiff is the unified diff between remote and local DDL; set only
	// for updates.
	TextDiff string
	// Changes lists structural changes; non-empty only for updates.
	Changes []Change
}

// QualifiedName returns database.table for the diff.
func (d *TableDiff) QualifiedName() string {
	return d.ID.String()
}

// IsChange reports whether the diff requires a remote operation.
func (d *TableDiff) IsChange() bool {
	return d.Operation != OperationNoChange
}

// Summary counts planned operations by kind.
type Summary struct {
	ToAdd     int
	ToChange  int
	ToDestroy int
}

// Plan is the ordered result of diffing local definitions against the remote
// catalog.
type Plan struct {
	TableDiffs []TableDiff
	Summary    Summary
	NoChange   bool
}

// New builds a Plan from table diffs: diffs are sorted by table identity, the
// summary is derived from the operation counts, and non-update diffs are
// stripped of change payloads they must not carry.
func New(diffs []TableDiff) *Plan {
	sorted := make([]TableDiff, len(diffs))
	copy(sorted, diffs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID.Less(sorted[j].ID) })

	var summary Summary
	for i := range sorted {
		switch sorted[i].Operation {
		case OperationCreate:
			summary.ToAdd++
		case OperationUpdate:
			summary.ToChange++
		case OperationDelete:
			summary.ToDestroy++
		}
		if sorted[i].Operation != OperationUpdate {
			sorted[i].Changes = nil
			sorted[i].TextDiff = ""
		}
	}

	return &Plan{
		TableDiffs: sorted,
		Summary:    summary,
		NoChange:   summary.ToAdd == 0 && summary.ToChange == 0 && summary.ToDestroy == 0,
	}
}

// HasChanges reports whether the plan contains any operation to execute.
func (p *Plan) HasChanges() bool {
	return !p.NoChange
}

// TotalChanges returns the number of operations to execute.
func (p *Plan) TotalChanges() int {
	return p.Summary.ToAdd + p.Summary.ToChange + p.Summary.ToDestroy
}

// Render returns the human-readable plan in Terraform style. Unchanged tables
// are listed only when showUnchanged is set.
func (p *Plan) Render(showUnchanged, enableColor bool) string {
	c := color.New(enableColor)
	var b strings.Builder

	b.WriteString(c.PlanHeader(p.Summary.ToAdd, p.Summary.ToChange, p.Summary.ToDestroy))
	b.WriteString("\n")

	if p.NoChange {
		b.WriteString("\n")
		b.WriteString(c.Success("No changes. Your infrastructure matches the configuration."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("\n")

	// Databases that only exist locally get created before their tables.
	for _, db := range p.databasesToCreate() {
		b.WriteString(c.CreateSymbol() + " database: " + c.Create(db) + "\n")
		b.WriteString("  Will create database if it does not exist\n\n")
	}

	for i := range p.TableDiffs {
		diff := &p.TableDiffs[i]
		name := diff.QualifiedName()

		switch diff.Operation {
		case OperationCreate:
			b.WriteString(c.CreateSymbol() + " " + c.Create(name) + "\n")
			b.WriteString("  Will create table\n\n")
		case OperationUpdate:
			b.WriteString(c.UpdateSymbol() + " " + c.Update(name) + "\n")
			b.WriteString("  Will update table\n")
			for _, line := range strings.Split(strings.TrimRight(diff.TextDiff, "\n"), "\n") {
				b.WriteString(c.DiffLine(line) + "\n")
			}
			b.WriteString("\n")
		case OperationDelete:
			b.WriteString(c.DestroySymbol() + " " + c.Destroy(name) + "\n")
			b.WriteString("  Will destroy table\n\n")
		case OperationNoChange:
			if showUnchanged {
				b.WriteString("  " + c.Unchanged(name) + "\n")
				b.WriteString("  No changes\n\n")
			}
		}
	}

	return b.String()
}

func (p *Plan) databasesToCreate() []string {
	seen := map[string]bool{}
	for i := range p.TableDiffs {
		if p.TableDiffs[i].Operation == OperationCreate {
			seen[p.TableDiffs[i].ID.Database] = true
		}
	}
	dbs := make([]string, 0, len(seen))
	for db := range seen {
		dbs = append(dbs, db)
	}
	sort.Strings(dbs)
	return dbs
}
