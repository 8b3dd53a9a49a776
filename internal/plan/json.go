package plan

import "encoding/json"

// JSON output contract. Field names and operation strings are stable across
// versions; additions require a compatibility note in the changelog.

type planJSON struct {
	NoChange   bool            `json:"no_change"`
	Summary    summaryJSON     `json:"summary"`
	TableDiffs []tableDiffJSON `json:"table_diffs"`
}

type summaryJSON struct {
	ToAdd     int `json:"to_add"`
	ToChange  int `json:"to_change"`
	ToDestroy int `json:"to_destroy"`
}

type tableDiffJSON struct {
	DatabaseName  string             `json:"database_name"`
	TableName     string             `json:"table_name"`
	Operation     string             `json:"operation"`
	TextDiff      *string            `json:"text_diff"`
	ChangeDetails *changeDetailsJSON `json:"change_details"`
}

type changeDetailsJSON struct {
	ColumnChanges   []columnChangeJSON   `json:"column_changes"`
	PropertyChanges []propertyChangeJSON `json:"property_changes"`
}

type columnChangeJSON struct {
	ChangeType string  `json:"change_type"`
	ColumnName string  `json:"column_name"`
	OldType    *string `json:"old_type"`
	NewType    *string `json:"new_type"`
}

type propertyChangeJSON struct {
	PropertyName string  `json:"property_name"`
	OldValue     *string `json:"old_value"`
	NewValue     *string `json:"new_value"`
}

// ToJSON renders the plan as the machine-readable structure.
func (p *Plan) ToJSON() (string, error) {
	out := planJSON{
		NoChange: p.NoChange,
		Summary: summaryJSON{
			ToAdd:     p.Summary.ToAdd,
			ToChange:  p.Summary.ToChange,
			ToDestroy: p.Summary.ToDestroy,
		},
		TableDiffs: make([]tableDiffJSON, 0, len(p.TableDiffs)),
	}

	for i := range p.TableDiffs {
		out.TableDiffs = append(out.TableDiffs, tableDiffToJSON(&p.TableDiffs[i]))
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func tableDiffToJSON(d *TableDiff) tableDiffJSON {
	out := tableDiffJSON{
		DatabaseName: d.ID.Database,
		TableName:    d.ID.Name,
		Operation:    string(d.Operation),
	}
	if d.TextDiff != "" {
		text := d.TextDiff
		out.TextDiff = &text
	}
	if len(d.Changes) > 0 {
		details := &changeDetailsJSON{
			ColumnChanges:   []columnChangeJSON{},
			PropertyChanges: []propertyChangeJSON{},
		}
		for _, ch := range d.Changes {
			switch ch.Kind {
			case ChangeAddColumn:
				details.ColumnChanges = append(details.ColumnChanges, columnChangeJSON{
					ChangeType: "added", ColumnName: ch.Name, NewType: ch.NewValue,
				})
			case ChangeRemoveColumn:
				details.ColumnChanges = append(details.ColumnChanges, columnChangeJSON{
					ChangeType: "removed", ColumnName: ch.Name, OldType: ch.OldValue,
				})
			case ChangeColumnType:
				details.ColumnChanges = append(details.ColumnChanges, columnChangeJSON{
					ChangeType: "type_changed", ColumnName: ch.Name, OldType: ch.OldValue, NewType: ch.NewValue,
				})
			case ChangeAddPartitionKey, ChangeRemovePartitionKey:
				details.PropertyChanges = append(details.PropertyChanges, propertyChangeJSON{
					PropertyName: "partitions", OldValue: ch.OldValue, NewValue: ch.NewValue,
				})
			case ChangeStorageLocation:
				details.PropertyChanges = append(details.PropertyChanges, propertyChangeJSON{
					PropertyName: "location", OldValue: ch.OldValue, NewValue: ch.NewValue,
				})
			case ChangeProperty:
				details.PropertyChanges = append(details.PropertyChanges, propertyChangeJSON{
					PropertyName: ch.Name, OldValue: ch.OldValue, NewValue: ch.NewValue,
				})
			}
		}
		out.ChangeDetails = details
	}
	return out
}
