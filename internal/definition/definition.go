// Package definition holds the shared data model for table schemas managed by
// athenadef: identifiers, column and partition definitions, storage metadata,
// and the raw DDL text that travels with each table.
package definition

import (
	"fmt"
	"sort"
	"strings"
)

// TableID uniquely identifies a table as database.table. Comparison is
// case-sensitive and ordering is lexicographic on (Database, Name) so that
// plans come out in a deterministic order.
type TableID struct {
	Database string
	Name     string
}

// ParseTableID parses a "database.table" key into a TableID.
func ParseTableID(key string) (TableID, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return TableID{}, fmt.Errorf("invalid table key format: %s", key)
	}
	return TableID{Database: parts[0], Name: parts[1]}, nil
}

// String returns the qualified name in database.table form.
func (id TableID) String() string {
	return id.Database + "." + id.Name
}

// Less reports whether id sorts before other.
func (id TableID) Less(other TableID) bool {
	if id.Database != other.Database {
		return id.Database < other.Database
	}
	return id.Name < other.Name
}

// Column is a single column definition. Order within a table is significant
// and preserved through comparison and reporting.
type Column struct {
	Name    string
	Type    string
	Comment string
}

// PartitionKey is a partition column definition. Same shape as Column but
// semantically distinct: partition keys are not part of the data columns.
type PartitionKey struct {
	Name    string
	Type    string
	Comment string
}

// Property is a single key/value pair in an ordered property list.
type Property struct {
	Key   string
	Value string
}

// Properties is an ordered list of key/value pairs.
type Properties []Property

// PropertiesFromMap converts an unordered map into a Properties list sorted
// by key, so that two conversions of equal maps compare equal.
func PropertiesFromMap(m map[string]string) Properties {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	props := make(Properties, 0, len(keys))
	for _, k := range keys {
		props = append(props, Property{Key: k, Value: m[k]})
	}
	return props
}

// Get returns the value for key and whether it was present.
func (p Properties) Get(key string) (string, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop.Value, true
		}
	}
	return "", false
}

// Storage describes where and how table data is stored.
type Storage struct {
	Location             string
	InputFormat          string
	OutputFormat         string
	SerializationLibrary string
	Parameters           Properties
}

// TableDefinition is the full definition of a table: the structured model used
// for change classification plus the verbatim DDL text. RawText is opaque
// payload; it is never re-validated locally and is handed as-is to the remote
// catalog on create and update.
type TableDefinition struct {
	ID            TableID
	Columns       []Column
	PartitionKeys []PartitionKey
	Storage       Storage
	Properties    Properties
	Comment       string
	RawText       string
}

// QualifiedName returns the database.table name of the definition.
func (d *TableDefinition) QualifiedName() string {
	return d.ID.String()
}

// SortedIDs returns the keys of a definition map in deterministic order.
func SortedIDs[V any](m map[TableID]V) []TableID {
	ids := make([]TableID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}
