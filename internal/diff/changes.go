package diff

import (
	"strings"

	"github.com/riseshia/athenadef/internal/definition"
	"github.com/riseshia/athenadef/internal/plan"
)

// detectChanges computes the structural changes of an update by set-comparing
// the columns, partition keys, storage location, and properties of the two
// definitions. Names and types compare case-insensitively, matching how the
// remote catalog stores them.
func detectChanges(remoteDef, localDef *definition.TableDefinition) []plan.Change {
	var changes []plan.Change
	changes = append(changes, columnChanges(remoteDef.Columns, localDef.Columns)...)
	changes = append(changes, partitionKeyChanges(remoteDef.PartitionKeys, localDef.PartitionKeys)...)
	changes = append(changes, storageChanges(&remoteDef.Storage, &localDef.Storage)...)
	changes = append(changes, propertyChanges(remoteDef.Properties, localDef.Properties)...)
	return changes
}

func columnChanges(remote, local []definition.Column) []plan.Change {
	remoteTypes := columnTypes(remote)
	localTypes := columnTypes(local)

	var changes []plan.Change

	// Removed columns, in remote declaration order.
	for _, col := range remote {
		name := strings.ToLower(col.Name)
		if _, ok := localTypes[name]; !ok {
			changes = append(changes, plan.Change{
				Kind:     plan.ChangeRemoveColumn,
				Name:     name,
				OldValue: strptr(remoteTypes[name]),
			})
		}
	}

	// Added and retyped columns, in local declaration order.
	for _, col := range local {
		name := strings.ToLower(col.Name)
		newType := localTypes[name]
		oldType, existed := remoteTypes[name]
		switch {
		case !existed:
			changes = append(changes, plan.Change{
				Kind:     plan.ChangeAddColumn,
				Name:     name,
				NewValue: strptr(newType),
			})
		case oldType != newType:
			changes = append(changes, plan.Change{
				Kind:     plan.ChangeColumnType,
				Name:     name,
				OldValue: strptr(oldType),
				NewValue: strptr(newType),
			})
		}
	}

	return changes
}

func partitionKeyChanges(remote, local []definition.PartitionKey) []plan.Change {
	remoteKeys := partitionKeySet(remote)
	localKeys := partitionKeySet(local)

	var changes []plan.Change

	for _, key := range remote {
		name := strings.ToLower(key.Name)
		if _, ok := localKeys[name]; !ok {
			changes = append(changes, plan.Change{
				Kind:     plan.ChangeRemovePartitionKey,
				Name:     name,
				OldValue: strptr(name + " " + remoteKeys[name]),
			})
		}
	}

	for _, key := range local {
		name := strings.ToLower(key.Name)
		newType := localKeys[name]
		oldType, existed := remoteKeys[name]
		switch {
		case !existed:
			changes = append(changes, plan.Change{
				Kind:     plan.ChangeAddPartitionKey,
				Name:     name,
				NewValue: strptr(name + " " + newType),
			})
		case oldType != newType:
			// A retyped partition key reads as remove plus add.
			changes = append(changes,
				plan.Change{
					Kind:     plan.ChangeRemovePartitionKey,
					Name:     name,
					OldValue: strptr(name + " " + oldType),
				},
				plan.Change{
					Kind:     plan.ChangeAddPartitionKey,
					Name:     name,
					NewValue: strptr(name + " " + newType),
				})
		}
	}

	return changes
}

func storageChanges(remote, local *definition.Storage) []plan.Change {
	if remote.Location == local.Location {
		return nil
	}
	return []plan.Change{{
		Kind:     plan.ChangeStorageLocation,
		OldValue: strptrOrNil(remote.Location),
		NewValue: strptrOrNil(local.Location),
	}}
}

func propertyChanges(remote, local definition.Properties) []plan.Change {
	var changes []plan.Change

	for _, prop := range remote {
		if _, ok := local.Get(prop.Key); !ok {
			changes = append(changes, plan.Change{
				Kind:     plan.ChangeProperty,
				Name:     prop.Key,
				OldValue: strptr(prop.Value),
			})
		}
	}

	for _, prop := range local {
		oldValue, existed := remote.Get(prop.Key)
		switch {
		case !existed:
			changes = append(changes, plan.Change{
				Kind:     plan.ChangeProperty,
				Name:     prop.Key,
				NewValue: strptr(prop.Value),
			})
		case oldValue != prop.Value:
			changes = append(changes, plan.Change{
				Kind:     plan.ChangeProperty,
				Name:     prop.Key,
				OldValue: strptr(oldValue),
				NewValue: strptr(prop.Value),
			})
		}
	}

	return changes
}

func columnTypes(cols []definition.Column) map[string]string {
	types := make(map[string]string, len(cols))
	for _, col := range cols {
		types[strings.ToLower(col.Name)] = strings.ToLower(col.Type)
	}
	return types
}

func partitionKeySet(keys []definition.PartitionKey) map[string]string {
	types := make(map[string]string, len(keys))
	for _, key := range keys {
		types[strings.ToLower(key.Name)] = strings.ToLower(key.Type)
	}
	return types
}

func strptr(s string) *string {
	return &s
}

func strptrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
