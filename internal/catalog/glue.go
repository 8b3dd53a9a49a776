package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"

	"github.com/riseshia/athenadef/internal/definition"
)

// glueAPI is the slice of the Glue client the catalog uses.
type glueAPI interface {
	GetDatabases(ctx context.Context, params *glue.GetDatabasesInput, optFns ...func(*glue.Options)) (*glue.GetDatabasesOutput, error)
	GetTables(ctx context.Context, params *glue.GetTablesInput, optFns ...func(*glue.Options)) (*glue.GetTablesOutput, error)
}

// glueCatalog reads structural table metadata from the Glue Data Catalog.
type glueCatalog struct {
	client glueAPI
}

func (g *glueCatalog) listDatabases(ctx context.Context) ([]string, error) {
	var names []string
	var nextToken *string

	for {
		out, err := g.client.GetDatabases(ctx, &glue.GetDatabasesInput{NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("failed to get databases from Glue: %w", err)
		}
		for _, db := range out.DatabaseList {
			names = append(names, aws.ToString(db.Name))
		}
		nextToken = out.NextToken
		if nextToken == nil {
			return names, nil
		}
	}
}

func (g *glueCatalog) listTables(ctx context.Context, database string) ([]*definition.TableDefinition, error) {
	var tables []*definition.TableDefinition
	var nextToken *string

	for {
		out, err := g.client.GetTables(ctx, &glue.GetTablesInput{
			DatabaseName: aws.String(database),
			NextToken:    nextToken,
		})
		if err != nil {
			// A database deleted between listing and fetching is not an error;
			// it simply contributes no tables.
			var notFound *gluetypes.EntityNotFoundException
			if errors.As(err, &notFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to get tables from database %s: %w", database, err)
		}
		for _, table := range out.TableList {
			tables = append(tables, tableFromGlue(database, &table))
		}
		nextToken = out.NextToken
		if nextToken == nil {
			return tables, nil
		}
	}
}

// tableFromGlue maps a Glue table to the structural definition model. The
// DDL text is filled in separately from SHOW CREATE TABLE.
func tableFromGlue(database string, table *gluetypes.Table) *definition.TableDefinition {
	def := &definition.TableDefinition{
		ID: definition.TableID{
			Database: database,
			Name:     aws.ToString(table.Name),
		},
		Comment:    aws.ToString(table.Description),
		Properties: definition.PropertiesFromMap(table.Parameters),
	}

	if sd := table.StorageDescriptor; sd != nil {
		for _, col := range sd.Columns {
			def.Columns = append(def.Columns, definition.Column{
				Name:    aws.ToString(col.Name),
				Type:    aws.ToString(col.Type),
				Comment: aws.ToString(col.Comment),
			})
		}
		def.Storage = definition.Storage{
			Location:     aws.ToString(sd.Location),
			InputFormat:  aws.ToString(sd.InputFormat),
			OutputFormat: aws.ToString(sd.OutputFormat),
		}
		if sd.SerdeInfo != nil {
			def.Storage.SerializationLibrary = aws.ToString(sd.SerdeInfo.SerializationLibrary)
			def.Storage.Parameters = definition.PropertiesFromMap(sd.SerdeInfo.Parameters)
		}
	}

	for _, key := range table.PartitionKeys {
		def.PartitionKeys = append(def.PartitionKeys, definition.PartitionKey{
			Name:    aws.ToString(key.Name),
			Type:    aws.ToString(key.Type),
			Comment: aws.ToString(key.Comment),
		})
	}

	return def
}
