package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riseshia/athenadef/internal/definition"
	"github.com/riseshia/athenadef/internal/plan"
)

func def(database, name, raw string) *definition.TableDefinition {
	return definition.ScanDDL(definition.TableID{Database: database, Name: name}, raw)
}

func defMap(defs ...*definition.TableDefinition) map[definition.TableID]*definition.TableDefinition {
	m := make(map[definition.TableID]*definition.TableDefinition)
	for _, d := range defs {
		m[d.ID] = d
	}
	return m
}

func TestComputeClassification(t *testing.T) {
	local := defMap(
		def("sales", "customers", "CREATE EXTERNAL TABLE customers (id bigint) LOCATION 's3://b/customers/'"),
		def("sales", "orders", "CREATE EXTERNAL TABLE orders (id bigint) LOCATION 's3://b/orders/'"),
	)
	remote := defMap(
		def("sales", "orders", "CREATE EXTERNAL TABLE orders (id bigint) LOCATION 's3://b/orders/'"),
		def("sales", "old_orders", "CREATE EXTERNAL TABLE old_orders (id bigint) LOCATION 's3://b/old/'"),
	)

	p := Compute(local, remote, Options{})

	require.Len(t, p.TableDiffs, 2)
	assert.Equal(t, plan.Summary{ToAdd: 1, ToChange: 0, ToDestroy: 1}, p.Summary)
	assert.False(t, p.NoChange)

	byName := map[string]plan.Operation{}
	for _, d := range p.TableDiffs {
		byName[d.QualifiedName()] = d.Operation
	}
	assert.Equal(t, plan.OperationCreate, byName["sales.customers"])
	assert.Equal(t, plan.OperationDelete, byName["sales.old_orders"])
}

func TestComputeIncludeUnchanged(t *testing.T) {
	local := defMap(def("sales", "orders", "CREATE EXTERNAL TABLE orders (id bigint)"))
	remote := defMap(def("sales", "orders", "CREATE EXTERNAL TABLE orders (id bigint)"))

	p := Compute(local, remote, Options{})
	assert.Empty(t, p.TableDiffs)
	assert.True(t, p.NoChange)

	p = Compute(local, remote, Options{IncludeUnchanged: true})
	require.Len(t, p.TableDiffs, 1)
	assert.Equal(t, plan.OperationNoChange, p.TableDiffs[0].Operation)
	assert.True(t, p.NoChange)
}

func TestComputeWhitespaceAndCommentsAreNotChanges(t *testing.T) {
	local := defMap(def("sales", "orders", `CREATE EXTERNAL TABLE orders (
  id    bigint, -- surrogate key
  name  string
)
LOCATION 's3://b/orders/'
`))
	remote := defMap(def("sales", "orders", "CREATE EXTERNAL TABLE orders (id bigint, name string) LOCATION 's3://b/orders/'"))

	p := Compute(local, remote, Options{})
	assert.True(t, p.NoChange)
}

func TestComputeCaseInsensitiveOutsideQuotes(t *testing.T) {
	local := defMap(def("sales", "orders", "create external table orders (ID BIGINT) location 's3://b/orders/'"))
	remote := defMap(def("sales", "orders", "CREATE EXTERNAL TABLE orders (id bigint) LOCATION 's3://b/orders/'"))

	p := Compute(local, remote, Options{})
	assert.True(t, p.NoChange)

	// Case inside a quoted string is a real difference.
	local = defMap(def("sales", "orders", "CREATE EXTERNAL TABLE orders (id bigint) LOCATION 'S3://B/orders/'"))
	p = Compute(local, remote, Options{})
	assert.False(t, p.NoChange)
}

func TestComputeUpdateDetails(t *testing.T) {
	remote := defMap(def("marketing", "leads", `CREATE EXTERNAL TABLE leads (
  id bigint,
  score int
)
LOCATION 's3://b/leads/'`))
	local := defMap(def("marketing", "leads", `CREATE EXTERNAL TABLE leads (
  id bigint,
  score double,
  created_at timestamp
)
LOCATION 's3://b/leads/'`))

	p := Compute(local, remote, Options{})

	require.Len(t, p.TableDiffs, 1)
	d := p.TableDiffs[0]
	assert.Equal(t, plan.OperationUpdate, d.Operation)
	assert.Equal(t, plan.Summary{ToChange: 1}, p.Summary)

	assert.Contains(t, d.TextDiff, "--- remote: marketing.leads")
	assert.Contains(t, d.TextDiff, "+++ local:  marketing.leads")
	assert.Contains(t, d.TextDiff, "-  score int")
	assert.Contains(t, d.TextDiff, "+  score double,")
	assert.Contains(t, d.TextDiff, "+  created_at timestamp")

	require.Len(t, d.Changes, 2)
	assert.Equal(t, plan.ChangeColumnType, d.Changes[0].Kind)
	assert.Equal(t, "score", d.Changes[0].Name)
	assert.Equal(t, "int", *d.Changes[0].OldValue)
	assert.Equal(t, "double", *d.Changes[0].NewValue)
	assert.Equal(t, plan.ChangeAddColumn, d.Changes[1].Kind)
	assert.Equal(t, "created_at", d.Changes[1].Name)
}

func TestComputeUpdateWithCatalogShapedRemote(t *testing.T) {
	// A remote definition as the catalog service returns it: structural
	// fields from its metadata API, decorated with bookkeeping parameters
	// that never appear in DDL. Only the DDL text difference may surface as
	// changes.
	remoteDef := &definition.TableDefinition{
		ID:      definition.TableID{Database: "marketing", Name: "leads"},
		Columns: []definition.Column{{Name: "id", Type: "bigint"}},
		Storage: definition.Storage{
			Location:    "s3://b/leads/",
			InputFormat: "org.apache.hadoop.mapred.TextInputFormat",
		},
		Properties: definition.PropertiesFromMap(map[string]string{
			"EXTERNAL":              "TRUE",
			"transient_lastDdlTime": "1700000000",
			"classification":        "json",
		}),
		RawText: "CREATE EXTERNAL TABLE leads (\n  id bigint\n)\nLOCATION 's3://b/leads/'",
	}
	local := defMap(def("marketing", "leads", "CREATE EXTERNAL TABLE leads (\n  id bigint,\n  score double\n)\nLOCATION 's3://b/leads/'"))

	p := Compute(local, defMap(remoteDef), Options{})

	require.Len(t, p.TableDiffs, 1)
	d := p.TableDiffs[0]
	assert.Equal(t, plan.OperationUpdate, d.Operation)

	require.Len(t, d.Changes, 1)
	assert.Equal(t, plan.ChangeAddColumn, d.Changes[0].Kind)
	assert.Equal(t, "score", d.Changes[0].Name)
}

func TestDetectChanges(t *testing.T) {
	remoteDef := def("sales", "orders", `CREATE EXTERNAL TABLE orders (
  id bigint,
  legacy_flag string
)
PARTITIONED BY (dt string)
LOCATION 's3://b/orders/'
TBLPROPERTIES ('classification'='json')`)
	localDef := def("sales", "orders", `CREATE EXTERNAL TABLE orders (
  id bigint,
  status string
)
PARTITIONED BY (dt string, region string)
LOCATION 's3://b/orders-v2/'
TBLPROPERTIES ('classification'='parquet')`)

	changes := detectChanges(remoteDef, localDef)

	kinds := map[plan.ChangeKind][]plan.Change{}
	for _, c := range changes {
		kinds[c.Kind] = append(kinds[c.Kind], c)
	}

	require.Len(t, kinds[plan.ChangeRemoveColumn], 1)
	assert.Equal(t, "legacy_flag", kinds[plan.ChangeRemoveColumn][0].Name)

	require.Len(t, kinds[plan.ChangeAddColumn], 1)
	assert.Equal(t, "status", kinds[plan.ChangeAddColumn][0].Name)

	require.Len(t, kinds[plan.ChangeAddPartitionKey], 1)
	assert.Equal(t, "region string", *kinds[plan.ChangeAddPartitionKey][0].NewValue)

	require.Len(t, kinds[plan.ChangeStorageLocation], 1)
	assert.Equal(t, "s3://b/orders/", *kinds[plan.ChangeStorageLocation][0].OldValue)
	assert.Equal(t, "s3://b/orders-v2/", *kinds[plan.ChangeStorageLocation][0].NewValue)

	require.Len(t, kinds[plan.ChangeProperty], 1)
	assert.Equal(t, "classification", kinds[plan.ChangeProperty][0].Name)
	assert.Equal(t, "json", *kinds[plan.ChangeProperty][0].OldValue)
	assert.Equal(t, "parquet", *kinds[plan.ChangeProperty][0].NewValue)
}

func TestNormalizeForComparison(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"identical", "CREATE TABLE t (id bigint)", "CREATE TABLE t (id bigint)", true},
		{"whitespace", "CREATE  TABLE\tt (id   bigint)", "CREATE TABLE t (id bigint)", true},
		{"blank lines", "CREATE TABLE t (\n\n  id bigint\n)\n\n", "CREATE TABLE t (\nid bigint\n)", true},
		{"line comment", "CREATE TABLE t (id bigint) -- managed", "CREATE TABLE t (id bigint)", true},
		{"keyword case", "create table t (ID Bigint)", "CREATE TABLE t (id bigint)", true},
		{"dashes in string", "CREATE TABLE t (id bigint) LOCATION 's3://a--b/'", "CREATE TABLE t (id bigint) LOCATION 's3://a--b/'", true},
		{"quoted case differs", "LOCATION 's3://Bucket/'", "LOCATION 's3://bucket/'", false},
		{"real change", "CREATE TABLE t (id bigint)", "CREATE TABLE t (id string)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeForComparison(tt.a) == NormalizeForComparison(tt.b)
			assert.Equal(t, tt.same, got)
		})
	}
}

func TestNormalizeText(t *testing.T) {
	in := "CREATE TABLE t (\r\n  id bigint  \r\n)\n\n\n"
	assert.Equal(t, "CREATE TABLE t (\n  id bigint\n)", NormalizeText(in))
}
