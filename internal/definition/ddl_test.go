package definition

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScanDDL(t *testing.T) {
	raw := `CREATE EXTERNAL TABLE orders (
  order_id bigint,
  customer_id bigint COMMENT 'customer reference',
  total decimal(10,2),
  attrs struct<source:string, campaign:string>
)
PARTITIONED BY (dt string)
STORED AS PARQUET
LOCATION 's3://data-lake/sales/orders/'
TBLPROPERTIES ('has_encrypted_data'='false', 'classification'='parquet');`

	def := ScanDDL(TableID{Database: "sales", Name: "orders"}, raw)

	wantColumns := []Column{
		{Name: "order_id", Type: "bigint"},
		{Name: "customer_id", Type: "bigint", Comment: "customer reference"},
		{Name: "total", Type: "decimal(10,2)"},
		{Name: "attrs", Type: "struct<source:string, campaign:string>"},
	}
	if diff := cmp.Diff(wantColumns, def.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	wantKeys := []PartitionKey{{Name: "dt", Type: "string"}}
	if diff := cmp.Diff(wantKeys, def.PartitionKeys); diff != "" {
		t.Errorf("partition keys mismatch (-want +got):\n%s", diff)
	}

	if def.Storage.Location != "s3://data-lake/sales/orders/" {
		t.Errorf("unexpected location: %q", def.Storage.Location)
	}

	for _, want := range []struct{ key, value string }{
		{"format", "PARQUET"},
		{"has_encrypted_data", "false"},
		{"classification", "parquet"},
	} {
		got, ok := def.Properties.Get(want.key)
		if !ok || got != want.value {
			t.Errorf("property %s = %q, %v; want %q", want.key, got, ok, want.value)
		}
	}

	if def.RawText != raw {
		t.Error("RawText must preserve the input byte for byte")
	}
}

func TestScanDDLSingleLine(t *testing.T) {
	def := ScanDDL(TableID{Database: "sales", Name: "t"},
		"CREATE EXTERNAL TABLE t (id bigint, name string) LOCATION 's3://b/t/'")

	wantColumns := []Column{
		{Name: "id", Type: "bigint"},
		{Name: "name", Type: "string"},
	}
	if diff := cmp.Diff(wantColumns, def.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestScanDDLBackquotedNames(t *testing.T) {
	def := ScanDDL(TableID{Database: "sales", Name: "t"},
		"CREATE EXTERNAL TABLE `t` (\n  `id` bigint,\n  `select` string\n)")

	wantColumns := []Column{
		{Name: "id", Type: "bigint"},
		{Name: "select", Type: "string"},
	}
	if diff := cmp.Diff(wantColumns, def.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestScanDDLCommentWithComma(t *testing.T) {
	def := ScanDDL(TableID{Database: "sales", Name: "t"},
		"CREATE EXTERNAL TABLE t (id bigint COMMENT 'primary, unique', name string)")

	wantColumns := []Column{
		{Name: "id", Type: "bigint", Comment: "primary, unique"},
		{Name: "name", Type: "string"},
	}
	if diff := cmp.Diff(wantColumns, def.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestScanDDLNoColumns(t *testing.T) {
	def := ScanDDL(TableID{Database: "sales", Name: "v"}, "CREATE VIEW v AS SELECT 1")
	if len(def.Columns) != 0 {
		t.Errorf("expected no columns, got %v", def.Columns)
	}
}

func TestParseTableID(t *testing.T) {
	tests := []struct {
		input   string
		want    TableID
		wantErr bool
	}{
		{"sales.orders", TableID{Database: "sales", Name: "orders"}, false},
		{"sales", TableID{}, true},
		{"a.b.c", TableID{}, true},
		{".orders", TableID{}, true},
		{"sales.", TableID{}, true},
	}

	for _, tt := range tests {
		got, err := ParseTableID(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTableID(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTableID(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTableID(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSortedIDs(t *testing.T) {
	m := map[TableID]*TableDefinition{
		{Database: "zoo", Name: "a"}: nil,
		{Database: "app", Name: "z"}: nil,
		{Database: "app", Name: "a"}: nil,
	}

	got := SortedIDs(m)
	want := []TableID{
		{Database: "app", Name: "a"},
		{Database: "app", Name: "z"},
		{Database: "zoo", Name: "a"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}
