package catalog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riseshia/athenadef/internal/definition"
)

func TestExtractDDL(t *testing.T) {
	rows := [][]string{
		{"createtab_stmt"},
		{"CREATE EXTERNAL TABLE `sales.orders`("},
		{"  `id` bigint)"},
		{"LOCATION 's3://b/orders/'"},
	}

	ddl, ok := extractDDL(rows)
	require.True(t, ok)
	assert.Equal(t, "CREATE EXTERNAL TABLE `sales.orders`(\n  `id` bigint)\nLOCATION 's3://b/orders/'", ddl)
}

func TestExtractDDLNoHeader(t *testing.T) {
	ddl, ok := extractDDL([][]string{{"CREATE EXTERNAL TABLE t (id bigint)"}})
	require.True(t, ok)
	assert.Equal(t, "CREATE EXTERNAL TABLE t (id bigint)", ddl)
}

func TestExtractDDLEmpty(t *testing.T) {
	_, ok := extractDDL(nil)
	assert.False(t, ok)

	_, ok = extractDDL([][]string{{"createtab_stmt"}})
	assert.False(t, ok)
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := parseS3URL("s3://results-bucket/athena/query.csv")
	require.NoError(t, err)
	assert.Equal(t, "results-bucket", bucket)
	assert.Equal(t, "athena/query.csv", key)

	for _, bad := range []string{"http://bucket/key", "s3://bucket", "s3://", "s3:///key"} {
		_, _, err := parseS3URL(bad)
		assert.Error(t, err, bad)
	}
}

func TestErrorAttribution(t *testing.T) {
	id := definition.TableID{Database: "sales", Name: "orders"}
	inner := errors.New("TABLE_NOT_FOUND: line 1:1")

	err := &Error{ID: id, Kind: Permanent, Err: inner}
	assert.Equal(t, "sales.orders: TABLE_NOT_FOUND: line 1:1", err.Error())
	assert.True(t, IsPermanent(err))
	assert.ErrorIs(t, err, inner)

	wrapped := fmt.Errorf("apply: %w", err)
	assert.True(t, IsPermanent(wrapped))

	transient := transientErr(id, inner)
	assert.False(t, IsPermanent(transient))
}

func TestClassifyKind(t *testing.T) {
	assert.Equal(t, Permanent, classifyKind(fmt.Errorf("%w: syntax error", errQueryFailed)))
	assert.Equal(t, Transient, classifyKind(errors.New("connection reset")))
}
