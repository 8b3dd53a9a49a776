package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "athenadef.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "primary", cfg.Workgroup)
	assert.Empty(t, cfg.OutputLocation)
	assert.Equal(t, 300, cfg.QueryTimeoutSeconds)
	assert.Equal(t, 5, cfg.MaxConcurrentQueries)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
workgroup: analytics
output_location: "s3://results-bucket/athena/"
region: us-east-1
query_timeout_seconds: 120
max_concurrent_queries: 10
databases:
  - salesdb
  - marketingdb
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "analytics", cfg.Workgroup)
	assert.Equal(t, "s3://results-bucket/athena/", cfg.OutputLocation)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, 120, cfg.QueryTimeoutSeconds)
	assert.Equal(t, 10, cfg.MaxConcurrentQueries)
	assert.Equal(t, []string{"salesdb", "marketingdb"}, cfg.Databases)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `workgroup: primary`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.QueryTimeoutSeconds)
	assert.Equal(t, 5, cfg.MaxConcurrentQueries)
	assert.Empty(t, cfg.Databases)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "workgroup: [unclosed")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Workgroup = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.QueryTimeoutSeconds = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.MaxConcurrentQueries = -1
	assert.Error(t, cfg.Validate())
}
