// Package config loads and validates the athenadef.yaml configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultWorkgroup is the Athena workgroup used when none is configured.
	DefaultWorkgroup = "primary"
	// DefaultQueryTimeoutSeconds bounds a single remote query execution.
	DefaultQueryTimeoutSeconds = 300
	// DefaultMaxConcurrentQueries bounds parallel remote operations.
	DefaultMaxConcurrentQueries = 5
)

// Config is the athenadef.yaml file contents.
type Config struct {
	Workgroup            string   `yaml:"workgroup"`
	OutputLocation       string   `yaml:"output_location,omitempty"`
	Region               string   `yaml:"region,omitempty"`
	DatabasePrefix       string   `yaml:"database_prefix,omitempty"`
	QueryTimeoutSeconds  int      `yaml:"query_timeout_seconds,omitempty"`
	MaxConcurrentQueries int      `yaml:"max_concurrent_queries,omitempty"`
	Databases            []string `yaml:"databases,omitempty"`
}

// Default returns the configuration used when no file overrides are present.
func Default() *Config {
	return &Config{
		Workgroup:            DefaultWorkgroup,
		QueryTimeoutSeconds:  DefaultQueryTimeoutSeconds,
		MaxConcurrentQueries: DefaultMaxConcurrentQueries,
	}
}

// Load reads and validates a configuration file. Missing optional fields are
// filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Workgroup == "" {
		c.Workgroup = DefaultWorkgroup
	}
	if c.QueryTimeoutSeconds == 0 {
		c.QueryTimeoutSeconds = DefaultQueryTimeoutSeconds
	}
	if c.MaxConcurrentQueries == 0 {
		c.MaxConcurrentQueries = DefaultMaxConcurrentQueries
	}
}

// Validate checks configuration values.
func (c *Config) Validate() error {
	if c.Workgroup == "" {
		return fmt.Errorf("workgroup cannot be empty")
	}
	if c.QueryTimeoutSeconds <= 0 {
		return fmt.Errorf("query_timeout_seconds must be greater than 0")
	}
	if c.MaxConcurrentQueries <= 0 {
		return fmt.Errorf("max_concurrent_queries must be greater than 0")
	}
	return nil
}
