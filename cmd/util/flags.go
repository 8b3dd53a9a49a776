package util

import "github.com/riseshia/athenadef/internal/config"

// Values of the root command's persistent flags, bound at startup and read by
// every subcommand.
var (
	ConfigPath string
	Debug      bool
	Targets    []string
)

// LoadConfig loads the configuration file named by the --config flag.
func LoadConfig() (*config.Config, error) {
	return config.Load(ConfigPath)
}
