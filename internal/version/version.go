// Package version exposes build and version metadata.
package version

import (
	_ "embed"
	"runtime"
	"strings"
)

//go:embed VERSION
var versionFile string

// Build-time variables set via ldflags
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// App returns the current version of athenadef.
func App() string {
	return strings.TrimSpace(versionFile)
}

// Platform returns the OS/architecture combination.
func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}
