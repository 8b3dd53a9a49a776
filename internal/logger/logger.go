// Package logger provides the process-wide slog logger used by athenadef.
package logger

import (
	"log/slog"
	"os"
	"sync"
)

var (
	global       *slog.Logger
	debugEnabled bool
	mu           sync.RWMutex
)

// Setup installs the global logger. Debug enables debug-level output.
func Setup(debug bool) {
	mu.Lock()
	defer mu.Unlock()
	debugEnabled = debug
	global = newLogger(debug)
}

// Get returns the global logger, or a default stderr logger when Setup has
// not been called yet.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global != nil {
		return global
	}
	return newLogger(debugEnabled)
}

// IsDebug reports whether debug logging is enabled.
func IsDebug() bool {
	mu.RLock()
	defer mu.RUnlock()
	return debugEnabled
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
