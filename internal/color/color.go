// Package color renders Terraform-style colored plan output. Colors are
// disabled when NO_COLOR is set or the terminal does not support them.
package color

import (
	"fmt"
	"os"
	"strings"
)

// ANSI color codes
const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
	dim    = "\033[2m"
	bold   = "\033[1m"
)

// Color is a colorizer that can be enabled or disabled.
type Color struct {
	enabled bool
}

// New creates a Color. The enabled flag is further gated on the environment.
func New(enabled bool) *Color {
	return &Color{enabled: enabled && shouldEnableColor()}
}

func shouldEnableColor() bool {
	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	term := os.Getenv("TERM")
	if term == "dumb" || term == "" {
		return false
	}
	return true
}

func (c *Color) wrap(code, text string) string {
	if !c.enabled {
		return text
	}
	return code + text + reset
}

// Create colors text for resources being created (green).
func (c *Color) Create(text string) string { return c.wrap(green, text) }

// Update colors text for resources being updated (yellow).
func (c *Color) Update(text string) string { return c.wrap(yellow, text) }

// Destroy colors text for resources being destroyed (red).
func (c *Color) Destroy(text string) string { return c.wrap(red, text) }

// Unchanged dims text for resources with no changes.
func (c *Color) Unchanged(text string) string { return c.wrap(dim, text) }

// Bold makes text bold.
func (c *Color) Bold(text string) string { return c.wrap(bold, text) }

// Success colors a success message (green).
func (c *Color) Success(text string) string { return c.wrap(green, text) }

// Error colors an error message (bold red).
func (c *Color) Error(text string) string { return c.wrap(red+bold, text) }

// Info colors informational text (cyan).
func (c *Color) Info(text string) string { return c.wrap(cyan, text) }

// CreateSymbol returns the "+" marker for create operations.
func (c *Color) CreateSymbol() string { return c.Create("+") }

// UpdateSymbol returns the "~" marker for update operations.
func (c *Color) UpdateSymbol() string { return c.Update("~") }

// DestroySymbol returns the "-" marker for destroy operations.
func (c *Color) DestroySymbol() string { return c.Destroy("-") }

// PlanHeader formats the "Plan: N to add..." summary line.
func (c *Color) PlanHeader(toAdd, toChange, toDestroy int) string {
	return c.Bold(fmt.Sprintf("Plan: %d to add, %d to change, %d to destroy.", toAdd, toChange, toDestroy))
}

// DiffLine colors a single unified-diff line: additions green, removals red,
// headers and context untouched.
func (c *Color) DiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
		return c.Create(line)
	case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
		return c.Destroy(line)
	default:
		return line
	}
}
