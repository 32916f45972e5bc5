package color

import (
	"os"
)

// ANSI color codes
const (
	reset  = "\033[0m"
	red    = "\033[31m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

// Color represents a colorizer that can be enabled or disabled
type Color struct {
	enabled bool
}

// New creates a new Color instance
func New(enabled bool) *Color {
	return &Color{enabled: enabled && shouldEnableColor()}
}

// shouldEnableColor determines if color should be enabled based on environment
func shouldEnableColor() bool {
	// Check NO_COLOR environment variable (https://no-color.org/)
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	term := os.Getenv("TERM")
	if term == "dumb" || term == "" {
		return false
	}

	return true
}

// Error colors diagnostic text red
func (c *Color) Error(text string) string {
	if !c.enabled {
		return text
	}
	return red + text + reset
}

// Warn colors diagnostic text yellow
func (c *Color) Warn(text string) string {
	if !c.enabled {
		return text
	}
	return yellow + text + reset
}

// Label colors header and label text cyan
func (c *Color) Label(text string) string {
	if !c.enabled {
		return text
	}
	return cyan + text + reset
}

// Bold makes text bold
func (c *Color) Bold(text string) string {
	if !c.enabled {
		return text
	}
	return bold + text + reset
}
