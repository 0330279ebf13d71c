// Package output handles formatting CLI output as table, JSON, YAML, or compact.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Format represents an output format.
type Format int

const (
	// FormatAuto uses the default format (table).
	FormatAuto Format = iota
	// FormatJSON outputs JSON.
	FormatJSON
	// FormatYAML outputs YAML.
	FormatYAML
	// FormatTable outputs a human-readable table.
	FormatTable
	// FormatCompact outputs one-line-per-record compact format.
	FormatCompact
)

// Detect returns the appropriate format based on flags and environment.
// Default is table when no explicit format is set.
func Detect(jsonFlag, yamlFlag, tableFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case yamlFlag:
		return FormatYAML
	case compactFlag:
		return FormatCompact
	case tableFlag:
		return FormatTable
	}

	switch os.Getenv("TASKWATCH_OUTPUT") {
	case "json":
		return FormatJSON
	case "yaml", "yml":
		return FormatYAML
	case "compact", "oneline":
		return FormatCompact
	case "table":
		return FormatTable
	}

	return FormatTable
}

// ConfigureColor picks the color profile for w. Color is dropped when
// disabled, when NO_COLOR is set, or when w is not a terminal.
func ConfigureColor(w io.Writer, disabled bool) {
	if disabled || os.Getenv("NO_COLOR") != "" {
		DisableColor()
		return
	}
	profile := termenv.NewOutput(w).EnvColorProfile()
	lipgloss.SetColorProfile(profile)
	if profile == termenv.Ascii {
		DisableColor()
	}
}
