package logger

import (
	"fmt"

	"github.com/fatih/color"
)

// colorScheme defines consistent colors for summary metrics.
// Green: nothing to do
// Yellow: files that changed
// Red: failures
// Cyan: labels and neutral counts
type colorScheme struct {
	enabled bool
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
}

func newColorScheme(enabled bool) *colorScheme {
	return &colorScheme{
		enabled: enabled,
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
	}
}

// metric formats "label: value", coloring the value when enabled.
func (s *colorScheme) metric(label string, value int, c *color.Color) string {
	if !s.enabled {
		return fmt.Sprintf("%s: %d", label, value)
	}
	return fmt.Sprintf("%s: %s", s.label.Sprint(label), c.Sprintf("%d", value))
}

func (s *colorScheme) changeColor(n int) *color.Color {
	if n > 0 {
		return s.warn
	}
	return s.success
}

func (s *colorScheme) errorColor(n int) *color.Color {
	if n > 0 {
		return s.fail
	}
	return s.success
}
