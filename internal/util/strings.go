// Package util provides text helpers for terminal output.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// TruncateANSI truncates s to maxWidth visual columns, ending with Ellipsis
// when anything was cut. Escape sequences are preserved and wide characters
// count as two columns.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	// ansi.Truncate counts the tail toward maxWidth
	return ansi.Truncate(s, maxWidth, Ellipsis)
}

// FitWidth truncates every line of s to width columns. A width of zero or
// less leaves s unchanged.
func FitWidth(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = TruncateANSI(line, width)
	}
	return strings.Join(lines, "\n")
}
