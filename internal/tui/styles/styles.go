package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Text      = lipgloss.NewStyle().Foreground(TextColor)

	// Title is the application header
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	// Box frames the state panel of the watch view
	Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)

	// Label is the left column of key/value rows
	Label = lipgloss.NewStyle().
		Foreground(MutedColor).
		Width(12)

	// HelpKey highlights a key binding in the help bar
	HelpKey = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	// Swatch renders a small block of a workbench color
	Swatch = lipgloss.NewStyle().
		Padding(0, 1)
)

// StatusItem returns the style of the branch status item. Empty colors fall
// back to the terminal defaults.
func StatusItem(fg, bg string) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1)
	if fg != "" {
		s = s.Foreground(lipgloss.Color(fg))
	}
	if bg != "" {
		s = s.Background(lipgloss.Color(bg))
	}
	return s
}

// ColorSwatch renders value on a block of its own color.
func ColorSwatch(value string) string {
	if value == "" {
		return Muted.Render("-")
	}
	return Swatch.Background(lipgloss.Color(value)).Render("  ") + " " + value
}
