package charts

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette of the terminal chart.
type Theme struct {
	// Title is the heading colour.
	Title lipgloss.Color

	// Gain colours bars right of the axis.
	Gain lipgloss.Color

	// Loss colours bars left of the axis.
	Loss lipgloss.Color

	// Muted is for axis and labels.
	Muted lipgloss.Color
}

// DefaultTheme returns the default chart colours.
func DefaultTheme() *Theme {
	return &Theme{
		Title: lipgloss.Color("#7C3AED"), // Purple
		Gain:  lipgloss.Color("#A6E3A1"), // Green
		Loss:  lipgloss.Color("#F38BA8"), // Red
		Muted: lipgloss.Color("#6C7086"), // Medium gray
	}
}

// Styles contains the lipgloss styles used to draw a chart.
type Styles struct {
	Title lipgloss.Style
	Label lipgloss.Style
	Axis  lipgloss.Style
	Gain  lipgloss.Style
	Loss  lipgloss.Style
	Value lipgloss.Style
}

// NewStyles creates styles bound to w, so colour is dropped when w is not a
// terminal.
func NewStyles(w io.Writer, theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	r := lipgloss.NewRenderer(w)

	return &Styles{
		Title: r.NewStyle().
			Bold(true).
			Foreground(theme.Title),

		Label: r.NewStyle(),

		Axis: r.NewStyle().
			Foreground(theme.Muted),

		Gain: r.NewStyle().
			Foreground(theme.Gain),

		Loss: r.NewStyle().
			Foreground(theme.Loss),

		Value: r.NewStyle().
			Foreground(theme.Muted),
	}
}
