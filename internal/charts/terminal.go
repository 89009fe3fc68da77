package charts

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultBarWidth   = 30
	defaultLabelWidth = 36
	barRune           = "█"
	axisRune          = "│"
)

// TerminalRenderer draws a signed horizontal bar chart as text. Bars for
// negative changes extend left of the zero axis.
type TerminalRenderer struct {
	w          io.Writer
	styles     *Styles
	barWidth   int
	labelWidth int
}

// NewTerminalRenderer creates a renderer writing to w.
func NewTerminalRenderer(w io.Writer) *TerminalRenderer {
	return &TerminalRenderer{
		w:          w,
		styles:     NewStyles(w, nil),
		barWidth:   defaultBarWidth,
		labelWidth: defaultLabelWidth,
	}
}

func (t *TerminalRenderer) Name() string { return "terminal" }

// Render writes the chart. Rank 1 is printed first.
func (t *TerminalRenderer) Render(_ context.Context, data ChartData) error {
	var b strings.Builder

	b.WriteString(t.styles.Title.Render(data.Title))
	b.WriteString("\n\n")

	if len(data.Bars) == 0 {
		b.WriteString(t.styles.Value.Render("(no changes to display)"))
		b.WriteString("\n")
		_, err := io.WriteString(t.w, b.String())
		return err
	}

	labelWidth := t.labelColumnWidth(data)
	negWidth := 0
	if data.HasNegative() {
		negWidth = t.barWidth
	}
	maxAbs := data.MaxAbs()

	b.WriteString(t.styles.Axis.Render(pad(data.YLabel, labelWidth)))
	b.WriteString("\n")

	for _, bar := range data.Bars {
		b.WriteString(t.styles.Label.Render(pad(truncate(bar.Label, labelWidth), labelWidth)))
		b.WriteString(" ")

		n := scale(bar.Value, maxAbs, t.barWidth)
		if negWidth > 0 {
			if bar.Value < 0 {
				b.WriteString(strings.Repeat(" ", negWidth-n))
				b.WriteString(t.styles.Loss.Render(strings.Repeat(barRune, n)))
			} else {
				b.WriteString(strings.Repeat(" ", negWidth))
			}
		}
		b.WriteString(t.styles.Axis.Render(axisRune))
		if bar.Value > 0 {
			b.WriteString(t.styles.Gain.Render(strings.Repeat(barRune, n)))
		}
		b.WriteString(" ")
		b.WriteString(t.styles.Value.Render(formatValue(bar)))
		b.WriteString("\n")
	}

	indent := labelWidth + 1 + negWidth
	b.WriteString(strings.Repeat(" ", indent))
	b.WriteString(t.styles.Axis.Render(data.XLabel))
	b.WriteString("\n")

	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *TerminalRenderer) labelColumnWidth(data ChartData) int {
	w := lipgloss.Width(data.YLabel)
	for _, bar := range data.Bars {
		if lw := lipgloss.Width(bar.Label); lw > w {
			w = lw
		}
	}
	if w > t.labelWidth {
		w = t.labelWidth
	}
	return w
}

// scale maps |v| onto [0, width]; any non-zero value gets at least one cell.
func scale(v, maxAbs float64, width int) int {
	if maxAbs == 0 || v == 0 {
		return 0
	}
	n := int(math.Round(math.Abs(v) / maxAbs * float64(width)))
	if n == 0 {
		n = 1
	}
	return n
}

func formatValue(bar Bar) string {
	if bar.Missing {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f", bar.Value)
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
