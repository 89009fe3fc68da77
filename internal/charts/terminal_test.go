package charts

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderText(t *testing.T, r *TerminalRenderer, buf *bytes.Buffer, data ChartData) []string {
	t.Helper()
	require.NoError(t, r.Render(context.Background(), data))
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

// column returns the rune offset of sub in s, -1 when absent.
func column(s, sub string) int {
	i := strings.Index(s, sub)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(s[:i])
}

func TestTerminalRenderer_RankOrder(t *testing.T) {
	var buf bytes.Buffer
	data := BuildChartData(fifteenChanges(), 10)

	lines := renderText(t, NewTerminalRenderer(&buf), &buf, data)

	assert.Equal(t, "Top Fund Allocation Changes", lines[0])
	assert.Equal(t, "", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Instrument"))

	bars := lines[3:13]
	assert.True(t, strings.HasPrefix(bars[0], "Instrument 14"), "rank 1 at the top: %q", bars[0])
	assert.True(t, strings.HasPrefix(bars[9], "Instrument 05"))
	assert.Contains(t, bars[0], "+9.00")
	assert.Contains(t, bars[9], "+0.00")
	assert.Contains(t, lines[13], "Market Value Change (Lakhs)")
}

func TestTerminalRenderer_SignedBars(t *testing.T) {
	var buf bytes.Buffer
	data := ChartData{
		Title:  "Chart",
		XLabel: "x",
		YLabel: "y",
		Bars: []Bar{
			{Label: "up", Value: 10},
			{Label: "down", Value: -5},
			{Label: "gone", Missing: true},
		},
	}

	renderer := NewTerminalRenderer(&buf)
	renderer.barWidth = 10
	lines := renderText(t, renderer, &buf, data)
	require.Len(t, lines, 7)

	up, down, gone := lines[3], lines[4], lines[5]
	axis := column(up, axisRune)
	require.Greater(t, axis, 0)

	assert.Equal(t, axis, column(down, axisRune), "axis is aligned")
	assert.Equal(t, axis, column(gone, axisRune))

	assert.Equal(t, 10, strings.Count(up, barRune))
	assert.Equal(t, 5, strings.Count(down, barRune))
	assert.Equal(t, 0, strings.Count(gone, barRune))

	assert.Less(t, column(down, barRune), axis, "negative bar is left of the axis")
	assert.Greater(t, column(up, barRune), axis)

	assert.Contains(t, down, "-5.00")
	assert.Contains(t, gone, "n/a")
}

func TestTerminalRenderer_Empty(t *testing.T) {
	var buf bytes.Buffer

	lines := renderText(t, NewTerminalRenderer(&buf), &buf, BuildChartData(nil, 10))

	assert.Equal(t, "Top Fund Allocation Changes", lines[0])
	assert.Contains(t, buf.String(), "(no changes to display)")
}

func TestTruncateAndPad(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefghij", 5))
	assert.Equal(t, "ab   ", pad("ab", 5))
	assert.Equal(t, "abcdef", pad("abcdef", 3))
}

func TestScale(t *testing.T) {
	assert.Equal(t, 0, scale(0, 10, 30))
	assert.Equal(t, 0, scale(5, 0, 30))
	assert.Equal(t, 30, scale(-10, 10, 30))
	assert.Equal(t, 15, scale(5, 10, 30))
	assert.Equal(t, 1, scale(0.001, 10, 30), "tiny values stay visible")
}
