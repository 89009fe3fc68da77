// Package charts draws the top fund allocation changes as a horizontal bar
// chart.
//
// BuildChartData ranks a change set by market value change and keeps the
// largest movements, rank 1 first. Renderers then draw it:
//
//   - TerminalRenderer prints signed bars with lipgloss styles, negative
//     changes extending left of the zero axis.
//   - WorkbookRenderer saves the ranked data with a native Excel bar chart
//     whose category axis is reversed so rank 1 sits at the top.
//
// Visualize runs every renderer and folds failures, panics included, into a
// single RenderFailure error. Rendering happens after the change report is
// saved, so a failure here never loses data.
package charts
