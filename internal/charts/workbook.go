package charts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"fundalloc/internal/config"
	"fundalloc/internal/infrastructure"
)

// WorkbookRenderer writes the ranked data and a native Excel bar chart to
// an xlsx file.
type WorkbookRenderer struct {
	path   string
	logger *slog.Logger
}

// NewWorkbookRenderer creates a renderer that saves to path.
func NewWorkbookRenderer(path string, logger *slog.Logger) *WorkbookRenderer {
	return &WorkbookRenderer{
		path:   path,
		logger: infrastructure.WithComponent(logger, "workbook_renderer"),
	}
}

func (r *WorkbookRenderer) Name() string { return "workbook" }

// Path returns the chart workbook location.
func (r *WorkbookRenderer) Path() string { return r.path }

// Render writes the chart workbook, replacing any existing file. An empty
// chart produces the data sheet without a chart.
func (r *WorkbookRenderer) Render(ctx context.Context, data ChartData) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := config.ChartDataSheet
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	header := []any{data.YLabel, data.XLabel}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, bar := range data.Bars {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{bar.Label, bar.Value}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 48); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 28); err != nil {
		return err
	}

	if len(data.Bars) > 0 {
		if err := f.AddChart(sheet, "D2", barChart(sheet, data)); err != nil {
			return fmt.Errorf("failed to add chart: %w", err)
		}
	} else {
		r.logger.WarnContext(ctx, "No changes to chart, writing data sheet only")
	}

	if err := f.SaveAs(r.path); err != nil {
		return fmt.Errorf("failed to save chart workbook: %w", err)
	}

	r.logger.InfoContext(ctx, "Chart workbook saved",
		slog.String("file_path", r.path),
		slog.Int("bars", len(data.Bars)))
	return nil
}

// barChart builds a clustered horizontal bar chart over the data sheet. The
// category axis is reversed so the first row, rank 1, is drawn at the top.
func barChart(sheet string, data ChartData) *excelize.Chart {
	last := len(data.Bars) + 1
	ref := func(col string) string {
		return fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, col, col, last)
	}

	return &excelize.Chart{
		Type: excelize.Bar,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("'%s'!$B$1", sheet),
				Categories: ref("A"),
				Values:     ref("B"),
			},
		},
		Title: []excelize.RichTextRun{{Text: data.Title}},
		Legend: excelize.ChartLegend{
			Position: "none",
		},
		XAxis: excelize.ChartAxis{
			ReverseOrder: true,
			Title:        []excelize.RichTextRun{{Text: data.YLabel}},
		},
		YAxis: excelize.ChartAxis{
			MajorGridLines: true,
			Title:          []excelize.RichTextRun{{Text: data.XLabel}},
		},
		Dimension: excelize.ChartDimension{
			Width:  720,
			Height: 480,
		},
		PlotArea: excelize.ChartPlotArea{
			ShowVal: true,
		},
	}
}
