package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"fundalloc/internal/config"
	apperrors "fundalloc/internal/errors"
	"fundalloc/internal/infrastructure"
	"fundalloc/pkg/contracts/domain"
)

// ExcelOptions configures the change report workbook.
type ExcelOptions struct {
	// IncludeKind adds the Change Type column. Set it for outer joins.
	IncludeKind bool
}

// ExcelWriter writes change sets as xlsx workbooks
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates a new workbook writer
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	return &ExcelWriter{logger: infrastructure.WithComponent(logger, "excel_writer")}
}

// WriteChangeSet writes set to a single "Changes" sheet at path, replacing any
// existing file. The header row is bold and frozen.
func (w *ExcelWriter) WriteChangeSet(ctx context.Context, path string, set domain.ChangeSet, opts ExcelOptions) error {
	w.logger.InfoContext(ctx, "Writing change report",
		slog.String("file_path", path),
		slog.Int("record_count", len(set)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err).
			WithContext("file", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := w.fill(f, set, opts); err != nil {
		return apperrors.NewStorageError("failed to build change report", err).
			WithContext("file", path)
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError("failed to save change report", err).
			WithContext("file", path)
	}
	return nil
}

func (w *ExcelWriter) fill(f *excelize.File, set domain.ChangeSet, opts ExcelOptions) error {
	sheet := config.ChangesSheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	headers := changeHeaders(opts.IncludeKind)
	headerRow := make([]any, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range set {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := changeCells(r, opts.IncludeKind)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 48); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", lastCol, 20); err != nil {
		return err
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
