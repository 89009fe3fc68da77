package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "fundalloc/internal/errors"
	"fundalloc/internal/infrastructure"
	"fundalloc/pkg/contracts/domain"
)

// LoadOptions controls how a disclosure workbook is read.
type LoadOptions struct {
	// SheetName selects the sheet; empty means the first sheet.
	SheetName string
	// HeaderRows is the number of banner rows above the column header.
	HeaderRows int
	// Exclude drops section and subtotal rows. Nil means DefaultExclusion.
	Exclude ExclusionPredicate
}

// DefaultLoadOptions matches the layout of the fund house's monthly export.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		HeaderRows: 3,
		Exclude:    DefaultExclusion,
	}
}

// LoadDisclosure reads one portfolio disclosure and returns its holdings.
// A file lacking any required column yields a SCHEMA_MISMATCH error; every
// other failure yields LOAD_FAILURE. No partial table is ever returned.
func LoadDisclosure(path string, opts LoadOptions) (*domain.DisclosureTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewLoadError(path, err)
	}
	defer f.Close()

	sheet := opts.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewLoadError(path, fmt.Errorf("workbook has no sheets"))
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewLoadError(path, err).WithContext("sheet", sheet)
	}

	if opts.HeaderRows < 0 {
		return nil, apperrors.NewLoadError(path, fmt.Errorf("negative header row count %d", opts.HeaderRows))
	}
	if len(rows) <= opts.HeaderRows {
		return nil, apperrors.NewLoadError(path,
			fmt.Errorf("header row %d is beyond the end of sheet %q (%d rows)", opts.HeaderRows+1, sheet, len(rows)))
	}

	columnMap := mapColumns(rows[opts.HeaderRows])
	var missing []string
	for _, col := range domain.RequiredColumns {
		if _, ok := columnMap[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewSchemaMismatchError(path, missing)
	}

	exclude := opts.Exclude
	if exclude == nil {
		exclude = DefaultExclusion
	}

	table := &domain.DisclosureTable{Source: path}
	for _, row := range rows[opts.HeaderRows+1:] {
		name := cellAt(row, columnMap[domain.ColumnInstrument])
		// Only empty cells count as missing; a blank-looking name is kept.
		if name == "" || exclude(name) {
			continue
		}

		table.Rows = append(table.Rows, domain.DisclosureRow{
			Instrument:   name,
			ISIN:         strings.TrimSpace(cellAt(row, columnMap[domain.ColumnISIN])),
			Quantity:     domain.ParseAmount(cellAt(row, columnMap[domain.ColumnQuantity])),
			MarketValue:  domain.ParseAmount(cellAt(row, columnMap[domain.ColumnMarketValue])),
			PercentToNAV: domain.ParseAmount(cellAt(row, columnMap[domain.ColumnPercentToNAV])),
		})
	}

	return table, nil
}

// mapColumns indexes header cells by name. Surrounding spaces and Windows line
// endings inside a header are ignored; the first occurrence of a name wins.
func mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int, len(header))
	for i, cell := range header {
		name := strings.TrimSpace(strings.ReplaceAll(cell, "\r\n", "\n"))
		if name == "" {
			continue
		}
		if _, seen := columnMap[name]; !seen {
			columnMap[name] = i
		}
	}
	return columnMap
}

// cellAt tolerates the short rows excelize returns when trailing cells are empty.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Loader wraps LoadDisclosure with logging and tracing.
type Loader struct {
	opts   LoadOptions
	logger *slog.Logger
	tracer trace.Tracer
}

// NewLoader creates a loader; a nil logger uses the global one.
func NewLoader(opts LoadOptions, logger *slog.Logger) *Loader {
	return &Loader{
		opts:   opts,
		logger: infrastructure.WithComponent(logger, "loader"),
		tracer: otel.Tracer(infrastructure.MeterName),
	}
}

// Load reads the disclosure at path.
func (l *Loader) Load(ctx context.Context, path string) (*domain.DisclosureTable, error) {
	ctx, span := l.tracer.Start(ctx, "load", trace.WithAttributes(attribute.String("file", path)))
	defer span.End()

	table, err := LoadDisclosure(path, l.opts)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	for _, dup := range table.Duplicates() {
		l.logger.WarnContext(ctx, "duplicate instrument name",
			slog.String("file", path),
			slog.String("instrument", dup.Instrument),
			slog.Int("count", dup.Count))
	}

	span.SetAttributes(attribute.Int("rows", table.Len()))
	l.logger.DebugContext(ctx, "disclosure loaded",
		slog.String("file", path),
		slog.Int("rows", table.Len()))

	return table, nil
}
