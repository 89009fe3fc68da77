package exporter

import (
	"fmt"

	"fundalloc/internal/config"
	"fundalloc/pkg/contracts/domain"
)

// OutputFileName is the change report name for a fund and month window.
func OutputFileName(fund, window string) string {
	return fileName(fund, window, config.OutputSuffix)
}

// ChartFileName is the chart workbook name for a fund and month window.
func ChartFileName(fund, window string) string {
	return fileName(fund, window, config.ChartSuffix)
}

// CSVFileName is the CSV mirror name for a fund and month window.
func CSVFileName(fund, window string) string {
	return fileName(fund, window, config.CSVOutputSuffix)
}

func fileName(fund, window, suffix string) string {
	return fmt.Sprintf("%s_%s_%s%s", config.OutputMarker, fund, window, suffix)
}

// changeHeaders returns the report header, with the change type column when
// added and removed records may be present.
func changeHeaders(includeKind bool) []string {
	headers := append([]string(nil), domain.ChangeColumns...)
	if includeKind {
		headers = append(headers, domain.ColumnChangeType)
	}
	return headers
}

// changeCells renders a record as spreadsheet cell values. Missing amounts
// are nil so the cell stays empty.
func changeCells(r domain.ChangeRecord, includeKind bool) []any {
	cells := []any{
		r.Instrument,
		r.ISIN,
		amountCell(r.QuantityChange),
		amountCell(r.MarketValueChange),
		amountCell(r.PercentToNAVChange),
	}
	if includeKind {
		cells = append(cells, string(r.Kind))
	}
	return cells
}

// changeStrings renders a record for CSV output.
func changeStrings(r domain.ChangeRecord, includeKind bool) []string {
	fields := []string{
		r.Instrument,
		r.ISIN,
		r.QuantityChange.String(),
		r.MarketValueChange.String(),
		r.PercentToNAVChange.String(),
	}
	if includeKind {
		fields = append(fields, string(r.Kind))
	}
	return fields
}

func amountCell(a domain.Amount) any {
	f, ok := a.Float64()
	if !ok {
		return nil
	}
	return f
}
