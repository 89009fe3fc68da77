package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"fundalloc/pkg/contracts/domain"
)

// Holding is one line of a fixture disclosure. Numeric fields accept any
// value excelize can write, so tests can inject text such as "N/A".
type Holding struct {
	Name         string
	ISIN         string
	Quantity     any
	MarketValue  any
	PercentToNAV any
}

// DisclosureFixture describes a workbook laid out like a monthly portfolio export.
type DisclosureFixture struct {
	Sheet   string
	Banner  []string // rows above the header
	Columns []string
	Rows    []Holding
}

// NewDisclosureFixture returns a fixture with three banner rows and the full header.
func NewDisclosureFixture(rows ...Holding) *DisclosureFixture {
	return &DisclosureFixture{
		Sheet: "Sheet1",
		Banner: []string{
			"ZN250 Mutual Fund",
			"Monthly Portfolio Statement",
			"Portfolio as on month end",
		},
		Columns: append([]string(nil), domain.RequiredColumns...),
		Rows:    rows,
	}
}

// WithoutColumn drops a header column and the matching cells.
func (f *DisclosureFixture) WithoutColumn(column string) *DisclosureFixture {
	cols := make([]string, 0, len(f.Columns))
	for _, c := range f.Columns {
		if c != column {
			cols = append(cols, c)
		}
	}
	f.Columns = cols
	return f
}

// Write saves the fixture as dir/name and returns the full path.
func (f *DisclosureFixture) Write(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	file := excelize.NewFile()
	defer file.Close()

	sheet := f.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := file.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
	}

	row := 1
	for _, line := range f.Banner {
		setRow(t, file, sheet, row, []any{line})
		row++
	}

	header := make([]any, len(f.Columns))
	for i, c := range f.Columns {
		header[i] = c
	}
	setRow(t, file, sheet, row, header)
	row++

	for _, h := range f.Rows {
		values := make([]any, 0, len(f.Columns))
		for _, c := range f.Columns {
			values = append(values, h.cell(c))
		}
		setRow(t, file, sheet, row, values)
		row++
	}

	if err := file.SaveAs(path); err != nil {
		t.Fatalf("save fixture %s: %v", path, err)
	}
	return path
}

func (h Holding) cell(column string) any {
	switch column {
	case domain.ColumnInstrument:
		return h.Name
	case domain.ColumnISIN:
		return h.ISIN
	case domain.ColumnQuantity:
		return h.Quantity
	case domain.ColumnMarketValue:
		return h.MarketValue
	case domain.ColumnPercentToNAV:
		return h.PercentToNAV
	}
	return nil
}

func setRow(t *testing.T, f *excelize.File, sheet string, row int, values []any) {
	t.Helper()
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		t.Fatalf("cell name: %v", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		t.Fatalf("write row %d: %v", row, err)
	}
}

// WriteDisclosure writes a standard fixture and returns its path.
func WriteDisclosure(t *testing.T, dir, name string, rows ...Holding) string {
	t.Helper()
	return NewDisclosureFixture(rows...).Write(t, dir, name)
}

// SampleHoldings returns n distinct holdings whose values scale with the index.
func SampleHoldings(n int, scale float64) []Holding {
	rows := make([]Holding, n)
	for i := range rows {
		base := float64(i + 1)
		rows[i] = Holding{
			Name:         fmt.Sprintf("Instrument %02d Ltd", i+1),
			ISIN:         fmt.Sprintf("INE%06dA01", i+1),
			Quantity:     base * 1000 * scale,
			MarketValue:  base * 100 * scale,
			PercentToNAV: base * 0.5 * scale,
		}
	}
	return rows
}
