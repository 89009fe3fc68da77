package domain

import (
	"time"
)

// Column names found in the fund house's monthly portfolio export.
const (
	ColumnInstrument   = "Name of the Instrument"
	ColumnISIN         = "ISIN"
	ColumnQuantity     = "Quantity"
	ColumnMarketValue  = "Market value\n(Rs. in Lakhs)"
	ColumnPercentToNAV = "% to NAV"
)

// Normalised names for the two renamed columns.
const (
	ColumnMarketValueLakhs = "Market Value (Lakhs)"
	ColumnPercentageToNAV  = "Percentage to NAV"
)

// RequiredColumns lists the columns a disclosure must carry, in output order.
var RequiredColumns = []string{
	ColumnInstrument,
	ColumnISIN,
	ColumnQuantity,
	ColumnMarketValue,
	ColumnPercentToNAV,
}

// DisclosureRow is one holding line of a portfolio disclosure.
type DisclosureRow struct {
	Instrument   string `json:"instrument"`
	ISIN         string `json:"isin"`
	Quantity     Amount `json:"-"`
	MarketValue  Amount `json:"-"` // Rs. in lakhs
	PercentToNAV Amount `json:"-"`
}

// DisclosureTable is a normalised disclosure file. Instrument names are the
// join key and are expected, but not guaranteed, to be unique.
type DisclosureTable struct {
	Source string          `json:"source"`
	Date   time.Time       `json:"date"`
	Rows   []DisclosureRow `json:"rows"`
}

// Len returns the number of holdings.
func (t *DisclosureTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Duplicates returns instrument names that occur more than once, with their
// counts, in first-seen order.
func (t *DisclosureTable) Duplicates() []DuplicateName {
	if t == nil {
		return nil
	}
	counts := make(map[string]int, len(t.Rows))
	var order []string
	for _, r := range t.Rows {
		if counts[r.Instrument] == 0 {
			order = append(order, r.Instrument)
		}
		counts[r.Instrument]++
	}
	var dups []DuplicateName
	for _, name := range order {
		if counts[name] > 1 {
			dups = append(dups, DuplicateName{Instrument: name, Count: counts[name]})
		}
	}
	return dups
}

// DuplicateName is an instrument name repeated within one table.
type DuplicateName struct {
	Instrument string
	Count      int
}
