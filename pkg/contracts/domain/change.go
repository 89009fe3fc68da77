package domain

import "time"

// Output column names of the change report.
const (
	ColumnISINCurrent           = "ISIN_Current"
	ColumnQuantityChange        = "Quantity Change"
	ColumnMarketValueChange     = "Market Value Change (Lakhs)"
	ColumnPercentageToNAVChange = "Percentage to NAV Change"
	ColumnChangeType            = "Change Type"
)

// ChangeColumns is the header of the change report.
var ChangeColumns = []string{
	ColumnInstrument,
	ColumnISINCurrent,
	ColumnQuantityChange,
	ColumnMarketValueChange,
	ColumnPercentageToNAVChange,
}

// ChangeKind classifies how an instrument moved between two snapshots.
type ChangeKind string

const (
	ChangeKindChanged ChangeKind = "changed"
	ChangeKindAdded   ChangeKind = "added"
	ChangeKindRemoved ChangeKind = "removed"
)

// SnapshotRef identifies the disclosure a change was computed from.
type SnapshotRef struct {
	Source string    `json:"source"`
	Date   time.Time `json:"date"`
}

// ChangeRecord is the movement of one instrument between a previous and a
// current disclosure.
type ChangeRecord struct {
	Instrument         string      `json:"instrument"`
	ISIN               string      `json:"isin_current"`
	QuantityChange     Amount      `json:"-"`
	MarketValueChange  Amount      `json:"-"`
	PercentToNAVChange Amount      `json:"-"`
	Kind               ChangeKind  `json:"kind"`
	Previous           SnapshotRef `json:"previous"`
	Current            SnapshotRef `json:"current"`
}

// ChangeSet is an ordered collection of change records.
type ChangeSet []ChangeRecord

// Concat joins change sets row-wise, keeping every record and its order.
func Concat(sets ...ChangeSet) ChangeSet {
	total := 0
	for _, s := range sets {
		total += len(s)
	}
	out := make(ChangeSet, 0, total)
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}
