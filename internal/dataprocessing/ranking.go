package dataprocessing

import (
	"sort"

	"fundalloc/pkg/contracts/domain"
)

// TopChanges returns the n records with the largest market value change,
// largest first. Records without a market value change rank last and ties keep
// their original order. The input is not modified.
func TopChanges(set domain.ChangeSet, n int) domain.ChangeSet {
	if n <= 0 || len(set) == 0 {
		return domain.ChangeSet{}
	}

	ranked := make(domain.ChangeSet, len(set))
	copy(ranked, set)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].MarketValueChange, ranked[j].MarketValueChange
		switch {
		case !a.Valid():
			return false
		case !b.Valid():
			return true
		default:
			return a.Decimal().GreaterThan(b.Decimal())
		}
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}
