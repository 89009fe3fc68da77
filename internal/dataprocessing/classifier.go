package dataprocessing

import "strings"

// ExclusionPredicate reports whether an instrument row is a section header or
// subtotal line rather than a holding.
type ExclusionPredicate func(name string) bool

// DefaultExclusionMarkers are the substrings that mark non-holding rows in the
// fund house's export. The match is case-sensitive, so a real holding whose
// name contains one of them is dropped too.
var DefaultExclusionMarkers = []string{"EQUITY", "a)"}

// DefaultExclusion drops rows containing any of DefaultExclusionMarkers.
var DefaultExclusion = SubstringExclusion(DefaultExclusionMarkers...)

// SubstringExclusion builds a predicate matching names that contain any marker.
// Empty markers are ignored; with no markers nothing is excluded.
func SubstringExclusion(markers ...string) ExclusionPredicate {
	active := make([]string, 0, len(markers))
	for _, m := range markers {
		if m != "" {
			active = append(active, m)
		}
	}

	return func(name string) bool {
		for _, m := range active {
			if strings.Contains(name, m) {
				return true
			}
		}
		return false
	}
}

// NoExclusion keeps every row.
func NoExclusion(string) bool { return false }
