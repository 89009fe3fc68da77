package files

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"fundalloc/internal/config"
)

// Snapshot is one candidate disclosure file for a fund.
type Snapshot struct {
	Path    string
	Name    string
	Date    time.Time // zero when the name carries no recognisable date
	Size    int64
	ModTime time.Time
}

// OrderBy selects how snapshots are sequenced before pairing.
type OrderBy string

const (
	// OrderByName sorts file names lexicographically.
	OrderByName OrderBy = "name"
	// OrderByDate sorts by the date embedded in the file name.
	OrderByDate OrderBy = "date"
)

// ParseOrder validates an ordering mode; empty means OrderByName.
func ParseOrder(s string) (OrderBy, error) {
	switch o := OrderBy(s); o {
	case OrderByName, OrderByDate:
		return o, nil
	case "":
		return OrderByName, nil
	}
	return "", fmt.Errorf("unknown snapshot order %q", s)
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
	order    OrderBy
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath, order: OrderByName}
}

// WithOrder sets the snapshot ordering
func (d *Discovery) WithOrder(order OrderBy) *Discovery {
	d.order = order
	return d
}

// FindDisclosures lists the fund's disclosure workbooks in the base directory,
// ordered oldest first. A file qualifies when its name contains fund
// (case-sensitive), ends in .xlsx and is neither a generated report nor an
// Excel lock file.
func (d *Discovery) FindDisclosures(fund string) ([]Snapshot, error) {
	entries, err := os.ReadDir(d.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.basePath, err)
	}

	var snapshots []Snapshot
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !IsDisclosureName(name, fund) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		snapshots = append(snapshots, Snapshot{
			Path:    filepath.Join(d.basePath, name),
			Name:    name,
			Date:    SnapshotDate(name),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	OrderSnapshots(snapshots, d.order)
	return snapshots, nil
}

// IsDisclosureName applies the file name filter used by FindDisclosures.
func IsDisclosureName(name, fund string) bool {
	return strings.Contains(name, fund) &&
		strings.HasSuffix(name, config.DisclosureExtension) &&
		!strings.Contains(name, config.OutputMarker) &&
		!strings.HasPrefix(name, config.LockFilePrefix)
}

// OrderSnapshots sorts snapshots in place. With OrderByDate, undated files come
// first by name, then dated files by date with the name as tiebreaker.
func OrderSnapshots(snapshots []Snapshot, order OrderBy) {
	if order != OrderByDate {
		sort.SliceStable(snapshots, func(i, j int) bool {
			return snapshots[i].Name < snapshots[j].Name
		})
		return
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		a, b := snapshots[i], snapshots[j]
		switch {
		case a.Date.IsZero() != b.Date.IsZero():
			return a.Date.IsZero()
		case !a.Date.Equal(b.Date):
			return a.Date.Before(b.Date)
		default:
			return a.Name < b.Name
		}
	})
}

var (
	fullDatePattern    = regexp.MustCompile(`(?:^|\D)(\d{4})[-_ ](\d{1,2})[-_ ](\d{1,2})(?:\D|$)`)
	compactDatePattern = regexp.MustCompile(`(?:^|\D)(\d{4})(\d{2})(\d{2})(?:\D|$)`)
	monthNamePattern   = regexp.MustCompile(`(?i)(?:^|[^a-z])(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*[-_ ]?(\d{4})(?:\D|$)`)
	yearMonthPattern   = regexp.MustCompile(`(?:^|\D)(\d{4})[-_ ](\d{1,2})(?:\D|$)`)
	monthYearPattern   = regexp.MustCompile(`(?:^|\D)(\d{1,2})[-_ ](\d{4})(?:\D|$)`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"sept": time.September, "oct": time.October, "nov": time.November,
	"dec": time.December,
}

// SnapshotDate extracts the reporting date embedded in a disclosure file
// name. Month-only names resolve to the first of the month. Returns the zero
// time when no valid date is found.
func SnapshotDate(name string) time.Time {
	base := strings.TrimSuffix(name, filepath.Ext(name))

	// a full date that fails validation is not retried as year-month
	if m := fullDatePattern.FindStringSubmatch(base); m != nil {
		t, _ := makeDate(m[1], m[2], m[3])
		return t
	}
	if m := compactDatePattern.FindStringSubmatch(base); m != nil {
		if t, ok := makeDate(m[1], m[2], m[3]); ok {
			return t
		}
	}
	if m := monthNamePattern.FindStringSubmatch(base); m != nil {
		if month, ok := monthsByPrefix[strings.ToLower(m[1])]; ok {
			if t, ok := makeDate(m[2], strconv.Itoa(int(month)), "1"); ok {
				return t
			}
		}
	}
	if m := yearMonthPattern.FindStringSubmatch(base); m != nil {
		if t, ok := makeDate(m[1], m[2], "1"); ok {
			return t
		}
	}
	if m := monthYearPattern.FindStringSubmatch(base); m != nil {
		if t, ok := makeDate(m[2], m[1], "1"); ok {
			return t
		}
	}
	return time.Time{}
}

func makeDate(year, month, day string) (time.Time, bool) {
	y, err1 := strconv.Atoi(year)
	m, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if y < 1900 || y > 2200 || m < 1 || m > 12 || d < 1 {
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalises 31 Feb into March; reject it instead
	if t.Month() != time.Month(m) {
		return time.Time{}, false
	}
	return t, true
}
