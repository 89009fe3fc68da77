package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("test content"), 0644))
	}
}

func names(snapshots []Snapshot) []string {
	out := make([]string, len(snapshots))
	for i, s := range snapshots {
		out[i] = s.Name
	}
	return out
}

func TestNewDiscovery(t *testing.T) {
	basePath := "/test/base"
	discovery := NewDiscovery(basePath)

	assert.NotNil(t, discovery)
	assert.Equal(t, basePath, discovery.basePath)
	assert.Equal(t, OrderByName, discovery.order)
}

func TestFindDisclosures(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		fund     string
		expected []string
	}{
		{
			name:     "sorted by name",
			files:    []string{"ZN250_2024_03.xlsx", "ZN250_2024_01.xlsx", "ZN250_2024_02.xlsx"},
			fund:     "ZN250",
			expected: []string{"ZN250_2024_01.xlsx", "ZN250_2024_02.xlsx", "ZN250_2024_03.xlsx"},
		},
		{
			name: "generated reports and lock files are skipped",
			files: []string{
				"ZN250_2024_01.xlsx",
				"Fund_Allocation_Changes_ZN250_5_Months.xlsx",
				"Fund_Allocation_Changes_ZN250_5_Months_Chart.xlsx",
				"~$ZN250_2024_02.xlsx",
			},
			fund:     "ZN250",
			expected: []string{"ZN250_2024_01.xlsx"},
		},
		{
			name:     "other funds and extensions are skipped",
			files:    []string{"ZN250_jan.xlsx", "ZN100_jan.xlsx", "ZN250_jan.xls", "ZN250_jan.csv", "ZN250_jan.XLSX"},
			fund:     "ZN250",
			expected: []string{"ZN250_jan.xlsx"},
		},
		{
			name:     "fund match is case-sensitive substring",
			files:    []string{"portfolio-zn250.xlsx", "Monthly ZN250 disclosure.xlsx"},
			fund:     "ZN250",
			expected: []string{"Monthly ZN250 disclosure.xlsx"},
		},
		{
			name:     "empty directory",
			files:    nil,
			fund:     "ZN250",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			touch(t, tmpDir, tt.files...)

			snapshots, err := NewDiscovery(tmpDir).FindDisclosures(tt.fund)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names(snapshots))

			for _, s := range snapshots {
				assert.Equal(t, filepath.Join(tmpDir, s.Name), s.Path)
				assert.Equal(t, int64(len("test content")), s.Size)
			}
		})
	}
}

func TestFindDisclosures_SkipsDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "ZN250_archive.xlsx"), 0755))
	touch(t, tmpDir, "ZN250_2024_01.xlsx")

	snapshots, err := NewDiscovery(tmpDir).FindDisclosures("ZN250")
	require.NoError(t, err)
	assert.Equal(t, []string{"ZN250_2024_01.xlsx"}, names(snapshots))
}

func TestFindDisclosures_OrderByDate(t *testing.T) {
	tmpDir := t.TempDir()
	touch(t, tmpDir,
		"ZN250 Mar 2024.xlsx",
		"ZN250 Jan 2024.xlsx",
		"ZN250 Feb 2024.xlsx",
		"ZN250 latest.xlsx",
	)

	byName, err := NewDiscovery(tmpDir).FindDisclosures("ZN250")
	require.NoError(t, err)
	assert.Equal(t, []string{"ZN250 Feb 2024.xlsx", "ZN250 Jan 2024.xlsx", "ZN250 Mar 2024.xlsx", "ZN250 latest.xlsx"}, names(byName))

	byDate, err := NewDiscovery(tmpDir).WithOrder(OrderByDate).FindDisclosures("ZN250")
	require.NoError(t, err)
	assert.Equal(t, []string{"ZN250 latest.xlsx", "ZN250 Jan 2024.xlsx", "ZN250 Feb 2024.xlsx", "ZN250 Mar 2024.xlsx"}, names(byDate))
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), byDate[1].Date)
}

func TestFindDisclosures_MissingDirectory(t *testing.T) {
	_, err := NewDiscovery(filepath.Join(t.TempDir(), "absent")).FindDisclosures("ZN250")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read directory")
}

func TestSnapshotDate(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{name: "dashes", input: "ZN250_2024-03-31.xlsx", expected: date(2024, time.March, 31)},
		{name: "underscores", input: "ZN250_2024_03_31.xlsx", expected: date(2024, time.March, 31)},
		{name: "spaces", input: "2024 03 31 ZN250.xlsx", expected: date(2024, time.March, 31)},
		{name: "compact", input: "ZN250_20240331.xlsx", expected: date(2024, time.March, 31)},
		{name: "short month name", input: "ZN250 Portfolio Mar 2024.xlsx", expected: date(2024, time.March, 1)},
		{name: "full month name", input: "ZN250-September-2023.xlsx", expected: date(2023, time.September, 1)},
		{name: "glued month name", input: "ZN250_DEC2023.xlsx", expected: date(2023, time.December, 1)},
		{name: "year month", input: "ZN250_2024_01.xlsx", expected: date(2024, time.January, 1)},
		{name: "month year", input: "ZN250_01-2024.xlsx", expected: date(2024, time.January, 1)},
		{name: "invalid day", input: "ZN250_2024-02-31.xlsx", expected: time.Time{}},
		{name: "invalid month", input: "ZN250_2024_13.xlsx", expected: time.Time{}},
		{name: "fund digits only", input: "ZN250.xlsx", expected: time.Time{}},
		{name: "no date", input: "ZN250 latest.xlsx", expected: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SnapshotDate(tt.input))
		})
	}
}

func TestOrderSnapshots(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	snapshots := []Snapshot{
		{Name: "b", Date: feb},
		{Name: "z-undated"},
		{Name: "c", Date: jan},
		{Name: "a", Date: feb},
		{Name: "m-undated"},
	}

	OrderSnapshots(snapshots, OrderByDate)
	assert.Equal(t, []string{"m-undated", "z-undated", "c", "a", "b"}, names(snapshots))

	OrderSnapshots(snapshots, OrderByName)
	assert.Equal(t, []string{"a", "b", "c", "m-undated", "z-undated"}, names(snapshots))
}

func TestParseOrder(t *testing.T) {
	order, err := ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderByName, order)

	order, err = ParseOrder("date")
	require.NoError(t, err)
	assert.Equal(t, OrderByDate, order)

	_, err = ParseOrder("mtime")
	assert.Error(t, err)
}
