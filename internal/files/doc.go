// Package files provides file system operations and discovery utilities
// for fund disclosure workbooks.
//
// This package contains two main components:
//
// Discovery: Finds the monthly disclosure workbooks of one fund in a
// directory. Generated change reports and Excel lock files are skipped, and
// the result is ordered oldest first either by file name or by the date
// embedded in the name.
//
// Manager: Resolves where generated reports are written and performs basic
// file operations relative to the output directory.
//
// Example usage:
//
//	discovery := files.NewDiscovery("/path/to/disclosures").WithOrder(files.OrderByDate)
//	snapshots, err := discovery.FindDisclosures("ZN250")
//
//	manager := files.NewManager(paths)
//	out, err := manager.OutputPath(ctx, "Fund_Allocation_Changes_ZN250_5_Months.xlsx")
package files
