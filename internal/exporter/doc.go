// Package exporter writes fund allocation change reports.
//
// ExcelWriter produces the primary output: a single "Changes" sheet with one
// row per change record, a bold frozen header and empty cells where a delta
// could not be computed. CSVWriter optionally mirrors the same columns as a
// UTF-8 CSV file with a BOM so Excel opens it correctly.
//
// Example usage:
//
//	path, _ := manager.OutputPath(ctx, exporter.OutputFileName("ZN250", "5"))
//	err := exporter.NewExcelWriter(logger).WriteChangeSet(ctx, path, changes, exporter.ExcelOptions{})
package exporter
