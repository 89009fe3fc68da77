// Package dataprocessing turns monthly portfolio disclosure workbooks into
// per-instrument allocation changes.
//
// # Components
//
//  1. Loader: reads a disclosure workbook, checks the required columns, drops
//     section and subtotal rows and coerces numeric cells
//  2. Classifier: decides which instrument rows are not holdings
//  3. Differ: joins two disclosures on instrument name and computes deltas
//  4. Ranking: orders changes by market value change for charting
//
// # Usage
//
//	loader := dataprocessing.NewLoader(dataprocessing.DefaultLoadOptions(), logger)
//	prev, err := loader.Load(ctx, "ZN250_2024_01.xlsx")
//	cur, err := loader.Load(ctx, "ZN250_2024_02.xlsx")
//
//	differ := dataprocessing.NewDiffer(dataprocessing.DiffOptions{Join: dataprocessing.JoinInner}, logger)
//	changes, err := differ.Compare(ctx, prev, cur)
//
//	top := dataprocessing.TopChanges(changes, 10)
//
// # Error Handling
//
// Loader errors are *errors.AppError values of type SCHEMA_MISMATCH when a
// required column is absent and LOAD_FAILURE otherwise. Differ errors are
// DIFF_FAILURE. Callers skip the affected snapshot pair and continue.
//
// Missing or non-numeric cells are carried as missing amounts, and any delta
// involving a missing operand is missing as well.
package dataprocessing
