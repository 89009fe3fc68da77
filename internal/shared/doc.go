// Package shared holds helpers used across the fundalloc packages.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//	- BufferedSlogHandler and NewTestLogger for asserting on structured logs
//	- DisclosureFixture for writing portfolio workbooks into t.TempDir()
//
// Example usage:
//
//	func TestLoad(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.WriteDisclosure(t, t.TempDir(), "ZN250_2024_01.xlsx",
//	        testutil.Holding{Name: "X", ISIN: "INE1", Quantity: 100, MarketValue: 50, PercentToNAV: 1.0})
//	    ...
//	    testutil.AssertNoErrors(t, logs)
//	}
package shared
