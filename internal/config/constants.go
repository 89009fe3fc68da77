package config

// Application constants
const (
	// Application Info
	AppName    = "fundalloc"
	AppVersion = "1.0.0"

	// Disclosure files
	DisclosureExtension = ".xlsx"
	LockFilePrefix      = "~$"

	// Every generated file carries this marker so it is never read back as input.
	OutputMarker = "Fund_Allocation_Changes"

	// Generated file suffixes
	OutputSuffix      = "_Months.xlsx"
	ChartSuffix       = "_Months_Chart.xlsx"
	CSVOutputSuffix   = "_Months.csv"
	ChangesSheetName  = "Changes"
	ChartDataSheet    = "Top Changes"
	DefaultHeaderRows = 3
	DefaultTopN       = 10

	// Chart labels
	ChartTitle  = "Top Fund Allocation Changes"
	ChartXLabel = "Market Value Change (Lakhs)"
	ChartYLabel = "Instrument"

	// Console messages
	PromptFund         = "Enter fund name (e.g., ZN250): "
	PromptMonths       = "Enter date range in months (e.g., 5 for last 5 months): "
	MsgComparing       = "Comparing %s with %s..."
	MsgNotEnoughData   = "Not enough data files for comparison."
	MsgSaved           = "Changes successfully calculated and saved to %s."
	MsgUnexpectedError = "An unexpected error occurred: %v"
	MsgMissingColumns  = "Missing expected columns in %s: %v"
	MsgLoadError       = "Error loading and cleaning data from %s: %v"
	MsgCompareError    = "Error calculating changes between %s and %s: %v"
	MsgVisualizeError  = "Error visualizing changes: %v"
)
