// Package services implements the run orchestration of fundalloc.
//
// AllocationService ties the other packages together for one run:
//
//	1. Validate the Request (fund name and month window)
//	2. Discover the fund's disclosure workbooks and order them
//	3. Load and compare each consecutive pair inside the window
//	4. Write the combined change report, optionally mirrored as CSV
//	5. Chart the largest market value changes
//
// A pair that fails to load or compare is reported on the console, logged
// and skipped. Only an invalid request, fewer than two disclosures or a
// report that cannot be written end the run with an error.
//
// # Usage
//
//	svc, err := services.NewAllocationService(cfg, nil, os.Stdout, logger, providers)
//	if err != nil {
//	    return err
//	}
//	result, err := svc.Run(ctx, services.Request{Fund: "ZN250", Months: 5})
//	if services.IsInsufficientData(err) {
//	    fmt.Println(config.MsgNotEnoughData)
//	}
//
// Every phase runs in its own OpenTelemetry span and the run's trace id is
// attached to every log record written through the service's logger.
package services
