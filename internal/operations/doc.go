// Package operations runs the analysis as a sequence of steps.
//
// A Step is one unit of work: parse the town list, load GDP and locate the
// recession, aggregate housing prices, run the t-test, and optionally
// export the reports. Steps declare the steps they depend on; the Registry
// orders them topologically and the Manager executes them one at a time on
// the calling goroutine, stopping at the first failure. Every run and step
// gets an OpenTelemetry span and step metrics.
//
// Steps exchange typed values through RunState.
//
// Example usage:
//
//	registry, err := operations.NewAnalysisRegistry(cfg, logger)
//	manager := operations.NewManager(registry, tel.Tracer, metrics, logger)
//	state, err := manager.Run(ctx, runID)
//	fmt.Println(state.Outcome.Result)
package operations
