// Package car implements cumulative abnormal return (CAR) event-study analytics
// for quarterly theme-sentiment datasets.
//
// The package turns per-stock abnormal-return observations and theme-level
// sentiment quotes into compounded CAR curves, sentiment cohorts, and
// theme-vs-reaction correlation statistics. CAR is always compounded,
// never summed: curve[i] = prod(1+r[j], j<=i) - 1.
//
// # Architecture
//
// One quarter is analyzed at a time; nothing is shared across quarters:
//
//   - types.go: core data structures and constants
//   - errors.go: analysis error taxonomy
//   - prices.go: per-quarter (ticker, date) price index
//   - series.go: gap-aware abnormal-return series construction
//   - compound.go: compounded CAR curve and CAR(0,1)
//   - percentile.go: quote-count percentile and top-quartile filter
//   - cohort.go: sentiment cohort partitioning and curve aggregation
//   - correlation.go: Pearson coefficient with two-sided p-value
//   - analyzer.go: per-quarter orchestrator
//   - persist.go: JSON snapshot and summary statistics
//
// # Usage
//
//	index := car.NewPriceIndex(histories)
//	analyzer := car.NewAnalyzer(car.Window60, logger)
//	analysis, err := analyzer.Analyze(ctx, "2021_4Q", themes, index)
package car
