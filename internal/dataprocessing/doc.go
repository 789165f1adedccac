// Package dataprocessing loads quarterly theme and stock price datasets from
// their JSONL sources and hands validated domain records to the analysis.
//
// # Architecture
//
// The package is organized into three main components:
//
// 1. Quarters: discovers quarter directories and resolves their input files
// 2. ThemeLoader: reads theme JSONL files into ThemeRecords
// 3. PriceLoader: reads stock price JSONL files into PriceHistories
//
// # Usage
//
// Discovering quarters:
//
//	quarters, err := dataprocessing.DiscoverQuarters("data")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Loading one quarter's inputs:
//
//	prices, err := priceLoader.LoadPriceFile(ctx, quarter.PriceFile())
//	files, err := quarter.ThemeFiles()
//	for _, file := range files {
//	    record, err := themeLoader.LoadThemeFile(ctx, file, quarter.Name)
//	    ...
//	}
//
// # Data Flow
//
// The typical data flow through this package:
//
//	Quarter Dir → ThemeFiles/PriceFile → Loaders → Domain Records → Analysis
//
// # Naming Conventions
//
// The extraction variant switch lives entirely in this package: a theme file
// whose name contains "overall" is read from the filtered_overall_output
// field, every other theme file from filtered_theme_output. Downstream code
// sees only the resolved ThemeKind tag. Theme names are derived from file
// names by stripping the quarter prefix and extension.
//
// # Error Handling
//
// Malformed lines never interrupt a load:
//
//   - Lines that fail JSON decoding, task-identifier parsing, or record
//     validation are skipped with a warning
//   - Lines whose sentiment scores do not pair up with their quotes are
//     skipped with a warning
//   - Lines without quotes for the file's variant are skipped silently
//
// Only file-level failures (open, scan) surface as errors, and deciding
// whether they fail the quarter stays with the caller.
package dataprocessing
