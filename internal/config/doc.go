// Package config provides centralized configuration management for the
// scoring agent analytics tools. It handles loading configuration from
// multiple sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern LINQ_* for namespacing:
//
//	LINQ_ANALYSIS_WINDOW=60
//	LINQ_ANALYSIS_SENTIMENT_THRESHOLD=0
//	LINQ_ANALYSIS_TOP_QUARTILE_ONLY=true
//	LINQ_LOGGING_LEVEL=info
//	LINQ_PATHS_DATA_DIR=data
//	LINQ_PATHS_OUTPUT_DIR=output
//
// # Configuration File
//
// A config.yaml in the working directory (or configs/config.yaml) is
// overlaid onto the defaults before environment processing:
//
//	analysis:
//	  window: 60
//	  sentiment_threshold: 0
//	  top_quartile_only: true
//	  quartile_percentile: 0.75
//	paths:
//	  data_dir: data
//	  output_dir: output
//
// # Path Management
//
// The package provides centralized path management through the Paths type.
// Every output location is derived from it, so file naming conventions
// (quarter correlation tables, per-theme figures, workbooks) live in exactly
// one place:
//
//	paths, err := config.NewPaths(cfg.Paths)
//	csvPath := paths.GetCorrelationCSVPath("2021_4Q")
//	figPath := paths.GetFigurePath("2021_4Q", "ai_adoption")
//
// # Validation
//
// All configuration is validated at load time with struct tags
// (go-playground/validator): the observation window must be a positive number
// of trading days, the quartile percentile must lie strictly inside (0, 1),
// and the logging level must be one of the known names.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
