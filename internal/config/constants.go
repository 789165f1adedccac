package config

// Application constants - all hardcoded values for the scoring agent analytics
const (
	// Application Info
	AppName    = "linq-scoring-agent"
	AppVersion = "1.2.0"

	// Analysis defaults
	DefaultWindow             = 60
	DefaultSentimentThreshold = 0.0
	DefaultQuartilePercentile = 0.75

	// File Paths (relative to the working directory)
	DefaultDataDir     = "data"
	DefaultOutputDir   = "output"
	DefaultLogsDir     = "logs"
	DefaultLogFile     = "logs/analysis.log"
	DefaultMetricsFile = "logs/metrics.prom"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogOutput = "both"
)
