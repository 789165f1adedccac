package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// AnalysisConfig contains the numeric parameters of the per-quarter pass
type AnalysisConfig struct {
	// Window is the post-event observation window in trading days; the
	// series holds up to Window+1 points including the event day.
	Window int `yaml:"window" envconfig:"WINDOW" validate:"gt=0,lte=250"`

	// SentimentThreshold splits quotes into the positive and negative
	// cohorts; scores at the boundary count as positive.
	SentimentThreshold float64 `yaml:"sentiment_threshold" envconfig:"SENTIMENT_THRESHOLD" validate:"gte=-1,lte=1"`

	// TopQuartileOnly restricts aggregation and correlation to themes at
	// or above the quote-count percentile cutoff.
	TopQuartileOnly    bool    `yaml:"top_quartile_only" envconfig:"TOP_QUARTILE_ONLY"`
	QuartilePercentile float64 `yaml:"quartile_percentile" envconfig:"QUARTILE_PERCENTILE" validate:"gt=0,lt=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	EnableTracing bool `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`

	// MetricsFile is the prometheus textfile written at the end of a run;
	// empty disables the write while metrics are still collected in memory.
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load loads configuration from environment variables and the first config
// file found in the default search locations.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration using an explicit config file path. An empty
// path falls back to the default search locations; an explicit path that does
// not exist is an error. Precedence: environment variables over file values
// over defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process("LINQ", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML file values onto cfg. Fields absent from the
// file keep their current values, so an explicit false or 0 in the file is
// honored.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// validate caches struct metadata and is safe for concurrent use.
var validate = validator.New()

// Validate checks the configuration against the struct-tag constraints.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Window:             DefaultWindow,
			SentimentThreshold: DefaultSentimentThreshold,
			TopQuartileOnly:    true,
			QuartilePercentile: DefaultQuartilePercentile,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "both",
			FilePath: DefaultLogFile,
		},
		Paths: PathsConfig{
			DataDir:   DefaultDataDir,
			OutputDir: DefaultOutputDir,
			LogsDir:   DefaultLogsDir,
		},
		Telemetry: TelemetryConfig{
			EnableTracing: false,
			MetricsFile:   DefaultMetricsFile,
		},
	}
}
