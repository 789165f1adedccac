package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for ALL file paths in the application:
// quarter inputs live under DataDir, every generated artifact under
// OutputDir, logs and the metrics textfile under LogsDir.
type Paths struct {
	DataDir   string
	OutputDir string
	LogsDir   string
}

// NewPaths resolves the configured directories to absolute paths. Relative
// entries are resolved against the current working directory, which is where
// batch runs are started from.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	dataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}

	outputDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output dir: %w", err)
	}

	logsDir, err := filepath.Abs(cfg.LogsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve logs dir: %w", err)
	}

	return &Paths{
		DataDir:   dataDir,
		OutputDir: outputDir,
		LogsDir:   logsDir,
	}, nil
}

// EnsureDirectories creates the output and logs directories if they don't
// exist. The data directory is an input and is never created here; a missing
// data directory surfaces as a discovery error at run time.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.OutputDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// QuarterOutputDir returns the per-quarter directory holding theme-level
// artifacts (curve CSVs and figures).
func (p *Paths) QuarterOutputDir(quarter string) string {
	return filepath.Join(p.OutputDir, quarter)
}

// GetCorrelationCSVPath returns the path for a quarter's correlation table
// (e.g. 2021_4Q_correlation.csv).
func (p *Paths) GetCorrelationCSVPath(quarter string) string {
	return filepath.Join(p.OutputDir, fmt.Sprintf("%s_correlation.csv", quarter))
}

// GetWorkbookPath returns the path for a quarter's Excel workbook
// (e.g. 2021_4Q_analysis.xlsx).
func (p *Paths) GetWorkbookPath(quarter string) string {
	return filepath.Join(p.OutputDir, fmt.Sprintf("%s_analysis.xlsx", quarter))
}

// GetSummaryPath returns the path for a quarter's text summary report.
func (p *Paths) GetSummaryPath(quarter string) string {
	return filepath.Join(p.OutputDir, fmt.Sprintf("%s_summary.txt", quarter))
}

// GetAnalysisJSONPath returns the path for a quarter's full analysis dump.
func (p *Paths) GetAnalysisJSONPath(quarter string) string {
	return filepath.Join(p.OutputDir, fmt.Sprintf("%s_analysis.json", quarter))
}

// GetCurveCSVPath returns the path for one theme's CAR curve CSV within a
// quarter.
func (p *Paths) GetCurveCSVPath(quarter, theme string) string {
	return filepath.Join(p.QuarterOutputDir(quarter), fmt.Sprintf("%s_car.csv", theme))
}

// GetFigurePath returns the path for one theme's CAR figure within a quarter.
func (p *Paths) GetFigurePath(quarter, theme string) string {
	return filepath.Join(p.QuarterOutputDir(quarter), fmt.Sprintf("%s.png", theme))
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("data", p.DataDir),
			slog.String("output", p.OutputDir),
			slog.String("logs", p.LogsDir),
		))
}
