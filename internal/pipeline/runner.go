// Package pipeline orchestrates batch runs over quarterly datasets: quarter
// discovery, sequential per-quarter stages (load prices, load themes,
// analyze, export) and error containment. A failing quarter is logged and
// skipped; the run keeps going with the next quarter.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/linq-rag/linq-scoring-agent/internal/car"
	"github.com/linq-rag/linq-scoring-agent/internal/config"
	"github.com/linq-rag/linq-scoring-agent/internal/dataprocessing"
	"github.com/linq-rag/linq-scoring-agent/internal/exporter"
	"github.com/linq-rag/linq-scoring-agent/internal/infrastructure"
	"github.com/linq-rag/linq-scoring-agent/pkg/contracts/domain"
)

// Artifacts selects which outputs a run writes per quarter.
type Artifacts struct {
	Curves           bool
	Figures          bool
	Workbook         bool
	Summary          bool
	JSONDump         bool
	CorrelationTable bool
}

// CARArtifacts selects the CAR report outputs: per-theme curve CSVs and
// figures plus the quarter workbook, text summary and JSON dump.
func CARArtifacts() Artifacts {
	return Artifacts{
		Curves:   true,
		Figures:  true,
		Workbook: true,
		Summary:  true,
		JSONDump: true,
	}
}

// CorrelationArtifacts selects only the per-quarter correlation table.
func CorrelationArtifacts() Artifacts {
	return Artifacts{CorrelationTable: true}
}

// Runner owns one batch run. Runners hold no per-quarter state; every
// quarter is loaded, analyzed, exported and discarded before the next one
// starts.
type Runner struct {
	paths       *config.Paths
	artifacts   Artifacts
	analyzer    *car.Analyzer
	prices      *dataprocessing.PriceLoader
	themes      *dataprocessing.ThemeLoader
	correlation *exporter.CorrelationExporter
	curves      *exporter.CurveExporter
	logger      *slog.Logger
	tracer      trace.Tracer
	metrics     *infrastructure.AnalysisMetrics
}

// NewRunner builds a runner from the analysis configuration. The analyzer is
// configured once here and reused across quarters.
func NewRunner(cfg *config.Config, paths *config.Paths, artifacts Artifacts, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	analyzer := car.NewAnalyzer(car.Window(cfg.Analysis.Window), logger)
	analyzer.SetSentimentThreshold(cfg.Analysis.SentimentThreshold)
	if err := analyzer.SetQuartileFilter(cfg.Analysis.TopQuartileOnly, cfg.Analysis.QuartilePercentile); err != nil {
		return nil, fmt.Errorf("configure quartile filter: %w", err)
	}

	return &Runner{
		paths:       paths,
		artifacts:   artifacts,
		analyzer:    analyzer,
		prices:      dataprocessing.NewPriceLoader(logger),
		themes:      dataprocessing.NewThemeLoader(logger),
		correlation: exporter.NewCorrelationExporter(paths),
		curves:      exporter.NewCurveExporter(paths),
		logger:      logger,
		tracer:      noop.NewTracerProvider().Tracer("pipeline"),
	}, nil
}

// SetTelemetry attaches a tracer and run metrics. Without it the runner
// traces into a no-op tracer and records no metrics.
func (r *Runner) SetTelemetry(tracer trace.Tracer, metrics *infrastructure.AnalysisMetrics) {
	if tracer != nil {
		r.tracer = tracer
	}
	r.metrics = metrics
}

// RunResult summarizes one batch run.
type RunResult struct {
	QuartersProcessed int
	QuartersFailed    int
	Quarters          []QuarterResult
}

// QuarterResult summarizes one quarter's pass. Err is non-nil when the
// quarter failed and wrote no complete artifact set.
type QuarterResult struct {
	Quarter         string
	ThemesAnalyzed  int
	CorrelationRows int
	FilesWritten    int
	Duration        time.Duration
	Err             error
}

// Run processes every quarter under the data directory in sorted order.
// Individual quarter failures are contained; the run itself errors only when
// no quarter directories exist or the context is cancelled.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	ctx, span := r.tracer.Start(ctx, "pipeline.run")
	defer span.End()

	quarters, err := dataprocessing.DiscoverQuarters(r.paths.DataDir)
	if err != nil {
		return nil, fmt.Errorf("discover quarters: %w", err)
	}

	r.logger.InfoContext(ctx, "starting batch run",
		"data_dir", r.paths.DataDir,
		"quarters", len(quarters),
	)

	result := &RunResult{}
	for _, quarter := range quarters {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("run cancelled: %w", err)
		}

		qr := r.processQuarter(ctx, quarter)
		infrastructure.RecordQuarterMetrics(ctx, r.metrics, quarter.Name, qr.Duration, qr.Err)
		result.Quarters = append(result.Quarters, qr)

		if qr.Err != nil {
			result.QuartersFailed++
			r.logger.ErrorContext(ctx, "quarter failed",
				"quarter", quarter.Name,
				"error", qr.Err,
			)
			continue
		}

		result.QuartersProcessed++
		r.logger.InfoContext(ctx, "quarter completed",
			"quarter", quarter.Name,
			"themes", qr.ThemesAnalyzed,
			"correlation_rows", qr.CorrelationRows,
			"files_written", qr.FilesWritten,
			"duration", qr.Duration,
		)
	}

	r.logger.InfoContext(ctx, "batch run finished",
		"processed", result.QuartersProcessed,
		"failed", result.QuartersFailed,
	)

	return result, nil
}

// processQuarter runs the four stages for one quarter. Quarter state lives
// entirely in this frame.
func (r *Runner) processQuarter(ctx context.Context, quarter dataprocessing.Quarter) QuarterResult {
	start := time.Now()
	result := QuarterResult{Quarter: quarter.Name}

	ctx, span := r.tracer.Start(ctx, "pipeline.quarter")
	defer span.End()
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"quarter": quarter.Name,
		"dir":     quarter.Dir,
	})

	var index *car.PriceIndex
	err := r.stage(ctx, quarter.Name, "load_prices", func(ctx context.Context) error {
		priceFile := quarter.PriceFile()
		if !config.FileExists(priceFile) {
			return car.NewNoInputError(quarter.Name, fmt.Sprintf("price file %s not found", priceFile))
		}

		histories, err := r.prices.LoadPriceFile(ctx, priceFile)
		if err != nil {
			return fmt.Errorf("load price file: %w", err)
		}
		index = car.NewPriceIndex(histories)
		return nil
	})
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	var themes []domain.ThemeRecord
	err = r.stage(ctx, quarter.Name, "load_themes", func(ctx context.Context) error {
		files, err := quarter.ThemeFiles()
		if err != nil {
			return fmt.Errorf("list theme files: %w", err)
		}

		for _, file := range files {
			record, err := r.themes.LoadThemeFile(ctx, file, quarter.Name)
			if err != nil {
				r.logger.WarnContext(ctx, "skipping theme file",
					"quarter", quarter.Name,
					"theme", file.Theme,
					"error", err,
				)
				continue
			}
			if record.QuoteCount() == 0 {
				r.logger.WarnContext(ctx, "skipping theme without quotes",
					"quarter", quarter.Name,
					"theme", file.Theme,
				)
				continue
			}
			themes = append(themes, record)
		}
		return nil
	})
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	var analysis *car.QuarterAnalysis
	err = r.stage(ctx, quarter.Name, "analyze", func(ctx context.Context) error {
		var err error
		analysis, err = r.analyzer.Analyze(ctx, quarter.Name, themes, index)
		return err
	})
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	r.recordAnalysisCounters(ctx, analysis)

	err = r.stage(ctx, quarter.Name, "export", func(ctx context.Context) error {
		written, err := r.export(ctx, analysis)
		result.FilesWritten = written
		return err
	})
	if err != nil {
		result.Err = err
	}

	result.ThemesAnalyzed = len(analysis.Themes)
	result.CorrelationRows = len(analysis.Correlations)
	result.Duration = time.Since(start)
	return result
}

// stage runs one named stage inside its own span and records its duration.
func (r *Runner) stage(ctx context.Context, quarter, name string, fn func(context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, "pipeline.stage."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	infrastructure.RecordStageMetrics(ctx, r.metrics, quarter, name, time.Since(start), err == nil)

	if err != nil {
		infrastructure.RecordError(ctx, err)
	}
	return err
}

// export writes the selected artifacts for one analyzed quarter and returns
// the number of files written. Theme-level artifacts are contained per theme;
// quarter-level artifacts fail the quarter.
func (r *Runner) export(ctx context.Context, analysis *car.QuarterAnalysis) (int, error) {
	written := 0

	if r.artifacts.CorrelationTable {
		path := r.paths.GetCorrelationCSVPath(analysis.Quarter)
		if err := r.correlation.ExportCorrelationTable(analysis, path); err != nil {
			return written, err
		}
		if len(analysis.Correlations) > 0 {
			written++
		} else {
			r.logger.WarnContext(ctx, "no correlation rows to export",
				"quarter", analysis.Quarter,
			)
		}
	}

	if r.artifacts.Curves || r.artifacts.Figures {
		for _, theme := range analysis.Themes {
			if r.artifacts.Curves {
				path := r.paths.GetCurveCSVPath(analysis.Quarter, theme.Theme)
				if err := r.curves.ExportCurveCSV(theme, path); err != nil {
					r.logger.WarnContext(ctx, "curve export failed",
						"quarter", analysis.Quarter,
						"theme", theme.Theme,
						"error", err,
					)
				} else {
					written++
				}
			}

			if r.artifacts.Figures {
				path := r.paths.GetFigurePath(analysis.Quarter, theme.Theme)
				if err := exporter.WriteFigure(theme, analysis.Window, path); err != nil {
					r.logger.WarnContext(ctx, "figure export failed",
						"quarter", analysis.Quarter,
						"theme", theme.Theme,
						"error", err,
					)
				} else {
					written++
				}
			}
		}
	}

	if r.artifacts.Workbook {
		if err := exporter.WriteWorkbook(analysis, r.paths.GetWorkbookPath(analysis.Quarter)); err != nil {
			return written, err
		}
		written++
	}

	if r.artifacts.Summary {
		summary := car.CalculateSummaryStatistics(analysis)
		if err := exporter.WriteSummaryReport(summary, r.paths.GetSummaryPath(analysis.Quarter)); err != nil {
			return written, err
		}
		written++
	}

	if r.artifacts.JSONDump {
		if err := car.SaveToJSON(analysis, r.paths.GetAnalysisJSONPath(analysis.Quarter)); err != nil {
			return written, err
		}
		written++
	}

	if r.metrics != nil && written > 0 {
		r.metrics.FilesWritten.Add(ctx, int64(written),
			metric.WithAttributes(attribute.String("quarter", analysis.Quarter)))
	}

	return written, nil
}

// recordAnalysisCounters feeds the quarter's aggregate counts into the run
// metrics.
func (r *Runner) recordAnalysisCounters(ctx context.Context, analysis *car.QuarterAnalysis) {
	if r.metrics == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("quarter", analysis.Quarter))

	excluded := analysis.ThemesTotal - len(analysis.Themes)
	quotesUsed := 0
	quotesSkipped := 0
	for _, theme := range analysis.Themes {
		quotesUsed += theme.QuoteCount - theme.QuotesSkipped
		quotesSkipped += theme.QuotesSkipped
	}

	r.metrics.ThemesProcessed.Add(ctx, int64(len(analysis.Themes)), attrs)
	if excluded > 0 {
		r.metrics.ThemesExcluded.Add(ctx, int64(excluded), attrs)
	}
	r.metrics.QuotesProcessed.Add(ctx, int64(quotesUsed), attrs)
	if quotesSkipped > 0 {
		r.metrics.QuotesSkipped.Add(ctx, int64(quotesSkipped), attrs)
	}
	r.metrics.CorrelationRows.Add(ctx, int64(len(analysis.Correlations)), attrs)
}
