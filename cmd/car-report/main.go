package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/linq-rag/linq-scoring-agent/internal/config"
	"github.com/linq-rag/linq-scoring-agent/internal/infrastructure"
	"github.com/linq-rag/linq-scoring-agent/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (defaults to config.yaml if present)")
	dataDir := flag.String("data", "", "data directory holding quarter folders (overrides config)")
	outputDir := flag.String("out", "", "output directory for generated artifacts (overrides config)")
	window := flag.Int("window", 0, "observation window in trading days (overrides config)")
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
	}
	if *outputDir != "" {
		cfg.Paths.OutputDir = *outputDir
	}
	if *window > 0 {
		cfg.Analysis.Window = *window
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		logger.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("Failed to create directories", "error", err)
		os.Exit(1)
	}
	paths.LogPathResolution()

	ctx := infrastructure.ContextWithRunID(context.Background())

	otelCfg := infrastructure.DefaultOTelConfig()
	otelCfg.EnableTracing = cfg.Telemetry.EnableTracing
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer providers.Shutdown(context.Background())

	metrics, err := infrastructure.CreateAnalysisMetrics(providers.Meter)
	if err != nil {
		logger.Error("Failed to create metrics", "error", err)
		os.Exit(1)
	}

	runner, err := pipeline.NewRunner(cfg, paths, pipeline.CARArtifacts(), logger)
	if err != nil {
		logger.Error("Failed to configure runner", "error", err)
		os.Exit(1)
	}
	runner.SetTelemetry(providers.Tracer, metrics)

	logger.InfoContext(ctx, "Starting CAR report run",
		"data_dir", paths.DataDir,
		"output_dir", paths.OutputDir,
		"window", cfg.Analysis.Window,
	)

	result, err := runner.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "CAR report run failed", "error", err)
		os.Exit(1)
	}

	if cfg.Telemetry.MetricsFile != "" {
		if err := providers.WriteMetricsTextfile(cfg.Telemetry.MetricsFile); err != nil {
			logger.WarnContext(ctx, "Failed to write metrics textfile",
				"path", cfg.Telemetry.MetricsFile,
				"error", err,
			)
		}
	}

	logger.InfoContext(ctx, "CAR report run finished",
		"processed", result.QuartersProcessed,
		"failed", result.QuartersFailed,
	)

	printRunSummary(result)
}

func printRunSummary(result *pipeline.RunResult) {
	if len(result.Quarters) == 0 {
		return
	}

	fmt.Println("\n=== QUARTERLY CAR ANALYSIS SUMMARY ===")
	fmt.Println("Quarter  | Status | Themes | Corr Rows | Files | Duration")
	fmt.Println("---------|--------|--------|-----------|-------|----------")

	for _, q := range result.Quarters {
		status := "ok"
		if q.Err != nil {
			status = "FAILED"
		}
		fmt.Printf("%-8s | %-6s | %6d | %9d | %5d | %8s\n",
			q.Quarter, status, q.ThemesAnalyzed, q.CorrelationRows, q.FilesWritten,
			q.Duration.Round(time.Millisecond))
	}

	fmt.Printf("\nProcessed %d of %d quarters", result.QuartersProcessed, len(result.Quarters))
	if result.QuartersFailed > 0 {
		fmt.Printf(" (%d failed, see logs)", result.QuartersFailed)
	}
	fmt.Println()
}
