package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/linq-rag/linq-scoring-agent/internal/car"
)

// WriteSummaryReport creates a plain-text summary of one quarter's analysis.
func WriteSummaryReport(summary car.SummaryStatistics, outputPath string) error {
	if summary.Quarter == "" {
		return fmt.Errorf("no summary to save")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create summary directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "Theme Sentiment CAR Analysis - Summary Report\n")
	fmt.Fprintf(file, "=============================================\n\n")
	fmt.Fprintf(file, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(file, "DATASET OVERVIEW\n")
	fmt.Fprintf(file, "----------------\n")
	fmt.Fprintf(file, "Quarter: %s\n", summary.Quarter)
	fmt.Fprintf(file, "Window: %s\n", summary.Window)
	fmt.Fprintf(file, "Themes: %d total, %d qualifying, %d analyzed\n",
		summary.ThemesTotal, summary.ThemesQualifying, summary.ThemesAnalyzed)
	fmt.Fprintf(file, "Quartile Cutoff: %.1f quotes\n", summary.QuartileCutoff)
	fmt.Fprintf(file, "Quotes: %d used, %d skipped (no price coverage)\n",
		summary.QuotesUsed, summary.QuotesSkipped)
	fmt.Fprintf(file, "Correlation Rows: %d\n\n", summary.CorrelationRows)

	if summary.CorrelationRows == 0 {
		fmt.Fprintf(file, "No theme produced a correlation row this quarter.\n")
		return nil
	}

	fmt.Fprintf(file, "CORRELATION STATISTICS\n")
	fmt.Fprintf(file, "----------------------\n")
	fmt.Fprintf(file, "Mean: %.4f\n", summary.Coefficient.Mean)
	fmt.Fprintf(file, "Median: %.4f\n", summary.Coefficient.Median)
	fmt.Fprintf(file, "Std Dev: %.4f\n", summary.Coefficient.StdDev)
	fmt.Fprintf(file, "Min: %.4f (%s)\n", summary.Coefficient.Min, summary.Coefficient.MinTheme)
	fmt.Fprintf(file, "Max: %.4f (%s)\n", summary.Coefficient.Max, summary.Coefficient.MaxTheme)
	fmt.Fprintf(file, "Significant (p < %.2f): %d of %d\n\n",
		car.SignificanceLevel, summary.Significant, summary.CorrelationRows)

	fmt.Fprintf(file, "STRONGEST POSITIVE CORRELATIONS\n")
	fmt.Fprintf(file, "-------------------------------\n")
	for i, row := range summary.StrongestUp {
		fmt.Fprintf(file, "%2d. %s: r=%.4f (p=%.4f, n=%d)\n",
			i+1, row.Theme, row.Coefficient, row.PValue, row.SampleSize)
	}
	fmt.Fprintf(file, "\n")

	fmt.Fprintf(file, "STRONGEST NEGATIVE CORRELATIONS\n")
	fmt.Fprintf(file, "-------------------------------\n")
	for i, row := range reverseRows(summary.StrongestDown) {
		fmt.Fprintf(file, "%2d. %s: r=%.4f (p=%.4f, n=%d)\n",
			i+1, row.Theme, row.Coefficient, row.PValue, row.SampleSize)
	}

	return nil
}

// reverseRows orders rows from most negative to least without touching the
// input slice.
func reverseRows(rows []car.CorrelationResult) []car.CorrelationResult {
	reversed := make([]car.CorrelationResult, len(rows))
	for i, row := range rows {
		reversed[len(rows)-1-i] = row
	}
	return reversed
}
