package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linq-rag/linq-scoring-agent/internal/car"
)

func TestWriteSummaryReport(t *testing.T) {
	paths := testPaths(t)
	analysis := sampleAnalysis()
	summary := car.CalculateSummaryStatistics(analysis)

	outputPath := paths.GetSummaryPath(analysis.Quarter)
	require.NoError(t, WriteSummaryReport(summary, outputPath))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	report := string(content)

	assert.Contains(t, report, "Theme Sentiment CAR Analysis - Summary Report")
	assert.Contains(t, report, "DATASET OVERVIEW")
	assert.Contains(t, report, "Quarter: 2021_4Q")
	assert.Contains(t, report, "Window: 60d")
	assert.Contains(t, report, "Themes: 8 total, 2 qualifying, 2 analyzed")
	assert.Contains(t, report, "Correlation Rows: 2")

	assert.Contains(t, report, "CORRELATION STATISTICS")
	assert.Contains(t, report, "Max: 0.4201 (ai_adoption)")
	assert.Contains(t, report, "Min: -0.3112 (supply_chain)")
	assert.Contains(t, report, "Significant (p < 0.05): 1 of 2")

	// Positive block ranks the strongest coefficient first
	assert.Contains(t, report, "STRONGEST POSITIVE CORRELATIONS")
	positiveBlock := report[strings.Index(report, "STRONGEST POSITIVE"):]
	assert.Contains(t, positiveBlock, " 1. ai_adoption: r=0.4201")

	// Negative block ranks the most negative coefficient first
	assert.Contains(t, report, "STRONGEST NEGATIVE CORRELATIONS")
	negativeBlock := report[strings.Index(report, "STRONGEST NEGATIVE"):]
	assert.Contains(t, negativeBlock, " 1. supply_chain: r=-0.3112")
}

func TestWriteSummaryReport_NoRows(t *testing.T) {
	analysis := sampleAnalysis()
	analysis.Correlations = nil
	summary := car.CalculateSummaryStatistics(analysis)

	outputPath := filepath.Join(t.TempDir(), "2021_4Q_summary.txt")
	require.NoError(t, WriteSummaryReport(summary, outputPath))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	assert.Contains(t, string(content), "No theme produced a correlation row")
	assert.NotContains(t, string(content), "CORRELATION STATISTICS")
}

func TestWriteSummaryReport_EmptySummary(t *testing.T) {
	err := WriteSummaryReport(car.SummaryStatistics{}, filepath.Join(t.TempDir(), "out.txt"))
	assert.Error(t, err)
}
