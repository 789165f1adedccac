package car

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// SaveToJSON writes a quarter analysis snapshot to a JSON file with metadata,
// creating the output directory as needed.
func SaveToJSON(analysis *QuarterAnalysis, outputPath string) error {
	if analysis == nil {
		return fmt.Errorf("no analysis to save")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	output := map[string]interface{}{
		"metadata": map[string]interface{}{
			"generated_at":     time.Now().Format(time.RFC3339),
			"quarter":          analysis.Quarter,
			"window":           analysis.Window.String(),
			"themes_analyzed":  len(analysis.Themes),
			"correlation_rows": len(analysis.Correlations),
		},
		"analysis": analysis,
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	return nil
}

// SummaryStatistics condenses one quarter's analysis for reporting.
type SummaryStatistics struct {
	Quarter          string
	Window           string
	ThemesTotal      int
	ThemesQualifying int
	ThemesAnalyzed   int
	CorrelationRows  int
	QuartileCutoff   float64
	QuotesUsed       int
	QuotesSkipped    int
	Significant      int
	Coefficient      StatsSummary
	StrongestUp      []CorrelationResult
	StrongestDown    []CorrelationResult
}

// StatsSummary holds the distribution of a quantity across themes.
type StatsSummary struct {
	Mean     float64
	Median   float64
	StdDev   float64
	Min      float64
	Max      float64
	MinTheme string
	MaxTheme string
}

// SignificanceLevel is the p-value boundary used when counting significant
// correlations in summary reports.
const SignificanceLevel = 0.05

// CalculateSummaryStatistics computes the report summary for one quarter.
func CalculateSummaryStatistics(analysis *QuarterAnalysis) SummaryStatistics {
	if analysis == nil {
		return SummaryStatistics{}
	}

	summary := SummaryStatistics{
		Quarter:          analysis.Quarter,
		Window:           analysis.Window.String(),
		ThemesTotal:      analysis.ThemesTotal,
		ThemesQualifying: analysis.ThemesQualifying,
		ThemesAnalyzed:   len(analysis.Themes),
		CorrelationRows:  len(analysis.Correlations),
		QuartileCutoff:   analysis.QuartileCutoff,
	}

	for _, theme := range analysis.Themes {
		summary.QuotesUsed += theme.QuoteCount - theme.QuotesSkipped
		summary.QuotesSkipped += theme.QuotesSkipped
	}

	if len(analysis.Correlations) == 0 {
		return summary
	}

	coefficients := make([]float64, 0, len(analysis.Correlations))
	for _, row := range analysis.Correlations {
		coefficients = append(coefficients, row.Coefficient)
		if row.PValue < SignificanceLevel {
			summary.Significant++
		}
	}

	summary.Coefficient = calculateStats(coefficients, analysis.Correlations)

	ranked := make([]CorrelationResult, len(analysis.Correlations))
	copy(ranked, analysis.Correlations)
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Coefficient > ranked[j].Coefficient
	})

	summary.StrongestUp = topN(ranked, 5, true)
	summary.StrongestDown = topN(ranked, 5, false)

	return summary
}

// calculateStats computes the distribution summary of coefficients, keeping
// track of which themes sit at the extremes.
func calculateStats(values []float64, rows []CorrelationResult) StatsSummary {
	if len(values) == 0 {
		return StatsSummary{}
	}

	mean := calculateMean(values)

	minVal, maxVal := values[0], values[0]
	minTheme, maxTheme := rows[0].Theme, rows[0].Theme
	for i, v := range values {
		if v < minVal {
			minVal = v
			minTheme = rows[i].Theme
		}
		if v > maxVal {
			maxVal = v
			maxTheme = rows[i].Theme
		}
	}

	return StatsSummary{
		Mean:     mean,
		Median:   calculateMedian(values),
		StdDev:   calculateStandardDeviation(values, mean),
		Min:      minVal,
		Max:      maxVal,
		MinTheme: minTheme,
		MaxTheme: maxTheme,
	}
}

func topN(ranked []CorrelationResult, n int, fromTop bool) []CorrelationResult {
	if len(ranked) == 0 {
		return nil
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	if fromTop {
		return ranked[:n]
	}
	return ranked[len(ranked)-n:]
}

// calculateMean computes the arithmetic mean of a slice of values.
func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// calculateMedian computes the median of a slice of values.
func calculateMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// calculateStandardDeviation computes the sample standard deviation.
func calculateStandardDeviation(values []float64, mean float64) float64 {
	if len(values) <= 1 {
		return 0
	}

	sumSquared := 0.0
	for _, v := range values {
		deviation := v - mean
		sumSquared += deviation * deviation
	}

	return math.Sqrt(sumSquared / float64(len(values)-1))
}
