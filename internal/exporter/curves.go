package exporter

import (
	"fmt"
	"strings"

	"github.com/linq-rag/linq-scoring-agent/internal/car"
	"github.com/linq-rag/linq-scoring-agent/internal/config"
)

// CurveExporter writes per-theme average CAR curves as CSV.
type CurveExporter struct {
	csvWriter *CSVWriter
}

// NewCurveExporter creates a new CAR curve exporter
func NewCurveExporter(paths *config.Paths) *CurveExporter {
	return &CurveExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// ExportCurveCSV writes one theme's cohort curves to outputPath. Rows run
// from day 0 to the end of the observation window, one column per cohort;
// cohorts without members leave their column empty. The comment line above
// the header records the cohort sizes.
func (e *CurveExporter) ExportCurveCSV(theme car.ThemeAnalysis, outputPath string) error {
	overall := theme.Cohort(car.CohortOverall)
	positive := theme.Cohort(car.CohortPositive)
	negative := theme.Cohort(car.CohortNegative)

	points := curvePoints(overall, positive, negative)
	if points == 0 {
		return fmt.Errorf("theme %s has no curve data to export", theme.Theme)
	}

	records := make([][]string, 0, points)
	for day := 0; day < points; day++ {
		records = append(records, []string{
			formatInt(day),
			curveCell(overall, day),
			curveCell(positive, day),
			curveCell(negative, day),
		})
	}

	err := e.csvWriter.WriteCSV(outputPath, WriteOptions{
		Comment:   cohortSizes(overall, positive, negative),
		Headers:   []string{"Day", "Overall", "Positive", "Negative"},
		Records:   records,
		BOMPrefix: false,
	})
	if err != nil {
		return fmt.Errorf("failed to write curve CSV for %s: %w", theme.Theme, err)
	}

	return nil
}

// curvePoints returns the longest average curve among the cohorts.
func curvePoints(cohorts ...*car.Cohort) int {
	points := 0
	for _, c := range cohorts {
		if c != nil && len(c.AvgCurve) > points {
			points = len(c.AvgCurve)
		}
	}
	return points
}

// curveCell renders one cohort's value for a day, empty when the cohort has
// no members or the day is out of range.
func curveCell(c *car.Cohort, day int) string {
	if c == nil || day >= len(c.AvgCurve) {
		return ""
	}
	return formatCAR(c.AvgCurve[day])
}

// cohortSizes renders the comment line recording each cohort's sample size.
func cohortSizes(cohorts ...*car.Cohort) string {
	parts := make([]string, 0, len(cohorts))
	for _, c := range cohorts {
		if c == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s n=%d", c.Name, c.N))
	}
	return "cohorts: " + strings.Join(parts, " ")
}
