package exporter

import (
	"fmt"

	"github.com/linq-rag/linq-scoring-agent/internal/car"
	"github.com/linq-rag/linq-scoring-agent/internal/config"
)

// CorrelationExporter writes the per-quarter correlation table.
type CorrelationExporter struct {
	csvWriter *CSVWriter
}

// NewCorrelationExporter creates a new correlation table exporter
func NewCorrelationExporter(paths *config.Paths) *CorrelationExporter {
	return &CorrelationExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// ExportCorrelationTable writes one quarter's correlation rows to outputPath.
// Columns are Theme, Correlation, P_Value and Sample_Size, one row per
// qualifying theme, ordered as they appear in the analysis. A quarter with no
// correlation rows produces no file.
func (e *CorrelationExporter) ExportCorrelationTable(analysis *car.QuarterAnalysis, outputPath string) error {
	if analysis == nil {
		return fmt.Errorf("no analysis to export")
	}
	if len(analysis.Correlations) == 0 {
		return nil
	}

	records := make([][]string, 0, len(analysis.Correlations))
	for _, row := range analysis.Correlations {
		records = append(records, e.rowToCSV(row))
	}

	// No BOM: the correlation table feeds downstream statistical tooling.
	err := e.csvWriter.WriteCSV(outputPath, WriteOptions{
		Headers: e.getHeaders(),
		Records: records,
	})
	if err != nil {
		return fmt.Errorf("failed to write correlation table for %s: %w", analysis.Quarter, err)
	}

	return nil
}

// getHeaders returns the CSV headers for correlation rows
func (e *CorrelationExporter) getHeaders() []string {
	return []string{"Theme", "Correlation", "P_Value", "Sample_Size"}
}

// rowToCSV converts a correlation result to a CSV row
func (e *CorrelationExporter) rowToCSV(row car.CorrelationResult) []string {
	return []string{
		row.Theme,
		formatStat(row.Coefficient),
		formatStat(row.PValue),
		formatInt(row.SampleSize),
	}
}
