package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/linq-rag/linq-scoring-agent/internal/car"
)

const (
	carSheetName         = "CAR"
	correlationSheetName = "Correlation"
)

// WriteWorkbook writes one quarter's analysis to an Excel workbook with a CAR
// sheet holding every cohort curve in long form and a Correlation sheet
// holding the correlation table.
func WriteWorkbook(analysis *car.QuarterAnalysis, outputPath string) error {
	if analysis == nil {
		return fmt.Errorf("no analysis to export")
	}

	slog.Info("Writing Excel workbook",
		slog.String("quarter", analysis.Quarter),
		slog.String("full_path", outputPath),
		slog.Int("theme_count", len(analysis.Themes)))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), carSheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := writeCARSheet(f, analysis); err != nil {
		return fmt.Errorf("failed to write CAR sheet: %w", err)
	}

	if err := writeCorrelationSheet(f, analysis); err != nil {
		return fmt.Errorf("failed to write correlation sheet: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create workbook directory: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save workbook for %s: %w", analysis.Quarter, err)
	}

	return nil
}

// writeCARSheet fills the CAR sheet with one row per theme, cohort and day.
func writeCARSheet(f *excelize.File, analysis *car.QuarterAnalysis) error {
	if err := setRow(f, carSheetName, 1, []interface{}{"Theme", "Cohort", "N", "Day", "CAR"}); err != nil {
		return err
	}

	row := 2
	for _, theme := range analysis.Themes {
		for _, cohort := range theme.Cohorts {
			for day, value := range cohort.AvgCurve {
				err := setRow(f, carSheetName, row, []interface{}{
					theme.Theme,
					string(cohort.Name),
					cohort.N,
					day,
					value,
				})
				if err != nil {
					return err
				}
				row++
			}
		}
	}

	return nil
}

// writeCorrelationSheet fills the Correlation sheet with the quarter's table.
func writeCorrelationSheet(f *excelize.File, analysis *car.QuarterAnalysis) error {
	if _, err := f.NewSheet(correlationSheetName); err != nil {
		return err
	}

	if err := setRow(f, correlationSheetName, 1, []interface{}{"Theme", "Correlation", "P_Value", "Sample_Size"}); err != nil {
		return err
	}

	for i, result := range analysis.Correlations {
		err := setRow(f, correlationSheetName, i+2, []interface{}{
			result.Theme,
			result.Coefficient,
			result.PValue,
			result.SampleSize,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// setRow writes values into consecutive cells of a 1-based row.
func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("failed to resolve cell (%d,%d): %w", i+1, row, err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return nil
}
