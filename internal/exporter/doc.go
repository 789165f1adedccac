// Package exporter writes the per-quarter analysis artifacts.
//
// This package contains five writers:
//
// CSVWriter: Core CSV writing functionality with support for headers, comment
// lines and UTF-8 BOM for Excel compatibility.
//
// CorrelationExporter: Writes the per-quarter correlation table
// ({quarter}_correlation.csv) relating theme sentiment to CAR(0,1).
//
// CurveExporter: Writes per-theme cohort CAR curves ({theme}_car.csv) with
// cohort sizes recorded in a comment line.
//
// WriteFigure: Renders per-theme cohort curves as a PNG line chart via
// gonum/plot, with sample sizes in the legend and a percent-formatted y axis.
//
// WriteWorkbook and WriteSummaryReport: The Excel workbook
// ({quarter}_analysis.xlsx, CAR and Correlation sheets) and the plain-text
// quarter summary.
//
// Example usage:
//
//	corrExporter := exporter.NewCorrelationExporter(paths)
//	err := corrExporter.ExportCorrelationTable(analysis, paths.GetCorrelationCSVPath(quarter))
//
//	curveExporter := exporter.NewCurveExporter(paths)
//	for _, theme := range analysis.Themes {
//		err = curveExporter.ExportCurveCSV(theme, paths.GetCurveCSVPath(quarter, theme.Theme))
//		err = exporter.WriteFigure(theme, analysis.Window, paths.GetFigurePath(quarter, theme.Theme))
//	}
package exporter
