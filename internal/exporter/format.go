package exporter

import (
	"strconv"
)

// formatCAR formats a cumulative abnormal return for CSV output with six
// decimal places, enough to keep sub-basis-point structure visible.
func formatCAR(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// formatStat formats a correlation statistic with the shortest representation
// that round-trips, so small p-values keep their magnitude.
func formatStat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatInt formats an integer value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}
