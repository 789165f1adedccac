package car

import (
	"fmt"
)

// ErrorType classifies analysis errors for containment decisions
type ErrorType string

const (
	// ErrorTypeMissingData marks a ticker or date absent from the price
	// index. The affected quote is excluded from aggregation.
	ErrorTypeMissingData ErrorType = "missing_data"
	// ErrorTypeInsufficientSample marks a correlation attempted with fewer
	// than two observations. The theme is excluded from the output table.
	ErrorTypeInsufficientSample ErrorType = "insufficient_sample"
	// ErrorTypeMalformedRecord marks a source record lacking required
	// fields. The record is skipped and processing continues.
	ErrorTypeMalformedRecord ErrorType = "malformed_record"
	// ErrorTypeNoInput marks a quarter with no usable input at all. The
	// quarter fails; the run continues with the next quarter.
	ErrorTypeNoInput ErrorType = "no_input"
)

// AnalysisError is the error type carried through the analysis pipeline
type AnalysisError struct {
	Type    ErrorType              `json:"type"`
	Stage   string                 `json:"stage,omitempty"`
	Message string                 `json:"message"`
	Cause   error                  `json:"cause,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	if e == nil {
		return "unknown analysis error"
	}
	if e.Stage != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Stage, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AnalysisError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewMissingDataError creates an error for a (ticker, date) pair the price
// index cannot serve
func NewMissingDataError(ticker, date string) *AnalysisError {
	return &AnalysisError{
		Type:    ErrorTypeMissingData,
		Stage:   "series",
		Message: fmt.Sprintf("no price observations for %s on or after %s", ticker, date),
		Context: map[string]interface{}{
			"ticker": ticker,
			"date":   date,
		},
	}
}

// NewInsufficientSampleError creates an error for a theme below the minimum
// correlation sample
func NewInsufficientSampleError(theme string, n int) *AnalysisError {
	return &AnalysisError{
		Type:    ErrorTypeInsufficientSample,
		Stage:   "correlation",
		Message: fmt.Sprintf("theme %q has %d observations, need %d", theme, n, MinSampleForCorrelation),
		Context: map[string]interface{}{
			"theme": theme,
			"n":     n,
		},
	}
}

// NewMalformedRecordError creates an error for a source record that cannot
// be used
func NewMalformedRecordError(source string, line int, cause error) *AnalysisError {
	return &AnalysisError{
		Type:    ErrorTypeMalformedRecord,
		Stage:   "load",
		Message: fmt.Sprintf("record at %s:%d is malformed", source, line),
		Cause:   cause,
		Context: map[string]interface{}{
			"source": source,
			"line":   line,
		},
	}
}

// NewNoInputError creates a quarter-level failure for an empty input set
func NewNoInputError(quarter, message string) *AnalysisError {
	return &AnalysisError{
		Type:    ErrorTypeNoInput,
		Stage:   "load",
		Message: message,
		Context: map[string]interface{}{
			"quarter": quarter,
		},
	}
}

// GetErrorType returns the type of the error
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}
	if aErr, ok := err.(*AnalysisError); ok {
		return aErr.Type
	}
	return ErrorTypeMalformedRecord
}

// IsMissingData reports whether err marks data absent from the price index
func IsMissingData(err error) bool {
	return GetErrorType(err) == ErrorTypeMissingData
}

// IsInsufficientSample reports whether err marks a below-minimum sample
func IsInsufficientSample(err error) bool {
	return GetErrorType(err) == ErrorTypeInsufficientSample
}
