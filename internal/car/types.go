package car

import (
	"fmt"

	"github.com/linq-rag/linq-scoring-agent/pkg/contracts/domain"
)

// Window is the length of the post-event observation window in trading days.
// A window of N days yields at most N+1 observations: the event day (day 0)
// plus the N days that follow it.
type Window int

const (
	// Window20 observes the event day plus 20 trading days.
	Window20 Window = 20
	// Window60 observes the event day plus 60 trading days. This is the
	// standard window for quarterly datasets.
	Window60 Window = 60
	// Window120 observes the event day plus 120 trading days.
	Window120 Window = 120
)

// String returns the string representation of the window
func (w Window) String() string {
	return fmt.Sprintf("%dd", int(w))
}

// Days returns the number of post-event days in the window
func (w Window) Days() int {
	return int(w)
}

// Points returns the maximum number of observations the window admits,
// counting the event day itself.
func (w Window) Points() int {
	return int(w) + 1
}

// ReturnSeries is an ordered sequence of daily abnormal returns anchored to
// an event date. Days without a usable observation are omitted from the
// sequence, never zero-filled, so compounding reflects only observed returns.
type ReturnSeries []float64

// Curve is a cumulative abnormal return curve: Curve[i] is the compounded
// product of (1+r) over observations 0..i of its source series, minus 1.
// A curve always has the same length as the series it derives from and is
// never mutated after construction.
type Curve []float64

// CohortName identifies a sentiment cohort within a theme.
type CohortName string

const (
	// CohortOverall holds every scored quote of a theme.
	CohortOverall CohortName = "overall"
	// CohortPositive holds quotes at or above the sentiment threshold.
	CohortPositive CohortName = "positive"
	// CohortNegative holds quotes below the sentiment threshold.
	CohortNegative CohortName = "negative"
)

// Cohort is a named group of quote-level CAR curves aggregated into a single
// average curve. N counts the quotes that contributed a non-empty curve.
type Cohort struct {
	Name     CohortName `json:"name"`
	N        int        `json:"n"`
	AvgCurve []float64  `json:"avg_curve"`
}

// ThemeAnalysis is the per-theme output of a quarter pass: the theme's
// cohorts plus bookkeeping about how many quotes were usable.
type ThemeAnalysis struct {
	Theme         string           `json:"theme"`
	Kind          domain.ThemeKind `json:"kind"`
	QuoteCount    int              `json:"quote_count"`
	QuotesSkipped int              `json:"quotes_skipped"`
	Cohorts       []Cohort         `json:"cohorts"`
}

// Cohort returns the named cohort, or nil when the theme produced none.
func (t ThemeAnalysis) Cohort(name CohortName) *Cohort {
	for i := range t.Cohorts {
		if t.Cohorts[i].Name == name {
			return &t.Cohorts[i]
		}
	}
	return nil
}

// CorrelationResult relates one theme's quote-level sentiment scores to the
// short-window price reaction CAR(0,1). One row per qualifying theme per
// quarter.
type CorrelationResult struct {
	Theme       string  `json:"theme"`
	SampleSize  int     `json:"sample_size"`
	Coefficient float64 `json:"coefficient"`
	PValue      float64 `json:"p_value"`
}

// QuarterAnalysis is the complete output of one quarter's pass. Everything in
// it is derived from that quarter's own files and discarded after export.
type QuarterAnalysis struct {
	Quarter          string              `json:"quarter"`
	Window           Window              `json:"window"`
	QuartileCutoff   float64             `json:"quartile_cutoff"`
	ThemesTotal      int                 `json:"themes_total"`
	ThemesQualifying int                 `json:"themes_qualifying"`
	Themes           []ThemeAnalysis     `json:"themes"`
	Correlations     []CorrelationResult `json:"correlations"`
}

// Constants for default analysis behavior.
const (
	// DefaultSentimentThreshold splits quotes into positive (>=) and
	// negative (<) cohorts.
	DefaultSentimentThreshold = 0.0

	// DefaultQuartile is the quote-count percentile a theme must reach to
	// qualify for correlation analysis.
	DefaultQuartile = 0.75

	// MinSampleForCorrelation is the smallest number of observations for
	// which a correlation is defined.
	MinSampleForCorrelation = 2
)
