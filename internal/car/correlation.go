package car

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ThemeObservations extracts the paired correlation vectors for one theme:
// every quote whose series covers the event day and the next observed trading
// day contributes its sentiment score and its CAR(0,1). Quotes with shorter
// series carry no short-window reaction and are left out of both vectors.
func ThemeObservations(observations []QuoteObservation) (scores, reactions []float64) {
	for _, obs := range observations {
		car01, ok := CAR01(obs.Series)
		if !ok {
			continue
		}
		scores = append(scores, obs.Quote.Score)
		reactions = append(reactions, car01)
	}
	return scores, reactions
}

// Correlate computes the Pearson correlation coefficient between the paired
// vectors and the two-sided p-value of the no-correlation hypothesis, using
// the t statistic with n-2 degrees of freedom.
//
// Themes with fewer than MinSampleForCorrelation observations, or with zero
// variance in either vector, have no defined correlation: Correlate reports
// an insufficient-sample error instead of a NaN coefficient, and callers
// exclude the theme from the output table. The coefficient is always in
// [-1, 1] and the p-value in [0, 1].
func Correlate(scores, reactions []float64) (coefficient, pValue float64, err error) {
	if len(scores) != len(reactions) {
		return 0, 0, fmt.Errorf("mismatched observation vectors: %d scores, %d reactions", len(scores), len(reactions))
	}

	n := len(scores)
	if n < MinSampleForCorrelation {
		return 0, 0, &AnalysisError{
			Type:    ErrorTypeInsufficientSample,
			Stage:   "correlation",
			Message: fmt.Sprintf("%d observations, need %d", n, MinSampleForCorrelation),
			Context: map[string]interface{}{"n": n},
		}
	}

	if isConstant(scores) || isConstant(reactions) {
		return 0, 0, &AnalysisError{
			Type:    ErrorTypeInsufficientSample,
			Stage:   "correlation",
			Message: "zero variance leaves the correlation undefined",
			Context: map[string]interface{}{"n": n},
		}
	}

	r := stat.Correlation(scores, reactions, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, 0, &AnalysisError{
			Type:    ErrorTypeInsufficientSample,
			Stage:   "correlation",
			Message: "correlation is not finite",
			Context: map[string]interface{}{"n": n},
		}
	}

	// Floating-point error can push |r| marginally past 1.
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}

	return r, correlationPValue(r, n), nil
}

// correlationPValue computes the two-sided p-value for a Pearson coefficient
// observed over n pairs. With exactly two pairs the t statistic has zero
// degrees of freedom and nothing can be rejected, so the p-value is 1.
// A perfectly linear sample (|r| = 1) over more pairs yields 0.
func correlationPValue(r float64, n int) float64 {
	if n <= 2 {
		return 1
	}

	df := float64(n - 2)
	denom := 1 - r*r
	if denom <= 0 {
		return 0
	}

	t := r * math.Sqrt(df/denom)
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.CDF(-math.Abs(t))
}

// isConstant reports whether every element equals the first one.
func isConstant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
