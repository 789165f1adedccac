package car

import (
	"github.com/linq-rag/linq-scoring-agent/pkg/contracts/domain"
)

// QuoteObservation couples a scored quote with the return series and CAR
// curve computed for its ticker and event date.
type QuoteObservation struct {
	Quote  domain.Quote
	Series ReturnSeries
	Curve  Curve
}

// SentimentCohort applies the per-quote classification rule: scores at or
// above the threshold are positive, scores below it are negative. Every
// scored quote lands in exactly one of the two.
func SentimentCohort(score, threshold float64) CohortName {
	if score >= threshold {
		return CohortPositive
	}
	return CohortNegative
}

// PartitionCohorts groups quote observations into the overall, positive and
// negative cohorts and aggregates each cohort's curves into a single average
// curve of length points.
//
// Membership is decided solely by SentimentCohort on the quote's score:
// every observation contributes to overall and to exactly one sentiment
// cohort, never to both. Observations with empty curves are ignored; callers
// exclude them from the sample before partitioning, this is a second fence.
// Curves shorter than points are extended with their final value for
// averaging only; the observations' own curves are left untouched.
func PartitionCohorts(observations []QuoteObservation, threshold float64, points int) []Cohort {
	var overall, positive, negative []Curve

	for _, obs := range observations {
		if len(obs.Curve) == 0 {
			continue
		}
		overall = append(overall, obs.Curve)
		if SentimentCohort(obs.Quote.Score, threshold) == CohortPositive {
			positive = append(positive, obs.Curve)
		} else {
			negative = append(negative, obs.Curve)
		}
	}

	return []Cohort{
		{Name: CohortOverall, N: len(overall), AvgCurve: averageCurves(overall, points)},
		{Name: CohortPositive, N: len(positive), AvgCurve: averageCurves(positive, points)},
		{Name: CohortNegative, N: len(negative), AvgCurve: averageCurves(negative, points)},
	}
}

// averageCurves computes the pointwise mean of the curves after right-padding
// each one with its final value out to the requested number of points.
func averageCurves(curves []Curve, points int) []float64 {
	if len(curves) == 0 {
		return nil
	}

	if points <= 0 {
		for _, c := range curves {
			if len(c) > points {
				points = len(c)
			}
		}
	}
	if points == 0 {
		return nil
	}

	avg := make([]float64, points)
	for _, c := range curves {
		for i := 0; i < points; i++ {
			avg[i] += valueAt(c, i)
		}
	}
	for i := range avg {
		avg[i] /= float64(len(curves))
	}
	return avg
}

// valueAt reads curve[i], holding the final value for indexes past the end.
func valueAt(c Curve, i int) float64 {
	if len(c) == 0 {
		return 0
	}
	if i >= len(c) {
		return c[len(c)-1]
	}
	return c[i]
}
