package car

import (
	"math"
	"sort"

	"github.com/linq-rag/linq-scoring-agent/pkg/contracts/domain"
)

// QuartileCutoff computes the quote-count value at the given percentile
// across a quarter's themes, using linear interpolation between closest
// ranks. The cutoff is derived from the quarter's own theme population, never
// hardcoded. The second return reports false when there are no themes.
func QuartileCutoff(themes []domain.ThemeRecord, percentile float64) (float64, bool) {
	if len(themes) == 0 {
		return 0, false
	}

	counts := make([]float64, len(themes))
	for i, t := range themes {
		counts[i] = float64(t.QuoteCount())
	}
	sort.Float64s(counts)

	return percentileValue(counts, percentile), true
}

// FilterTopQuartile retains the themes whose quote count is at or above the
// percentile cutoff for the quarter. Themes strictly below the cutoff are
// excluded; the boundary is inclusive, so a theme sitting exactly on the
// cutoff is retained. Returns the retained themes and the cutoff used.
func FilterTopQuartile(themes []domain.ThemeRecord, percentile float64) ([]domain.ThemeRecord, float64) {
	cutoff, ok := QuartileCutoff(themes, percentile)
	if !ok {
		return nil, 0
	}

	retained := make([]domain.ThemeRecord, 0, len(themes))
	for _, t := range themes {
		if float64(t.QuoteCount()) >= cutoff {
			retained = append(retained, t)
		}
	}
	return retained, cutoff
}

// percentileValue calculates the value at a given percentile of a sorted
// slice, interpolating linearly between the two closest ranks.
func percentileValue(sorted []float64, percentile float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	if percentile <= 0 {
		return sorted[0]
	}
	if percentile >= 1 {
		return sorted[n-1]
	}

	index := percentile * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
