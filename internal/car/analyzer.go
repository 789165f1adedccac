package car

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/linq-rag/linq-scoring-agent/pkg/contracts/domain"
)

// Analyzer orchestrates one quarter's CAR analysis: series construction,
// compounding, cohort partitioning, the top-quartile filter and the
// correlation table. Analyzers hold no per-quarter state and may be reused
// across quarters.
type Analyzer struct {
	window             Window
	sentimentThreshold float64
	quartile           float64
	applyQuartile      bool
	logger             *slog.Logger
}

// NewAnalyzer creates an analyzer with the default sentiment threshold and
// the top-quartile filter enabled.
func NewAnalyzer(window Window, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Analyzer{
		window:             window,
		sentimentThreshold: DefaultSentimentThreshold,
		quartile:           DefaultQuartile,
		applyQuartile:      true,
		logger:             logger,
	}
}

// SetSentimentThreshold sets the score boundary between the positive and
// negative cohorts. Quotes at the boundary are positive.
func (a *Analyzer) SetSentimentThreshold(threshold float64) {
	a.sentimentThreshold = threshold
}

// SetQuartileFilter configures the quote-count filter applied before cohort
// aggregation and correlation. Disabling it lets every theme through.
func (a *Analyzer) SetQuartileFilter(enabled bool, percentile float64) error {
	if percentile <= 0 || percentile >= 1 {
		return fmt.Errorf("percentile must be in (0, 1), got %.3f", percentile)
	}
	a.applyQuartile = enabled
	a.quartile = percentile
	return nil
}

// Window returns the configured observation window.
func (a *Analyzer) Window() Window {
	return a.window
}

// Analyze runs the full pass for one quarter. Per-quote and per-theme
// problems are contained: quotes without price coverage are excluded, themes
// without a defined correlation are left out of the table, and only a
// complete absence of usable input fails the quarter.
func (a *Analyzer) Analyze(ctx context.Context, quarter string, themes []domain.ThemeRecord, index *PriceIndex) (*QuarterAnalysis, error) {
	start := time.Now()

	indexLen := 0
	if index != nil {
		indexLen = index.Len()
	}

	a.logger.InfoContext(ctx, "starting quarter analysis",
		"quarter", quarter,
		"themes", len(themes),
		"tickers", indexLen,
		"window", a.window.String(),
	)

	if len(themes) == 0 {
		return nil, NewNoInputError(quarter, "no theme records loaded")
	}
	if indexLen == 0 {
		return nil, NewNoInputError(quarter, "price index is empty")
	}

	qualifying := themes
	cutoff := 0.0
	if a.applyQuartile {
		qualifying, cutoff = FilterTopQuartile(themes, a.quartile)
		a.logger.InfoContext(ctx, "applied top-quartile filter",
			"quarter", quarter,
			"cutoff", cutoff,
			"qualifying", len(qualifying),
			"total", len(themes),
		)
	}

	analysis := &QuarterAnalysis{
		Quarter:          quarter,
		Window:           a.window,
		QuartileCutoff:   cutoff,
		ThemesTotal:      len(themes),
		ThemesQualifying: len(qualifying),
	}

	for _, theme := range qualifying {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("analysis cancelled: %w", ctx.Err())
		default:
		}

		observations, skipped := a.observe(ctx, theme, index)
		if len(observations) == 0 {
			a.logger.WarnContext(ctx, "theme excluded, no quotes with price coverage",
				"quarter", quarter,
				"theme", theme.Name,
				"quotes", theme.QuoteCount(),
			)
			continue
		}

		analysis.Themes = append(analysis.Themes, ThemeAnalysis{
			Theme:         theme.Name,
			Kind:          theme.Kind,
			QuoteCount:    theme.QuoteCount(),
			QuotesSkipped: skipped,
			Cohorts:       PartitionCohorts(observations, a.sentimentThreshold, a.window.Points()),
		})

		scores, reactions := ThemeObservations(observations)
		coefficient, pValue, err := Correlate(scores, reactions)
		if err != nil {
			a.logger.WarnContext(ctx, "theme excluded from correlation table",
				"quarter", quarter,
				"theme", theme.Name,
				"observations", len(scores),
				"error", err,
			)
			continue
		}

		analysis.Correlations = append(analysis.Correlations, CorrelationResult{
			Theme:       theme.Name,
			SampleSize:  len(scores),
			Coefficient: coefficient,
			PValue:      pValue,
		})
	}

	if len(analysis.Themes) == 0 {
		return nil, NewNoInputError(quarter, "no theme produced usable observations")
	}

	sort.Slice(analysis.Correlations, func(i, j int) bool {
		return analysis.Correlations[i].Theme < analysis.Correlations[j].Theme
	})

	a.logger.InfoContext(ctx, "quarter analysis completed",
		"quarter", quarter,
		"duration", time.Since(start),
		"themes_analyzed", len(analysis.Themes),
		"correlation_rows", len(analysis.Correlations),
	)

	return analysis, nil
}

// observe builds the quote-level observations for one theme, excluding
// quotes whose ticker and event date the price index cannot serve.
func (a *Analyzer) observe(ctx context.Context, theme domain.ThemeRecord, index *PriceIndex) ([]QuoteObservation, int) {
	observations := make([]QuoteObservation, 0, len(theme.Quotes))
	skipped := 0

	for _, quote := range theme.Quotes {
		series := BuildSeries(index, quote.Ticker, quote.EventDate, a.window)
		if len(series) == 0 {
			skipped++
			a.logger.DebugContext(ctx, "quote excluded from aggregation",
				"theme", theme.Name,
				"error", NewMissingDataError(quote.Ticker, quote.EventDate),
			)
			continue
		}

		observations = append(observations, QuoteObservation{
			Quote:  quote,
			Series: series,
			Curve:  Compound(series),
		})
	}

	return observations, skipped
}
