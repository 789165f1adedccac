package domain

// ThemeKind distinguishes the two extraction variants present in quarterly
// datasets: theme-scoped records and transcript-wide "overall" records. The
// variant is resolved once by the loader from the source field naming; code
// downstream of the loader only ever sees the tag.
type ThemeKind string

const (
	// KindTheme marks records read from the theme-scoped output field.
	KindTheme ThemeKind = "theme"
	// KindOverall marks records read from the transcript-wide output field.
	KindOverall ThemeKind = "overall"
)

// Quote is a single scored text excerpt tied to the stock and event date it
// concerns. Scores are produced upstream and are expected in a small bounded
// range around zero, but the range is not enforced here.
type Quote struct {
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
	Ticker    string  `json:"ticker" validate:"required,ticker"`
	EventDate string  `json:"event_date" validate:"required,iso8601"`
}

// ThemeRecord identifies one theme within one quarter and owns every scored
// quote collected for it. Records are immutable once loaded.
type ThemeRecord struct {
	Quarter string    `json:"quarter" validate:"required"`
	Name    string    `json:"name" validate:"required"`
	Kind    ThemeKind `json:"kind" validate:"required,oneof=theme overall"`
	Quotes  []Quote   `json:"quotes" validate:"dive"`
}

// QuoteCount returns the number of quotes owned by the record. It is the
// sample-size measure used by the top-quartile filter.
func (t ThemeRecord) QuoteCount() int {
	return len(t.Quotes)
}

// MeanScore returns the average sentiment score across the record's quotes,
// or 0 if the record holds no quotes.
func (t ThemeRecord) MeanScore() float64 {
	if len(t.Quotes) == 0 {
		return 0
	}
	sum := 0.0
	for _, q := range t.Quotes {
		sum += q.Score
	}
	return sum / float64(len(t.Quotes))
}
