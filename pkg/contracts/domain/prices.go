package domain

import "sort"

// PriceRecord is one trading day's observation for a single stock. A nil
// AbnormalReturn marks a day present in the source data without a usable
// abnormal-return value; such days carry no information and are skipped by
// series construction rather than treated as zero returns.
type PriceRecord struct {
	Date           string   `json:"date" validate:"required,iso8601"`
	AbnormalReturn *float64 `json:"abnormal_return"`
	Close          float64  `json:"close,omitempty"`
}

// PriceHistory is one stock's price records for a quarter, ordered by date
// ascending. The loader guarantees the ordering; SortByDate re-establishes it
// for histories assembled elsewhere.
type PriceHistory struct {
	Ticker  string        `json:"ticker" validate:"required,ticker"`
	Records []PriceRecord `json:"stock_prices" validate:"dive"`
}

// SortByDate orders the history's records by date ascending. ISO-8601 date
// strings sort correctly as plain strings.
func (h *PriceHistory) SortByDate() {
	sort.Slice(h.Records, func(i, j int) bool {
		return h.Records[i].Date < h.Records[j].Date
	})
}

// FirstOnOrAfter returns the index of the first record whose date is equal to
// or later than the given date, or -1 when no such record exists. The history
// must already be sorted by date.
func (h *PriceHistory) FirstOnOrAfter(date string) int {
	idx := sort.Search(len(h.Records), func(i int) bool {
		return h.Records[i].Date >= date
	})
	if idx == len(h.Records) {
		return -1
	}
	return idx
}
