package car

import (
	"sort"
	"strings"

	"github.com/linq-rag/linq-scoring-agent/pkg/contracts/domain"
)

// PriceIndex is one quarter's (ticker, date) lookup over price histories.
// It is built once per quarter, passed explicitly to the code that needs it,
// and discarded with the quarter; there is no ambient or global price state.
type PriceIndex struct {
	histories map[string]*domain.PriceHistory
}

// NewPriceIndex builds an index over the given histories. Each history is
// sorted by date; histories with duplicate tickers are merged in input order
// and re-sorted. Ticker matching is case-insensitive.
func NewPriceIndex(histories []domain.PriceHistory) *PriceIndex {
	index := &PriceIndex{
		histories: make(map[string]*domain.PriceHistory, len(histories)),
	}

	for i := range histories {
		h := histories[i]
		key := normalizeTicker(h.Ticker)
		if key == "" {
			continue
		}
		if existing, ok := index.histories[key]; ok {
			existing.Records = append(existing.Records, h.Records...)
			continue
		}
		index.histories[key] = &domain.PriceHistory{
			Ticker:  key,
			Records: append([]domain.PriceRecord(nil), h.Records...),
		}
	}

	for _, h := range index.histories {
		h.SortByDate()
	}

	return index
}

// History returns the price history for a ticker, if known.
func (ix *PriceIndex) History(ticker string) (*domain.PriceHistory, bool) {
	h, ok := ix.histories[normalizeTicker(ticker)]
	return h, ok
}

// Len returns the number of tickers in the index.
func (ix *PriceIndex) Len() int {
	return len(ix.histories)
}

// Tickers returns the indexed tickers in sorted order.
func (ix *PriceIndex) Tickers() []string {
	tickers := make([]string, 0, len(ix.histories))
	for t := range ix.histories {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
