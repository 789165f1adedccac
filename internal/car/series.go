package car

import "math"

// BuildSeries assembles the gap-aware abnormal-return series for one event:
// up to window.Points() observations starting at the event date.
//
// If the event date itself is not a trading day in the history, the series
// starts at the next available trading day instead of failing. Days whose
// abnormal return is missing or non-finite are omitted entirely; they do not
// appear as zeros and they do not consume observation slots, so a series may
// span more calendar days than the window names. An unknown ticker or an
// event past the last observation yields an empty series, which callers must
// treat as "exclude this quote from aggregation", never as an error.
func BuildSeries(index *PriceIndex, ticker, eventDate string, window Window) ReturnSeries {
	if index == nil || window <= 0 {
		return nil
	}

	history, ok := index.History(ticker)
	if !ok {
		return nil
	}

	start := history.FirstOnOrAfter(eventDate)
	if start < 0 {
		return nil
	}

	series := make(ReturnSeries, 0, window.Points())
	for i := start; i < len(history.Records) && len(series) < window.Points(); i++ {
		ar := history.Records[i].AbnormalReturn
		if ar == nil || math.IsNaN(*ar) || math.IsInf(*ar, 0) {
			continue
		}
		series = append(series, *ar)
	}

	return series
}
