package models

import (
	"sort"
	"time"
)

// IndexBar is one daily close of a benchmark index.
type IndexBar struct {
	Date  string  `json:"date"` // "2006-01-02"
	Close float64 `json:"close"`
}

// IndexSeries is the stored daily history of one benchmark index.
// Bars are kept ascending by date.
type IndexSeries struct {
	Symbol      string     `json:"symbol"` // e.g. "^KS11"
	Name        string     `json:"name,omitempty"`
	Currency    string     `json:"currency,omitempty"`
	Bars        []IndexBar `json:"bars"`
	LastUpdated time.Time  `json:"last_updated"`
}

// CloseAsOf returns the close at or before the given date using binary
// search over the ascending bars.
func (s *IndexSeries) CloseAsOf(date string) (float64, bool) {
	if len(s.Bars) == 0 {
		return 0, false
	}
	// First index with bar date > target; the bar before it is the answer.
	idx := sort.Search(len(s.Bars), func(i int) bool {
		return s.Bars[i].Date > date
	})
	if idx == 0 {
		return 0, false
	}
	return s.Bars[idx-1].Close, true
}

// Quote is a point-in-time price for one symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previous_close,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	AsOf          time.Time `json:"as_of"`
}

// ExchangeRate is a point-in-time USD/KRW rate.
type ExchangeRate struct {
	Rate float64   `json:"rate"`
	AsOf time.Time `json:"as_of"`
}
