package models

import (
	"time"
)

// DateLayout is the canonical snapshot date format. Dates are stored and
// compared as strings so they sort lexicographically in chronological order.
const DateLayout = "2006-01-02"

// HistoryEntry is a dated, frozen snapshot of the whole book: total value,
// holdings, and allocations as they stood at snapshot time. Entries are
// upsertable by date and immutable in meaning once written.
type HistoryEntry struct {
	Date             string       `json:"date" badgerhold:"unique"` // "2006-01-02"
	TotalValue       float64      `json:"total_value"`
	SnapshotValue    float64      `json:"snapshot_value,omitempty"`    // machine-computed total before adjustment
	ManualAdjustment float64      `json:"manual_adjustment,omitempty"` // user correction on top of SnapshotValue
	ExchangeRate     float64      `json:"exchange_rate,omitempty"`     // USD/KRW at snapshot time; 0 on legacy records
	Holdings         []Position   `json:"holdings,omitempty"`
	Allocations      []Allocation `json:"allocations,omitempty"`
	CreatedAt        time.Time    `json:"created_at,omitempty"`
	UpdatedAt        time.Time    `json:"updated_at,omitempty"`
}

// HasHoldings reports whether the snapshot carries itemized holdings.
// Entries without holdings are manually-entered historical summaries.
func (e *HistoryEntry) HasHoldings() bool {
	return len(e.Holdings) > 0
}

// Weekday returns the weekday of the entry date. Malformed dates return
// Sunday, which keeps them out of trading-day logic.
func (e *HistoryEntry) Weekday() time.Weekday {
	return WeekdayOf(e.Date)
}

// WeekdayOf parses a "2006-01-02" date string and returns its weekday.
func WeekdayOf(date string) time.Weekday {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Sunday
	}
	return t.Weekday()
}

// FindPosition returns the position with the given symbol, or nil.
func (e *HistoryEntry) FindPosition(symbol string) *Position {
	for i := range e.Holdings {
		if e.Holdings[i].Symbol == symbol {
			return &e.Holdings[i]
		}
	}
	return nil
}

// FindAllocation returns the allocation for the given category, or nil.
func (e *HistoryEntry) FindAllocation(cat Category) *Allocation {
	for i := range e.Allocations {
		if e.Allocations[i].Category == cat {
			return &e.Allocations[i]
		}
	}
	return nil
}
