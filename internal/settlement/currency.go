// Package settlement implements the valuation and time-weighted-return
// engine: pure, deterministic transformations over snapshot history.
// Nothing here performs I/O or mutates its inputs.
package settlement

import (
	"sort"

	"github.com/minjaekwon/assetboard/internal/models"
)

// DefaultExchangeRate is the USD/KRW fallback applied when neither the
// snapshot nor the caller supplies a rate.
const DefaultExchangeRate = 1350.0

// ToReportingCurrency converts a (value, currency) pair to KRW using the
// supplied rate. Unrecognized or empty currency strings are treated as
// already-KRW; older records often omitted the field.
func ToReportingCurrency(value float64, currency string, rate float64) float64 {
	if currency == "USD" {
		return value * rate
	}
	return value
}

// entryRate resolves the exchange rate for a snapshot: the entry's own
// recorded rate, then the caller fallback, then the package default.
func entryRate(e *models.HistoryEntry, fallback float64) float64 {
	if e != nil && e.ExchangeRate > 0 {
		return e.ExchangeRate
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultExchangeRate
}

// sortedByDate returns a date-ascending copy of the history slice. Every
// entrypoint sorts defensively rather than trusting caller ordering.
func sortedByDate(history []*models.HistoryEntry) []*models.HistoryEntry {
	out := make([]*models.HistoryEntry, len(history))
	copy(out, history)
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
