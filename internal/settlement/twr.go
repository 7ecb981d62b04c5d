package settlement

import (
	"time"

	"github.com/minjaekwon/assetboard/internal/models"
)

// TWRMultipliers produces the cumulative time-weighted-return multiplier per
// snapshot date for one market segment, chaining price-only daily returns so
// that deposits and withdrawals do not distort the compounded figure.
//
// The first date in the series maps to exactly 1.0. For each subsequent
// date the previous entry's holdings of the segment are valued at both
// dates' prices and rates; the ratio is chained into the running multiplier.
// No exposure on the previous date, or a non-positive denominator, carries
// the multiplier forward unchanged.
func TWRMultipliers(history []*models.HistoryEntry, mt models.MarketType, fallbackRate float64) map[string]float64 {
	entries := sortedByDate(history)
	out := make(map[string]float64, len(entries))
	if len(entries) == 0 {
		return out
	}

	cumulative := 1.0
	out[entries[0].Date] = cumulative

	for i := 1; i < len(entries); i++ {
		prev, curr := entries[i-1], entries[i]

		holdings := marketPositions(prev, mt)
		if len(holdings) == 0 {
			out[curr.Date] = cumulative
			continue
		}

		prevRate := entryRate(prev, fallbackRate)
		currRate := entryRate(curr, fallbackRate)

		var prevValue, projected float64
		for _, p := range holdings {
			prevValue += ToReportingCurrency(p.PriceOrAvg()*p.Shares, p.Currency, prevRate)

			price := p.PriceOrAvg()
			if match := curr.FindPosition(p.Symbol); match != nil {
				price = match.PriceOrAvg()
			}
			projected += ToReportingCurrency(price*p.Shares, p.Currency, currRate)
		}

		if prevValue > 0 {
			cumulative *= projected / prevValue
		}
		out[curr.Date] = cumulative
	}

	return out
}

// SyncOverseasFriday maps a date to the correct overseas comparison point.
// Overseas markets settle late relative to the reporting timezone, so a
// Friday close often lands under Saturday's key in the multiplier map; if
// the date is a Friday and a Saturday entry exists, the Saturday value is
// substituted. Missing dates default to 1.0.
func SyncOverseasFriday(date string, multipliers map[string]float64) float64 {
	if models.WeekdayOf(date) == time.Friday {
		if t, err := time.Parse(models.DateLayout, date); err == nil {
			saturday := t.AddDate(0, 0, 1).Format(models.DateLayout)
			if v, ok := multipliers[saturday]; ok {
				return v
			}
		}
	}
	if v, ok := multipliers[date]; ok {
		return v
	}
	return 1.0
}
