package settlement

import (
	"github.com/minjaekwon/assetboard/internal/models"
)

// MarketAdjustedChange computes the change in one category between two
// consecutive snapshots, isolating market price movement from money added
// or removed during the period.
//
// A naive value delta conflates price movement with buys/sells/deposits.
// Instead, the previous date's holdings are replayed at the current date's
// prices (symbol match; a position that fully exited keeps its last known
// price), and shares added since the previous snapshot contribute only the
// instantaneous difference between their current value and their cost at
// the current average price. Injected principal itself never appears as
// performance.
func MarketAdjustedChange(curr, prev *EntryMetrics, cat models.Category, fallbackRate float64) models.CategoryMetrics {
	currTotal := curr.Values[cat]

	// First data point: nothing to compare against.
	if prev == nil {
		return models.CategoryMetrics{Current: currTotal}
	}

	prevTotal := prev.Values[cat]

	// Nothing held on either side.
	if prevTotal <= 0 && currTotal <= 0 {
		return models.CategoryMetrics{}
	}

	currRate := entryRate(curr.Entry, fallbackRate)

	// What would the previous date's holdings be worth today, share count
	// held fixed?
	var projected float64
	for _, p := range prev.Positions[cat] {
		price := p.PriceOrAvg()
		if match := curr.Entry.FindPosition(p.Symbol); match != nil {
			price = match.PriceOrAvg()
		}
		projected += ToReportingCurrency(price*p.Shares, p.Currency, currRate)
	}

	change := projected - prevTotal

	// Incremental shares: value minus cost of exactly the shares added.
	// Cost is the cost-basis increase over the period (current shares at
	// current average minus previous shares at previous average), which for
	// a single buy equals added shares at their purchase price. A buy at
	// exactly the market price therefore contributes nothing; a discounted
	// intraday fill contributes only its instantaneous gain. Averaging down
	// isolates the new shares, never repricing the whole position.
	for _, p := range curr.Positions[cat] {
		var prevShares, prevCost float64
		if match := prev.Entry.FindPosition(p.Symbol); match != nil {
			prevShares = match.Shares
			prevCost = match.Shares * match.AvgPrice
		}
		added := p.Shares - prevShares
		if added <= 0 {
			continue
		}
		cost := p.Shares*p.AvgPrice - prevCost
		value := added * p.PriceOrAvg()
		change += ToReportingCurrency(value-cost, p.Currency, currRate)
	}

	var percent float64
	if prevTotal > 0 {
		percent = change / prevTotal * 100
	}

	return models.CategoryMetrics{Current: currTotal, Change: change, Percent: percent}
}

// simpleChange is the plain value delta used for the cash+savings bucket,
// where no positions exist to replay.
func simpleChange(curr, prev float64, hasPrev bool) models.CategoryMetrics {
	m := models.CategoryMetrics{Current: curr}
	if !hasPrev {
		return m
	}
	m.Change = curr - prev
	if prev > 0 {
		m.Percent = m.Change / prev * 100
	}
	return m
}
