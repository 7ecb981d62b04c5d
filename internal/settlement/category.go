package settlement

import (
	"strings"

	"github.com/minjaekwon/assetboard/internal/models"
)

// InferCategory classifies a position into an asset category. An explicit
// category always wins; otherwise the symbol shape and market type decide.
// Domestic-suffix symbols (".KS", ".KQ") and bare 6-digit KRX codes predate
// the category field and must keep classifying as domestic stock so that
// historical reports stay consistent.
func InferCategory(p models.Position) models.Category {
	if p.Category != "" {
		return p.Category
	}
	if isDomesticSymbol(p.Symbol) {
		return models.CategoryDomesticStock
	}
	if p.MarketType == models.MarketOverseas {
		return models.CategoryOverseasStock
	}
	return models.CategoryDomesticStock
}

func isDomesticSymbol(symbol string) bool {
	if strings.HasSuffix(symbol, ".KS") || strings.HasSuffix(symbol, ".KQ") {
		return true
	}
	if len(symbol) != 6 {
		return false
	}
	for _, r := range symbol {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// positionMarket resolves a position's market side, falling back to the
// inferred category when the marketType field is absent.
func positionMarket(p models.Position) models.MarketType {
	if p.MarketType != "" {
		return p.MarketType
	}
	return InferCategory(p).Market()
}

// categoryPositions filters an entry's holdings to one category.
func categoryPositions(e *models.HistoryEntry, cat models.Category) []models.Position {
	var out []models.Position
	for _, p := range e.Holdings {
		if InferCategory(p) == cat {
			out = append(out, p)
		}
	}
	return out
}

// marketPositions filters an entry's holdings to one market side.
func marketPositions(e *models.HistoryEntry, mt models.MarketType) []models.Position {
	var out []models.Position
	for _, p := range e.Holdings {
		if positionMarket(p) == mt {
			out = append(out, p)
		}
	}
	return out
}

// allocationValue normalizes an allocation to KRW. Itemized details, when
// present, supersede the single recorded value.
func allocationValue(a *models.Allocation, rate float64) float64 {
	if a == nil {
		return 0
	}
	if len(a.Details) > 0 {
		var sum float64
		for _, d := range a.Details {
			currency := d.Currency
			if currency == "" {
				currency = a.Currency
			}
			sum += ToReportingCurrency(d.Value, currency, rate)
		}
		return sum
	}
	return ToReportingCurrency(a.Value, a.Currency, rate)
}

// holdingsValue sums positions at their current (or last recorded) price.
func holdingsValue(positions []models.Position, rate float64) float64 {
	var sum float64
	for _, p := range positions {
		sum += ToReportingCurrency(p.PriceOrAvg()*p.Shares, p.Currency, rate)
	}
	return sum
}

// CategoryValue returns the reporting-currency value of one category within
// a snapshot.
//
// Investment categories with no recorded allocation value fall back to the
// entry's itemized holdings. Cash with no recorded value is reconstructed as
// the residual of the total over all other categories, floored at zero; cash
// is rarely tracked line-by-line and is "whatever is left".
func CategoryValue(e *models.HistoryEntry, cat models.Category, fallbackRate float64) float64 {
	rate := entryRate(e, fallbackRate)
	value := allocationValue(e.FindAllocation(cat), rate)

	if cat.IsInvestment() && value == 0 {
		return holdingsValue(categoryPositions(e, cat), rate)
	}

	if cat == models.CategoryCash && value == 0 {
		var others float64
		for _, c := range models.CategoryOrder {
			if c == models.CategoryCash {
				continue
			}
			others += CategoryValue(e, c, fallbackRate)
		}
		residual := e.TotalValue - others
		if residual < 0 {
			return 0
		}
		return residual
	}

	return value
}
