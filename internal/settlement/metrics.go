package settlement

import (
	"github.com/minjaekwon/assetboard/internal/models"
)

// EntryMetrics is the per-snapshot breakdown consumed by both the display
// tables and the change calculator: category values, the position lists
// behind them, and the domestic/overseas roll-ups.
type EntryMetrics struct {
	Entry       *models.HistoryEntry
	Values      map[models.Category]float64
	Positions   map[models.Category][]models.Position
	CashSavings float64
	Domestic    float64
	Overseas    float64
}

// BuildEntryMetrics projects one snapshot into its category breakdown.
// Pure; the entry is read, never mutated.
func BuildEntryMetrics(e *models.HistoryEntry, fallbackRate float64) *EntryMetrics {
	m := &EntryMetrics{
		Entry:     e,
		Values:    make(map[models.Category]float64, len(models.CategoryOrder)),
		Positions: make(map[models.Category][]models.Position, len(models.InvestmentCategories)),
	}

	for _, cat := range models.CategoryOrder {
		m.Values[cat] = CategoryValue(e, cat, fallbackRate)
	}
	for _, cat := range models.InvestmentCategories {
		m.Positions[cat] = categoryPositions(e, cat)
		switch cat.Market() {
		case models.MarketDomestic:
			m.Domestic += m.Values[cat]
		case models.MarketOverseas:
			m.Overseas += m.Values[cat]
		}
	}
	m.CashSavings = m.Values[models.CategoryCash] + m.Values[models.CategorySavings]

	return m
}
