package settlement

import (
	"time"

	"github.com/minjaekwon/assetboard/internal/models"
)

// buildRow assembles one settlement row from an entry's metrics and its
// predecessor's (nil for the first row). Investment categories get the
// market-adjusted decomposition; cash+savings gets a plain delta; the
// domestic/overseas roll-ups sum their three categories.
func buildRow(curr, prev *EntryMetrics, fallbackRate float64) models.SettlementRow {
	row := models.SettlementRow{
		Date:       curr.Entry.Date,
		TotalValue: curr.Entry.TotalValue,
		Categories: make(map[models.Category]models.CategoryMetrics, len(models.InvestmentCategories)),
	}

	for _, cat := range models.InvestmentCategories {
		row.Categories[cat] = MarketAdjustedChange(curr, prev, cat, fallbackRate)
	}

	var prevCashSavings float64
	if prev != nil {
		prevCashSavings = prev.CashSavings
	}
	row.CashSavings = simpleChange(curr.CashSavings, prevCashSavings, prev != nil)

	row.Domestic = rollUp(row.Categories, models.MarketDomestic, prevMarket(prev, models.MarketDomestic))
	row.Overseas = rollUp(row.Categories, models.MarketOverseas, prevMarket(prev, models.MarketOverseas))

	return row
}

func prevMarket(prev *EntryMetrics, mt models.MarketType) float64 {
	if prev == nil {
		return 0
	}
	if mt == models.MarketDomestic {
		return prev.Domestic
	}
	return prev.Overseas
}

// rollUp aggregates the three per-category metrics of one market side.
// Percent is recomputed against the side's previous total, not averaged.
func rollUp(categories map[models.Category]models.CategoryMetrics, mt models.MarketType, prevTotal float64) models.CategoryMetrics {
	var out models.CategoryMetrics
	for _, cat := range models.InvestmentCategories {
		if cat.Market() != mt {
			continue
		}
		m := categories[cat]
		out.Current += m.Current
		out.Change += m.Change
	}
	if prevTotal > 0 {
		out.Percent = out.Change / prevTotal * 100
	}
	return out
}

// buildRows folds an ordered entry series into settlement rows, each entry
// compared against its predecessor in the same series.
func buildRows(entries []*models.HistoryEntry, fallbackRate float64) []models.SettlementRow {
	rows := make([]models.SettlementRow, 0, len(entries))
	var prev *EntryMetrics
	for _, e := range entries {
		curr := BuildEntryMetrics(e, fallbackRate)
		rows = append(rows, buildRow(curr, prev, fallbackRate))
		prev = curr
	}
	return rows
}

// DailySettlements produces one settlement row per snapshot that carries
// holdings, compared against the preceding such snapshot. Pure-manual
// entries are excluded from the daily series.
func DailySettlements(history []*models.HistoryEntry, fallbackRate float64) []models.SettlementRow {
	entries := sortedByDate(history)
	filtered := make([]*models.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.HasHoldings() {
			filtered = append(filtered, e)
		}
	}
	return buildRows(filtered, fallbackRate)
}

// weekKey returns the Monday of the entry's week. Buckets run Monday
// through Saturday; a Sunday entry joins the bucket of its preceding
// Monday.
func weekKey(date string) string {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return date
	}
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return t.AddDate(0, 0, -offset).Format(models.DateLayout)
}

// WeeklySettlements groups snapshots into calendar-week buckets, selecting
// the latest entry in each bucket as the week's representative and
// comparing it against the prior week's representative.
func WeeklySettlements(history []*models.HistoryEntry, fallbackRate float64) []models.SettlementRow {
	return bucketSettlements(history, fallbackRate, weekKey, false)
}

// MonthlySettlements groups snapshots by calendar month, selecting the
// latest entry in each month. A month whose representative carries no
// holdings is flagged as manual: it is most likely a hand-entered summary
// rather than a computed snapshot.
func MonthlySettlements(history []*models.HistoryEntry, fallbackRate float64) []models.SettlementRow {
	return bucketSettlements(history, fallbackRate, monthKey, true)
}

func monthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// bucketSettlements groups sorted entries by key and folds each bucket's
// representative (its latest entry) into the settlement series.
func bucketSettlements(history []*models.HistoryEntry, fallbackRate float64, key func(string) string, flagManual bool) []models.SettlementRow {
	entries := sortedByDate(history)
	if len(entries) == 0 {
		return nil
	}

	var representatives []*models.HistoryEntry
	for _, e := range entries {
		k := key(e.Date)
		if len(representatives) > 0 && key(representatives[len(representatives)-1].Date) == k {
			// Same bucket: later entry wins.
			representatives[len(representatives)-1] = e
			continue
		}
		representatives = append(representatives, e)
	}

	rows := buildRows(representatives, fallbackRate)
	if flagManual {
		for i := range rows {
			rows[i].IsManual = !representatives[i].HasHoldings()
		}
	}
	return rows
}
