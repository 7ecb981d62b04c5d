package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minjaekwon/assetboard/internal/models"
)

func TestDailySettlements_FiltersManualEntries(t *testing.T) {
	history := []*models.HistoryEntry{
		stockEntry("2024-01-01", 1_000_000, domesticPos("AAA", 100, 10000, 10000)),
		{Date: "2024-01-02", TotalValue: 5_000_000}, // manual entry, no holdings
		stockEntry("2024-01-03", 1_100_000, domesticPos("AAA", 100, 10000, 11000)),
	}

	rows := DailySettlements(history, 1350)

	require.Len(t, rows, 2)
	assert.Equal(t, "2024-01-01", rows[0].Date)
	assert.Equal(t, "2024-01-03", rows[1].Date)
	// The Jan 3 row compares against Jan 1, skipping the manual entry.
	assert.InDelta(t, 100_000, rows[1].Categories[models.CategoryDomesticStock].Change, 0.01)
	assert.InDelta(t, 10, rows[1].Categories[models.CategoryDomesticStock].Percent, 0.001)
}

func TestDailySettlements_SortsDefensively(t *testing.T) {
	history := []*models.HistoryEntry{
		stockEntry("2024-01-02", 1_100_000, domesticPos("AAA", 100, 10000, 11000)),
		stockEntry("2024-01-01", 1_000_000, domesticPos("AAA", 100, 10000, 10000)),
	}

	rows := DailySettlements(history, 1350)

	require.Len(t, rows, 2)
	assert.Equal(t, "2024-01-01", rows[0].Date)
	assert.Zero(t, rows[0].Categories[models.CategoryDomesticStock].Change)
	assert.InDelta(t, 100_000, rows[1].Categories[models.CategoryDomesticStock].Change, 0.01)
}

func TestWeeklySettlements_CollapsesWithinWeek(t *testing.T) {
	// Tue Jan 2 and Thu Jan 4 share the Mon Jan 1 bucket; the Thursday
	// entry is the week's representative. Tue Jan 9 opens the next week.
	history := []*models.HistoryEntry{
		stockEntry("2024-01-02", 1_000_000, domesticPos("AAA", 100, 10000, 10000)),
		stockEntry("2024-01-04", 1_100_000, domesticPos("AAA", 100, 10000, 11000)),
		stockEntry("2024-01-09", 1_210_000, domesticPos("AAA", 100, 10000, 12100)),
	}

	rows := WeeklySettlements(history, 1350)

	require.Len(t, rows, 2)
	assert.Equal(t, "2024-01-04", rows[0].Date)
	assert.Equal(t, float64(1_100_000), rows[0].TotalValue)
	assert.Equal(t, "2024-01-09", rows[1].Date)
	// Week-over-week change: 100 shares x (12100 - 11000) = 110000.
	assert.InDelta(t, 110_000, rows[1].Categories[models.CategoryDomesticStock].Change, 0.01)
	assert.InDelta(t, 10, rows[1].Categories[models.CategoryDomesticStock].Percent, 0.001)
}

func TestWeeklySettlements_SundayJoinsPrecedingWeek(t *testing.T) {
	// Sun Jan 7 falls in the bucket of Mon Jan 1, alongside Thu Jan 4.
	history := []*models.HistoryEntry{
		stockEntry("2024-01-04", 1_000_000, domesticPos("AAA", 100, 10000, 10000)),
		stockEntry("2024-01-07", 1_050_000, domesticPos("AAA", 100, 10000, 10500)),
	}

	rows := WeeklySettlements(history, 1350)

	require.Len(t, rows, 1)
	assert.Equal(t, "2024-01-07", rows[0].Date)
}

func TestMonthlySettlements_LatestEntryRepresents(t *testing.T) {
	history := []*models.HistoryEntry{
		stockEntry("2024-01-10", 1_000_000, domesticPos("AAA", 100, 10000, 10000)),
		stockEntry("2024-01-31", 1_100_000, domesticPos("AAA", 100, 10000, 11000)),
		stockEntry("2024-02-15", 1_210_000, domesticPos("AAA", 100, 10000, 12100)),
	}

	rows := MonthlySettlements(history, 1350)

	require.Len(t, rows, 2)
	assert.Equal(t, "2024-01-31", rows[0].Date)
	assert.Equal(t, "2024-02-15", rows[1].Date)
	// Month-over-month: 100 shares x (12100 - 11000) = 110000.
	assert.InDelta(t, 110_000, rows[1].Categories[models.CategoryDomesticStock].Change, 0.01)
	assert.False(t, rows[0].IsManual)
	assert.False(t, rows[1].IsManual)
}

func TestMonthlySettlements_FlagsManualMonths(t *testing.T) {
	history := []*models.HistoryEntry{
		stockEntry("2024-01-31", 1_000_000, domesticPos("AAA", 100, 10000, 10000)),
		{Date: "2024-02-29", TotalValue: 2_000_000}, // hand-entered summary
	}

	rows := MonthlySettlements(history, 1350)

	require.Len(t, rows, 2)
	assert.False(t, rows[0].IsManual)
	assert.True(t, rows[1].IsManual)
}

func TestSettlementRow_CashSavingsDelta(t *testing.T) {
	// Cash+savings uses a plain delta; there are no positions to replay.
	history := []*models.HistoryEntry{
		{
			Date: "2024-01-01", TotalValue: 500_000,
			Allocations: []models.Allocation{{Category: models.CategorySavings, Value: 500_000, Currency: "KRW"}},
			Holdings:    []models.Position{domesticPos("AAA", 1, 1, 1)},
		},
		{
			Date: "2024-01-02", TotalValue: 600_000,
			Allocations: []models.Allocation{{Category: models.CategorySavings, Value: 600_000, Currency: "KRW"}},
			Holdings:    []models.Position{domesticPos("AAA", 1, 1, 1)},
		},
	}

	rows := DailySettlements(history, 1350)

	require.Len(t, rows, 2)
	assert.InDelta(t, 100_000, rows[1].CashSavings.Change, 0.01)
	assert.InDelta(t, 20, rows[1].CashSavings.Percent, 0.001)
}

func TestSettlementRow_MarketRollUps(t *testing.T) {
	overseas := func(price float64) models.Position {
		return models.Position{
			Symbol: "AAPL", Shares: 10, AvgPrice: 100, CurrentPrice: price,
			Currency: "USD", MarketType: models.MarketOverseas, Category: models.CategoryOverseasStock,
		}
	}
	history := []*models.HistoryEntry{
		{Date: "2024-01-01", TotalValue: 2_300_000, ExchangeRate: 1300,
			Holdings: []models.Position{domesticPos("AAA", 100, 10000, 10000), overseas(100)}},
		{Date: "2024-01-02", TotalValue: 2_530_000, ExchangeRate: 1300,
			Holdings: []models.Position{domesticPos("AAA", 100, 10000, 11000), overseas(110)}},
	}

	rows := DailySettlements(history, 1350)

	require.Len(t, rows, 2)
	// Domestic: 100 x (11000 - 10000) = 100000 on 1000000 = 10%.
	assert.InDelta(t, 100_000, rows[1].Domestic.Change, 0.01)
	assert.InDelta(t, 10, rows[1].Domestic.Percent, 0.001)
	// Overseas: 10 x (110 - 100) x 1300 = 130000 on 1300000 = 10%.
	assert.InDelta(t, 130_000, rows[1].Overseas.Change, 0.01)
	assert.InDelta(t, 10, rows[1].Overseas.Percent, 0.001)
}
