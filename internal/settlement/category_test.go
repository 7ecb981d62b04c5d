package settlement

import (
	"testing"

	"github.com/minjaekwon/assetboard/internal/models"
)

func TestToReportingCurrency(t *testing.T) {
	// USD is converted at the supplied rate; KRW and anything unrecognized
	// passes through untouched (older records often omit currency).
	if got := ToReportingCurrency(100, "USD", 1350); got != 135000 {
		t.Errorf("USD conversion = %v, want 135000", got)
	}
	if got := ToReportingCurrency(100, "KRW", 1350); got != 100 {
		t.Errorf("KRW passthrough = %v, want 100", got)
	}
	if got := ToReportingCurrency(100, "", 1350); got != 100 {
		t.Errorf("empty currency passthrough = %v, want 100", got)
	}
	if got := ToReportingCurrency(100, "JPY", 1350); got != 100 {
		t.Errorf("unknown currency passthrough = %v, want 100", got)
	}
}

func TestInferCategory(t *testing.T) {
	cases := []struct {
		name string
		pos  models.Position
		want models.Category
	}{
		{"explicit category wins", models.Position{Symbol: "AAPL", Category: models.CategoryOverseasIndex}, models.CategoryOverseasIndex},
		{"KS suffix", models.Position{Symbol: "005930.KS", MarketType: models.MarketOverseas}, models.CategoryDomesticStock},
		{"KQ suffix", models.Position{Symbol: "035720.KQ"}, models.CategoryDomesticStock},
		{"bare 6-digit code", models.Position{Symbol: "005930"}, models.CategoryDomesticStock},
		{"overseas market type", models.Position{Symbol: "AAPL", MarketType: models.MarketOverseas}, models.CategoryOverseasStock},
		{"no signal defaults domestic", models.Position{Symbol: "AAPL"}, models.CategoryDomesticStock},
		{"6 chars but not digits", models.Position{Symbol: "ABCDEF", MarketType: models.MarketOverseas}, models.CategoryOverseasStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := InferCategory(tc.pos); got != tc.want {
				t.Errorf("InferCategory(%q) = %s, want %s", tc.pos.Symbol, got, tc.want)
			}
		})
	}
}

func TestCategoryValue_AllocationValue(t *testing.T) {
	e := &models.HistoryEntry{
		Date:       "2024-01-02",
		TotalValue: 1_000_000,
		Allocations: []models.Allocation{
			{Category: models.CategorySavings, Value: 200_000, Currency: "KRW"},
		},
	}
	if got := CategoryValue(e, models.CategorySavings, 1350); got != 200_000 {
		t.Errorf("savings = %v, want 200000", got)
	}
}

func TestCategoryValue_DetailsSupersedeValue(t *testing.T) {
	// Itemized details replace the single recorded value entirely:
	// 60000 KRW + 40 USD at rate 1000 = 100000.
	e := &models.HistoryEntry{
		Date:       "2024-01-02",
		TotalValue: 1_000_000,
		Allocations: []models.Allocation{
			{
				Category: models.CategorySavings,
				Value:    999_999, // ignored once details exist
				Currency: "KRW",
				Details: []models.AllocationDetail{
					{Label: "bank a", Value: 60_000, Currency: "KRW"},
					{Label: "bank b", Value: 40, Currency: "USD"},
				},
			},
		},
		ExchangeRate: 1000,
	}
	if got := CategoryValue(e, models.CategorySavings, 1350); got != 100_000 {
		t.Errorf("detailed savings = %v, want 100000", got)
	}
}

func TestCategoryValue_HoldingsFallback(t *testing.T) {
	// No allocation recorded for domestic stock: derive from holdings.
	// 100 shares at price 10000 = 1000000.
	e := &models.HistoryEntry{
		Date:       "2024-01-02",
		TotalValue: 1_500_000,
		Holdings: []models.Position{
			{Symbol: "005930", Shares: 100, AvgPrice: 9000, CurrentPrice: 10000, Currency: "KRW"},
		},
	}
	if got := CategoryValue(e, models.CategoryDomesticStock, 1350); got != 1_000_000 {
		t.Errorf("domestic stock from holdings = %v, want 1000000", got)
	}
}

func TestCategoryValue_PriceFallsBackToAvg(t *testing.T) {
	// CurrentPrice absent: value at average cost.
	e := &models.HistoryEntry{
		Date:       "2024-01-02",
		TotalValue: 100_000,
		Holdings: []models.Position{
			{Symbol: "005930", Shares: 10, AvgPrice: 9000, Currency: "KRW"},
		},
	}
	if got := CategoryValue(e, models.CategoryDomesticStock, 1350); got != 90_000 {
		t.Errorf("avg-price fallback = %v, want 90000", got)
	}
}

func TestCategoryValue_CashResidual(t *testing.T) {
	// Cash has no recorded value, so it is the residual:
	// 1000000 total - 200000 savings - 300000 stock holdings = 500000.
	e := &models.HistoryEntry{
		Date:       "2024-01-02",
		TotalValue: 1_000_000,
		Allocations: []models.Allocation{
			{Category: models.CategorySavings, Value: 200_000, Currency: "KRW"},
		},
		Holdings: []models.Position{
			{Symbol: "005930", Shares: 30, AvgPrice: 10000, CurrentPrice: 10000, Currency: "KRW"},
		},
	}
	if got := CategoryValue(e, models.CategoryCash, 1350); got != 500_000 {
		t.Errorf("cash residual = %v, want 500000", got)
	}
}

func TestCategoryValue_CashNeverNegative(t *testing.T) {
	// Other categories exceed the total; residual cash floors at zero.
	e := &models.HistoryEntry{
		Date:       "2024-01-02",
		TotalValue: 100_000,
		Allocations: []models.Allocation{
			{Category: models.CategorySavings, Value: 200_000, Currency: "KRW"},
		},
	}
	if got := CategoryValue(e, models.CategoryCash, 1350); got != 0 {
		t.Errorf("cash floor = %v, want 0", got)
	}
}

func TestCategoryValue_ExplicitCashWins(t *testing.T) {
	e := &models.HistoryEntry{
		Date:       "2024-01-02",
		TotalValue: 1_000_000,
		Allocations: []models.Allocation{
			{Category: models.CategoryCash, Value: 123_456, Currency: "KRW"},
		},
	}
	if got := CategoryValue(e, models.CategoryCash, 1350); got != 123_456 {
		t.Errorf("explicit cash = %v, want 123456", got)
	}
}

func TestCategoryValue_EmptyEntryIsZero(t *testing.T) {
	e := &models.HistoryEntry{Date: "2024-01-02"}
	for _, cat := range models.CategoryOrder {
		if got := CategoryValue(e, cat, 1350); got != 0 {
			t.Errorf("empty entry %s = %v, want 0", cat, got)
		}
	}
}
