package interfaces

import (
	"context"

	"github.com/minjaekwon/assetboard/internal/models"
)

// HistoryService orchestrates history entries, settlements and comparisons.
type HistoryService interface {
	GetEntry(date string) (*models.HistoryEntry, error)
	ListEntries() ([]*models.HistoryEntry, error)
	UpsertEntry(entry *models.HistoryEntry) (*models.HistoryEntry, error)
	DeleteEntry(date string) error

	// Snapshot builds today's entry from the current portfolio at live
	// prices and persists it, preserving any manual adjustment already
	// recorded for the date.
	Snapshot(ctx context.Context) (*models.HistoryEntry, error)

	DailySettlements() ([]models.SettlementRow, error)
	WeeklySettlements() ([]models.SettlementRow, error)
	MonthlySettlements() ([]models.SettlementRow, error)

	ComparisonSeries(ctx context.Context, period string) ([]models.ComparisonPoint, error)
	RenderComparisonChart(ctx context.Context, period string) ([]byte, error)
}

// MarketService serves quotes and index data with short-lived caching.
type MarketService interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
	GetExchangeRate(ctx context.Context) (*models.ExchangeRate, error)
	GetIndexSeries(ctx context.Context, symbol, period string) (*models.IndexSeries, error)
	RefreshIndexSeries(ctx context.Context, symbols []string, period string) error
}
