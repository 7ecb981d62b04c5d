package interfaces

import (
	"context"

	"github.com/minjaekwon/assetboard/internal/models"
)

// MarketClient fetches quotes and index history from an external provider.
type MarketClient interface {
	// GetIndexSeries returns daily closes for symbol covering the period
	// (e.g. "1y", "6mo"). Bars are ascending by date.
	GetIndexSeries(ctx context.Context, symbol, period string) (*models.IndexSeries, error)

	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// GetExchangeRate returns the current USD/KRW rate.
	GetExchangeRate(ctx context.Context) (*models.ExchangeRate, error)
}
