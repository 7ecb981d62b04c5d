// Package market provides quotes, exchange rates and benchmark index
// series with short-lived in-memory caching in front of the provider.
package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/minjaekwon/assetboard/internal/common"
	"github.com/minjaekwon/assetboard/internal/interfaces"
	"github.com/minjaekwon/assetboard/internal/models"
)

// DefaultQuoteTTL bounds how long a cached quote or exchange rate is
// served without hitting the provider again.
const DefaultQuoteTTL = 5 * time.Minute

// seriesMaxAge is the on-disk freshness window for index series. A
// cached series older than this is re-downloaded on access.
const seriesMaxAge = 6 * time.Hour

type cachedQuote struct {
	quote   *models.Quote
	fetched time.Time
}

type cachedRate struct {
	rate    *models.ExchangeRate
	fetched time.Time
}

// Service implements interfaces.MarketService.
type Service struct {
	client   interfaces.MarketClient
	store    interfaces.MarketDataStore
	logger   *common.Logger
	quoteTTL time.Duration
	now      func() time.Time // injectable clock for testing

	mu     sync.Mutex
	quotes map[string]cachedQuote
	fx     *cachedRate
}

// NewService creates a new market service. quoteTTL <= 0 selects
// DefaultQuoteTTL.
func NewService(client interfaces.MarketClient, store interfaces.MarketDataStore, logger *common.Logger, quoteTTL time.Duration) *Service {
	if quoteTTL <= 0 {
		quoteTTL = DefaultQuoteTTL
	}
	return &Service{
		client:   client,
		store:    store,
		logger:   logger,
		quoteTTL: quoteTTL,
		now:      time.Now,
		quotes:   make(map[string]cachedQuote),
	}
}

// GetQuote returns the latest price for symbol, served from cache when
// fetched within the TTL.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	s.mu.Lock()
	if cached, ok := s.quotes[symbol]; ok && s.now().Sub(cached.fetched) < s.quoteTTL {
		s.mu.Unlock()
		return cached.quote, nil
	}
	s.mu.Unlock()

	quote, err := s.client.GetQuote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote for '%s': %w", symbol, err)
	}

	s.mu.Lock()
	s.quotes[symbol] = cachedQuote{quote: quote, fetched: s.now()}
	s.mu.Unlock()

	s.logger.Debug().Str("symbol", symbol).Float64("price", quote.Price).Msg("Quote fetched")
	return quote, nil
}

// GetExchangeRate returns the current USD/KRW rate with the same TTL
// caching as quotes.
func (s *Service) GetExchangeRate(ctx context.Context) (*models.ExchangeRate, error) {
	s.mu.Lock()
	if s.fx != nil && s.now().Sub(s.fx.fetched) < s.quoteTTL {
		rate := s.fx.rate
		s.mu.Unlock()
		return rate, nil
	}
	s.mu.Unlock()

	rate, err := s.client.GetExchangeRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange rate: %w", err)
	}

	s.mu.Lock()
	s.fx = &cachedRate{rate: rate, fetched: s.now()}
	s.mu.Unlock()

	s.logger.Debug().Float64("rate", rate.Rate).Msg("Exchange rate fetched")
	return rate, nil
}

// GetIndexSeries returns the benchmark series for symbol, preferring the
// on-disk cache when fresh enough. A download failure falls back to a
// stale cached series rather than failing the caller.
func (s *Service) GetIndexSeries(ctx context.Context, symbol, period string) (*models.IndexSeries, error) {
	cached, cacheErr := s.store.GetIndexSeries(symbol)
	if cacheErr == nil && s.now().Sub(cached.LastUpdated) < seriesMaxAge {
		return cached, nil
	}

	series, err := s.client.GetIndexSeries(ctx, symbol, period)
	if err != nil {
		if cacheErr == nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Index download failed, serving stale cache")
			return cached, nil
		}
		return nil, fmt.Errorf("failed to fetch index series '%s': %w", symbol, err)
	}

	if err := s.store.SaveIndexSeries(series); err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache index series")
	}
	return series, nil
}

// RefreshIndexSeries force-downloads and caches the given symbols.
// Individual failures are logged and counted, not fatal to the batch.
func (s *Service) RefreshIndexSeries(ctx context.Context, symbols []string, period string) error {
	failed := 0
	for _, symbol := range symbols {
		series, err := s.client.GetIndexSeries(ctx, symbol, period)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Index refresh failed")
			failed++
			continue
		}
		if err := s.store.SaveIndexSeries(series); err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache index series")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to refresh %d of %d index series", failed, len(symbols))
	}
	return nil
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
