// Package history orchestrates snapshot entries, settlement windows and
// benchmark comparisons on top of the stores and the market service.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minjaekwon/assetboard/internal/common"
	"github.com/minjaekwon/assetboard/internal/interfaces"
	"github.com/minjaekwon/assetboard/internal/models"
	"github.com/minjaekwon/assetboard/internal/settlement"
)

// seoulLocation pins snapshot dates to the user's trading day regardless
// of server timezone.
var seoulLocation = mustLoadLocation("Asia/Seoul")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// Fallback to a fixed KST zone if tzdata is unavailable
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// DefaultComparisonPeriod is the benchmark download range used when the
// caller does not name one.
const DefaultComparisonPeriod = "1y"

// periodStarts maps a download period to the history window it covers.
var periodStarts = map[string]int{
	"1mo": 1,
	"3mo": 3,
	"6mo": 6,
	"1y":  12,
	"2y":  24,
}

// Service implements interfaces.HistoryService.
type Service struct {
	storage interfaces.StorageManager
	market  interfaces.MarketService
	config  *common.Config
	logger  *common.Logger
	now     func() time.Time // injectable clock for testing
}

// NewService creates a new history service.
func NewService(storage interfaces.StorageManager, market interfaces.MarketService, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		market:  market,
		config:  config,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Service) fallbackRate() float64 {
	if rate := s.config.Settlement.FallbackExchangeRate; rate > 0 {
		return rate
	}
	return settlement.DefaultExchangeRate
}

// GetEntry returns the entry for one date.
func (s *Service) GetEntry(date string) (*models.HistoryEntry, error) {
	return s.storage.HistoryStore().GetEntry(date)
}

// ListEntries returns all entries ascending by date.
func (s *Service) ListEntries() ([]*models.HistoryEntry, error) {
	return s.storage.HistoryStore().ListEntries()
}

// UpsertEntry validates and normalizes an entry before persisting it.
// Holdings without a category get one inferred; a zero TotalValue is
// derived from SnapshotValue plus ManualAdjustment.
func (s *Service) UpsertEntry(entry *models.HistoryEntry) (*models.HistoryEntry, error) {
	if strings.TrimSpace(entry.Date) == "" {
		return nil, fmt.Errorf("entry date is required")
	}
	if _, err := time.Parse(models.DateLayout, entry.Date); err != nil {
		return nil, fmt.Errorf("invalid date '%s': %w", entry.Date, err)
	}

	for i := range entry.Holdings {
		entry.Holdings[i].Category = settlement.InferCategory(entry.Holdings[i])
	}
	if entry.TotalValue == 0 {
		entry.TotalValue = entry.SnapshotValue + entry.ManualAdjustment
	}
	if entry.SnapshotValue == 0 && entry.TotalValue != 0 {
		entry.SnapshotValue = entry.TotalValue - entry.ManualAdjustment
	}

	if err := s.storage.HistoryStore().UpsertEntry(entry); err != nil {
		return nil, err
	}
	s.logger.Info().Str("date", entry.Date).Float64("total", entry.TotalValue).Msg("History entry saved")
	return entry, nil
}

// DeleteEntry removes the entry for one date.
func (s *Service) DeleteEntry(date string) error {
	if err := s.storage.HistoryStore().DeleteEntry(date); err != nil {
		return err
	}
	s.logger.Info().Str("date", date).Msg("History entry deleted")
	return nil
}

// Snapshot builds and persists today's entry from the live portfolio.
// Any manual adjustment already recorded for today carries over.
func (s *Service) Snapshot(ctx context.Context) (*models.HistoryEntry, error) {
	investments, err := s.storage.PortfolioStore().ListInvestments()
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	allocations, err := s.storage.PortfolioStore().ListAllocations()
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}

	rate := s.fallbackRate()
	if fx, err := s.market.GetExchangeRate(ctx); err == nil && fx.Rate > 0 {
		rate = fx.Rate
	} else if err != nil {
		s.logger.Warn().Err(err).Float64("fallback", rate).Msg("Exchange rate unavailable, using fallback")
	}

	holdings := make([]models.Position, 0, len(investments))
	for _, inv := range investments {
		pos := inv.Position
		if quote, err := s.market.GetQuote(ctx, pos.Symbol); err == nil && quote.Price > 0 {
			pos.CurrentPrice = quote.Price
			if pos.Currency == "" {
				pos.Currency = quote.Currency
			}
		} else if err != nil {
			s.logger.Warn().Err(err).Str("symbol", pos.Symbol).Msg("Quote unavailable, keeping stored price")
		}
		pos.Category = settlement.InferCategory(pos)
		holdings = append(holdings, pos)
	}

	entry := &models.HistoryEntry{
		Date:         s.now().In(seoulLocation).Format(models.DateLayout),
		ExchangeRate: rate,
		Holdings:     holdings,
	}
	for _, alloc := range allocations {
		entry.Allocations = append(entry.Allocations, *alloc)
	}

	// Machine total: sum every category over the assembled entry. The
	// cash residual contributes nothing here since TotalValue is still 0;
	// live cash must come from an explicit allocation.
	var snapshotValue float64
	for _, cat := range models.CategoryOrder {
		snapshotValue += settlement.CategoryValue(entry, cat, rate)
	}
	entry.SnapshotValue = snapshotValue

	if existing, err := s.storage.HistoryStore().GetEntry(entry.Date); err == nil {
		entry.ManualAdjustment = existing.ManualAdjustment
	}
	entry.TotalValue = entry.SnapshotValue + entry.ManualAdjustment

	if err := s.storage.HistoryStore().UpsertEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to persist snapshot: %w", err)
	}

	s.logger.Info().
		Str("date", entry.Date).
		Float64("snapshot_value", entry.SnapshotValue).
		Int("holdings", len(entry.Holdings)).
		Msg("Snapshot taken")
	return entry, nil
}

// DailySettlements returns the per-snapshot settlement rows.
func (s *Service) DailySettlements() ([]models.SettlementRow, error) {
	entries, err := s.storage.HistoryStore().ListEntries()
	if err != nil {
		return nil, err
	}
	return settlement.DailySettlements(entries, s.fallbackRate()), nil
}

// WeeklySettlements returns one settlement row per week.
func (s *Service) WeeklySettlements() ([]models.SettlementRow, error) {
	entries, err := s.storage.HistoryStore().ListEntries()
	if err != nil {
		return nil, err
	}
	return settlement.WeeklySettlements(entries, s.fallbackRate()), nil
}

// MonthlySettlements returns one settlement row per month.
func (s *Service) MonthlySettlements() ([]models.SettlementRow, error) {
	entries, err := s.storage.HistoryStore().ListEntries()
	if err != nil {
		return nil, err
	}
	return settlement.MonthlySettlements(entries, s.fallbackRate()), nil
}

// ComparisonSeries builds the benchmark comparison over the given period
// (e.g. "6mo", "1y"). Benchmarks that cannot be loaded are skipped.
func (s *Service) ComparisonSeries(ctx context.Context, period string) ([]models.ComparisonPoint, error) {
	if period == "" {
		period = DefaultComparisonPeriod
	}

	from := ""
	if months, ok := periodStarts[period]; ok {
		from = s.now().In(seoulLocation).AddDate(0, -months, 0).Format(models.DateLayout)
	}
	entries, err := s.storage.HistoryStore().ListRange(from, "")
	if err != nil {
		return nil, err
	}

	var benchmarks []*models.IndexSeries
	for _, b := range s.config.Settlement.Benchmarks {
		series, err := s.market.GetIndexSeries(ctx, b.Symbol, period)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", b.Symbol).Msg("Benchmark unavailable, skipping")
			continue
		}
		if b.Name != "" {
			series.Name = b.Name
		}
		benchmarks = append(benchmarks, series)
	}

	return settlement.BuildComparisonSeries(entries, benchmarks, s.fallbackRate()), nil
}

// RenderComparisonChart renders the comparison series as a PNG and keeps
// a copy under the data path.
func (s *Service) RenderComparisonChart(ctx context.Context, period string) ([]byte, error) {
	points, err := s.ComparisonSeries(ctx, period)
	if err != nil {
		return nil, err
	}
	png, err := renderComparisonChart(points)
	if err != nil {
		return nil, err
	}
	if err := s.storage.WriteRaw("charts", "comparison.png", png); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist comparison chart")
	}
	return png, nil
}

// Ensure Service implements HistoryService
var _ interfaces.HistoryService = (*Service)(nil)
