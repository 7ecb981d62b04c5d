package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/minjaekwon/assetboard/internal/common"
	"github.com/minjaekwon/assetboard/internal/interfaces"
)

// scheduler runs the recurring background jobs: the daily snapshot and
// the benchmark index refresh. Schedules are evaluated in Seoul time so
// "after the domestic close" means what the config says it means.
type scheduler struct {
	cron    *cron.Cron
	config  *common.Config
	history interfaces.HistoryService
	market  interfaces.MarketService
	logger  *common.Logger
}

func newScheduler(config *common.Config, history interfaces.HistoryService, market interfaces.MarketService, logger *common.Logger) (*scheduler, error) {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.FixedZone("KST", 9*60*60)
	}

	s := &scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		config:  config,
		history: history,
		market:  market,
		logger:  logger,
	}

	spec := config.Settlement.SnapshotSchedule
	if spec == "" {
		logger.Info().Msg("Snapshot schedule empty, background jobs disabled")
		return s, nil
	}

	if _, err := s.cron.AddFunc(spec, s.runSnapshot); err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", spec, err)
	}

	return s, nil
}

// Start begins executing scheduled jobs.
func (s *scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Str("schedule", s.config.Settlement.SnapshotSchedule).Msg("Scheduler started")
}

// Stop halts the scheduler and waits for any running job to finish.
func (s *scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		s.logger.Warn().Msg("Timed out waiting for scheduled jobs to finish")
	}
	s.logger.Info().Msg("Scheduler stopped")
}

// runSnapshot refreshes the benchmark series and records a snapshot of
// the current portfolio. Benchmark failures are logged but do not block
// the snapshot itself.
func (s *scheduler) runSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()

	symbols := make([]string, 0, len(s.config.Settlement.Benchmarks))
	for _, b := range s.config.Settlement.Benchmarks {
		symbols = append(symbols, b.Symbol)
	}
	if len(symbols) > 0 {
		if err := s.market.RefreshIndexSeries(ctx, symbols, "1y"); err != nil {
			s.logger.Warn().Err(err).Msg("Benchmark refresh incomplete")
		}
	}

	entry, err := s.history.Snapshot(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Scheduled snapshot failed")
		return
	}

	s.logger.Info().
		Str("date", entry.Date).
		Float64("total_value", entry.TotalValue).
		Dur("elapsed", time.Since(start)).
		Msg("Scheduled snapshot recorded")
}
