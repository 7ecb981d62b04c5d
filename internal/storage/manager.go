// Package storage provides the top-level StorageManager coordinating
// the two storage areas: assetdb (BadgerHold) and marketfs (JSON files).
package storage

import (
	"fmt"

	"github.com/minjaekwon/assetboard/internal/common"
	"github.com/minjaekwon/assetboard/internal/interfaces"
	"github.com/minjaekwon/assetboard/internal/storage/assetdb"
	"github.com/minjaekwon/assetboard/internal/storage/marketfs"
)

// Manager implements interfaces.StorageManager over the two areas.
type Manager struct {
	asset  *assetdb.Store
	market *marketfs.Store
	logger *common.Logger
}

// NewManager opens both storage areas from config.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	assetStore, err := assetdb.NewStore(logger, config.Storage.Asset.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset store: %w", err)
	}

	marketStore, err := marketfs.NewMarketStore(logger, config.Storage.Market.Path)
	if err != nil {
		assetStore.Close()
		return nil, fmt.Errorf("failed to create market store: %w", err)
	}

	logger.Info().
		Str("asset", config.Storage.Asset.Path).
		Str("market", config.Storage.Market.Path).
		Msg("Storage manager initialized (2 areas)")

	return &Manager{
		asset:  assetStore,
		market: marketStore,
		logger: logger,
	}, nil
}

func (m *Manager) HistoryStore() interfaces.HistoryStore {
	return m.asset
}

func (m *Manager) PortfolioStore() interfaces.PortfolioStore {
	return m.asset
}

func (m *Manager) MarketDataStore() interfaces.MarketDataStore {
	return m.market
}

func (m *Manager) DataPath() string {
	return m.market.DataPath()
}

func (m *Manager) WriteRaw(subdir, name string, data []byte) error {
	return m.market.WriteRaw(subdir, name, data)
}

// PurgeMarketData drops all cached index series, forcing a re-download
// on next use.
func (m *Manager) PurgeMarketData() int {
	count := m.market.PurgeIndexes()
	m.logger.Info().Int("count", count).Msg("Market data purged")
	return count
}

func (m *Manager) Close() error {
	var firstErr error
	if err := m.asset.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := m.market.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
