package interfaces

import (
	"github.com/minjaekwon/assetboard/internal/models"
)

// StorageManager owns the persistence areas and hands out typed stores.
type StorageManager interface {
	HistoryStore() HistoryStore
	PortfolioStore() PortfolioStore
	MarketDataStore() MarketDataStore

	// DataPath returns the root directory of the market area, which
	// also hosts rendered charts and raw exports.
	DataPath() string

	// WriteRaw writes an arbitrary document into a subdirectory of the
	// market area, primarily for rendered charts and debug dumps.
	WriteRaw(subdir, name string, data []byte) error

	Close() error
}

// HistoryStore persists daily history entries keyed by date.
type HistoryStore interface {
	GetEntry(date string) (*models.HistoryEntry, error)
	UpsertEntry(entry *models.HistoryEntry) error
	DeleteEntry(date string) error
	ListEntries() ([]*models.HistoryEntry, error)
	ListRange(from, to string) ([]*models.HistoryEntry, error)
}

// PortfolioStore persists the current holdings and allocation targets.
type PortfolioStore interface {
	SaveInvestment(inv *models.Investment) error
	GetInvestment(id string) (*models.Investment, error)
	DeleteInvestment(id string) error
	ListInvestments() ([]*models.Investment, error)

	SaveAllocation(alloc *models.Allocation) error
	GetAllocation(category models.Category) (*models.Allocation, error)
	DeleteAllocation(category models.Category) error
	ListAllocations() ([]*models.Allocation, error)
}

// MarketDataStore caches downloaded index series on disk.
type MarketDataStore interface {
	GetIndexSeries(symbol string) (*models.IndexSeries, error)
	SaveIndexSeries(series *models.IndexSeries) error
	ListIndexSeries() ([]string, error)
}
