// Package assetdb implements the history and portfolio stores using
// BadgerHold. History entries are keyed by date, investments by ID and
// allocations by category, all in a single database.
package assetdb

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/minjaekwon/assetboard/internal/common"
	"github.com/minjaekwon/assetboard/internal/models"
)

// Store implements interfaces.HistoryStore and interfaces.PortfolioStore.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens (or creates) the asset database at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create assetdb path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open assetdb at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("AssetDB opened")
	return &Store{db: db, logger: logger}, nil
}

// Key prefixes keep the three record kinds apart in one database.
const (
	historyPrefix    = "history\x00"
	investPrefix     = "investment\x00"
	allocationPrefix = "allocation\x00"
)

// --- HistoryStore ---

func (s *Store) GetEntry(date string) (*models.HistoryEntry, error) {
	var entry models.HistoryEntry
	if err := s.db.Get(historyPrefix+date, &entry); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("history entry '%s' not found", date)
		}
		return nil, fmt.Errorf("failed to get history entry '%s': %w", date, err)
	}
	return &entry, nil
}

func (s *Store) UpsertEntry(entry *models.HistoryEntry) error {
	if _, err := time.Parse(models.DateLayout, entry.Date); err != nil {
		return fmt.Errorf("invalid history date '%s': %w", entry.Date, err)
	}
	now := time.Now()
	var existing models.HistoryEntry
	if err := s.db.Get(historyPrefix+entry.Date, &existing); err == nil {
		entry.CreatedAt = existing.CreatedAt
	} else {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
	if err := s.db.Upsert(historyPrefix+entry.Date, entry); err != nil {
		return fmt.Errorf("failed to upsert history entry '%s': %w", entry.Date, err)
	}
	return nil
}

func (s *Store) DeleteEntry(date string) error {
	err := s.db.Delete(historyPrefix+date, models.HistoryEntry{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete history entry '%s': %w", date, err)
	}
	return nil
}

func (s *Store) ListEntries() ([]*models.HistoryEntry, error) {
	var all []models.HistoryEntry
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list history entries: %w", err)
	}
	result := make([]*models.HistoryEntry, 0, len(all))
	for i := range all {
		entry := all[i]
		result = append(result, &entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})
	return result, nil
}

func (s *Store) ListRange(from, to string) ([]*models.HistoryEntry, error) {
	all, err := s.ListEntries()
	if err != nil {
		return nil, err
	}
	var result []*models.HistoryEntry
	for _, entry := range all {
		if from != "" && entry.Date < from {
			continue
		}
		if to != "" && entry.Date > to {
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}

// --- PortfolioStore ---

func (s *Store) SaveInvestment(inv *models.Investment) error {
	if strings.TrimSpace(inv.ID) == "" {
		return fmt.Errorf("investment id is required")
	}
	now := time.Now()
	var existing models.Investment
	if err := s.db.Get(investPrefix+inv.ID, &existing); err == nil {
		inv.CreatedAt = existing.CreatedAt
	} else {
		inv.CreatedAt = now
	}
	inv.UpdatedAt = now
	if err := s.db.Upsert(investPrefix+inv.ID, inv); err != nil {
		return fmt.Errorf("failed to save investment '%s': %w", inv.ID, err)
	}
	return nil
}

func (s *Store) GetInvestment(id string) (*models.Investment, error) {
	var inv models.Investment
	if err := s.db.Get(investPrefix+id, &inv); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("investment '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get investment '%s': %w", id, err)
	}
	return &inv, nil
}

func (s *Store) DeleteInvestment(id string) error {
	err := s.db.Delete(investPrefix+id, models.Investment{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete investment '%s': %w", id, err)
	}
	return nil
}

func (s *Store) ListInvestments() ([]*models.Investment, error) {
	var all []models.Investment
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	result := make([]*models.Investment, 0, len(all))
	for i := range all {
		inv := all[i]
		result = append(result, &inv)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Position.Symbol < result[j].Position.Symbol
	})
	return result, nil
}

func (s *Store) SaveAllocation(alloc *models.Allocation) error {
	if alloc.Category == "" {
		return fmt.Errorf("allocation category is required")
	}
	alloc.UpdatedAt = time.Now()
	if err := s.db.Upsert(allocationPrefix+string(alloc.Category), alloc); err != nil {
		return fmt.Errorf("failed to save allocation '%s': %w", alloc.Category, err)
	}
	return nil
}

func (s *Store) GetAllocation(category models.Category) (*models.Allocation, error) {
	var alloc models.Allocation
	if err := s.db.Get(allocationPrefix+string(category), &alloc); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("allocation '%s' not found", category)
		}
		return nil, fmt.Errorf("failed to get allocation '%s': %w", category, err)
	}
	return &alloc, nil
}

func (s *Store) DeleteAllocation(category models.Category) error {
	err := s.db.Delete(allocationPrefix+string(category), models.Allocation{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete allocation '%s': %w", category, err)
	}
	return nil
}

func (s *Store) ListAllocations() ([]*models.Allocation, error) {
	var all []models.Allocation
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	result := make([]*models.Allocation, 0, len(all))
	for i := range all {
		alloc := all[i]
		result = append(result, &alloc)
	}
	sort.Slice(result, func(i, j int) bool {
		return models.CategoryRank(result[i].Category) < models.CategoryRank(result[j].Category)
	})
	return result, nil
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
