// Package marketfs implements file-based JSON storage for downloaded
// index series. One file per symbol keeps the cache inspectable and
// trivially portable between machines.
package marketfs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/minjaekwon/assetboard/internal/common"
	"github.com/minjaekwon/assetboard/internal/models"
)

// Store provides file-based JSON storage for index series.
type Store struct {
	basePath string
	indexDir string
	logger   *common.Logger
}

// NewMarketStore creates a new market file store rooted at path.
func NewMarketStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create market store path %s: %w", path, err)
	}
	indexDir := filepath.Join(path, "indexes")
	if err := os.MkdirAll(indexDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory %s: %w", indexDir, err)
	}

	logger.Info().Str("path", path).Msg("MarketFS store opened")
	return &Store{
		basePath: path,
		indexDir: indexDir,
		logger:   logger,
	}, nil
}

// DataPath returns the base data path.
func (s *Store) DataPath() string {
	return s.basePath
}

// GetIndexSeries loads the cached series for symbol.
func (s *Store) GetIndexSeries(symbol string) (*models.IndexSeries, error) {
	var series models.IndexSeries
	if err := readJSON(s.indexDir, symbol, &series); err != nil {
		return nil, fmt.Errorf("index series for '%s' not found", symbol)
	}
	return &series, nil
}

// SaveIndexSeries writes the series for its symbol, sorting bars by date
// so lookups can binary-search.
func (s *Store) SaveIndexSeries(series *models.IndexSeries) error {
	if strings.TrimSpace(series.Symbol) == "" {
		return fmt.Errorf("index series symbol is required")
	}
	sort.Slice(series.Bars, func(i, j int) bool {
		return series.Bars[i].Date < series.Bars[j].Date
	})
	series.LastUpdated = time.Now()
	if err := writeJSON(s.indexDir, series.Symbol, series); err != nil {
		return fmt.Errorf("failed to save index series '%s': %w", series.Symbol, err)
	}
	s.logger.Debug().Str("symbol", series.Symbol).Int("bars", len(series.Bars)).Msg("Index series saved")
	return nil
}

// ListIndexSeries returns the symbols with a cached series.
func (s *Store) ListIndexSeries() ([]string, error) {
	return listKeys(s.indexDir)
}

// WriteRaw writes arbitrary binary data to a subdirectory atomically.
func (s *Store) WriteRaw(subdir, name string, data []byte) error {
	dir := filepath.Join(s.basePath, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	target := filepath.Join(dir, sanitizeKey(name))

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// PurgeIndexes removes all cached series files and returns the count.
func (s *Store) PurgeIndexes() int {
	keys, err := listKeys(s.indexDir)
	if err != nil {
		return 0
	}
	count := 0
	for _, key := range keys {
		os.Remove(filePath(s.indexDir, key))
		count++
	}
	return count
}

// Close is a no-op for file-based storage.
func (s *Store) Close() error {
	return nil
}

// --- helpers ---

func sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

func filePath(dir, key string) string {
	return filepath.Join(dir, sanitizeKey(key)+".json")
}

func readJSON(dir, key string, dest interface{}) error {
	path := filePath(dir, key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("'%s' not found", key)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("'%s' is empty", key)
	}
	return json.Unmarshal(data, dest)
}

func writeJSON(dir, key string, data interface{}) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	target := filePath(dir, key)
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(jsonData); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func listKeys(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".json") && !strings.HasPrefix(name, ".tmp-") {
			keys = append(keys, strings.TrimSuffix(name, ".json"))
		}
	}
	return keys, nil
}
