// Package common provides shared utilities for Assetboard
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Assetboard
type Config struct {
	Environment string           `toml:"environment"`
	Server      ServerConfig     `toml:"server"`
	Storage     StorageConfig    `toml:"storage"`
	Market      MarketConfig     `toml:"market"`
	Settlement  SettlementConfig `toml:"settlement"`
	Logging     LoggingConfig    `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds path configuration for the two storage areas.
type StorageConfig struct {
	Asset  AreaConfig `toml:"asset"`  // Snapshots, investments, allocations (BadgerHold)
	Market AreaConfig `toml:"market"` // Benchmark index series (file-based JSON)
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// MarketConfig holds market data client configuration
type MarketConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
	QuoteTTL  string `toml:"quote_ttl"`
}

// GetTimeout parses and returns the HTTP timeout duration
func (c *MarketConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetQuoteTTL parses and returns the quote cache TTL
func (c *MarketConfig) GetQuoteTTL() time.Duration {
	d, err := time.ParseDuration(c.QuoteTTL)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

// BenchmarkConfig identifies one tracked market index.
type BenchmarkConfig struct {
	Symbol string `toml:"symbol"`
	Name   string `toml:"name"`
}

// SettlementConfig holds settlement engine configuration
type SettlementConfig struct {
	FallbackExchangeRate float64           `toml:"fallback_exchange_rate"` // USD/KRW used when a snapshot has no recorded rate
	Benchmarks           []BenchmarkConfig `toml:"benchmarks"`
	SnapshotSchedule     string            `toml:"snapshot_schedule"` // cron spec for the auto-snapshot job
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8090,
		},
		Storage: StorageConfig{
			Asset:  AreaConfig{Path: "data/asset"},
			Market: AreaConfig{Path: "data/market"},
		},
		Market: MarketConfig{
			BaseURL:   "https://query1.finance.yahoo.com",
			RateLimit: 5,
			Timeout:   "30s",
			QuoteTTL:  "10m",
		},
		Settlement: SettlementConfig{
			FallbackExchangeRate: 1350,
			Benchmarks: []BenchmarkConfig{
				{Symbol: "^KS11", Name: "KOSPI"},
				{Symbol: "^KQ11", Name: "KOSDAQ"},
				{Symbol: "^GSPC", Name: "S&P 500"},
				{Symbol: "^IXIC", Name: "NASDAQ"},
			},
			// Weekday evenings after the domestic close; overseas closes land
			// on the next morning's refresh.
			SnapshotSchedule: "0 18 * * 1-6",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ASSETBOARD_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("ASSETBOARD_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("ASSETBOARD_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("ASSETBOARD_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("ASSETBOARD_DATA_PATH"); path != "" {
		config.Storage.Asset.Path = filepath.Join(path, "asset")
		config.Storage.Market.Path = filepath.Join(path, "market")
	}

	if rate := os.Getenv("ASSETBOARD_FALLBACK_RATE"); rate != "" {
		if r, err := strconv.ParseFloat(rate, 64); err == nil && r > 0 {
			config.Settlement.FallbackExchangeRate = r
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
