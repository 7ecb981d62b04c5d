// Package app wires configuration, storage, clients and services into
// the shared core used by cmd/assetboard-server.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/minjaekwon/assetboard/internal/clients/yahoo"
	"github.com/minjaekwon/assetboard/internal/common"
	"github.com/minjaekwon/assetboard/internal/interfaces"
	"github.com/minjaekwon/assetboard/internal/services/history"
	"github.com/minjaekwon/assetboard/internal/services/market"
	"github.com/minjaekwon/assetboard/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config       *common.Config
	Logger       *common.Logger
	Storage      interfaces.StorageManager
	MarketClient interfaces.MarketClient
	Market       interfaces.MarketService
	History      interfaces.HistoryService
	StartupTime  time.Time

	scheduler *scheduler
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - check provided path, ASSETBOARD_CONFIG, then
	// binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("ASSETBOARD_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "assetboard.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/assetboard.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage paths to the binary directory
	if config.Storage.Asset.Path != "" && !filepath.IsAbs(config.Storage.Asset.Path) {
		config.Storage.Asset.Path = filepath.Join(binDir, config.Storage.Asset.Path)
	}
	if config.Storage.Market.Path != "" && !filepath.IsAbs(config.Storage.Market.Path) {
		config.Storage.Market.Path = filepath.Join(binDir, config.Storage.Market.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	clientOpts := []yahoo.ClientOption{
		yahoo.WithLogger(logger),
		yahoo.WithTimeout(config.Market.GetTimeout()),
	}
	if config.Market.BaseURL != "" {
		clientOpts = append(clientOpts, yahoo.WithBaseURL(config.Market.BaseURL))
	}
	if config.Market.RateLimit > 0 {
		clientOpts = append(clientOpts, yahoo.WithRateLimit(config.Market.RateLimit))
	}
	marketClient := yahoo.NewClient(clientOpts...)

	marketService := market.NewService(marketClient, storageManager.MarketDataStore(), logger, config.Market.GetQuoteTTL())
	historyService := history.NewService(storageManager, marketService, config, logger)

	a := &App{
		Config:       config,
		Logger:       logger,
		Storage:      storageManager,
		MarketClient: marketClient,
		Market:       marketService,
		History:      historyService,
		StartupTime:  startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// StartScheduler launches the cron jobs (auto-snapshot, benchmark refresh).
func (a *App) StartScheduler() error {
	sched, err := newScheduler(a.Config, a.History, a.Market, a.Logger)
	if err != nil {
		return err
	}
	sched.Start()
	a.scheduler = sched
	return nil
}

// Close releases all resources held by the App.
// Shutdown order: stop scheduler, close storage.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
		a.scheduler = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
