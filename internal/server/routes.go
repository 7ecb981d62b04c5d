package server

import (
	"net/http"
	"time"

	"github.com/minjaekwon/assetboard/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// History
	mux.HandleFunc("/api/history/snapshot", s.handleSnapshot)
	mux.HandleFunc("/api/history/", s.handleHistoryByDate)
	mux.HandleFunc("/api/history", s.handleHistory)

	// Settlement
	mux.HandleFunc("/api/settlement/daily", s.handleSettlementDaily)
	mux.HandleFunc("/api/settlement/weekly", s.handleSettlementWeekly)
	mux.HandleFunc("/api/settlement/monthly", s.handleSettlementMonthly)

	// Comparison
	mux.HandleFunc("/api/comparison/chart.png", s.handleComparisonChart)
	mux.HandleFunc("/api/comparison", s.handleComparison)

	// Portfolio
	mux.HandleFunc("/api/investments/", s.handleInvestmentByID)
	mux.HandleFunc("/api/investments", s.handleInvestments)
	mux.HandleFunc("/api/allocations/", s.handleAllocationByCategory)
	mux.HandleFunc("/api/allocations", s.handleAllocations)

	// Market
	mux.HandleFunc("/api/quotes/", s.handleQuote)
	mux.HandleFunc("/api/rate", s.handleExchangeRate)
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uptime := time.Since(s.app.StartupTime).Round(time.Second)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":       s.app.Config.Environment,
		"storage_asset":     s.app.Config.Storage.Asset.Path,
		"storage_market":    s.app.Config.Storage.Market.Path,
		"logging_level":     s.app.Config.Logging.Level,
		"fallback_rate":     s.app.Config.Settlement.FallbackExchangeRate,
		"benchmarks":        s.app.Config.Settlement.Benchmarks,
		"snapshot_schedule": s.app.Config.Settlement.SnapshotSchedule,
		"uptime":            uptime.String(),
		"started_at":        s.app.StartupTime,
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
