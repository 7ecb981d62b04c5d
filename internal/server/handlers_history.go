package server

import (
	"net/http"
	"strconv"

	"github.com/minjaekwon/assetboard/internal/models"
)

// handleHistory handles GET (list) and POST (upsert) on /api/history.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries, err := s.app.History.ListEntries()
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, entries)
	case http.MethodPost:
		var entry models.HistoryEntry
		if !DecodeJSON(w, r, &entry) {
			return
		}
		saved, err := s.app.History.UpsertEntry(&entry)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, saved)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleHistoryByDate handles GET, PUT and DELETE on /api/history/{date}.
func (s *Server) handleHistoryByDate(w http.ResponseWriter, r *http.Request) {
	date := PathParam(r, "/api/history/", "")
	if date == "" {
		s.handleHistory(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		entry, err := s.app.History.GetEntry(date)
		if err != nil {
			if notFoundError(err) {
				WriteError(w, http.StatusNotFound, err.Error())
			} else {
				WriteError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		WriteJSON(w, http.StatusOK, entry)
	case http.MethodPut:
		var entry models.HistoryEntry
		if !DecodeJSON(w, r, &entry) {
			return
		}
		entry.Date = date
		saved, err := s.app.History.UpsertEntry(&entry)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, saved)
	case http.MethodDelete:
		if err := s.app.History.DeleteEntry(date); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": date})
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleSnapshot handles POST /api/history/snapshot.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	entry, err := s.app.History.Snapshot(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, entry)
}

// --- Settlement handlers ---

func (s *Server) handleSettlementDaily(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	rows, err := s.app.History.DailySettlements()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, rows)
}

func (s *Server) handleSettlementWeekly(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	rows, err := s.app.History.WeeklySettlements()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, rows)
}

func (s *Server) handleSettlementMonthly(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	rows, err := s.app.History.MonthlySettlements()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, rows)
}

// --- Comparison handlers ---

// comparisonPeriod resolves the requested window from either ?period=
// (provider range string) or ?months=N.
func comparisonPeriod(r *http.Request) string {
	if period := r.URL.Query().Get("period"); period != "" {
		return period
	}
	months, err := strconv.Atoi(r.URL.Query().Get("months"))
	if err != nil {
		return ""
	}
	switch {
	case months <= 1:
		return "1mo"
	case months <= 3:
		return "3mo"
	case months <= 6:
		return "6mo"
	case months <= 12:
		return "1y"
	default:
		return "2y"
	}
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	points, err := s.app.History.ComparisonSeries(r.Context(), comparisonPeriod(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, points)
}

func (s *Server) handleComparisonChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	png, err := s.app.History.RenderComparisonChart(r.Context(), comparisonPeriod(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
