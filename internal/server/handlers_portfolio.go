package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/minjaekwon/assetboard/internal/interfaces"
	"github.com/minjaekwon/assetboard/internal/models"
	"github.com/minjaekwon/assetboard/internal/settlement"
)

// handleInvestments handles GET (list) and POST (create) on /api/investments.
func (s *Server) handleInvestments(w http.ResponseWriter, r *http.Request) {
	store := s.app.Storage.PortfolioStore()

	switch r.Method {
	case http.MethodGet:
		investments, err := store.ListInvestments()
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, investments)
	case http.MethodPost:
		var inv models.Investment
		if !DecodeJSON(w, r, &inv) {
			return
		}
		if strings.TrimSpace(inv.Position.Symbol) == "" {
			WriteError(w, http.StatusBadRequest, "symbol is required")
			return
		}
		if inv.ID == "" {
			inv.ID = uuid.New().String()
		}
		inv.Position.Category = settlement.InferCategory(inv.Position)
		if err := store.SaveInvestment(&inv); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, inv)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleInvestmentByID handles GET, PUT and DELETE on /api/investments/{id}.
func (s *Server) handleInvestmentByID(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/investments/", "")
	if id == "" {
		s.handleInvestments(w, r)
		return
	}
	store := s.app.Storage.PortfolioStore()

	switch r.Method {
	case http.MethodGet:
		inv, err := store.GetInvestment(id)
		if err != nil {
			if notFoundError(err) {
				WriteError(w, http.StatusNotFound, err.Error())
			} else {
				WriteError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		WriteJSON(w, http.StatusOK, inv)
	case http.MethodPut:
		var inv models.Investment
		if !DecodeJSON(w, r, &inv) {
			return
		}
		inv.ID = id
		inv.Position.Category = settlement.InferCategory(inv.Position)
		if err := store.SaveInvestment(&inv); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, inv)
	case http.MethodDelete:
		if err := store.DeleteInvestment(id); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleAllocations handles GET (list) and POST/PUT (upsert) on /api/allocations.
func (s *Server) handleAllocations(w http.ResponseWriter, r *http.Request) {
	store := s.app.Storage.PortfolioStore()

	switch r.Method {
	case http.MethodGet:
		allocations, err := store.ListAllocations()
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, allocations)
	case http.MethodPost, http.MethodPut:
		var alloc models.Allocation
		if !DecodeJSON(w, r, &alloc) {
			return
		}
		if alloc.Category == "" {
			WriteError(w, http.StatusBadRequest, "category is required")
			return
		}
		if err := store.SaveAllocation(&alloc); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.warnOnWeightDrift(store)
		WriteJSON(w, http.StatusOK, alloc)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost, http.MethodPut)
	}
}

// warnOnWeightDrift logs when the recorded target weights no longer sum
// to 100. Weights are advisory so the record is stored regardless.
func (s *Server) warnOnWeightDrift(store interfaces.PortfolioStore) {
	allocations, err := store.ListAllocations()
	if err != nil {
		return
	}
	sum := 0
	for _, a := range allocations {
		sum += a.TargetWeight
	}
	if sum != 0 && sum != 100 {
		s.logger.Warn().Int("sum", sum).Msg("Allocation target weights do not sum to 100")
	}
}

// handleAllocationByCategory handles GET and DELETE on /api/allocations/{category}.
func (s *Server) handleAllocationByCategory(w http.ResponseWriter, r *http.Request) {
	category := PathParam(r, "/api/allocations/", "")
	if category == "" {
		s.handleAllocations(w, r)
		return
	}
	store := s.app.Storage.PortfolioStore()

	switch r.Method {
	case http.MethodGet:
		alloc, err := store.GetAllocation(models.Category(category))
		if err != nil {
			if notFoundError(err) {
				WriteError(w, http.StatusNotFound, err.Error())
			} else {
				WriteError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		WriteJSON(w, http.StatusOK, alloc)
	case http.MethodDelete:
		if err := store.DeleteAllocation(models.Category(category)); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": category})
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}
