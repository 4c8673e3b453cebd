package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/trogers1052/scenario-risk-service/internal/backtest"
	"github.com/trogers1052/scenario-risk-service/internal/engine"
	"github.com/trogers1052/scenario-risk-service/internal/history"
	"github.com/trogers1052/scenario-risk-service/internal/models"
	"github.com/trogers1052/scenario-risk-service/internal/override"
	"github.com/trogers1052/scenario-risk-service/internal/portfolio"
	"github.com/trogers1052/scenario-risk-service/internal/scenario"
	"github.com/trogers1052/scenario-risk-service/internal/simulator"
)

// timeNow is stubbed in tests.
var timeNow = time.Now

// Handler holds dependencies for HTTP handlers
type Handler struct {
	sim       *simulator.Service
	positions *portfolio.Store
	catalog   *scenario.Catalog
	ledger    *history.Ledger
	overrides override.Store
}

// NewHandler creates a new Handler
func NewHandler(
	sim *simulator.Service,
	positions *portfolio.Store,
	catalog *scenario.Catalog,
	ledger *history.Ledger,
	overrides override.Store,
) *Handler {
	return &Handler{
		sim:       sim,
		positions: positions,
		catalog:   catalog,
		ledger:    ledger,
		overrides: overrides,
	}
}

// GetPositions handles GET /positions
func (h *Handler) GetPositions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.positions.List())
}

// AddPosition handles POST /positions
func (h *Handler) AddPosition(w http.ResponseWriter, r *http.Request) {
	var draft portfolio.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pos, err := h.positions.Add(draft)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusCreated, pos)
}

// RemovePosition handles DELETE /positions/{id}
func (h *Handler) RemovePosition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.positions.Remove(vars["id"])
	w.WriteHeader(http.StatusNoContent)
}

// GetScenarios handles GET /scenarios
func (h *Handler) GetScenarios(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.All())
}

// GetBacktestWindows handles GET /backtests/windows
func (h *Handler) GetBacktestWindows(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, backtest.Windows())
}

// RunSimulation handles POST /simulations
func (h *Handler) RunSimulation(w http.ResponseWriter, r *http.Request) {
	var req simulator.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserAgent == "" {
		req.UserAgent = r.UserAgent()
	}

	out, err := h.sim.RunScenario(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if isValidationError(err) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	respondJSON(w, http.StatusOK, out)
}

// RunBacktest handles POST /backtests
func (h *Handler) RunBacktest(w http.ResponseWriter, r *http.Request) {
	var req simulator.BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserAgent == "" {
		req.UserAgent = r.UserAgent()
	}

	out, err := h.sim.RunBacktest(r.Context(), req, nil)
	if err != nil {
		switch {
		case errors.Is(err, backtest.ErrWindowNotFound):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, r.Context().Err()):
			// Client went away; nothing useful to write.
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusOK, out)
}

// GetHistory handles GET /history with optional search, type and scope
// query filters
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := history.Filter{
		SearchTerm:   q.Get("search"),
		ScenarioType: q.Get("type"),
		Scope:        q.Get("scope"),
	}

	if f == (history.Filter{}) {
		respondJSON(w, http.StatusOK, h.ledger.Entries())
		return
	}
	respondJSON(w, http.StatusOK, h.ledger.FilterEntries(f))
}

// ExportHistory handles GET /history/export
func (h *Handler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	csv, err := history.ExportCSV(h.ledger.Entries())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="scenario_history.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(csv))
}

// ClearHistory handles DELETE /history, requiring confirm=true
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		http.Error(w, "clearing history requires confirm=true", http.StatusBadRequest)
		return
	}

	if err := h.sim.ClearHistory(r.Context(), r.URL.Query().Get("session_id")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReplayHistory handles POST /history/{id}/replay
func (h *Handler) ReplayHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	state, err := h.ledger.Replay(vars["id"])
	if err != nil {
		if errors.Is(err, history.ErrEntryNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if state.Override != nil {
		if err := h.overrides.Set(r.Context(), *state.Override); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	respondJSON(w, http.StatusOK, state)
}

// GetHistorySummary handles GET /history/summary
func (h *Handler) GetHistorySummary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.ledger.Stats(timeNow()))
}

// GetRiskMatrix handles GET /riskmatrix
func (h *Handler) GetRiskMatrix(w http.ResponseWriter, r *http.Request) {
	matrix := engine.ComputeRiskMatrix(h.positions.List(), engine.DefaultPriceShocks, engine.DefaultVolShocks)
	respondJSON(w, http.StatusOK, matrix)
}

// GetOverride handles GET /overrides/{asset}
func (h *Handler) GetOverride(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ov, err := h.overrides.Get(r.Context(), vars["asset"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if ov == nil {
		http.Error(w, "no override active for asset", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, ov)
}

// PutOverride handles PUT /overrides/{asset}
func (h *Handler) PutOverride(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var ov models.MarketDataOverride
	if err := json.NewDecoder(r.Body).Decode(&ov); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	ov.Asset = vars["asset"]

	if ov.MarketData.Empty() {
		http.Error(w, "override requires spot, vol surface or yield curve data", http.StatusBadRequest)
		return
	}

	if err := h.overrides.Set(r.Context(), ov); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, ov)
}

// DeleteOverride handles DELETE /overrides/{asset}
func (h *Handler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	if err := h.overrides.Clear(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func isValidationError(err error) bool {
	return errors.Is(err, simulator.ErrNoAssetSelected) ||
		errors.Is(err, simulator.ErrCustomShockRequired) ||
		errors.Is(err, simulator.ErrInvalidScope) ||
		errors.Is(err, scenario.ErrCustomNameRequired) ||
		errors.Is(err, scenario.ErrNotFound)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
