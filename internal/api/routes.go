package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Portfolio routes
	api.HandleFunc("/positions", handler.GetPositions).Methods("GET")
	api.HandleFunc("/positions", handler.AddPosition).Methods("POST")
	api.HandleFunc("/positions/{id}", handler.RemovePosition).Methods("DELETE")

	// Scenario and run routes
	api.HandleFunc("/scenarios", handler.GetScenarios).Methods("GET")
	api.HandleFunc("/simulations", handler.RunSimulation).Methods("POST")
	api.HandleFunc("/backtests/windows", handler.GetBacktestWindows).Methods("GET")
	api.HandleFunc("/backtests", handler.RunBacktest).Methods("POST")

	// History routes
	api.HandleFunc("/history", handler.GetHistory).Methods("GET")
	api.HandleFunc("/history", handler.ClearHistory).Methods("DELETE")
	api.HandleFunc("/history/export", handler.ExportHistory).Methods("GET")
	api.HandleFunc("/history/summary", handler.GetHistorySummary).Methods("GET")
	api.HandleFunc("/history/{id}/replay", handler.ReplayHistory).Methods("POST")

	// Risk matrix
	api.HandleFunc("/riskmatrix", handler.GetRiskMatrix).Methods("GET")

	// Market data overrides
	api.HandleFunc("/overrides/{asset}", handler.GetOverride).Methods("GET")
	api.HandleFunc("/overrides/{asset}", handler.PutOverride).Methods("PUT")
	api.HandleFunc("/overrides/{asset}", handler.DeleteOverride).Methods("DELETE")

	return r
}
