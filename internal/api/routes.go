package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Run routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/strategies", handler.GetStrategies).Methods("GET")
	api.HandleFunc("/runs", handler.TriggerRun).Methods("POST")
	api.HandleFunc("/runs/{id}", handler.GetRun).Methods("GET")
	api.HandleFunc("/runs/{id}/labels", handler.GetLabeledBars).Methods("GET")
	api.HandleFunc("/runs/{id}/trades", handler.GetTrades).Methods("GET")
	api.HandleFunc("/runs/{id}/equity", handler.GetEquity).Methods("GET")
	api.HandleFunc("/runs/{id}/stats", handler.GetGroupStats).Methods("GET")

	return r
}
