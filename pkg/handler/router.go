package handler

import (
	"net/http"
)

// NewRouter registers every route on a fresh mux. metrics serves /metrics
// and may be nil.
func NewRouter(dbctx *DBContext, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	// Error route
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	// Species
	mux.HandleFunc("GET /species", dbctx.ListSpecies)
	mux.HandleFunc("GET /species/{id}", dbctx.GetSpecies)

	// Sequences
	mux.HandleFunc("GET /proteins/{id}", dbctx.GetProtein)
	mux.HandleFunc("GET /genes/{id}", dbctx.GetGene)

	// Groups
	mux.HandleFunc("GET /groups", dbctx.ListGroups)
	mux.HandleFunc("GET /groups/{id}", dbctx.GetGroup)
	mux.HandleFunc("GET /groups/{id}/proteins", dbctx.GetGroupProteins)
	mux.HandleFunc("GET /groups/{id}/alignment", dbctx.GetGroupAlignment)

	// Service
	mux.HandleFunc("GET /api/v1/health", dbctx.HealthCheck)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	return mux
}
