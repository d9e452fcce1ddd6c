package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/karimwaheed/strategy-lab/internal/config"
	"github.com/karimwaheed/strategy-lab/internal/ideas"
)

// NewRouter builds the API router: idea CRUD, compute, catalog, and the
// health/metrics endpoints.
func NewRouter(cfg config.APIConfig, store ideas.Store) *mux.Router {
	ideaHandler := NewIdeaHandler(store)
	computeHandler := NewComputeHandler(store, cfg.MaxComputeBars)

	router := mux.NewRouter()

	chain := ChainMiddleware(
		RecoveryMiddleware(),
		LoggingMiddleware(),
		CORSMiddleware(),
		RateLimitMiddleware(cfg.RateLimitRPS),
	)
	router.Use(mux.MiddlewareFunc(chain))

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/indicators", ListIndicators).Methods("GET")
	v1.HandleFunc("/ideas", ideaHandler.ListIdeas).Methods("GET")
	v1.HandleFunc("/ideas", ideaHandler.CreateIdea).Methods("POST")
	v1.HandleFunc("/ideas/{id}", ideaHandler.GetIdea).Methods("GET")
	v1.HandleFunc("/ideas/{id}", ideaHandler.UpdateIdea).Methods("PUT")
	v1.HandleFunc("/ideas/{id}", ideaHandler.DeleteIdea).Methods("DELETE")
	v1.HandleFunc("/ideas/{id}/compute", computeHandler.ComputeIdea).Methods("POST")
	v1.HandleFunc("/compute", computeHandler.Compute).Methods("POST")

	router.HandleFunc("/health", healthHandler).Methods("GET")
	router.HandleFunc("/ready", probeHandler("READY")).Methods("GET")
	router.HandleFunc("/live", probeHandler("LIVE")).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "UP",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func probeHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}
