package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/karimwaheed/strategy-lab/internal/ideas"
	"github.com/karimwaheed/strategy-lab/internal/models"
	"github.com/karimwaheed/strategy-lab/pkg/indicator"
	"github.com/karimwaheed/strategy-lab/pkg/logger"
)

var (
	computeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indicator_compute_requests_total",
			Help: "Total number of indicator computations by indicator id and status",
		},
		[]string{"indicator", "status"},
	)

	computeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "indicator_compute_latency_seconds",
			Help:    "Single-indicator computation latency in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"indicator"},
	)

	computeBarCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "indicator_compute_bars",
			Help:    "Number of bars per compute request",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
	)
)

// ComputeHandler runs the indicator runtime for compute requests.
type ComputeHandler struct {
	store   ideas.Store
	maxBars int
}

// NewComputeHandler creates a compute handler. maxBars bounds the bar count
// accepted per request.
func NewComputeHandler(store ideas.Store, maxBars int) *ComputeHandler {
	return &ComputeHandler{store: store, maxBars: maxBars}
}

// computeRequest is the body of POST /api/v1/compute: one ad-hoc instance
// over a bar sequence.
type computeRequest struct {
	Instance models.IndicatorInstance `json:"instance"`
	Bars     []models.PriceBar        `json:"bars"`
	Context  models.EvalContext       `json:"context"`
}

// ideaComputeRequest is the body of POST /api/v1/ideas/{id}/compute.
type ideaComputeRequest struct {
	Bars []models.PriceBar `json:"bars"`
}

// instanceResult pairs an instance id with its computed result; ideas may
// attach the same indicator twice with different parameters, so results are
// a list, not a map.
type instanceResult struct {
	ID     string                 `json:"id"`
	Result models.IndicatorResult `json:"result"`
}

// Compute handles POST /api/v1/compute.
func (h *ComputeHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req computeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validateBars(req.Bars); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.run(req.Instance, req.Bars, req.Context)
	respondWithJSON(w, http.StatusOK, result)
}

// ComputeIdea handles POST /api/v1/ideas/{id}/compute. Disabled instances
// are filtered out here; the runtime never sees them.
func (h *ComputeHandler) ComputeIdea(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	idea, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ideas.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Idea not found")
			return
		}
		logger.Error("Failed to load idea for compute", logger.ErrorField(err), logger.String("idea_id", id))
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve idea")
		return
	}

	var req ideaComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validateBars(req.Bars); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	evalCtx := idea.Context()
	enabled := idea.EnabledInstances()
	results := make([]instanceResult, 0, len(enabled))
	for _, instance := range enabled {
		results = append(results, instanceResult{
			ID:     instance.ID,
			Result: h.run(instance, req.Bars, evalCtx),
		})
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"ideaId":    idea.ID,
		"symbol":    evalCtx.Symbol,
		"timeframe": evalCtx.Timeframe,
		"barCount":  len(req.Bars),
		"results":   results,
	})
}

// run invokes the pure runtime and records operational metrics around it.
func (h *ComputeHandler) run(instance models.IndicatorInstance, bars []models.PriceBar, evalCtx models.EvalContext) models.IndicatorResult {
	name := indicator.Normalize(instance.ID)
	start := time.Now()
	result := indicator.Compute(instance, bars, evalCtx)
	computeLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())
	computeBarCount.Observe(float64(len(bars)))

	status := "ok"
	if _, known := indicator.DefaultOutputType(instance.ID); !known {
		status = "unknown_id"
	}
	computeRequests.WithLabelValues(name, status).Inc()
	return result
}

func (h *ComputeHandler) validateBars(bars []models.PriceBar) error {
	if len(bars) > h.maxBars {
		return fmt.Errorf("too many bars: %d exceeds the limit of %d", len(bars), h.maxBars)
	}
	for i := range bars {
		if err := bars[i].Validate(); err != nil {
			return fmt.Errorf("invalid bar at index %d: %w", i, err)
		}
	}
	return nil
}
