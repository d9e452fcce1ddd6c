package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/karimwaheed/strategy-lab/internal/catalog"
	"github.com/karimwaheed/strategy-lab/internal/ideas"
	"github.com/karimwaheed/strategy-lab/pkg/logger"
)

// IdeaHandler handles the idea CRUD endpoints the dashboard forms bind to.
type IdeaHandler struct {
	store ideas.Store
}

// NewIdeaHandler creates a new idea handler.
func NewIdeaHandler(store ideas.Store) *IdeaHandler {
	return &IdeaHandler{store: store}
}

// ListIdeas handles GET /api/v1/ideas
func (h *IdeaHandler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.List(r.Context())
	if err != nil {
		logger.Error("Failed to list ideas", logger.ErrorField(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve ideas")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"ideas": all,
		"count": len(all),
	})
}

// GetIdea handles GET /api/v1/ideas/{id}
func (h *IdeaHandler) GetIdea(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	idea, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ideas.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Idea not found")
			return
		}
		logger.Error("Failed to get idea", logger.ErrorField(err), logger.String("idea_id", id))
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve idea")
		return
	}

	respondWithJSON(w, http.StatusOK, idea)
}

// CreateIdea handles POST /api/v1/ideas
func (h *IdeaHandler) CreateIdea(w http.ResponseWriter, r *http.Request) {
	var idea ideas.Idea
	if err := json.NewDecoder(r.Body).Decode(&idea); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if idea.ID == "" {
		idea.ID = uuid.New().String()
	}

	if err := h.store.Create(r.Context(), &idea); err != nil {
		switch {
		case errors.Is(err, ideas.ErrAlreadyExists):
			respondWithError(w, http.StatusConflict, "Idea already exists")
		case isValidationError(err):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			logger.Error("Failed to create idea", logger.ErrorField(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to create idea")
		}
		return
	}

	logger.Info("Idea created",
		logger.String("idea_id", idea.ID),
		logger.String("symbol", idea.Symbol),
	)
	respondWithJSON(w, http.StatusCreated, idea)
}

// UpdateIdea handles PUT /api/v1/ideas/{id}
func (h *IdeaHandler) UpdateIdea(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var idea ideas.Idea
	if err := json.NewDecoder(r.Body).Decode(&idea); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	idea.ID = id

	if err := h.store.Update(r.Context(), &idea); err != nil {
		switch {
		case errors.Is(err, ideas.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Idea not found")
		case isValidationError(err):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			logger.Error("Failed to update idea", logger.ErrorField(err), logger.String("idea_id", id))
			respondWithError(w, http.StatusInternalServerError, "Failed to update idea")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, idea)
}

// DeleteIdea handles DELETE /api/v1/ideas/{id}
func (h *IdeaHandler) DeleteIdea(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ideas.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Idea not found")
			return
		}
		logger.Error("Failed to delete idea", logger.ErrorField(err), logger.String("idea_id", id))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete idea")
		return
	}

	logger.Info("Idea deleted", logger.String("idea_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// ListIndicators handles GET /api/v1/indicators: the catalog the dashboard
// forms are built from.
func ListIndicators(w http.ResponseWriter, _ *http.Request) {
	entries := catalog.List()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"indicators": entries,
		"count":      len(entries),
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, ideas.ErrInvalidName) ||
		errors.Is(err, ideas.ErrInvalidSymbol) ||
		errors.Is(err, ideas.ErrInvalidTimeframe)
}
