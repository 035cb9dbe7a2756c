package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"brawler.dev/levelgen/internal/models"
	"brawler.dev/levelgen/internal/services"
)

// GameHandler lets a client walk through a stored level
type GameHandler struct {
	levelService *services.LevelService
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(ls *services.LevelService) *GameHandler {
	return &GameHandler{levelService: ls}
}

// Viewport handles GET /api/levels/{id}/viewport
func (h *GameHandler) Viewport(w http.ResponseWriter, r *http.Request) {
	// Parse viewport dimensions from query params
	width := clamp(parseIntParam(r, "width", 40), 10, 200)
	height := clamp(parseIntParam(r, "height", 20), 10, 100)

	// Centre on the start room unless a position is given
	var center *models.Position
	q := r.URL.Query()
	if q.Has("x") || q.Has("y") {
		center = &models.Position{X: parseIntParam(r, "x", 0), Y: parseIntParam(r, "y", 0)}
	}

	viewport, err := h.levelService.Viewport(chi.URLParam(r, "id"), center, width, height)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, viewport)
}

// Explore handles POST /api/levels/{id}/explore
func (h *GameHandler) Explore(w http.ResponseWriter, r *http.Request) {
	var req models.ExploreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		sendValidationError(w, err)
		return
	}

	// Default dimensions if not provided
	if req.Width == 0 {
		req.Width = 40
	}
	if req.Height == 0 {
		req.Height = 20
	}

	// Clamp to reasonable values
	req.Width = clamp(req.Width, 10, 200)
	req.Height = clamp(req.Height, 10, 100)

	state, err := h.levelService.Explore(chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// parseIntParam parses an integer query parameter with a default value
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// clamp limits a value to a range
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
