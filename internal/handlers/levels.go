package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"brawler.dev/levelgen/internal/generation"
	"brawler.dev/levelgen/internal/models"
	"brawler.dev/levelgen/internal/services"
)

// LevelHandler handles level generation and retrieval
type LevelHandler struct {
	levelService *services.LevelService
	generator    *generation.Generator
}

// NewLevelHandler creates a new LevelHandler
func NewLevelHandler(ls *services.LevelService, gen *generation.Generator) *LevelHandler {
	return &LevelHandler{levelService: ls, generator: gen}
}

// CreateLevel handles POST /api/levels
func (h *LevelHandler) CreateLevel(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		sendValidationError(w, err)
		return
	}

	level, err := h.levelService.Generate(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, level)
}

// ListLevels handles GET /api/levels
func (h *LevelHandler) ListLevels(w http.ResponseWriter, r *http.Request) {
	records, err := h.levelService.List()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// GetLevel handles GET /api/levels/{id}
func (h *LevelHandler) GetLevel(w http.ResponseWriter, r *http.Request) {
	level, err := h.levelService.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, level)
}

// ListAlgorithms handles GET /api/algorithms
func (h *LevelHandler) ListAlgorithms(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.generator.Algorithms())
}
