package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"brawler.dev/levelgen/internal/services"
)

// BiomeHandler handles biome catalog endpoints
type BiomeHandler struct {
	biomeService *services.BiomeService
}

// NewBiomeHandler creates a new BiomeHandler
func NewBiomeHandler(bs *services.BiomeService) *BiomeHandler {
	return &BiomeHandler{biomeService: bs}
}

// ListBiomes handles GET /api/biomes
func (h *BiomeHandler) ListBiomes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.biomeService.GetAll())
}

// GetBiome handles GET /api/biomes/{id}
func (h *BiomeHandler) GetBiome(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	biome, err := h.biomeService.GetByID(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Biome not found")
		return
	}

	respondJSON(w, http.StatusOK, biome)
}
