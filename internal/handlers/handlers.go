package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"brawler.dev/levelgen/internal/config"
	"brawler.dev/levelgen/internal/generation"
	"brawler.dev/levelgen/internal/middleware"
	"brawler.dev/levelgen/internal/models"
	"brawler.dev/levelgen/internal/services"
	"brawler.dev/levelgen/internal/store"
)

var validate = validator.New()

// SetupRoutes configures all routes and returns the router
func SetupRoutes(cfg *config.Config, storage store.Storage) (http.Handler, error) {
	catalog, err := cfg.Generation.Biomes()
	if err != nil {
		return nil, fmt.Errorf("failed to load biomes: %w", err)
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)

	// Initialize services
	generator := generation.NewGenerator(generation.WithBiomes(catalog), generation.WithLogger(log.Printf))
	levelService := services.NewLevelService(generator, storage, cfg.Generation)
	biomeService := services.NewBiomeService(catalog)

	// Initialize handlers
	levelHandler := NewLevelHandler(levelService, generator)
	gameHandler := NewGameHandler(levelService)
	biomeHandler := NewBiomeHandler(biomeService)
	wsHandler := NewWebSocketHandler(levelService, cfg.Server.IsDevelopment())

	limit := middleware.RateLimit(cfg.RateLimit.GenerateLimit, cfg.RateLimit.GenerateWindow)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Level endpoints
		r.With(limit).Post("/levels", levelHandler.CreateLevel)
		r.Get("/levels", levelHandler.ListLevels)
		r.Get("/levels/{id}", levelHandler.GetLevel)
		r.Get("/algorithms", levelHandler.ListAlgorithms)

		// Exploration endpoints
		r.Get("/levels/{id}/viewport", gameHandler.Viewport)
		r.Post("/levels/{id}/explore", gameHandler.Explore)

		// Biome endpoints
		r.Get("/biomes", biomeHandler.ListBiomes)
		r.Get("/biomes/{id}", biomeHandler.GetBiome)

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	r.With(limit).Get("/ws/generate", wsHandler.Generate)

	return r, nil
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON: %v", err)
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.ErrorResponse{Error: message})
}

// sendValidationError lists every failed field of a request body
func sendValidationError(w http.ResponseWriter, err error) {
	var messages []string
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			messages = append(messages, fmt.Sprintf("%s: %s", fe.Field(), getValidationMessage(fe)))
		}
	} else {
		messages = append(messages, err.Error())
	}
	respondJSON(w, http.StatusBadRequest, models.ErrorResponse{
		Error:   "ValidationError",
		Message: strings.Join(messages, "; "),
	})
}

func getValidationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s entries", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

// statusFor maps a service error onto an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, generation.ErrInvalidConfig),
		errors.Is(err, services.ErrLevelTooLarge),
		errors.Is(err, services.ErrInvalidDirection),
		errors.Is(err, services.ErrBlocked):
		return http.StatusBadRequest
	case errors.Is(err, generation.ErrRetryBudgetExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// respondServiceError writes err with the status statusFor picks
func respondServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("Error handling request: %v", err)
		respondError(w, status, "Internal server error")
		return
	}
	respondError(w, status, err.Error())
}
