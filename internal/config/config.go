package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"brawler.dev/levelgen/internal/generation"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Generation GenerationConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr         string        `validate:"required"`
	ReadTimeout  time.Duration `validate:"gt=0"`
	WriteTimeout time.Duration `validate:"gt=0"`
	Environment  string        `validate:"oneof=development production test"`
}

// StorageConfig selects where generated levels are persisted
type StorageConfig struct {
	Driver      string `validate:"oneof=json postgres"`
	JSONPath    string `validate:"required_if=Driver json"`
	DatabaseURL string `validate:"required_if=Driver postgres"`
}

// GenerationConfig holds defaults applied to generation requests
type GenerationConfig struct {
	BiomeDir       string // optional directory of extra biome JSON files
	OutputDir      string `validate:"required"`
	MaxRetryBudget int    `validate:"gte=0,lte=1000"`
	MaxWidth       int    `validate:"gte=8,lte=1024"`
	MaxHeight      int    `validate:"gte=8,lte=1024"`
	CacheSize      int    `validate:"gte=0"`
	Timeout        time.Duration
}

// RateLimitConfig limits how often a client may request new levels
type RateLimitConfig struct {
	GenerateLimit  int           `validate:"gte=1"`
	GenerateWindow time.Duration `validate:"gt=0"`
}

// Load reads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found (this is OK if using environment variables): %v", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:         getEnv("SERVER_ADDR", ":8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			Environment:  getEnv("ENVIRONMENT", "development"),
		},
		Storage: StorageConfig{
			Driver:      getEnv("STORAGE_DRIVER", "json"),
			JSONPath:    getEnv("STORAGE_JSON_PATH", filepath.Join("data", "levels.json")),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		Generation: GenerationConfig{
			BiomeDir:       getEnv("BIOME_DIR", ""),
			OutputDir:      getEnv("LEVEL_OUTPUT_DIR", "levels"),
			MaxRetryBudget: getIntEnv("MAX_RETRY_BUDGET", 5),
			MaxWidth:       getIntEnv("MAX_LEVEL_WIDTH", 256),
			MaxHeight:      getIntEnv("MAX_LEVEL_HEIGHT", 256),
			CacheSize:      getIntEnv("LEVEL_CACHE_SIZE", 64),
			Timeout:        getDurationEnv("GENERATION_TIMEOUT", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			GenerateLimit:  getIntEnv("RATE_LIMIT_GENERATE", 30),
			GenerateWindow: getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks every section against its struct tags
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// IsDevelopment returns true if running in development mode
func (c *ServerConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// Biomes builds the biome catalog: the built-ins overridden and extended by
// any files in BiomeDir
func (c *GenerationConfig) Biomes() (*generation.BiomeCatalog, error) {
	catalog := generation.DefaultBiomes()
	if c.BiomeDir == "" {
		return catalog, nil
	}
	extra, err := LoadBiomes(c.BiomeDir)
	if err != nil {
		return nil, err
	}
	return catalog.With(extra...), nil
}

// LoadBiomes reads every *.json file in dir as one biome definition.
// Files are read in name order, so a later file wins an id clash.
func LoadBiomes(dir string) ([]*generation.Biome, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read biome directory: %w", err)
	}

	validate := validator.New()
	biomes := make([]*generation.Biome, 0, len(files))
	for _, file := range files {
		b, err := loadBiome(file, validate)
		if err != nil {
			return nil, fmt.Errorf("failed to load biome from %s: %w", filepath.Base(file), err)
		}
		biomes = append(biomes, b)
	}
	return biomes, nil
}

func loadBiome(path string, validate *validator.Validate) (*generation.Biome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var b generation.Biome
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse biome JSON: %w", err)
	}
	if err := validate.Struct(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Helper functions for environment variable access

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer value for %s: %s, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return intValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration value for %s: %s, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return duration
}
