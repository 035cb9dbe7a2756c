package store

import (
	"errors"
	"fmt"
	"time"

	"brawler.dev/levelgen/internal/config"
	"brawler.dev/levelgen/internal/generation"
)

// ErrNotFound is returned when no level has the requested id
var ErrNotFound = errors.New("level not found")

// Storage defines the interface for level persistence
type Storage interface {
	SaveLevel(level *generation.LevelData) error
	LoadLevel(id string) (*generation.LevelData, error)
	ListLevels() ([]LevelRecord, error)
	Close() error
}

// LevelRecord is the listing entry kept next to each stored level
type LevelRecord struct {
	ID        string                   `json:"id"`
	Seed      uint64                   `json:"seed"`
	Algorithm generation.AlgorithmKind `json:"algorithm"`
	Biomes    []generation.BiomeID     `json:"biomes"`
	Width     int                      `json:"width"`
	Height    int                      `json:"height"`
	Rooms     int                      `json:"rooms"`
	CreatedAt time.Time                `json:"created_at"`
}

// NewRecord summarises a level for listings
func NewRecord(level *generation.LevelData) LevelRecord {
	meta := level.Metadata()
	return LevelRecord{
		ID:        level.ID(),
		Seed:      meta.Seed,
		Algorithm: meta.Algorithm,
		Biomes:    meta.Biomes,
		Width:     level.Width(),
		Height:    level.Height(),
		Rooms:     len(level.Rooms()),
		CreatedAt: time.Now().UTC(),
	}
}

// Open returns the storage backend selected by cfg.Driver
func Open(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case "json":
		return NewJSONStore(cfg.JSONPath)
	case "postgres":
		return NewPostgresStore(cfg.DatabaseURL)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
