package services

import (
	"errors"
	"fmt"
	"strings"

	"brawler.dev/levelgen/internal/generation"
	"brawler.dev/levelgen/internal/models"
)

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrBlocked          = errors.New("cannot walk there")
)

// GameService walks a player through a level
type GameService struct {
	mapService *MapService
}

// NewGameService creates a new GameService
func NewGameService(ms *MapService) *GameService {
	return &GameService{mapService: ms}
}

// Start returns the position a walk begins at
func (s *GameService) Start() models.Position {
	return s.mapService.GetSpawnPoint()
}

// ParseDirection accepts a compass word or its initial, in any case
func ParseDirection(name string) (generation.Direction, error) {
	switch strings.ToLower(name) {
	case "north", "n":
		return generation.North, nil
	case "east", "e":
		return generation.East, nil
	case "south", "s":
		return generation.South, nil
	case "west", "w":
		return generation.West, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidDirection, name)
}

// Move steps one cell from pos. The origin must itself be walkable.
func (s *GameService) Move(pos models.Position, direction string) (models.Position, error) {
	if !s.mapService.IsWalkable(pos) {
		return pos, fmt.Errorf("position (%d, %d): %w", pos.X, pos.Y, ErrBlocked)
	}
	dir, err := ParseDirection(direction)
	if err != nil {
		return pos, err
	}

	dx, dy := dir.Delta()
	next := models.Position{X: pos.X + dx, Y: pos.Y + dy}
	if !s.mapService.IsWalkable(next) {
		return pos, ErrBlocked
	}
	return next, nil
}
