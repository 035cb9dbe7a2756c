package services

import (
	"brawler.dev/levelgen/internal/generation"
	"brawler.dev/levelgen/internal/models"
	"brawler.dev/levelgen/internal/render"
)

// MapService answers spatial questions about one generated level
type MapService struct {
	level *generation.LevelData
}

// NewMapService creates a new MapService
func NewMapService(level *generation.LevelData) *MapService {
	return &MapService{level: level}
}

// GetSpawnPoint returns the centre of the start room
func (s *MapService) GetSpawnPoint() models.Position {
	start, ok := s.level.StartRoom()
	if !ok {
		return models.Position{}
	}
	c := start.Center()
	return models.Position{X: c.X, Y: c.Y}
}

// GetViewport returns the visible tiles around a center position
// width and height specify the viewport dimensions
func (s *MapService) GetViewport(center models.Position, width, height int) *models.ViewportData {
	view := render.Centered(point(center), width, height)
	frame := render.Frame(s.level, view)

	viewport := &models.ViewportData{
		Tiles:   make([][]models.RenderedTile, len(frame)),
		PlayerX: center.X - view.MinX,
		PlayerY: center.Y - view.MinY,
	}
	for y, row := range frame {
		viewport.Tiles[y] = make([]models.RenderedTile, len(row))
		for x, g := range row {
			viewport.Tiles[y][x] = models.RenderedTile{
				Character: string(g.Char),
				Color:     g.Hex(),
			}
		}
	}

	viewport.CurrentRoom = s.GetRoomAt(center)
	return viewport
}

// IsWalkable checks if a position can be walked on
func (s *MapService) IsWalkable(pos models.Position) bool {
	return s.level.Tiles().IsWalkable(point(pos))
}

// GetRoomAt returns the room at a specific position, or nil if none
func (s *MapService) GetRoomAt(pos models.Position) *models.RoomInfo {
	p := point(pos)
	for _, r := range s.level.Rooms() {
		if r.Bounds.Contains(p) {
			return &models.RoomInfo{
				ID:    r.ID,
				Type:  r.Type.String(),
				Biome: string(r.Biome),
				Start: r.Start,
			}
		}
	}
	return nil
}

func point(p models.Position) generation.Point {
	return generation.Point{X: p.X, Y: p.Y}
}
