package generation

import "fmt"

// AlgorithmKind selects a layout algorithm
type AlgorithmKind string

const (
	AlgorithmRoomBased AlgorithmKind = "room_based"
	AlgorithmCellular  AlgorithmKind = "cellular"
	AlgorithmBSP       AlgorithmKind = "bsp"
	AlgorithmMaze      AlgorithmKind = "maze"
	AlgorithmHybrid    AlgorithmKind = "hybrid"
)

// AlgorithmKinds lists the built-in algorithms in a stable order
func AlgorithmKinds() []AlgorithmKind {
	return []AlgorithmKind{AlgorithmRoomBased, AlgorithmCellular, AlgorithmBSP, AlgorithmMaze, AlgorithmHybrid}
}

// Algorithm lays out the rooms and corridors of a level.
// Implementations must draw every random choice from rng.
type Algorithm interface {
	Generate(cfg *GenerationConfig, rng *RNG) (*RoomGraph, *TileMap, error)
}

// regionBuilder lays out rooms inside a sub-area of an existing map, so the
// hybrid algorithm can run several layouts side by side. Doors are placed by
// the caller once every corridor is carved.
type regionBuilder interface {
	buildRegion(m *TileMap, area Bounds, target int, rng *RNG) (*RoomGraph, error)
}

// DefaultAlgorithms returns a fresh registry of the built-in algorithms
func DefaultAlgorithms() map[AlgorithmKind]Algorithm {
	return map[AlgorithmKind]Algorithm{
		AlgorithmRoomBased: NewRoomBased(),
		AlgorithmCellular:  NewCellular(),
		AlgorithmBSP:       NewBSP(),
		AlgorithmMaze:      NewMaze(),
		AlgorithmHybrid:    NewHybrid(),
	}
}

// generateWith runs a region builder over the whole map inside a one-cell wall border
func generateWith(b regionBuilder, cfg *GenerationConfig, rng *RNG) (*RoomGraph, *TileMap, error) {
	m := NewTileMap(cfg.Width, cfg.Height)
	area := m.Bounds().Inner(1)
	if area.Empty() {
		return nil, nil, fmt.Errorf("map %dx%d has no interior", cfg.Width, cfg.Height)
	}
	g, err := b.buildRegion(m, area, cfg.roomTarget(), rng)
	if err != nil {
		return nil, nil, err
	}
	placeDoors(m, g)
	return g, m, nil
}

// defaultRoomTarget scales the room quota with the map area
func defaultRoomTarget(width, height int) int {
	return clamp(width*height/256, 6, 48)
}
