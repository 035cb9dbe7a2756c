package generation

import "math"

// RoomBased scatters rectangular rooms by rejection sampling and links them
// along a minimum spanning tree plus a few loops
type RoomBased struct {
	MinSize         int     // smallest room side
	MaxSize         int     // largest room side
	Gap             int     // minimum wall cells between rooms
	AttemptsPerRoom int     // placement attempts per requested room
	LoopFraction    float64 // extra edges as a fraction of the room count
	MaxCorridor     int     // widest corridor
}

// NewRoomBased returns the algorithm with its default tuning
func NewRoomBased() *RoomBased {
	return &RoomBased{
		MinSize:         4,
		MaxSize:         10,
		Gap:             2,
		AttemptsPerRoom: 50,
		LoopFraction:    0.2,
		MaxCorridor:     2,
	}
}

// Generate implements Algorithm
func (a *RoomBased) Generate(cfg *GenerationConfig, rng *RNG) (*RoomGraph, *TileMap, error) {
	return generateWith(a, cfg, rng)
}

func (a *RoomBased) buildRegion(m *TileMap, area Bounds, target int, rng *RNG) (*RoomGraph, error) {
	g := NewRoomGraph()

	minSize := max(2, a.MinSize)
	maxSize := max(minSize, a.MaxSize)
	attempts := max(1, target*a.AttemptsPerRoom)

	for i := 0; i < attempts && g.Len() < target; i++ {
		w := rng.IntRange(minSize, maxSize)
		h := rng.IntRange(minSize, maxSize)
		if w > area.Width() || h > area.Height() {
			continue
		}
		x := rng.IntRange(area.MinX, area.MaxX-w+1)
		y := rng.IntRange(area.MinY, area.MaxY-h+1)
		candidate := Rect(x, y, w, h)

		padded := candidate.Expand(a.Gap)
		fits := true
		for _, r := range g.Rooms {
			if padded.Overlaps(r.Bounds) {
				fits = false
				break
			}
		}
		if !fits {
			continue
		}

		g.AddRoom(candidate)
		m.Fill(candidate, RoleFloor)
	}

	if g.Len() < 2 {
		return g, nil
	}

	loops := int(math.Ceil(a.LoopFraction * float64(g.Len())))
	err := linkSpanning(g, loops, rng, func(from, to int) error {
		width := rng.IntRange(1, max(1, a.MaxCorridor))
		path := lPath(g.Rooms[from].Center(), g.Rooms[to].Center(), rng.Chance(0.5))
		return connectRooms(m, g, from, to, path, width, area)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}
