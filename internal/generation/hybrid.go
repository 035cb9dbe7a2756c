package generation

import (
	"fmt"
	"slices"
)

// BridgePolicy picks the room pair used to bridge two groups of rooms.
// It returns indexes into a and b.
type BridgePolicy func(a, b []*Room) (int, int)

// NearestCentroid bridges the two rooms whose centres are closest by
// Euclidean distance; earlier rooms win ties
func NearestCentroid(a, b []*Room) (int, int) {
	bi, bj, best := 0, 0, -1.0
	for i, ra := range a {
		for j, rb := range b {
			d := euclideanDist(ra.Center(), rb.Center())
			if best < 0 || d < best {
				bi, bj, best = i, j, d
			}
		}
	}
	return bi, bj
}

// Hybrid splits the area into quadrants at a seeded point, runs a different
// layout in each and stitches them together with bridging corridors
type Hybrid struct {
	Parts       []Algorithm // shuffled per level; each must support sub-area layout
	Bridge      BridgePolicy
	MinQuadrant int // smallest quadrant side before the split is reduced
}

// NewHybrid returns the algorithm mixing every other built-in layout
func NewHybrid() *Hybrid {
	return &Hybrid{
		Parts:       []Algorithm{NewRoomBased(), NewCellular(), NewBSP(), NewMaze()},
		Bridge:      NearestCentroid,
		MinQuadrant: 12,
	}
}

// Without returns a copy of the hybrid that no longer runs the given
// layouts in any quadrant. Parts that are not built-in layouts are kept.
func (a *Hybrid) Without(excluded ...AlgorithmKind) *Hybrid {
	out := *a
	out.Parts = make([]Algorithm, 0, len(a.Parts))
	for _, p := range a.Parts {
		if kind, ok := partKind(p); ok && slices.Contains(excluded, kind) {
			continue
		}
		out.Parts = append(out.Parts, p)
	}
	return &out
}

func partKind(a Algorithm) (AlgorithmKind, bool) {
	switch a.(type) {
	case *RoomBased:
		return AlgorithmRoomBased, true
	case *Cellular:
		return AlgorithmCellular, true
	case *BSP:
		return AlgorithmBSP, true
	case *Maze:
		return AlgorithmMaze, true
	case *Hybrid:
		return AlgorithmHybrid, true
	}
	return "", false
}

// Generate implements Algorithm
func (a *Hybrid) Generate(cfg *GenerationConfig, rng *RNG) (*RoomGraph, *TileMap, error) {
	return generateWith(a, cfg, rng)
}

func (a *Hybrid) buildRegion(m *TileMap, area Bounds, target int, rng *RNG) (*RoomGraph, error) {
	builders := make([]regionBuilder, 0, len(a.Parts))
	for _, p := range a.Parts {
		b, ok := p.(regionBuilder)
		if !ok {
			return nil, fmt.Errorf("hybrid part %T cannot lay out a sub-area", p)
		}
		builders = append(builders, b)
	}
	if len(builders) == 0 {
		return nil, fmt.Errorf("hybrid has no parts")
	}
	rng.Shuffle(len(builders), func(i, j int) { builders[i], builders[j] = builders[j], builders[i] })

	bridge := a.Bridge
	if bridge == nil {
		bridge = NearestCentroid
	}

	quads := a.quadrants(area, rng)
	share := max(2, target/len(quads))

	g := NewRoomGraph()
	groups := make([][]*Room, len(quads))
	for i, q := range quads {
		sub, err := builders[i%len(builders)].buildRegion(m, q, share, rng)
		if err != nil {
			return nil, fmt.Errorf("quadrant %d: %w", i, err)
		}
		offset := g.Absorb(sub)
		for id := offset; id < g.Len(); id++ {
			groups[i] = append(groups[i], g.Rooms[id])
		}
	}

	// Bridge neighbouring quadrants. With four quadrants this closes a ring.
	for _, pair := range quadrantPairs(len(quads)) {
		ga, gb := groups[pair[0]], groups[pair[1]]
		if len(ga) == 0 || len(gb) == 0 {
			continue
		}
		i, j := bridge(ga, gb)
		if err := digConnect(m, g, ga[i].ID, gb[j].ID, area); err != nil {
			return nil, err
		}
	}

	// Stitch any stray component onto the first one
	for comps := g.Components(); len(comps) > 1; comps = g.Components() {
		ga := roomsOf(g, comps[0])
		gb := roomsOf(g, comps[1])
		i, j := bridge(ga, gb)
		if err := digConnect(m, g, ga[i].ID, gb[j].ID, area); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// quadrants splits area at a seeded point, leaving a one-cell wall gutter
// between parts. Small areas fall back to halves or the whole area.
func (a *Hybrid) quadrants(area Bounds, rng *RNG) []Bounds {
	minSide := a.MinQuadrant*2 + 1
	splitX := area.Width() >= minSide
	splitY := area.Height() >= minSide

	sx := area.MinX + rng.IntRange(area.Width()*2/5, area.Width()*3/5)
	sy := area.MinY + rng.IntRange(area.Height()*2/5, area.Height()*3/5)

	switch {
	case splitX && splitY:
		return []Bounds{
			{area.MinX, area.MinY, sx - 1, sy - 1},
			{sx + 1, area.MinY, area.MaxX, sy - 1},
			{area.MinX, sy + 1, sx - 1, area.MaxY},
			{sx + 1, sy + 1, area.MaxX, area.MaxY},
		}
	case splitX:
		return []Bounds{
			{area.MinX, area.MinY, sx - 1, area.MaxY},
			{sx + 1, area.MinY, area.MaxX, area.MaxY},
		}
	case splitY:
		return []Bounds{
			{area.MinX, area.MinY, area.MaxX, sy - 1},
			{area.MinX, sy + 1, area.MaxX, area.MaxY},
		}
	}
	return []Bounds{area}
}

// quadrantPairs lists the neighbouring quadrant index pairs
func quadrantPairs(n int) [][2]int {
	switch n {
	case 4:
		// 0 1
		// 2 3
		return [][2]int{{0, 1}, {1, 3}, {3, 2}, {2, 0}}
	case 2:
		return [][2]int{{0, 1}}
	}
	return nil
}

func roomsOf(g *RoomGraph, ids []int) []*Room {
	out := make([]*Room, len(ids))
	for i, id := range ids {
		out[i] = g.Rooms[id]
	}
	return out
}
