package generation

import (
	"github.com/aquilax/go-perlin"
)

// Border noise tuning for multi-biome levels
const (
	borderFrequency = 0.08
	borderAmplitude = 0.35 // fraction of a band's width
)

// BiomeAssigner tags cells and rooms with biomes and skins the map with
// biome palettes
type BiomeAssigner struct {
	biomes []*Biome // first is the primary biome
	byID   map[BiomeID]*Biome
}

// NewBiomeAssigner creates an assigner for the ordered biome selection
func NewBiomeAssigner(biomes []*Biome) *BiomeAssigner {
	byID := make(map[BiomeID]*Biome, len(biomes))
	for _, b := range biomes {
		byID[b.ID] = b
	}
	return &BiomeAssigner{biomes: biomes, byID: byID}
}

// Assign runs the whole biome stage: region tagging, hazards, chest sites and
// palette skinning
func (a *BiomeAssigner) Assign(m *TileMap, g *RoomGraph, rng *RNG) {
	if len(a.biomes) == 0 {
		return
	}
	a.tagRegions(m, g, rng)
	a.placeHazards(m, g, rng)
	a.placeChests(m, g)
	a.skin(m)
}

// tagRegions partitions the map into bands along its longer axis. Band
// borders are perturbed with Perlin noise; rooms take the biome under their
// centre and are uniform inside.
func (a *BiomeAssigner) tagRegions(m *TileMap, g *RoomGraph, rng *RNG) {
	k := len(a.biomes)
	if k == 0 {
		return
	}
	if k == 1 {
		id := a.biomes[0].ID
		for _, p := range m.Bounds().Points() {
			m.SetBiome(p, id)
		}
		for _, r := range g.Rooms {
			r.Biome = id
		}
		return
	}

	noise := perlin.NewPerlin(2, 2, 3, rng.Int63())
	alongX := m.Width() >= m.Height()
	length, span := m.Height(), m.Width()
	if alongX {
		length, span = m.Width(), m.Height()
	}
	band := float64(length) / float64(k)
	amp := band * borderAmplitude

	// borders[b][across] is the along-axis position of border b+1
	borders := make([][]float64, k-1)
	for b := range borders {
		borders[b] = make([]float64, span)
		for across := 0; across < span; across++ {
			offset := noise.Noise2D(float64(across)*borderFrequency, float64(b+1)*7.31)
			borders[b][across] = float64(b+1)*band + clampFloat(offset, -1, 1)*amp
		}
	}

	for _, p := range m.Bounds().Points() {
		along, across := p.Y, p.X
		if alongX {
			along, across = p.X, p.Y
		}
		idx := 0
		for b := range borders {
			if float64(along) >= borders[b][across] {
				idx = b + 1
			}
		}
		m.SetBiome(p, a.biomes[idx].ID)
	}

	for _, r := range g.Rooms {
		cell, _ := m.At(r.Center())
		r.Biome = cell.Biome
		for _, p := range r.Bounds.Points() {
			m.SetBiome(p, r.Biome)
		}
	}
}

// placeHazards scatters diamond-shaped pools in combat and platforming rooms,
// keeping the room's outer ring clear
func (a *BiomeAssigner) placeHazards(m *TileMap, g *RoomGraph, rng *RNG) {
	for _, r := range g.Rooms {
		if r.Type != RoomCombat && r.Type != RoomPlatforming {
			continue
		}
		b := a.byID[r.Biome]
		if b == nil || b.Hazards.MaxPools <= 0 || !rng.Chance(b.Hazards.Chance) {
			continue
		}
		inner := r.Bounds.Inner(1)
		if inner.Empty() {
			continue
		}
		pools := rng.IntRange(1, b.Hazards.MaxPools)
		radius := b.Hazards.Radius
		for i := 0; i < pools; i++ {
			c := Point{rng.IntRange(inner.MinX, inner.MaxX), rng.IntRange(inner.MinY, inner.MaxY)}
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					q := c.Add(dx, dy)
					if abs(dx)+abs(dy) > radius || !inner.Contains(q) {
						continue
					}
					if m.Role(q) == RoleFloor {
						m.SetRole(q, RoleHazard)
					}
				}
			}
		}
	}
}

// placeChests puts a chest site in the middle of every treasure room
func (a *BiomeAssigner) placeChests(m *TileMap, g *RoomGraph) {
	for _, r := range g.Rooms {
		if r.Type == RoomTreasure {
			m.SetRole(r.Center(), RoleChest)
		}
	}
}

// skin maps every cell's role through its biome's palette
func (a *BiomeAssigner) skin(m *TileMap) {
	for _, p := range m.Bounds().Points() {
		cell, _ := m.At(p)
		b := a.byID[cell.Biome]
		if b == nil {
			b = a.biomes[0]
		}
		m.SetTile(p, b.Palette.Tile(cell.Role), b.ID)
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
