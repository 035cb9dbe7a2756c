package generation

// DefaultBlendRadius is the depth, in cells, of biome transition zones
const DefaultBlendRadius = 3

// TransitionCell is one blended cell of a transition zone
type TransitionCell struct {
	Point  Point   `json:"point"`
	Weight float64 `json:"weight"` // probability the neighbouring palette was drawn
	Source BiomeID `json:"source"` // biome whose palette supplied the tile
}

// TransitionZone is the border strip between two biomes. A and B are
// ordered so that A < B.
type TransitionZone struct {
	A     BiomeID          `json:"a"`
	B     BiomeID          `json:"b"`
	Cells []TransitionCell `json:"cells"`
}

// Blender softens borders between differently tagged regions by letting
// cells near a border draw their tile from the neighbouring palette
type Blender struct {
	Radius int
	byID   map[BiomeID]*Biome
}

// NewBlender creates a blender over the given biomes
func NewBlender(radius int, biomes []*Biome) *Blender {
	byID := make(map[BiomeID]*Biome, len(biomes))
	for _, b := range biomes {
		byID[b.ID] = b
	}
	return &Blender{Radius: radius, byID: byID}
}

type blendFront struct {
	point Point
	other BiomeID
	dist  int
}

// Blend runs a multi-source BFS from every border cell. A cell at distance
// d < Radius from a border takes the other biome's palette with probability
// 0.5*(1 - d/Radius). Roles never change.
func (bl *Blender) Blend(m *TileMap, rng *RNG) []TransitionZone {
	if bl.Radius <= 0 {
		return nil
	}

	visited := make([]bool, m.Width()*m.Height())
	queue := make([]blendFront, 0, 256)

	// Border cells seed the queue in row-major order
	for _, p := range m.Bounds().Points() {
		cell, _ := m.At(p)
		for _, adj := range p.Adjacent() {
			other, ok := m.At(adj)
			if ok && other.Biome != cell.Biome {
				queue = append(queue, blendFront{point: p, other: other.Biome})
				visited[m.index(p)] = true
				break
			}
		}
	}

	zones := make([]TransitionZone, 0, 2)
	zoneIndex := make(map[[2]BiomeID]int)

	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		cell, _ := m.At(f.point)
		own, other := bl.byID[cell.Biome], bl.byID[f.other]
		if own == nil || other == nil {
			continue
		}

		weight := 0.5 * (1 - float64(f.dist)/float64(bl.Radius))
		source := own
		if rng.Chance(weight) {
			source = other
		}
		m.SetTile(f.point, source.Palette.Tile(cell.Role), source.ID)

		key := [2]BiomeID{own.ID, other.ID}
		if key[1] < key[0] {
			key[0], key[1] = key[1], key[0]
		}
		zi, ok := zoneIndex[key]
		if !ok {
			zi = len(zones)
			zoneIndex[key] = zi
			zones = append(zones, TransitionZone{A: key[0], B: key[1]})
		}
		zones[zi].Cells = append(zones[zi].Cells, TransitionCell{
			Point:  f.point,
			Weight: weight,
			Source: source.ID,
		})

		if f.dist+1 >= bl.Radius {
			continue
		}
		for _, adj := range f.point.Adjacent() {
			next, ok := m.At(adj)
			if !ok || visited[m.index(adj)] || next.Biome != cell.Biome {
				continue
			}
			visited[m.index(adj)] = true
			queue = append(queue, blendFront{point: adj, other: f.other, dist: f.dist + 1})
		}
	}
	return zones
}
