package generation

import (
	"fmt"
	"math"
)

// SpawnTier is the strength variant of a spawn
type SpawnTier int

const (
	TierNormal SpawnTier = iota
	TierElite
	TierChampion
	TierBoss
)

var tierNames = [...]string{
	TierNormal:   "normal",
	TierElite:    "elite",
	TierChampion: "champion",
	TierBoss:     "boss",
}

func (t SpawnTier) String() string {
	if t >= 0 && int(t) < len(tierNames) {
		return tierNames[t]
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// MarshalText encodes the tier by name
func (t SpawnTier) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(tierNames) {
		return nil, fmt.Errorf("unknown tier %d", int(t))
	}
	return []byte(tierNames[t]), nil
}

// UnmarshalText decodes a tier name
func (t *SpawnTier) UnmarshalText(text []byte) error {
	for i, n := range tierNames {
		if n == string(text) {
			*t = SpawnTier(i)
			return nil
		}
	}
	return fmt.Errorf("unknown tier %q", text)
}

// SpawnPoint is a placed enemy, item or boss
type SpawnPoint struct {
	RoomID   int           `json:"room_id"`
	Position Point         `json:"position"`
	Kind     string        `json:"kind"`
	Category SpawnCategory `json:"category"`
	Tier     SpawnTier     `json:"tier"`
}

// Hostile reports whether the spawn fights the player
func (s SpawnPoint) Hostile() bool {
	return s.Category != SpawnItem
}

// Weights for typing the rooms left after start, boss and treasure
var roomTypeWeights = []struct {
	Type   RoomType
	Weight float64
}{
	{RoomCombat, 50},
	{RoomPlatforming, 25},
	{RoomPuzzle, 15},
	{RoomSafe, 10},
}

// classifyRooms marks the start room and assigns every room a type. Start is a
// dead end when one exists, the boss room is the one farthest from start, and
// treasure rooms sit at other dead ends.
func classifyRooms(g *RoomGraph, rng *RNG) {
	n := g.Len()
	if n == 0 {
		return
	}
	for _, r := range g.Rooms {
		r.Type = RoomCombat
	}

	deadEnds := g.DeadEnds()
	start := rng.Intn(n)
	if len(deadEnds) > 0 {
		start = deadEnds[rng.Intn(len(deadEnds))]
	}
	g.SetStart(start)
	g.Rooms[start].Type = RoomSafe

	dist := g.Distances(start)
	boss := -1
	for id, d := range dist {
		if id == start || d < 0 {
			continue
		}
		if boss < 0 || d > dist[boss] ||
			(d == dist[boss] && g.Rooms[id].Bounds.Area() > g.Rooms[boss].Bounds.Area()) {
			boss = id
		}
	}
	if boss >= 0 {
		g.Rooms[boss].Type = RoomBoss
	}

	assigned := make([]bool, n)
	assigned[start] = true
	if boss >= 0 {
		assigned[boss] = true
	}

	maxTreasure := max(1, n/6)
	treasures := 0
	for _, id := range deadEnds {
		if assigned[id] || treasures >= maxTreasure || !rng.Chance(0.5) {
			continue
		}
		g.Rooms[id].Type = RoomTreasure
		assigned[id] = true
		treasures++
	}

	weights := make([]float64, len(roomTypeWeights))
	for i, w := range roomTypeWeights {
		weights[i] = w.Weight
	}
	for id, r := range g.Rooms {
		if assigned[id] {
			continue
		}
		r.Type = roomTypeWeights[rng.WeightedIndex(weights)].Type
	}
}

// BaseDensity is the spawn budget of a room type at difficulty scalar 1
func BaseDensity(t RoomType) float64 {
	switch t {
	case RoomCombat:
		return 4
	case RoomPlatforming:
		return 2.5
	case RoomPuzzle:
		return 1.5
	case RoomTreasure, RoomSafe:
		return 1
	}
	return 0
}

// DifficultyScalar maps difficulty to a spawn budget multiplier
func DifficultyScalar(d float64) float64 {
	if d < 0 {
		d = 0
	}
	return 0.5 + 1.5*d
}

// TierChances returns the elite and champion probabilities for a difficulty.
// Both are non-decreasing in d.
func TierChances(d float64) (elite, champion float64) {
	if d < 0 {
		d = 0
	}
	elite = math.Min(0.6, 0.05+0.3*d)
	champion = math.Min(0.25, 0.01+0.12*d)
	return elite, champion
}

// ContentPlacer scales spawn density and rarity by difficulty and room type
type ContentPlacer struct {
	Difficulty float64
	byID       map[BiomeID]*Biome
}

// NewContentPlacer creates a placer over the given biomes
func NewContentPlacer(difficulty float64, biomes []*Biome) *ContentPlacer {
	byID := make(map[BiomeID]*Biome, len(biomes))
	for _, b := range biomes {
		byID[b.ID] = b
	}
	return &ContentPlacer{Difficulty: difficulty, byID: byID}
}

// Place fills every room with spawns and records their positions on the room
func (c *ContentPlacer) Place(m *TileMap, g *RoomGraph, rng *RNG) []SpawnPoint {
	spawns := make([]SpawnPoint, 0, g.Len()*3)
	for _, r := range g.Rooms {
		b := c.byID[r.Biome]
		if b == nil {
			continue
		}
		free := freeCells(m, r.Bounds)
		if len(free) == 0 {
			continue
		}

		if r.Type == RoomBoss {
			pos := free[0]
			for _, p := range free {
				if p == r.Center() {
					pos = p
					break
				}
			}
			spawns = append(spawns, SpawnPoint{
				RoomID: r.ID, Position: pos, Kind: b.Boss, Category: SpawnBoss, Tier: TierBoss,
			})
			r.SpawnPoints = append(r.SpawnPoints, pos)
			continue
		}

		rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
		for _, sp := range c.fillRoom(r, b, free, rng) {
			spawns = append(spawns, sp)
			r.SpawnPoints = append(r.SpawnPoints, sp.Position)
		}
	}
	return spawns
}

// fillRoom draws spawns for a non-boss room from the biome's weighted table.
// A kind leaves the pool once it reaches its per-room cap.
func (c *ContentPlacer) fillRoom(r *Room, b *Biome, free []Point, rng *RNG) []SpawnPoint {
	budget := BaseDensity(r.Type) * DifficultyScalar(c.Difficulty)
	if math.IsNaN(budget) || budget < 0 {
		budget = 0
	}
	// clamp before converting so huge difficulties cannot overflow int
	budget = math.Min(budget, float64(len(free)))
	count := int(budget)
	if rng.Chance(budget - float64(count)) {
		count++
	}
	count = min(count, len(free))

	pool := make([]SpawnEntry, 0, len(b.Spawns))
	for _, e := range b.Spawns {
		if e.Category == SpawnEnemy && !r.Type.Hostile() {
			continue
		}
		pool = append(pool, e)
	}
	weights := make([]float64, len(pool))
	for i, e := range pool {
		weights[i] = e.Weight
	}
	taken := make([]int, len(pool))

	elite, champion := TierChances(c.Difficulty)
	out := make([]SpawnPoint, 0, count)
	for i := 0; i < count; i++ {
		idx := rng.WeightedIndex(weights)
		if idx < 0 {
			break
		}
		e := pool[idx]
		taken[idx]++
		if e.Cap > 0 && taken[idx] >= e.Cap {
			weights[idx] = 0
		}

		tier := TierNormal
		if e.Category == SpawnEnemy {
			roll := rng.Float64()
			switch {
			case roll < champion:
				tier = TierChampion
			case roll < champion+elite:
				tier = TierElite
			}
		}
		out = append(out, SpawnPoint{
			RoomID: r.ID, Position: free[i], Kind: e.Kind, Category: e.Category, Tier: tier,
		})
	}
	return out
}

// freeCells lists plain floor cells in b, row-major
func freeCells(m *TileMap, b Bounds) []Point {
	out := make([]Point, 0, b.Area())
	for _, p := range b.Points() {
		if m.Role(p) == RoleFloor {
			out = append(out, p)
		}
	}
	return out
}
