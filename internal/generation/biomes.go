package generation

import (
	"fmt"
	"sort"
)

// BiomeID identifies a biome
type BiomeID string

const (
	BiomeForest  BiomeID = "forest"
	BiomeDesert  BiomeID = "desert"
	BiomeTundra  BiomeID = "tundra"
	BiomeVolcano BiomeID = "volcano"
	BiomeSwamp   BiomeID = "swamp"
	BiomeCrypt   BiomeID = "crypt"
)

// Palette maps every logical role to the tile a biome draws for it
type Palette struct {
	Floor  Tile `json:"floor"`
	Wall   Tile `json:"wall"`
	Door   Tile `json:"door"`
	Hazard Tile `json:"hazard"`
	Chest  Tile `json:"chest"`
}

// Tile returns the palette entry for a role
func (p Palette) Tile(r Role) Tile {
	switch r {
	case RoleFloor:
		return p.Floor
	case RoleDoor:
		return p.Door
	case RoleHazard:
		return p.Hazard
	case RoleChest:
		return p.Chest
	}
	return p.Wall
}

// HazardProfile controls the hazard pools a biome scatters into rooms
type HazardProfile struct {
	Chance   float64 `json:"chance" validate:"gte=0,lte=1"` // probability an eligible room gets pools
	MaxPools int     `json:"max_pools" validate:"gte=0"`
	Radius   int     `json:"radius" validate:"gte=0"` // diamond radius of each pool
}

// SpawnCategory separates hostile spawns from pickups
type SpawnCategory string

const (
	SpawnEnemy SpawnCategory = "enemy"
	SpawnItem  SpawnCategory = "item"
	SpawnBoss  SpawnCategory = "boss"
)

// SpawnEntry is one weighted row of a biome spawn table
type SpawnEntry struct {
	Kind     string        `json:"kind" validate:"required"`
	Category SpawnCategory `json:"category" validate:"oneof=enemy item"`
	Weight   float64       `json:"weight" validate:"gt=0"`
	Cap      int           `json:"cap" validate:"gte=0"` // per-room limit, 0 for none
}

// Biome defines the tiles, hazards and spawns of a themed region
type Biome struct {
	ID       BiomeID         `json:"id" validate:"required"`
	Name     string          `json:"name" validate:"required"`
	Code     string          `json:"code" validate:"len=1"` // single character used in biome map rows
	Palette  Palette         `json:"palette"`
	Hazards  HazardProfile   `json:"hazards"`
	Spawns   []SpawnEntry    `json:"spawns" validate:"dive"`
	Boss     string          `json:"boss" validate:"required"`
	Excludes []AlgorithmKind `json:"excludes,omitempty"`
}

// Allows reports whether the biome can be generated with an algorithm
func (b *Biome) Allows(kind AlgorithmKind) bool {
	for _, k := range b.Excludes {
		if k == kind {
			return false
		}
	}
	return true
}

// BiomeCatalog is a read-only set of biomes keyed by id
type BiomeCatalog struct {
	biomes map[BiomeID]*Biome
}

// NewBiomeCatalog builds a catalog; later biomes replace earlier ones with the same id
func NewBiomeCatalog(biomes ...*Biome) *BiomeCatalog {
	c := &BiomeCatalog{biomes: make(map[BiomeID]*Biome, len(biomes))}
	for _, b := range biomes {
		c.biomes[b.ID] = b
	}
	return c
}

// With returns a new catalog holding c's biomes overridden by extra
func (c *BiomeCatalog) With(extra ...*Biome) *BiomeCatalog {
	all := make([]*Biome, 0, len(c.biomes)+len(extra))
	for _, id := range c.IDs() {
		all = append(all, c.biomes[id])
	}
	return NewBiomeCatalog(append(all, extra...)...)
}

// Get returns the biome with the given id
func (c *BiomeCatalog) Get(id BiomeID) (*Biome, bool) {
	b, ok := c.biomes[id]
	return b, ok
}

// lookup returns the biome or an error naming the missing id
func (c *BiomeCatalog) lookup(id BiomeID) (*Biome, error) {
	b, ok := c.biomes[id]
	if !ok {
		return nil, fmt.Errorf("unknown biome %q", id)
	}
	return b, nil
}

// IDs lists the catalog's biome ids in sorted order
func (c *BiomeCatalog) IDs() []BiomeID {
	ids := make([]BiomeID, 0, len(c.biomes))
	for id := range c.biomes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// All returns the biomes in id order
func (c *BiomeCatalog) All() []*Biome {
	out := make([]*Biome, 0, len(c.biomes))
	for _, id := range c.IDs() {
		out = append(out, c.biomes[id])
	}
	return out
}

// DefaultBiomes returns the built-in catalog
func DefaultBiomes() *BiomeCatalog {
	return NewBiomeCatalog(
		&Biome{
			ID:   BiomeForest,
			Name: "Overgrown Forest",
			Code: "F",
			Palette: Palette{
				Floor: TileGrass, Wall: TileStone, Door: TileDoor, Hazard: TileWater, Chest: TileChestSite,
			},
			Hazards: HazardProfile{Chance: 0.3, MaxPools: 2, Radius: 1},
			Spawns: []SpawnEntry{
				{Kind: "wolf", Category: SpawnEnemy, Weight: 5, Cap: 3},
				{Kind: "bandit", Category: SpawnEnemy, Weight: 4, Cap: 3},
				{Kind: "treant", Category: SpawnEnemy, Weight: 1, Cap: 1},
				{Kind: "health_herb", Category: SpawnItem, Weight: 3, Cap: 2},
				{Kind: "coin_pouch", Category: SpawnItem, Weight: 2, Cap: 2},
			},
			Boss: "elder_treant",
		},
		&Biome{
			ID:   BiomeDesert,
			Name: "Scorched Dunes",
			Code: "D",
			Palette: Palette{
				Floor: TileSand, Wall: TileBrick, Door: TileDoor, Hazard: TileMud, Chest: TileChestSite,
			},
			Hazards: HazardProfile{Chance: 0.4, MaxPools: 2, Radius: 2},
			Spawns: []SpawnEntry{
				{Kind: "scorpion", Category: SpawnEnemy, Weight: 5, Cap: 4},
				{Kind: "nomad", Category: SpawnEnemy, Weight: 3, Cap: 2},
				{Kind: "sand_wraith", Category: SpawnEnemy, Weight: 1, Cap: 1},
				{Kind: "water_flask", Category: SpawnItem, Weight: 4, Cap: 2},
				{Kind: "coin_pouch", Category: SpawnItem, Weight: 2, Cap: 2},
			},
			Boss: "sand_colossus",
		},
		&Biome{
			ID:   BiomeTundra,
			Name: "Frozen Tundra",
			Code: "T",
			Palette: Palette{
				Floor: TileSnow, Wall: TileIce, Door: TileDoor, Hazard: TileWater, Chest: TileChestSite,
			},
			Hazards: HazardProfile{Chance: 0.25, MaxPools: 1, Radius: 2},
			Spawns: []SpawnEntry{
				{Kind: "ice_wolf", Category: SpawnEnemy, Weight: 4, Cap: 3},
				{Kind: "yeti", Category: SpawnEnemy, Weight: 2, Cap: 1},
				{Kind: "frost_sprite", Category: SpawnEnemy, Weight: 3, Cap: 3},
				{Kind: "warm_broth", Category: SpawnItem, Weight: 3, Cap: 2},
			},
			Boss: "frost_giant",
		},
		&Biome{
			ID:   BiomeVolcano,
			Name: "Molten Caldera",
			Code: "V",
			Palette: Palette{
				Floor: TileAsh, Wall: TileStone, Door: TileDoor, Hazard: TileLava, Chest: TileChestSite,
			},
			Hazards: HazardProfile{Chance: 0.6, MaxPools: 3, Radius: 1},
			Spawns: []SpawnEntry{
				{Kind: "fire_imp", Category: SpawnEnemy, Weight: 5, Cap: 4},
				{Kind: "magma_golem", Category: SpawnEnemy, Weight: 2, Cap: 1},
				{Kind: "ash_hound", Category: SpawnEnemy, Weight: 3, Cap: 2},
				{Kind: "cooling_salve", Category: SpawnItem, Weight: 3, Cap: 2},
			},
			Boss:     "magma_wyrm",
			Excludes: []AlgorithmKind{AlgorithmMaze},
		},
		&Biome{
			ID:   BiomeSwamp,
			Name: "Rotting Swamp",
			Code: "S",
			Palette: Palette{
				Floor: TileMud, Wall: TileMoss, Door: TileDoor, Hazard: TileWater, Chest: TileChestSite,
			},
			Hazards: HazardProfile{Chance: 0.5, MaxPools: 3, Radius: 1},
			Spawns: []SpawnEntry{
				{Kind: "bog_lurker", Category: SpawnEnemy, Weight: 4, Cap: 3},
				{Kind: "leech_swarm", Category: SpawnEnemy, Weight: 4, Cap: 2},
				{Kind: "witch", Category: SpawnEnemy, Weight: 1, Cap: 1},
				{Kind: "antidote", Category: SpawnItem, Weight: 3, Cap: 2},
			},
			Boss: "swamp_hydra",
		},
		&Biome{
			ID:   BiomeCrypt,
			Name: "Forgotten Crypt",
			Code: "C",
			Palette: Palette{
				Floor: TileFloor, Wall: TileBrick, Door: TileDoor, Hazard: TileVoid, Chest: TileChestSite,
			},
			Hazards: HazardProfile{Chance: 0.2, MaxPools: 1, Radius: 1},
			Spawns: []SpawnEntry{
				{Kind: "skeleton", Category: SpawnEnemy, Weight: 5, Cap: 4},
				{Kind: "ghoul", Category: SpawnEnemy, Weight: 3, Cap: 2},
				{Kind: "banshee", Category: SpawnEnemy, Weight: 1, Cap: 1},
				{Kind: "holy_water", Category: SpawnItem, Weight: 2, Cap: 2},
				{Kind: "coin_pouch", Category: SpawnItem, Weight: 3, Cap: 2},
			},
			Boss:     "lich_king",
			Excludes: []AlgorithmKind{AlgorithmCellular},
		},
	)
}
