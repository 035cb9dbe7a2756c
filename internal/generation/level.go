package generation

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"unicode/utf8"
)

// Metadata describes how a level was produced
type Metadata struct {
	Seed        uint64           `json:"seed"`      // seed the caller asked for
	SeedUsed    uint64           `json:"seed_used"` // seed of the successful attempt
	Algorithm   AlgorithmKind    `json:"algorithm"`
	Attempts    int              `json:"attempts"`
	Failures    []AttemptFailure `json:"failures"`
	Difficulty  float64          `json:"difficulty"`
	Biomes      []BiomeID        `json:"biomes"`
	BlendRadius int              `json:"blend_radius"`
}

// BiomeRegion summarises the part of a level tagged with one biome
type BiomeRegion struct {
	Biome BiomeID `json:"biome"`
	Rooms []int   `json:"rooms"`
	Cells int     `json:"cells"`
}

// BiomeMap is the per-cell biome tagging, one code character per cell
type BiomeMap struct {
	Legend  map[string]BiomeID `json:"legend"`
	Rows    []string           `json:"rows"`
	Regions []BiomeRegion      `json:"regions"`
}

// LevelData is the immutable result of a successful generation. Accessors
// return copies; the tile map rejects writes.
type LevelData struct {
	id          string
	tiles       *TileMap
	graph       *RoomGraph
	spawns      []SpawnPoint
	biomeMap    BiomeMap
	transitions []TransitionZone
	meta        Metadata
}

func newLevelData(id string, tm *TileMap, g *RoomGraph, spawns []SpawnPoint, zones []TransitionZone, biomes []*Biome, meta Metadata) *LevelData {
	tm.freeze()
	return &LevelData{
		id:          id,
		tiles:       tm,
		graph:       g,
		spawns:      spawns,
		biomeMap:    buildBiomeMap(tm, g, biomes),
		transitions: zones,
		meta:        meta,
	}
}

func buildBiomeMap(tm *TileMap, g *RoomGraph, biomes []*Biome) BiomeMap {
	bm := BiomeMap{
		Legend:  make(map[string]BiomeID, len(biomes)),
		Rows:    make([]string, tm.Height()),
		Regions: make([]BiomeRegion, len(biomes)),
	}
	codes := make(map[BiomeID]rune, len(biomes))
	index := make(map[BiomeID]int, len(biomes))
	for i, b := range biomes {
		r, _ := utf8.DecodeRuneInString(b.Code)
		codes[b.ID] = r
		index[b.ID] = i
		bm.Legend[b.Code] = b.ID
		bm.Regions[i] = BiomeRegion{Biome: b.ID, Rooms: []int{}}
	}

	buf := make([]rune, tm.Width())
	for y := 0; y < tm.Height(); y++ {
		for x := 0; x < tm.Width(); x++ {
			cell, _ := tm.At(Point{x, y})
			buf[x] = codes[cell.Biome]
			if i, ok := index[cell.Biome]; ok {
				bm.Regions[i].Cells++
			}
		}
		bm.Rows[y] = string(buf)
	}
	for _, r := range g.Rooms {
		if i, ok := index[r.Biome]; ok {
			bm.Regions[i].Rooms = append(bm.Regions[i].Rooms, r.ID)
		}
	}
	return bm
}

// configID derives a stable level id from the normalised config
func configID(cfg GenerationConfig) string {
	data, err := json.Marshal(cfg)
	if err != nil {
		data = []byte(fmt.Sprintf("%+v", cfg))
	}
	h := fnv.New64a()
	h.Write(data)
	return fmt.Sprintf("%016x", h.Sum64())
}

// LevelID returns the id a successful Generate(cfg) would give its level
func LevelID(cfg GenerationConfig) string {
	return configID(cfg.withDefaults())
}

// ID returns the level's identifier, derived from its config
func (l *LevelData) ID() string { return l.id }

// Width returns the number of columns
func (l *LevelData) Width() int { return l.tiles.Width() }

// Height returns the number of rows
func (l *LevelData) Height() int { return l.tiles.Height() }

// Tiles returns the read-only tile map
func (l *LevelData) Tiles() *TileMap { return l.tiles }

// Cell returns a copy of the cell at p
func (l *LevelData) Cell(p Point) (Cell, bool) { return l.tiles.At(p) }

// Graph returns a deep copy of the room graph
func (l *LevelData) Graph() *RoomGraph { return l.graph.Clone() }

// Rooms returns copies of every room
func (l *LevelData) Rooms() []Room {
	g := l.graph.Clone()
	out := make([]Room, len(g.Rooms))
	for i, r := range g.Rooms {
		out[i] = *r
	}
	return out
}

// Room returns a copy of one room
func (l *LevelData) Room(id int) (Room, bool) {
	r := l.graph.Room(id)
	if r == nil {
		return Room{}, false
	}
	cp := *r
	cp.Connections = append([]int{}, r.Connections...)
	cp.SpawnPoints = append([]Point{}, r.SpawnPoints...)
	return cp, true
}

// StartRoom returns a copy of the start room
func (l *LevelData) StartRoom() (Room, bool) {
	s := l.graph.StartRoom()
	if s == nil {
		return Room{}, false
	}
	return l.Room(s.ID)
}

// Connections returns copies of every corridor
func (l *LevelData) Connections() []Connection {
	g := l.graph.Clone()
	out := make([]Connection, len(g.Connections))
	for i, c := range g.Connections {
		out[i] = *c
	}
	return out
}

// SpawnPoints returns a copy of the spawn list
func (l *LevelData) SpawnPoints() []SpawnPoint {
	return append([]SpawnPoint{}, l.spawns...)
}

// BiomeMap returns a copy of the biome tagging
func (l *LevelData) BiomeMap() BiomeMap {
	bm := BiomeMap{
		Legend:  make(map[string]BiomeID, len(l.biomeMap.Legend)),
		Rows:    append([]string{}, l.biomeMap.Rows...),
		Regions: make([]BiomeRegion, len(l.biomeMap.Regions)),
	}
	for k, v := range l.biomeMap.Legend {
		bm.Legend[k] = v
	}
	for i, r := range l.biomeMap.Regions {
		r.Rooms = append([]int{}, r.Rooms...)
		bm.Regions[i] = r
	}
	return bm
}

// Transitions returns copies of the biome transition zones
func (l *LevelData) Transitions() []TransitionZone {
	out := make([]TransitionZone, len(l.transitions))
	for i, z := range l.transitions {
		z.Cells = append([]TransitionCell{}, z.Cells...)
		out[i] = z
	}
	return out
}

// Metadata returns a copy of the generation metadata
func (l *LevelData) Metadata() Metadata {
	m := l.meta
	m.Failures = append([]AttemptFailure{}, l.meta.Failures...)
	m.Biomes = append([]BiomeID{}, l.meta.Biomes...)
	return m
}

type tilemapJSON struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Tiles  []string `json:"tiles"` // one glyph per cell
	Roles  []string `json:"roles"`
}

type levelJSON struct {
	ID          string           `json:"id"`
	Tilemap     tilemapJSON      `json:"tilemap"`
	Rooms       []*Room          `json:"rooms"`
	Connections []*Connection    `json:"connections"`
	SpawnPoints []SpawnPoint     `json:"spawn_points"`
	BiomeMap    BiomeMap         `json:"biome_map"`
	Transitions []TransitionZone `json:"transitions"`
	Metadata    Metadata         `json:"metadata"`
}

// MarshalJSON implements json.Marshaler
func (l *LevelData) MarshalJSON() ([]byte, error) {
	return json.Marshal(levelJSON{
		ID: l.id,
		Tilemap: tilemapJSON{
			Width:  l.tiles.Width(),
			Height: l.tiles.Height(),
			Tiles:  l.tiles.TileRows(),
			Roles:  l.tiles.RoleRows(),
		},
		Rooms:       l.graph.Rooms,
		Connections: l.graph.Connections,
		SpawnPoints: l.spawns,
		BiomeMap:    l.biomeMap,
		Transitions: l.transitions,
		Metadata:    l.meta,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (l *LevelData) UnmarshalJSON(data []byte) error {
	var raw levelJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	restored, err := raw.level()
	if err != nil {
		return err
	}
	*l = *restored
	return nil
}

// LevelFromJSON restores a level written by MarshalJSON
func LevelFromJSON(data []byte) (*LevelData, error) {
	var l LevelData
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decoding level: %w", err)
	}
	return &l, nil
}

func (raw *levelJSON) level() (*LevelData, error) {
	tm, err := raw.tilemap()
	if err != nil {
		return nil, err
	}

	g := NewRoomGraph()
	for i, r := range raw.Rooms {
		if r == nil || r.ID != i {
			return nil, fmt.Errorf("room %d: ids must be sequential", i)
		}
		if r.Connections == nil {
			r.Connections = []int{}
		}
		if r.SpawnPoints == nil {
			r.SpawnPoints = []Point{}
		}
		g.Rooms = append(g.Rooms, r)
	}
	for i, c := range raw.Connections {
		if c == nil || c.ID != i {
			return nil, fmt.Errorf("connection %d: ids must be sequential", i)
		}
		if g.Room(c.A) == nil || g.Room(c.B) == nil {
			return nil, fmt.Errorf("connection %d links unknown rooms %d-%d", i, c.A, c.B)
		}
		g.Connections = append(g.Connections, c)
	}
	g.rebuildAdjacency()
	tm.freeze()

	return &LevelData{
		id:          raw.ID,
		tiles:       tm,
		graph:       g,
		spawns:      raw.SpawnPoints,
		biomeMap:    raw.BiomeMap,
		transitions: raw.Transitions,
		meta:        raw.Metadata,
	}, nil
}

func (raw *levelJSON) tilemap() (*TileMap, error) {
	t := raw.Tilemap
	if t.Width <= 0 || t.Height <= 0 {
		return nil, fmt.Errorf("tilemap has invalid size %dx%d", t.Width, t.Height)
	}
	if len(t.Tiles) != t.Height || len(t.Roles) != t.Height || len(raw.BiomeMap.Rows) != t.Height {
		return nil, fmt.Errorf("tilemap rows do not match height %d", t.Height)
	}

	tm := NewTileMap(t.Width, t.Height)
	for y := 0; y < t.Height; y++ {
		tiles := []rune(t.Tiles[y])
		roles := []rune(t.Roles[y])
		codes := []rune(raw.BiomeMap.Rows[y])
		if len(tiles) != t.Width || len(roles) != t.Width || len(codes) != t.Width {
			return nil, fmt.Errorf("tilemap row %d does not match width %d", y, t.Width)
		}
		for x := 0; x < t.Width; x++ {
			p := Point{x, y}
			tile, ok := tileFromGlyph(tiles[x])
			if !ok {
				return nil, fmt.Errorf("unknown tile glyph %q at %d,%d", tiles[x], x, y)
			}
			role, ok := roleFromGlyph(roles[x])
			if !ok {
				return nil, fmt.Errorf("unknown role glyph %q at %d,%d", roles[x], x, y)
			}
			biome := raw.BiomeMap.Legend[string(codes[x])]
			tm.SetRole(p, role)
			tm.SetBiome(p, biome)
			tm.SetTile(p, tile, biome)
		}
	}
	for _, z := range raw.Transitions {
		for _, c := range z.Cells {
			cell, ok := tm.At(c.Point)
			if !ok {
				return nil, fmt.Errorf("transition cell %v outside the map", c.Point)
			}
			tm.SetTile(c.Point, cell.Tile, c.Source)
		}
	}
	return tm, nil
}
