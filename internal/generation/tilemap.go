package generation

import "fmt"

// Tile is the concrete terrain kind stored in a cell
type Tile uint8

const (
	TileVoid Tile = iota
	TileFloor
	TileWall
	TileDoor
	TileWater
	TileLava
	TileSand
	TileSnow
	TileIce
	TileGrass
	TileMoss
	TileStone
	TileBrick
	TileMud
	TileAsh
	TileChestSite
)

var tileNames = [...]string{
	TileVoid:      "void",
	TileFloor:     "floor",
	TileWall:      "wall",
	TileDoor:      "door",
	TileWater:     "water",
	TileLava:      "lava",
	TileSand:      "sand",
	TileSnow:      "snow",
	TileIce:       "ice",
	TileGrass:     "grass",
	TileMoss:      "moss",
	TileStone:     "stone",
	TileBrick:     "brick",
	TileMud:       "mud",
	TileAsh:       "ash",
	TileChestSite: "chest_site",
}

// Glyphs used when a tile map is written as text rows
var tileGlyphs = [...]rune{
	TileVoid:      ' ',
	TileFloor:     '.',
	TileWall:      '#',
	TileDoor:      '+',
	TileWater:     '~',
	TileLava:      '^',
	TileSand:      ':',
	TileSnow:      '*',
	TileIce:       '_',
	TileGrass:     '"',
	TileMoss:      ',',
	TileStone:     'o',
	TileBrick:     '=',
	TileMud:       '%',
	TileAsh:       ';',
	TileChestSite: '$',
}

func (t Tile) String() string {
	if int(t) < len(tileNames) {
		return tileNames[t]
	}
	return fmt.Sprintf("tile(%d)", t)
}

// Glyph returns the single-rune representation of the tile
func (t Tile) Glyph() rune {
	if int(t) < len(tileGlyphs) {
		return tileGlyphs[t]
	}
	return '?'
}

// MarshalText encodes the tile by name
func (t Tile) MarshalText() ([]byte, error) {
	if int(t) >= len(tileNames) {
		return nil, fmt.Errorf("unknown tile %d", t)
	}
	return []byte(tileNames[t]), nil
}

// UnmarshalText decodes a tile name
func (t *Tile) UnmarshalText(text []byte) error {
	parsed, err := ParseTile(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTile looks a tile up by name
func ParseTile(name string) (Tile, error) {
	for i, n := range tileNames {
		if n == name {
			return Tile(i), nil
		}
	}
	return TileVoid, fmt.Errorf("unknown tile %q", name)
}

func tileFromGlyph(r rune) (Tile, bool) {
	for i, g := range tileGlyphs {
		if g == r {
			return Tile(i), true
		}
	}
	return TileVoid, false
}

// Role is the logical purpose of a cell, independent of biome
type Role uint8

const (
	RoleWall Role = iota
	RoleFloor
	RoleDoor
	RoleHazard
	RoleChest
)

var roleGlyphs = [...]rune{
	RoleWall:   '#',
	RoleFloor:  '.',
	RoleDoor:   '+',
	RoleHazard: '!',
	RoleChest:  '$',
}

func (r Role) String() string {
	switch r {
	case RoleWall:
		return "wall"
	case RoleFloor:
		return "floor"
	case RoleDoor:
		return "door"
	case RoleHazard:
		return "hazard"
	case RoleChest:
		return "chest"
	}
	return fmt.Sprintf("role(%d)", r)
}

// Walkable reports whether an actor can stand on a cell with this role.
// Hazards are walkable; contact damage is resolved by gameplay.
func (r Role) Walkable() bool {
	return r != RoleWall
}

func roleFromGlyph(g rune) (Role, bool) {
	for i, rg := range roleGlyphs {
		if rg == g {
			return Role(i), true
		}
	}
	return RoleWall, false
}

// Cell is a single grid entry
type Cell struct {
	Role   Role
	Tile   Tile
	Biome  BiomeID // region the cell belongs to
	Source BiomeID // biome whose palette supplied Tile
}

// TileMap is the bounds-checked level grid
type TileMap struct {
	width, height int
	cells         []Cell
	frozen        bool
}

// NewTileMap creates a map filled with walls
func NewTileMap(width, height int) *TileMap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	cells := make([]Cell, width*height)
	for i := range cells {
		cells[i] = Cell{Role: RoleWall, Tile: TileWall}
	}
	return &TileMap{width: width, height: height, cells: cells}
}

// Width returns the number of columns
func (m *TileMap) Width() int { return m.width }

// Height returns the number of rows
func (m *TileMap) Height() int { return m.height }

// Bounds returns the full extent of the map
func (m *TileMap) Bounds() Bounds {
	return Bounds{0, 0, m.width - 1, m.height - 1}
}

// InBounds checks if a point is within the grid
func (m *TileMap) InBounds(p Point) bool {
	return p.X >= 0 && p.X < m.width && p.Y >= 0 && p.Y < m.height
}

func (m *TileMap) index(p Point) int {
	return p.Y*m.width + p.X
}

// At returns a copy of the cell at p
func (m *TileMap) At(p Point) (Cell, bool) {
	if !m.InBounds(p) {
		return Cell{}, false
	}
	return m.cells[m.index(p)], true
}

// Role returns the role at p; out-of-range points read as wall
func (m *TileMap) Role(p Point) Role {
	if !m.InBounds(p) {
		return RoleWall
	}
	return m.cells[m.index(p)].Role
}

// IsWalkable checks if a position is walkable
func (m *TileMap) IsWalkable(p Point) bool {
	return m.Role(p).Walkable()
}

// SetRole changes the logical role of a cell, reporting whether the write happened
func (m *TileMap) SetRole(p Point, r Role) bool {
	if m.frozen || !m.InBounds(p) {
		return false
	}
	m.cells[m.index(p)].Role = r
	return true
}

// SetBiome tags the cell with a biome region
func (m *TileMap) SetBiome(p Point, id BiomeID) bool {
	if m.frozen || !m.InBounds(p) {
		return false
	}
	m.cells[m.index(p)].Biome = id
	return true
}

// SetTile sets the concrete tile and the biome that supplied it
func (m *TileMap) SetTile(p Point, t Tile, source BiomeID) bool {
	if m.frozen || !m.InBounds(p) {
		return false
	}
	c := &m.cells[m.index(p)]
	c.Tile = t
	c.Source = source
	return true
}

// Fill sets every cell in b to the given role, clipped to the map
func (m *TileMap) Fill(b Bounds, r Role) {
	for y := b.MinY; y <= b.MaxY; y++ {
		for x := b.MinX; x <= b.MaxX; x++ {
			m.SetRole(Point{x, y}, r)
		}
	}
}

// Count returns how many cells inside b have role r
func (m *TileMap) Count(b Bounds, r Role) int {
	n := 0
	for y := b.MinY; y <= b.MaxY; y++ {
		for x := b.MinX; x <= b.MaxX; x++ {
			p := Point{x, y}
			if m.InBounds(p) && m.cells[m.index(p)].Role == r {
				n++
			}
		}
	}
	return n
}

// Clone returns an unfrozen deep copy
func (m *TileMap) Clone() *TileMap {
	cells := make([]Cell, len(m.cells))
	copy(cells, m.cells)
	return &TileMap{width: m.width, height: m.height, cells: cells}
}

// Frozen reports whether the map rejects writes
func (m *TileMap) Frozen() bool { return m.frozen }

func (m *TileMap) freeze() { m.frozen = true }

// TileRows renders the tiles as one glyph string per row
func (m *TileMap) TileRows() []string {
	return m.rows(func(c Cell) rune { return c.Tile.Glyph() })
}

// RoleRows renders the roles as one glyph string per row
func (m *TileMap) RoleRows() []string {
	return m.rows(func(c Cell) rune { return roleGlyphs[c.Role] })
}

func (m *TileMap) rows(glyph func(Cell) rune) []string {
	out := make([]string, m.height)
	buf := make([]rune, m.width)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			buf[x] = glyph(m.cells[y*m.width+x])
		}
		out[y] = string(buf)
	}
	return out
}
