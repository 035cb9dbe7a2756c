package render

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"brawler.dev/levelgen/internal/generation"
)

// Base colours for every tile kind
var tileColors = map[generation.Tile]colorful.Color{
	generation.TileVoid:      colorful.Color{R: 0.05, G: 0.05, B: 0.06},
	generation.TileFloor:     mustHex("#8a8a8a"),
	generation.TileWall:      mustHex("#4a4a4a"),
	generation.TileDoor:      mustHex("#a0522d"), // Sienna
	generation.TileWater:     mustHex("#3a6ea5"),
	generation.TileLava:      mustHex("#e2461b"),
	generation.TileSand:      mustHex("#d8c38a"),
	generation.TileSnow:      mustHex("#eef3f7"),
	generation.TileIce:       mustHex("#9fd3e6"),
	generation.TileGrass:     mustHex("#4f8f3a"),
	generation.TileMoss:      mustHex("#5d7a3a"),
	generation.TileStone:     mustHex("#6e6a64"),
	generation.TileBrick:     mustHex("#8c4b3a"),
	generation.TileMud:       mustHex("#6b4f2e"),
	generation.TileAsh:       mustHex("#545050"),
	generation.TileChestSite: mustHex("#f2c230"), // Gold
}

// Region tints for the built-in biomes
var biomeTints = map[generation.BiomeID]colorful.Color{
	generation.BiomeForest:  mustHex("#2e7d32"),
	generation.BiomeDesert:  mustHex("#f9a825"),
	generation.BiomeTundra:  mustHex("#b3e5fc"),
	generation.BiomeVolcano: mustHex("#bf360c"),
	generation.BiomeSwamp:   mustHex("#556b2f"),
	generation.BiomeCrypt:   mustHex("#4a148c"),
}

var (
	unknownColor = mustHex("#808080")
	outsideColor = mustHex("#2a2a2a")
	enemyColor   = mustHex("#ff5050")
	eliteColor   = mustHex("#ff9f1c")
	bossColor    = mustHex("#ff1744")
	itemColor    = mustHex("#7cfc00")
)

// Tint strengths in Lab space. Cells drawn from a neighbouring palette lean
// further toward their own region so borders read as a gradient.
const (
	regionTint = 0.12
	borderTint = 0.35
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// TileColor returns the base colour of a tile kind
func TileColor(t generation.Tile) colorful.Color {
	if c, ok := tileColors[t]; ok {
		return c
	}
	return unknownColor
}

// BiomeTint returns the tint of a biome. Biomes without a registered tint get
// a stable hue derived from their id.
func BiomeTint(id generation.BiomeID) colorful.Color {
	if c, ok := biomeTints[id]; ok {
		return c
	}
	var h uint32 = 2166136261
	for i := 0; i < len(id); i++ {
		h = (h ^ uint32(id[i])) * 16777619
	}
	return colorful.Hcl(float64(h%360), 0.4, 0.55).Clamped()
}

// CellColor tints the cell's tile toward its region. Walls and void keep a
// lighter tint than walkable cells.
func CellColor(cell generation.Cell) colorful.Color {
	base := TileColor(cell.Tile)
	if cell.Biome == "" {
		return base
	}
	t := regionTint
	if cell.Source != "" && cell.Source != cell.Biome {
		t = borderTint
	}
	if !cell.Role.Walkable() {
		t /= 2
	}
	return base.BlendLab(BiomeTint(cell.Biome), t).Clamped()
}

// SpawnColor returns the marker colour for a spawn
func SpawnColor(sp generation.SpawnPoint) colorful.Color {
	switch {
	case sp.Tier == generation.TierBoss:
		return bossColor
	case !sp.Hostile():
		return itemColor
	case sp.Tier == generation.TierNormal:
		return enemyColor
	}
	return eliteColor
}

// SpawnGlyph returns the marker rune for a spawn
func SpawnGlyph(sp generation.SpawnPoint) rune {
	switch {
	case sp.Tier == generation.TierBoss:
		return 'B'
	case !sp.Hostile():
		return '!'
	case sp.Tier == generation.TierChampion:
		return 'E'
	}
	return 'e'
}
