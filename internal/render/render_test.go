package render

import (
	"testing"

	"brawler.dev/levelgen/internal/generation"
)

func TestCellColorLeansTowardRegion(t *testing.T) {
	base := TileColor(generation.TileGrass)
	tint := BiomeTint(generation.BiomeVolcano)

	inside := CellColor(generation.Cell{
		Role: generation.RoleFloor, Tile: generation.TileGrass,
		Biome: generation.BiomeVolcano, Source: generation.BiomeVolcano,
	})
	border := CellColor(generation.Cell{
		Role: generation.RoleFloor, Tile: generation.TileGrass,
		Biome: generation.BiomeVolcano, Source: generation.BiomeForest,
	})

	if d0, d1 := inside.DistanceLab(tint), base.DistanceLab(tint); d0 >= d1 {
		t.Errorf("region tint did not move the colour toward the biome: %.3f >= %.3f", d0, d1)
	}
	if border.DistanceLab(tint) >= inside.DistanceLab(tint) {
		t.Error("border cell should lean further toward its region than an interior cell")
	}
	if got := CellColor(generation.Cell{Tile: generation.TileGrass}); got != base {
		t.Error("untagged cell should keep the base colour")
	}
}

func TestBiomeTintStable(t *testing.T) {
	a := BiomeTint("fungal")
	b := BiomeTint("fungal")
	if a != b {
		t.Error("tint of an unregistered biome is not stable")
	}
	if !a.IsValid() {
		t.Errorf("tint %v is outside RGB", a)
	}
}

func TestSpawnMarkers(t *testing.T) {
	tests := []struct {
		sp   generation.SpawnPoint
		want rune
	}{
		{generation.SpawnPoint{Category: generation.SpawnEnemy, Tier: generation.TierNormal}, 'e'},
		{generation.SpawnPoint{Category: generation.SpawnEnemy, Tier: generation.TierElite}, 'e'},
		{generation.SpawnPoint{Category: generation.SpawnEnemy, Tier: generation.TierChampion}, 'E'},
		{generation.SpawnPoint{Category: generation.SpawnEnemy, Tier: generation.TierBoss}, 'B'},
		{generation.SpawnPoint{Category: generation.SpawnItem}, '!'},
	}
	for _, tt := range tests {
		if got := SpawnGlyph(tt.sp); got != tt.want {
			t.Errorf("SpawnGlyph(%+v) = %q, want %q", tt.sp, got, tt.want)
		}
	}
}

func TestFrame(t *testing.T) {
	level, err := generation.GenerateLevel(generation.DefaultConfig(42))
	if err != nil {
		t.Fatal(err)
	}
	view := generation.Rect(-2, -1, 10, 6)
	rows := Frame(level, view)
	if len(rows) != 6 || len(rows[0]) != 10 {
		t.Fatalf("frame is %dx%d", len(rows[0]), len(rows))
	}
	if rows[0][0] != Outside {
		t.Errorf("cell outside the level drawn as %+v", rows[0][0])
	}
	cell, _ := level.Cell(generation.Point{X: 0, Y: 0})
	if rows[1][2].Char != cell.Tile.Glyph() {
		t.Errorf("cell (0,0) drawn as %q, want %q", rows[1][2].Char, cell.Tile.Glyph())
	}

	full := Frame(level, level.Tiles().Bounds())
	for _, sp := range level.SpawnPoints() {
		if got := full[sp.Position.Y][sp.Position.X].Char; got != SpawnGlyph(sp) {
			t.Errorf("spawn at %v drawn as %q", sp.Position, got)
		}
	}
}
