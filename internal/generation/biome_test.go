package generation

import (
	"context"
	"testing"
)

func multiBiomeLevel(t *testing.T, seed uint64) *LevelData {
	t.Helper()
	cfg := DefaultConfig(seed)
	cfg.Width, cfg.Height = 96, 48
	cfg.Biomes = []BiomeID{BiomeForest, BiomeDesert, BiomeTundra}
	cfg.MaxRetryBudget = 10
	level, err := NewGenerator(WithLogger(nil)).Generate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return level
}

func TestBiomeBordersUseBorderingPalettes(t *testing.T) {
	catalog := DefaultBiomes()
	for seed := uint64(1); seed <= 4; seed++ {
		level := multiBiomeLevel(t, seed)
		tm := level.Tiles()

		zoneOf := map[Point]TransitionZone{}
		for _, z := range level.Transitions() {
			if z.A >= z.B {
				t.Fatalf("zone %s/%s not ordered", z.A, z.B)
			}
			for _, c := range z.Cells {
				if c.Weight < 0 || c.Weight > 0.5 {
					t.Fatalf("weight %v out of range at %v", c.Weight, c.Point)
				}
				zoneOf[c.Point] = z
			}
		}

		for _, p := range tm.Bounds().Points() {
			cell, _ := tm.At(p)
			src, ok := catalog.Get(cell.Source)
			if !ok {
				t.Fatalf("cell %v has unknown source %q", p, cell.Source)
			}
			if cell.Tile != src.Palette.Tile(cell.Role) {
				t.Fatalf("cell %v tile %v not from %s palette", p, cell.Tile, src.ID)
			}
			if cell.Source == cell.Biome {
				continue
			}
			z, ok := zoneOf[p]
			if !ok {
				t.Fatalf("cell %v borrows %s palette outside any transition zone", p, cell.Source)
			}
			if (cell.Biome != z.A && cell.Biome != z.B) || (cell.Source != z.A && cell.Source != z.B) {
				t.Fatalf("cell %v mixes %s/%s outside zone %s/%s", p, cell.Biome, cell.Source, z.A, z.B)
			}
		}

		for _, r := range level.Rooms() {
			for _, p := range r.Bounds.Points() {
				if cell, _ := tm.At(p); cell.Biome != r.Biome {
					t.Fatalf("room %d (%s) has a %s cell at %v", r.ID, r.Biome, cell.Biome, p)
				}
			}
		}
	}
}

func TestSingleBiomeIsUniform(t *testing.T) {
	level, err := GenerateLevel(DefaultConfig(3))
	if err != nil {
		t.Fatal(err)
	}
	if len(level.Transitions()) != 0 {
		t.Error("single-biome level has transition zones")
	}
	for _, row := range level.BiomeMap().Rows {
		for _, c := range row {
			if c != 'F' {
				t.Fatalf("unexpected biome code %q", c)
			}
		}
	}
}

func TestBlenderWeights(t *testing.T) {
	biomes := []*Biome{}
	for _, id := range []BiomeID{BiomeTundra, BiomeDesert} {
		b, _ := DefaultBiomes().Get(id)
		biomes = append(biomes, b)
	}
	m := NewTileMap(12, 4)
	m.Fill(m.Bounds(), RoleFloor)
	for _, p := range m.Bounds().Points() {
		b := biomes[0]
		if p.X >= 6 {
			b = biomes[1]
		}
		m.SetBiome(p, b.ID)
		m.SetTile(p, b.Palette.Floor, b.ID)
	}
	before := m.RoleRows()

	zones := NewBlender(3, biomes).Blend(m, NewRNG(8))
	if len(zones) != 1 {
		t.Fatalf("zones = %d, want 1", len(zones))
	}
	z := zones[0]
	if z.A != BiomeDesert || z.B != BiomeTundra {
		t.Errorf("zone pair = %s/%s, want desert/tundra", z.A, z.B)
	}
	// three columns either side of the border
	if len(z.Cells) != 6*4 {
		t.Errorf("zone has %d cells, want 24", len(z.Cells))
	}
	for _, c := range z.Cells {
		d := 5 - c.Point.X
		if c.Point.X >= 6 {
			d = c.Point.X - 6
		}
		if want := 0.5 * (1 - float64(d)/3); c.Weight != want {
			t.Errorf("cell %v weight %v, want %v", c.Point, c.Weight, want)
		}
	}
	after := m.RoleRows()
	for y := range before {
		if before[y] != after[y] {
			t.Fatal("blending changed roles")
		}
	}

	if NewBlender(0, biomes).Blend(m, NewRNG(1)) != nil {
		t.Error("radius 0 should disable blending")
	}
}

func TestBiomeCatalog(t *testing.T) {
	c := DefaultBiomes()
	if got := len(c.IDs()); got != 6 {
		t.Fatalf("built-in biomes = %d, want 6", got)
	}
	custom := &Biome{ID: BiomeForest, Name: "Dead Forest", Code: "F", Boss: "wight"}
	merged := c.With(custom, &Biome{ID: "mire", Name: "Mire", Code: "M", Boss: "bog_king"})
	if b, _ := merged.Get(BiomeForest); b.Name != "Dead Forest" {
		t.Error("override not applied")
	}
	if _, ok := merged.Get("mire"); !ok {
		t.Error("new biome missing")
	}
	if b, _ := c.Get(BiomeForest); b.Name == "Dead Forest" {
		t.Error("With modified the original catalog")
	}
	volcano, _ := c.Get(BiomeVolcano)
	if volcano.Allows(AlgorithmMaze) || !volcano.Allows(AlgorithmBSP) {
		t.Error("volcano exclusions wrong")
	}
}
