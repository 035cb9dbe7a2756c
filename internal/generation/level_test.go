package generation

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelJSONRoundTrip(t *testing.T) {
	cfg := DefaultConfig(21)
	cfg.Width, cfg.Height = 80, 40
	cfg.Biomes = []BiomeID{BiomeCrypt, BiomeTundra}
	cfg.Algorithm = AlgorithmBSP
	cfg.MaxRetryBudget = 10
	level, err := GenerateLevel(cfg)
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(level)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, field := range []string{`"tilemap"`, `"rooms"`, `"connections"`, `"spawn_points"`, `"biome_map"`, `"transitions"`, `"metadata"`} {
		if !bytes.Contains(data, []byte(field)) {
			t.Errorf("encoded level lacks %s", field)
		}
	}

	restored, err := LevelFromJSON(data)
	if err != nil {
		t.Fatalf("LevelFromJSON: %v", err)
	}
	again, err := json.Marshal(restored)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, again) {
		t.Fatal("re-encoded level differs from the original")
	}

	for _, p := range level.Tiles().Bounds().Points() {
		want, _ := level.Cell(p)
		got, _ := restored.Cell(p)
		if got != want {
			t.Fatalf("cell %v = %+v, want %+v", p, got, want)
		}
	}
	if !restored.Tiles().Frozen() {
		t.Error("restored tile map is writable")
	}
	g := restored.Graph()
	for _, r := range level.Rooms() {
		if g.Degree(r.ID) != len(r.Connections) {
			t.Fatalf("room %d degree %d, want %d", r.ID, g.Degree(r.ID), len(r.Connections))
		}
	}
}

func TestLevelFromJSONRejectsBadInput(t *testing.T) {
	level, err := GenerateLevel(DefaultConfig(2))
	if err != nil {
		t.Fatal(err)
	}
	good, _ := json.Marshal(level)

	tests := []struct {
		name    string
		corrupt func(map[string]any)
	}{
		{"short row", func(m map[string]any) {
			tm := m["tilemap"].(map[string]any)
			rows := tm["tiles"].([]any)
			rows[0] = "##"
		}},
		{"bad glyph", func(m map[string]any) {
			tm := m["tilemap"].(map[string]any)
			rows := tm["roles"].([]any)
			rows[0] = strings.Repeat("?", int(tm["width"].(float64)))
		}},
		{"missing rows", func(m map[string]any) {
			m["biome_map"].(map[string]any)["rows"] = []any{}
		}},
		{"dangling connection", func(m map[string]any) {
			conns := m["connections"].([]any)
			conns[0].(map[string]any)["b"] = 9999
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw map[string]any
			if err := json.Unmarshal(good, &raw); err != nil {
				t.Fatal(err)
			}
			tt.corrupt(raw)
			data, _ := json.Marshal(raw)
			if _, err := LevelFromJSON(data); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLevelAccessorsReturnCopies(t *testing.T) {
	level, err := GenerateLevel(DefaultConfig(5))
	if err != nil {
		t.Fatal(err)
	}
	rooms := level.Rooms()
	rooms[0].Bounds = Rect(0, 0, 1, 1)
	if r, _ := level.Room(0); r.Bounds == rooms[0].Bounds {
		t.Error("Rooms exposed internal state")
	}
	spawns := level.SpawnPoints()
	if len(spawns) > 0 {
		spawns[0].Kind = "tampered"
		if level.SpawnPoints()[0].Kind == "tampered" {
			t.Error("SpawnPoints exposed internal state")
		}
	}
	if level.Tiles().SetRole(Point{1, 1}, RoleFloor) {
		t.Error("level tile map accepted a write")
	}
	bm := level.BiomeMap()
	bm.Legend["X"] = "bogus"
	if _, ok := level.BiomeMap().Legend["X"]; ok {
		t.Error("BiomeMap exposed internal state")
	}
}

func TestConfigIDStable(t *testing.T) {
	a := configID(DefaultConfig(1).withDefaults())
	b := configID(DefaultConfig(1).withDefaults())
	c := configID(DefaultConfig(2).withDefaults())
	if a != b || a == c {
		t.Errorf("ids: %s %s %s", a, b, c)
	}
	if len(a) != 16 {
		t.Errorf("id %q is not 16 hex digits", a)
	}

	level, err := GenerateLevel(DefaultConfig(1))
	if err != nil {
		t.Fatal(err)
	}
	if got := LevelID(DefaultConfig(1)); got != level.ID() {
		t.Errorf("LevelID = %s, generated level id %s", got, level.ID())
	}
}
