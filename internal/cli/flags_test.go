package cli

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"brawler.dev/levelgen/internal/generation"
)

func parse(t *testing.T, args ...string) *GenerationFlags {
	t.Helper()
	var f GenerationFlags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.Register(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return &f
}

func TestConfigFromFlags(t *testing.T) {
	cfg := parse(t, "-seed", "9", "-algorithm", "bsp", "-biomes", "crypt, tundra", "-width", "80").Config()
	if cfg.Seed != 9 || cfg.Algorithm != generation.AlgorithmBSP || cfg.Width != 80 || cfg.Height != 64 {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.Biomes) != 2 || cfg.Biomes[1] != generation.BiomeTundra {
		t.Errorf("biomes = %v", cfg.Biomes)
	}

	def := parse(t).Config()
	if def.Seed != 42 || def.Algorithm != generation.AlgorithmRoomBased || len(def.Biomes) != 1 {
		t.Errorf("defaults = %+v", def)
	}
}

func TestLevelFromFile(t *testing.T) {
	level, err := parse(t, "-seed", "4").Level(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := json.Marshal(level)
	path := filepath.Join(t.TempDir(), "level.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := parse(t, "-level", path).Level(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.ID() != level.ID() {
		t.Errorf("loaded %s, want %s", loaded.ID(), level.ID())
	}

	if _, err := parse(t, "-level", filepath.Join(t.TempDir(), "none.json")).Level(context.Background(), nil); err == nil {
		t.Error("expected an error for a missing file")
	}
}
