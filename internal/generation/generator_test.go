package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
)

// countingAlgorithm returns an empty layout so validation always fails
type countingAlgorithm struct {
	calls int
	seeds []uint64
}

func (a *countingAlgorithm) Generate(cfg *GenerationConfig, rng *RNG) (*RoomGraph, *TileMap, error) {
	a.calls++
	a.seeds = append(a.seeds, rng.Uint64())
	return NewRoomGraph(), NewTileMap(cfg.Width, cfg.Height), nil
}

func TestGenerateSeed42Forest(t *testing.T) {
	cfg := DefaultConfig(42)
	level, err := GenerateLevel(cfg)
	if err != nil {
		t.Fatalf("GenerateLevel: %v", err)
	}
	if level.Width() != 64 || level.Height() != 64 {
		t.Errorf("size = %dx%d", level.Width(), level.Height())
	}
	rooms := level.Rooms()
	if len(rooms) < 6 {
		t.Fatalf("%d rooms, want at least 6", len(rooms))
	}
	starts := 0
	for _, r := range rooms {
		if r.Start {
			starts++
		}
		if r.Biome != BiomeForest {
			t.Errorf("room %d biome %q", r.ID, r.Biome)
		}
	}
	if starts != 1 {
		t.Errorf("%d start rooms, want 1", starts)
	}
	start, _ := level.StartRoom()
	if !level.Graph().IsConnected(start.ID) {
		t.Error("level graph not connected from the start room")
	}

	again, err := GenerateLevel(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(level.SpawnPoints(), again.SpawnPoints()) {
		t.Error("spawn points differ between identical runs")
	}
	if level.ID() != again.ID() {
		t.Error("level ids differ between identical runs")
	}
}

func TestGenerateMazeScenario(t *testing.T) {
	cfg := DefaultConfig(42)
	cfg.Algorithm = AlgorithmMaze
	level, err := GenerateLevel(cfg)
	if err != nil {
		t.Fatalf("GenerateLevel: %v", err)
	}
	start, ok := level.StartRoom()
	if !ok {
		t.Fatal("no start room")
	}
	tm := level.Tiles()
	if got, want := tm.Reachable(start.Center()).Size(), tm.CountWalkable(); got != want {
		t.Errorf("%d of %d walkable cells reachable from the start room", got, want)
	}
	if ratio := level.Graph().DeadEndRatio(); ratio > DefaultRules().MaxDeadEndRatio {
		t.Errorf("dead-end ratio %.2f above %.2f", ratio, DefaultRules().MaxDeadEndRatio)
	}
}

func TestGenerateDeterministicJSON(t *testing.T) {
	for _, kind := range AlgorithmKinds() {
		t.Run(string(kind), func(t *testing.T) {
			cfg := DefaultConfig(7)
			cfg.Algorithm = kind
			cfg.Biomes = []BiomeID{BiomeSwamp, BiomeForest}
			cfg.MaxRetryBudget = 10
			a, err := GenerateLevel(cfg)
			if err != nil {
				t.Fatal(err)
			}
			b, err := GenerateLevel(cfg)
			if err != nil {
				t.Fatal(err)
			}
			ja, _ := json.Marshal(a)
			jb, _ := json.Marshal(b)
			if !bytes.Equal(ja, jb) {
				t.Error("identical configs produced different levels")
			}
		})
	}
}

func TestRetryBudgetTermination(t *testing.T) {
	for _, budget := range []int{0, 1, 4} {
		alg := &countingAlgorithm{}
		gen := NewGenerator(WithLogger(nil), WithAlgorithm("empty", alg))
		cfg := DefaultConfig(1)
		cfg.Algorithm = "empty"
		cfg.MaxRetryBudget = budget

		level, err := gen.Generate(context.Background(), cfg)
		if level != nil {
			t.Fatal("expected no level")
		}
		if alg.calls != budget+1 {
			t.Errorf("budget %d: %d attempts, want %d", budget, alg.calls, budget+1)
		}
		if !errors.Is(err, ErrRetryBudgetExceeded) {
			t.Fatalf("budget %d: err = %v, want ErrRetryBudgetExceeded", budget, err)
		}
		if !errors.Is(err, ErrInsufficientRoomCount) {
			t.Errorf("budget %d: last cause not wrapped: %v", budget, err)
		}
		var genErr *GenerationError
		if !errors.As(err, &genErr) || genErr.Attempts != budget+1 {
			t.Errorf("budget %d: attempts in error = %+v", budget, genErr)
		}
		seen := map[uint64]bool{}
		for _, s := range alg.seeds {
			if seen[s] {
				t.Errorf("budget %d: attempts reused an rng stream", budget)
			}
			seen[s] = true
		}
	}
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*GenerationConfig)
	}{
		{"too narrow", func(c *GenerationConfig) { c.Width = 4 }},
		{"too tall", func(c *GenerationConfig) { c.Height = 5000 }},
		{"no algorithm", func(c *GenerationConfig) { c.Algorithm = "" }},
		{"unknown algorithm", func(c *GenerationConfig) { c.Algorithm = "wave_function" }},
		{"no biomes", func(c *GenerationConfig) { c.Biomes = nil }},
		{"unknown biome", func(c *GenerationConfig) { c.Biomes = []BiomeID{"jungle"} }},
		{"duplicate biome", func(c *GenerationConfig) { c.Biomes = []BiomeID{BiomeForest, BiomeForest} }},
		{"excluded pair", func(c *GenerationConfig) {
			c.Algorithm = AlgorithmMaze
			c.Biomes = []BiomeID{BiomeVolcano}
		}},
		{"negative difficulty", func(c *GenerationConfig) { c.Difficulty = -0.5 }},
		{"difficulty above max", func(c *GenerationConfig) { c.Difficulty = 1e300 }},
		{"infinite difficulty", func(c *GenerationConfig) { c.Difficulty = math.Inf(1) }},
		{"nan difficulty", func(c *GenerationConfig) { c.Difficulty = math.NaN() }},
		{"negative budget", func(c *GenerationConfig) { c.MaxRetryBudget = -1 }},
		{"dead-end ratio above one", func(c *GenerationConfig) { c.Rules.MaxDeadEndRatio = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alg := &countingAlgorithm{}
			gen := NewGenerator(WithLogger(nil), WithAlgorithm("empty", alg))
			cfg := DefaultConfig(1)
			tt.modify(&cfg)
			_, err := gen.Generate(context.Background(), cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
			var genErr *GenerationError
			if errors.As(err, &genErr) && genErr.Recoverable() {
				t.Error("invalid config reported as recoverable")
			}
		})
	}
}

func TestDuplicateBiomeCodeRejected(t *testing.T) {
	clash := &Biome{ID: "fungal", Name: "Fungal Grove", Code: "F", Boss: "sporemother"}
	gen := NewGenerator(WithLogger(nil), WithBiomes(DefaultBiomes().With(clash)))
	cfg := DefaultConfig(1)
	cfg.Biomes = []BiomeID{BiomeForest, "fungal"}
	if _, err := gen.Generate(context.Background(), cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGenerator(WithLogger(nil)).Generate(ctx, DefaultConfig(1))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestGenerateAsync(t *testing.T) {
	ch := NewGenerator(WithLogger(nil)).GenerateAsync(context.Background(), DefaultConfig(8))
	res, ok := <-ch
	if !ok {
		t.Fatal("channel closed without a result")
	}
	if res.Err != nil || res.Level == nil {
		t.Fatalf("result = %+v", res)
	}
	if _, ok := <-ch; ok {
		t.Error("channel delivered a second result")
	}
}

func TestConcurrentGenerationIsIndependent(t *testing.T) {
	gen := NewGenerator(WithLogger(nil))
	want, err := gen.Generate(context.Background(), DefaultConfig(13))
	if err != nil {
		t.Fatal(err)
	}
	wantJSON, _ := json.Marshal(want)

	results := make([]<-chan Result, 8)
	for i := range results {
		results[i] = gen.GenerateAsync(context.Background(), DefaultConfig(13))
	}
	for _, ch := range results {
		res := <-ch
		if res.Err != nil {
			t.Fatal(res.Err)
		}
		got, _ := json.Marshal(res.Level)
		if !bytes.Equal(got, wantJSON) {
			t.Fatal("concurrent run produced a different level")
		}
	}
}

func TestStateObserver(t *testing.T) {
	var states []State
	gen := NewGenerator(WithLogger(nil), WithStateObserver(func(_ int, s State) {
		states = append(states, s)
	}))
	if _, err := gen.Generate(context.Background(), DefaultConfig(42)); err != nil {
		t.Fatal(err)
	}
	if len(states) < 4 || states[0] != StateConfigured || states[len(states)-1] != StateSucceeded {
		t.Fatalf("states = %v", states)
	}
	for i, s := range states[1:] {
		if s == StateConfigured || s == StateFailed {
			t.Errorf("unexpected state %v at step %d", s, i+1)
		}
	}
}

func TestMetadataRecordsFailures(t *testing.T) {
	cfg := DefaultConfig(42)
	level, err := GenerateLevel(cfg)
	if err != nil {
		t.Fatal(err)
	}
	meta := level.Metadata()
	if meta.Seed != 42 || meta.Algorithm != AlgorithmRoomBased {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.Attempts != len(meta.Failures)+1 {
		t.Errorf("%d attempts but %d failures", meta.Attempts, len(meta.Failures))
	}
	if meta.SeedUsed != DeriveSeed(42, meta.Attempts-1) {
		t.Errorf("seed used %d does not match attempt %d", meta.SeedUsed, meta.Attempts)
	}
}

func TestGeneratorAlgorithms(t *testing.T) {
	gen := NewGenerator(WithLogger(nil), WithAlgorithm("zz_custom", &countingAlgorithm{}))
	got := gen.Algorithms()
	want := append(AlgorithmKinds(), "zz_custom")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Algorithms() = %v, want %v", got, want)
	}
}

func TestHybridHonoursBiomeExclusions(t *testing.T) {
	cfg := DefaultConfig(8)
	cfg.Algorithm = AlgorithmHybrid
	cfg.Biomes = []BiomeID{BiomeVolcano}
	cfg.MaxRetryBudget = 10

	onlyMaze := &Hybrid{Parts: []Algorithm{NewMaze()}}
	gen := NewGenerator(WithLogger(nil), WithAlgorithm(AlgorithmHybrid, onlyMaze))
	if _, err := gen.Generate(context.Background(), cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("maze-only hybrid in volcano: err = %v, want ErrInvalidConfig", err)
	}
	if len(onlyMaze.Parts) != 1 {
		t.Error("registered hybrid was modified")
	}

	cfg.Biomes = []BiomeID{BiomeVolcano, BiomeCrypt}
	level, err := GenerateLevel(cfg)
	if err != nil {
		t.Fatalf("hybrid in volcano and crypt: %v", err)
	}
	checkSpawns(t, level)
}
