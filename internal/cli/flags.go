// Package cli holds the flags shared by the command line tools
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"brawler.dev/levelgen/internal/config"
	"brawler.dev/levelgen/internal/generation"
)

// GenerationFlags describes a level on the command line
type GenerationFlags struct {
	Seed       uint64
	Width      int
	Height     int
	Rooms      int
	Algorithm  string
	Biomes     string
	Difficulty float64
	Retries    int
	BiomeDir   string
	LevelFile  string
}

// Register adds the generation flags to fs
func (f *GenerationFlags) Register(fs *flag.FlagSet) {
	def := generation.DefaultConfig(0)
	fs.Uint64Var(&f.Seed, "seed", 42, "level seed")
	fs.IntVar(&f.Width, "width", def.Width, "level width in cells")
	fs.IntVar(&f.Height, "height", def.Height, "level height in cells")
	fs.IntVar(&f.Rooms, "rooms", 0, "room target, 0 derives it from the size")
	fs.StringVar(&f.Algorithm, "algorithm", string(def.Algorithm), "room_based, cellular, bsp, maze or hybrid")
	fs.StringVar(&f.Biomes, "biomes", string(def.Biomes[0]), "comma separated biome ids, primary first")
	fs.Float64Var(&f.Difficulty, "difficulty", def.Difficulty, "difficulty from 0 (easy); 1 is hard, higher values keep scaling up to 1000")
	fs.IntVar(&f.Retries, "retries", def.MaxRetryBudget, "retry budget")
	fs.StringVar(&f.BiomeDir, "biome-dir", "", "directory of extra biome JSON files")
	fs.StringVar(&f.LevelFile, "level", "", "load a saved level instead of generating one")
}

// Config builds the generation config the flags describe
func (f *GenerationFlags) Config() generation.GenerationConfig {
	cfg := generation.DefaultConfig(f.Seed)
	cfg.Width, cfg.Height = f.Width, f.Height
	cfg.RoomTarget = f.Rooms
	cfg.Algorithm = generation.AlgorithmKind(f.Algorithm)
	cfg.Biomes = nil
	for _, id := range strings.Split(f.Biomes, ",") {
		if id = strings.TrimSpace(id); id != "" {
			cfg.Biomes = append(cfg.Biomes, generation.BiomeID(id))
		}
	}
	cfg.Difficulty = f.Difficulty
	cfg.MaxRetryBudget = f.Retries
	return cfg
}

// Generator returns a generator using the built-in biomes plus BiomeDir
func (f *GenerationFlags) Generator(logf func(string, ...any)) (*generation.Generator, error) {
	gc := config.GenerationConfig{BiomeDir: f.BiomeDir}
	catalog, err := gc.Biomes()
	if err != nil {
		return nil, err
	}
	return generation.NewGenerator(generation.WithBiomes(catalog), generation.WithLogger(logf)), nil
}

// Level loads LevelFile when set, otherwise generates the configured level
func (f *GenerationFlags) Level(ctx context.Context, logf func(string, ...any)) (*generation.LevelData, error) {
	if f.LevelFile != "" {
		data, err := os.ReadFile(f.LevelFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read level: %w", err)
		}
		return generation.LevelFromJSON(data)
	}
	gen, err := f.Generator(logf)
	if err != nil {
		return nil, err
	}
	return gen.Generate(ctx, f.Config())
}
