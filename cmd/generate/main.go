package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"brawler.dev/levelgen/internal/cli"
	"brawler.dev/levelgen/internal/generation"
)

func main() {
	var (
		gf       cli.GenerationFlags
		count    int
		printMap bool
	)
	gf.Register(flag.CommandLine)
	flag.IntVar(&count, "count", 1, "number of levels, seeds counting up from -seed")
	flag.BoolVar(&printMap, "print", false, "print each level's tile map")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: generate [flags] <output-dir>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	outputDir := flag.Arg(0)

	// Ensure output directory exists
	levelsDir := filepath.Join(outputDir, "levels")
	if err := os.MkdirAll(levelsDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	gen, err := gf.Generator(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load biomes: %v\n", err)
		os.Exit(1)
	}

	failed := 0
	for i := 0; i < count; i++ {
		cfg := gf.Config()
		cfg.Seed += uint64(i)
		fmt.Printf("Generating %s level (seed %d, %s)...\n", cfg.Algorithm, cfg.Seed, joinBiomes(cfg.Biomes))

		level, err := gen.Generate(context.Background(), cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ERROR: %v\n", err)
			failed++
			continue
		}

		filename := level.ID() + ".json"
		path := filepath.Join(levelsDir, filename)

		data, err := json.MarshalIndent(level, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ERROR marshaling JSON: %v\n", err)
			failed++
			continue
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "  ERROR writing file: %v\n", err)
			failed++
			continue
		}

		meta := level.Metadata()
		fmt.Printf("  Created %s (%d rooms, %d spawns, %d attempts)\n",
			filename, len(level.Rooms()), len(level.SpawnPoints()), meta.Attempts)
		if printMap {
			fmt.Println(strings.Join(level.Tiles().TileRows(), "\n"))
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d levels failed\n", failed, count)
		os.Exit(1)
	}
	fmt.Println("Done!")
}

func joinBiomes(ids []generation.BiomeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, "+")
}
