package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"brawler.dev/levelgen/internal/cli"
	"brawler.dev/levelgen/internal/generation"
	"brawler.dev/levelgen/internal/render"
)

const (
	windowWidth  = 1024
	windowHeight = 768
	headerHeight = 40
)

// Viewer implements ebiten.Game and draws one level as coloured cells
type Viewer struct {
	flags      *cli.GenerationFlags
	level      *generation.LevelData
	err        error
	tileSize   int
	offsetX    int
	offsetY    int
	showBiomes bool
}

// NewViewer creates a viewer for the level the flags describe
func NewViewer(flags *cli.GenerationFlags, tileSize int) *Viewer {
	v := &Viewer{flags: flags, tileSize: tileSize}
	v.load()
	return v
}

func (v *Viewer) load() {
	v.level, v.err = v.flags.Level(context.Background(), log.Printf)
	v.offsetX, v.offsetY = 0, 0
}

// Update handles input for scrolling, zoom and reseeding
func (v *Viewer) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		v.offsetX++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) && v.offsetX > 0 {
		v.offsetX--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		v.offsetY++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) && v.offsetY > 0 {
		v.offsetY--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) && v.tileSize < 32 {
		v.tileSize += 2
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) && v.tileSize > 4 {
		v.tileSize -= 2
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		v.showBiomes = !v.showBiomes
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) && v.flags.LevelFile == "" {
		v.flags.Seed++
		v.load()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

// Draw displays the level below a one-line header
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{30, 30, 30, 255})

	if v.err != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Generation failed: %v", v.err), 10, 10)
		return
	}

	meta := v.level.Metadata()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Level %s  %s  seed %d  %d rooms  %d spawns",
		v.level.ID(), meta.Algorithm, meta.Seed, len(v.level.Rooms()), len(v.level.SpawnPoints())), 10, 5)
	ebitenutil.DebugPrintAt(screen, "Arrows: scroll  +/-: zoom  B: biome tint  N: next seed  Esc: quit", 10, 20)

	cols := windowWidth / v.tileSize
	rows := (windowHeight - headerHeight) / v.tileSize
	view := generation.Rect(v.offsetX, v.offsetY, cols, rows)
	tiles := v.level.Tiles()
	size := float32(v.tileSize)

	for y, row := range render.Frame(v.level, view) {
		for x, g := range row {
			sx := float32(x) * size
			sy := float32(y)*size + headerHeight
			p := generation.Point{X: view.MinX + x, Y: view.MinY + y}
			cell, ok := tiles.At(p)
			if !ok {
				continue
			}

			fill := render.CellColor(cell)
			if v.showBiomes {
				fill = render.BiomeTint(cell.Biome)
			}
			vector.DrawFilledRect(screen, sx, sy, size, size, fill, false)

			// Spawn markers sit on top of the cell colour
			if g.Char != cell.Tile.Glyph() {
				inset := size / 4
				vector.DrawFilledRect(screen, sx+inset, sy+inset, size-2*inset, size-2*inset, g.Color, false)
			}
		}
	}
}

// Layout returns the logical screen size
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowWidth, windowHeight
}

func main() {
	var flags cli.GenerationFlags
	flags.Register(flag.CommandLine)
	tileSize := flag.Int("tile", 10, "cell size in pixels")
	flag.Parse()

	viewer := NewViewer(&flags, *tileSize)
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Level Viewer")
	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
