package render

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"brawler.dev/levelgen/internal/generation"
)

// Glyph is one drawn cell
type Glyph struct {
	Char  rune
	Color colorful.Color
}

// Hex returns the glyph colour as #rrggbb
func (g Glyph) Hex() string {
	return g.Color.Hex()
}

// Outside is drawn for cells beyond the level edge
var Outside = Glyph{Char: '?', Color: outsideColor}

// CellGlyph draws a single cell without overlays
func CellGlyph(cell generation.Cell) Glyph {
	return Glyph{Char: cell.Tile.Glyph(), Color: CellColor(cell)}
}

// Frame draws the cells of level inside view, row by row. Spawn markers are
// drawn over their cell.
func Frame(level *generation.LevelData, view generation.Bounds) [][]Glyph {
	if view.Empty() {
		return nil
	}
	spawns := make(map[generation.Point]generation.SpawnPoint)
	for _, sp := range level.SpawnPoints() {
		if view.Contains(sp.Position) {
			spawns[sp.Position] = sp
		}
	}

	rows := make([][]Glyph, view.Height())
	for y := range rows {
		rows[y] = make([]Glyph, view.Width())
		for x := range rows[y] {
			p := generation.Point{X: view.MinX + x, Y: view.MinY + y}
			if sp, ok := spawns[p]; ok {
				rows[y][x] = Glyph{Char: SpawnGlyph(sp), Color: SpawnColor(sp)}
				continue
			}
			cell, ok := level.Cell(p)
			if !ok {
				rows[y][x] = Outside
				continue
			}
			rows[y][x] = CellGlyph(cell)
		}
	}
	return rows
}

// Centered returns a width x height view centred on p
func Centered(p generation.Point, width, height int) generation.Bounds {
	return generation.Rect(p.X-width/2, p.Y-height/2, width, height)
}
