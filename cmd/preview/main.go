package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"brawler.dev/levelgen/internal/cli"
	"brawler.dev/levelgen/internal/generation"
	"brawler.dev/levelgen/internal/render"
)

var (
	rgbStatusBar  = tcell.NewRGBColor(255, 255, 255)
	rgbBackground = tcell.NewRGBColor(26, 27, 38)
)

// Preview draws a level in the terminal and scrolls it with the arrow keys
type Preview struct {
	screen tcell.Screen
	flags  *cli.GenerationFlags
	level  *generation.LevelData
	offX   int
	offY   int
	status string
}

func NewPreview(flags *cli.GenerationFlags) (*Preview, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.SetStyle(tcell.StyleDefault.Background(rgbBackground))

	p := &Preview{screen: screen, flags: flags}
	p.load()
	return p, nil
}

// load builds the level for the current flags and centres on its start room
func (p *Preview) load() {
	level, err := p.flags.Level(context.Background(), nil)
	if err != nil {
		p.status = err.Error()
		return
	}
	p.level = level
	meta := level.Metadata()
	p.status = fmt.Sprintf("%s  %s seed %d  %dx%d  %d rooms  %d attempts  [arrows] scroll  [n/p] seed  [q] quit",
		level.ID(), meta.Algorithm, meta.Seed, level.Width(), level.Height(), len(level.Rooms()), meta.Attempts)

	w, h := p.screen.Size()
	if start, ok := level.StartRoom(); ok {
		c := start.Center()
		p.offX, p.offY = c.X-w/2, c.Y-(h-1)/2
	}
}

func (p *Preview) draw() {
	p.screen.Clear()
	w, h := p.screen.Size()

	if p.level != nil {
		view := generation.Rect(p.offX, p.offY, w, h-1)
		for y, row := range render.Frame(p.level, view) {
			for x, g := range row {
				p.screen.SetContent(x, y, g.Char, nil, tcell.StyleDefault.Foreground(tcellColor(g.Color)).Background(rgbBackground))
			}
		}
	}

	style := tcell.StyleDefault.Foreground(rgbStatusBar).Background(rgbBackground)
	for i, r := range []rune(p.status) {
		if i >= w {
			break
		}
		p.screen.SetContent(i, h-1, r, nil, style)
	}
	p.screen.Show()
}

// handle applies one key press; it returns false when the preview should exit
func (p *Preview) handle(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		p.offY--
	case tcell.KeyDown:
		p.offY++
	case tcell.KeyLeft:
		p.offX--
	case tcell.KeyRight:
		p.offX++
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'n':
			p.reseed(1)
		case 'p':
			p.reseed(-1)
		}
	}
	return true
}

func (p *Preview) reseed(delta int) {
	if p.flags.LevelFile != "" {
		return
	}
	p.flags.Seed = uint64(int64(p.flags.Seed) + int64(delta))
	p.load()
}

func (p *Preview) Run() {
	defer p.screen.Fini()
	for {
		p.draw()
		switch ev := p.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if !p.handle(ev) {
				return
			}
		case *tcell.EventResize:
			p.screen.Sync()
		case nil:
			return
		}
	}
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func main() {
	var flags cli.GenerationFlags
	flags.Register(flag.CommandLine)
	flag.Parse()

	p, err := NewPreview(&flags)
	if err != nil {
		log.Printf("Failed to open terminal: %v", err)
		os.Exit(1)
	}
	p.Run()
}
