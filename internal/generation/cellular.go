package generation

import (
	"math"
	"sort"
)

// Cellular grows caves with a smoothing automaton and promotes the biggest
// open pockets to rooms
type Cellular struct {
	FillRatio   float64 // initial wall probability
	Passes      int     // smoothing iterations
	MinRegion   int     // regions smaller than this are walled off
	MinRoomSide int     // smallest side of a promoted room rectangle
	BraidChance float64 // probability a dead-end room gains a loop
}

// NewCellular returns the algorithm with its default tuning
func NewCellular() *Cellular {
	return &Cellular{
		FillRatio:   0.45,
		Passes:      5,
		MinRegion:   12,
		MinRoomSide: 3,
		BraidChance: 0.5,
	}
}

// Generate implements Algorithm
func (a *Cellular) Generate(cfg *GenerationConfig, rng *RNG) (*RoomGraph, *TileMap, error) {
	return generateWith(a, cfg, rng)
}

// cavePocket is a floor region clipped to one section of the area
type cavePocket struct {
	size int
	rect Bounds
}

func (a *Cellular) buildRegion(m *TileMap, area Bounds, target int, rng *RNG) (*RoomGraph, error) {
	// 1. Random fill
	for _, p := range area.Points() {
		if rng.Chance(a.FillRatio) {
			m.SetRole(p, RoleWall)
		} else {
			m.SetRole(p, RoleFloor)
		}
	}

	// 2. Smoothing passes
	for i := 0; i < a.Passes; i++ {
		a.smooth(m, area)
	}

	// 3. Wall off small regions
	for _, region := range m.WalkableRegions(area) {
		if len(region) < a.MinRegion {
			for _, p := range region {
				m.SetRole(p, RoleWall)
			}
		}
	}

	// 4. Find the biggest pocket in each section; sections are disjoint so
	// their rectangles never overlap
	pockets := make([]cavePocket, 0, target)
	for _, section := range sections(area, target) {
		best := cavePocket{}
		for _, region := range m.WalkableRegions(section) {
			if len(region) <= best.size {
				continue
			}
			cells := make(map[Point]bool, len(region))
			for _, p := range region {
				cells[p] = true
			}
			rect := largestRect(section, func(p Point) bool { return cells[p] })
			if rect.Width() < a.MinRoomSide || rect.Height() < a.MinRoomSide {
				continue
			}
			best = cavePocket{size: len(region), rect: rect}
		}
		if best.size > 0 {
			pockets = append(pockets, best)
		}
	}

	// 5. Promote the largest N pockets
	sort.SliceStable(pockets, func(i, j int) bool {
		return pockets[i].size > pockets[j].size
	})
	if len(pockets) > target {
		pockets = pockets[:target]
	}

	g := NewRoomGraph()
	for _, pk := range pockets {
		g.AddRoom(pk.rect)
	}
	if g.Len() == 0 {
		m.Fill(area, RoleWall)
		return g, nil
	}

	// 6. Join rooms, preferring existing cave floor
	loops := int(math.Ceil(0.1 * float64(g.Len())))
	err := linkSpanning(g, loops, rng, func(from, to int) error {
		return digConnect(m, g, from, to, area)
	})
	if err != nil {
		return nil, err
	}
	braidDeadEnds(m, g, area, a.BraidChance, rng)

	// 7. Drop cave pockets that no corridor reached
	reachable := m.Reachable(g.Rooms[0].Center())
	for _, p := range area.Points() {
		if m.IsWalkable(p) && !reachable.Has(p) {
			m.SetRole(p, RoleWall)
		}
	}
	return g, nil
}

// smooth applies one pass of the 4-5 rule; cells outside area count as walls
func (a *Cellular) smooth(m *TileMap, area Bounds) {
	next := make([]Role, 0, area.Area())
	for _, p := range area.Points() {
		walls := 0
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				n := Point{p.X + dx, p.Y + dy}
				if !area.Contains(n) || m.Role(n) == RoleWall {
					walls++
				}
			}
		}
		switch {
		case walls > 4:
			next = append(next, RoleWall)
		case walls < 4:
			next = append(next, RoleFloor)
		default:
			next = append(next, m.Role(p))
		}
	}
	for i, p := range area.Points() {
		m.SetRole(p, next[i])
	}
}

// sections cuts area into roughly n disjoint cells of a grid
func sections(area Bounds, n int) []Bounds {
	if n < 1 {
		n = 1
	}
	aspect := float64(area.Width()) / float64(max(1, area.Height()))
	cols := clamp(int(math.Ceil(math.Sqrt(float64(n)*aspect))), 1, max(1, area.Width()))
	rows := clamp(int(math.Ceil(float64(n)/float64(cols))), 1, max(1, area.Height()))

	out := make([]Bounds, 0, cols*rows)
	for r := 0; r < rows; r++ {
		y0 := area.MinY + r*area.Height()/rows
		y1 := area.MinY + (r+1)*area.Height()/rows - 1
		for c := 0; c < cols; c++ {
			x0 := area.MinX + c*area.Width()/cols
			x1 := area.MinX + (c+1)*area.Width()/cols - 1
			b := Bounds{x0, y0, x1, y1}
			if !b.Empty() {
				out = append(out, b)
			}
		}
	}
	return out
}

// largestRect finds the biggest axis-aligned rectangle inside area whose cells
// all satisfy in, using the histogram stack method. The first maximum in
// row-major order wins.
func largestRect(area Bounds, in func(Point) bool) Bounds {
	best := Bounds{0, 0, -1, -1}
	if area.Empty() {
		return best
	}
	w := area.Width()
	heights := make([]int, w)
	bestArea := 0

	for y := area.MinY; y <= area.MaxY; y++ {
		for i := 0; i < w; i++ {
			if in(Point{area.MinX + i, y}) {
				heights[i]++
			} else {
				heights[i] = 0
			}
		}

		stack := make([]int, 0, w)
		for i := 0; i <= w; i++ {
			h := 0
			if i < w {
				h = heights[i]
			}
			for len(stack) > 0 && heights[stack[len(stack)-1]] >= h {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				left := 0
				if len(stack) > 0 {
					left = stack[len(stack)-1] + 1
				}
				if a := heights[top] * (i - left); a > bestArea {
					bestArea = a
					best = Bounds{area.MinX + left, y - heights[top] + 1, area.MinX + i - 1, y}
				}
			}
			stack = append(stack, i)
		}
	}
	return best
}
