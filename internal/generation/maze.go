package generation

// Maze carves a spanning tree over a lattice of small chambers with a
// recursive backtracker, then braids some dead ends into loops
type Maze struct {
	Chamber  int     // chamber side length
	Corridor int     // corridor length between chambers
	Braiding float64 // 0 keeps a perfect maze, 1 tries to remove every dead end
}

// NewMaze returns the algorithm with its default tuning
func NewMaze() *Maze {
	return &Maze{Chamber: 3, Corridor: 3, Braiding: 0.5}
}

// Generate implements Algorithm
func (a *Maze) Generate(cfg *GenerationConfig, rng *RNG) (*RoomGraph, *TileMap, error) {
	return generateWith(a, cfg, rng)
}

// lattice maps chamber coordinates to room ids
type lattice struct {
	cols, rows int
	origin     Point
	pitch      int
}

func (l lattice) id(col, row int) int { return row*l.cols + col }

func (l lattice) inside(col, row int) bool {
	return col >= 0 && col < l.cols && row >= 0 && row < l.rows
}

var latticeSteps = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

func (a *Maze) buildRegion(m *TileMap, area Bounds, target int, rng *RNG) (*RoomGraph, error) {
	g := NewRoomGraph()
	chamber := max(1, a.Chamber)
	pitch := chamber + max(1, a.Corridor)

	l := lattice{
		cols:  (area.Width() + pitch - chamber) / pitch,
		rows:  (area.Height() + pitch - chamber) / pitch,
		pitch: pitch,
	}
	if l.cols < 1 || l.rows < 1 {
		return g, nil
	}
	// centre the lattice inside the area
	usedW := l.cols*pitch - (pitch - chamber)
	usedH := l.rows*pitch - (pitch - chamber)
	l.origin = Point{area.MinX + (area.Width()-usedW)/2, area.MinY + (area.Height()-usedH)/2}

	for row := 0; row < l.rows; row++ {
		for col := 0; col < l.cols; col++ {
			b := Rect(l.origin.X+col*pitch, l.origin.Y+row*pitch, chamber, chamber)
			g.AddRoom(b)
			m.Fill(b, RoleFloor)
		}
	}

	link := func(c0, r0, c1, r1 int) error {
		a0, a1 := g.Rooms[l.id(c0, r0)], g.Rooms[l.id(c1, r1)]
		path := lPath(a0.Center(), a1.Center(), true)
		return connectRooms(m, g, a0.ID, a1.ID, path, 1, area)
	}

	// Recursive backtracker
	start := [2]int{rng.Intn(l.cols), rng.Intn(l.rows)}
	visited := make([]bool, l.cols*l.rows)
	visited[l.id(start[0], start[1])] = true
	stack := [][2]int{start}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		candidates := make([][2]int, 0, 4)
		for _, d := range latticeSteps {
			nc, nr := curr[0]+d[0], curr[1]+d[1]
			if l.inside(nc, nr) && !visited[l.id(nc, nr)] {
				candidates = append(candidates, [2]int{nc, nr})
			}
		}
		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		next := candidates[rng.Intn(len(candidates))]
		if err := link(curr[0], curr[1], next[0], next[1]); err != nil {
			return nil, err
		}
		visited[l.id(next[0], next[1])] = true
		stack = append(stack, next)
	}

	// Braiding: knock through a wall next to some dead ends. Adding a corridor
	// between two connected chambers cannot disconnect anything.
	if a.Braiding > 0 {
		for row := 0; row < l.rows; row++ {
			for col := 0; col < l.cols; col++ {
				id := l.id(col, row)
				if g.Degree(id) != 1 || !rng.Chance(a.Braiding) {
					continue
				}
				candidates := make([][2]int, 0, 4)
				for _, d := range latticeSteps {
					nc, nr := col+d[0], row+d[1]
					if l.inside(nc, nr) && !g.HasEdge(id, l.id(nc, nr)) {
						candidates = append(candidates, [2]int{nc, nr})
					}
				}
				if len(candidates) == 0 {
					continue
				}
				next := candidates[rng.Intn(len(candidates))]
				if err := link(col, row, next[0], next[1]); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}
