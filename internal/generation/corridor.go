package generation

// lPath returns a straight-then-turn path from one point to another.
// With horizontalFirst the path runs along from's row before turning.
func lPath(from, to Point, horizontalFirst bool) []Point {
	path := make([]Point, 0, manhattanDist(from, to)+1)
	corner := Point{to.X, from.Y}
	if !horizontalFirst {
		corner = Point{from.X, to.Y}
	}
	path = appendSegment(path, from, corner)
	path = appendSegment(path, corner, to)
	return path
}

// appendSegment adds the axis-aligned cells from a to b, skipping a if it is
// already the last element of path
func appendSegment(path []Point, a, b Point) []Point {
	dx, dy := sign(b.X-a.X), sign(b.Y-a.Y)
	p := a
	if len(path) == 0 || path[len(path)-1] != p {
		path = append(path, p)
	}
	for p != b {
		p = Point{p.X + dx, p.Y + dy}
		path = append(path, p)
	}
	return path
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// clipPath drops cells that fall outside area
func clipPath(path []Point, area Bounds) []Point {
	out := path[:0:0]
	for _, p := range path {
		if area.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}

// carveCorridor turns the wall cells along path into floor. Wider corridors
// grow toward +x/+y and are clipped to area. Walkable cells are left alone so
// doors and hazards survive later corridors.
func carveCorridor(m *TileMap, path []Point, width int, area Bounds) {
	if width < 1 {
		width = 1
	}
	for _, p := range path {
		for dy := 0; dy < width; dy++ {
			for dx := 0; dx < width; dx++ {
				c := Point{p.X + dx, p.Y + dy}
				if !area.Contains(c) {
					continue
				}
				if m.Role(c) == RoleWall {
					m.SetRole(c, RoleFloor)
				}
			}
		}
	}
}

// connectRooms carves a corridor between two rooms and records it in the graph
func connectRooms(m *TileMap, g *RoomGraph, a, b int, path []Point, width int, area Bounds) error {
	path = clipPath(path, area)
	carveCorridor(m, path, width, area)
	_, err := g.Connect(a, b, path, width)
	return err
}

// digConnect joins two rooms with an A* corridor that prefers existing floor
func digConnect(m *TileMap, g *RoomGraph, a, b int, area Bounds) error {
	from := g.Rooms[a].Center()
	to := g.Rooms[b].Center()
	path := m.FindDigPath(from, to, area)
	if path == nil {
		path = lPath(from, to, true)
	}
	return connectRooms(m, g, a, b, path, 1, area)
}

// placeDoors marks the first corridor cell outside each endpoint room as a door
func placeDoors(m *TileMap, g *RoomGraph) {
	insideAny := func(p Point) bool {
		for _, r := range g.Rooms {
			if r.Bounds.Contains(p) {
				return true
			}
		}
		return false
	}

	for _, c := range g.Connections {
		a, b := g.Rooms[c.A].Bounds, g.Rooms[c.B].Bounds
		if door, ok := firstExit(c.Path, a); ok && !insideAny(door) {
			m.SetRole(door, RoleDoor)
		}
		reversed := make([]Point, len(c.Path))
		for i, p := range c.Path {
			reversed[len(c.Path)-1-i] = p
		}
		if door, ok := firstExit(reversed, b); ok && !insideAny(door) {
			m.SetRole(door, RoleDoor)
		}
	}
}

// firstExit finds the first cell of path that steps out of room
func firstExit(path []Point, room Bounds) (Point, bool) {
	for i := 1; i < len(path); i++ {
		if room.Contains(path[i-1]) && !room.Contains(path[i]) {
			return path[i], true
		}
	}
	return Point{}, false
}

// braidDeadEnds links dead-end rooms to their nearest unlinked room with the
// given probability, adding loops without removing any corridor
func braidDeadEnds(m *TileMap, g *RoomGraph, area Bounds, chance float64, rng *RNG) {
	for _, id := range g.DeadEnds() {
		if g.Degree(id) != 1 || !rng.Chance(chance) {
			continue
		}
		best, bestDist := -1, 0.0
		for _, other := range g.Rooms {
			if other.ID == id || g.HasEdge(id, other.ID) {
				continue
			}
			d := euclideanDist(g.Rooms[id].Center(), other.Center())
			if best < 0 || d < bestDist {
				best, bestDist = other.ID, d
			}
		}
		if best >= 0 {
			// both ids exist
			_ = digConnect(m, g, id, best, area)
		}
	}
}

// linkSpanning connects rooms along a minimum spanning tree of centre distances,
// then adds up to loops extra edges chosen among the shortest leftovers
func linkSpanning(g *RoomGraph, loops int, rng *RNG, link func(a, b int) error) error {
	candidates := g.CandidateEdges()
	tree := SpanningTree(g.Len(), candidates)
	for _, e := range tree {
		if err := link(e.From, e.To); err != nil {
			return err
		}
	}
	if loops <= 0 {
		return nil
	}

	inTree := make(map[[2]int]bool, len(tree))
	for _, e := range tree {
		inTree[[2]int{e.From, e.To}] = true
	}
	extra := make([]Edge, 0, len(candidates))
	for _, e := range sortedEdges(candidates) {
		if !inTree[[2]int{e.From, e.To}] {
			extra = append(extra, e)
		}
	}
	// pick among the shortest leftovers so loops stay local
	pool := extra
	if len(pool) > loops*3 {
		pool = pool[:loops*3]
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	for i := 0; i < loops && i < len(pool); i++ {
		if err := link(pool[i].From, pool[i].To); err != nil {
			return err
		}
	}
	return nil
}
