package generation

import "math"

// BSP recursively partitions the area and places one room per leaf.
// Sibling subtrees are joined at their partition line, so the level is
// connected by construction.
type BSP struct {
	MinLeaf     int
	MaxDepth    int
	MinRatio    float64
	MaxRatio    float64
	BraidChance float64
}

// NewBSP returns the algorithm with its default tuning
func NewBSP() *BSP {
	return &BSP{
		MinLeaf:     8,
		MaxDepth:    6,
		MinRatio:    0.3,
		MaxRatio:    0.7,
		BraidChance: 0.35,
	}
}

// Generate implements Algorithm
func (a *BSP) Generate(cfg *GenerationConfig, rng *RNG) (*RoomGraph, *TileMap, error) {
	return generateWith(a, cfg, rng)
}

// bspNode represents a node in the binary space partitioning tree
type bspNode struct {
	area        Bounds
	left, right *bspNode
	vertical    bool // split line runs vertically (children side by side)
	split       int  // first coordinate of the right/bottom child
	room        int  // leaf room id, -1 when none
}

func (n *bspNode) leaf() bool {
	return n.left == nil && n.right == nil
}

func (a *BSP) buildRegion(m *TileMap, area Bounds, target int, rng *RNG) (*RoomGraph, error) {
	root := &bspNode{area: area, room: -1}

	// Depth grows with the room target, capped by MaxDepth
	depth := min(a.MaxDepth, int(math.Ceil(math.Log2(float64(max(2, target)))))+1)
	a.split(root, 0, depth, rng)

	g := NewRoomGraph()
	a.placeRooms(root, m, g, rng)
	if err := a.connect(root, m, g, area, rng); err != nil {
		return nil, err
	}
	braidDeadEnds(m, g, area, a.BraidChance, rng)
	return g, nil
}

func (a *BSP) split(node *bspNode, depth, maxDepth int, rng *RNG) {
	if depth >= maxDepth {
		return
	}
	w, h := node.area.Width(), node.area.Height()
	canV := w >= a.MinLeaf*2
	canH := h >= a.MinLeaf*2
	if !canV && !canH {
		return
	}

	// Decide split direction based on aspect ratio
	vertical := rng.Intn(2) == 0
	switch {
	case float64(w) > float64(h)*1.25:
		vertical = true
	case float64(h) > float64(w)*1.25:
		vertical = false
	}
	if vertical && !canV {
		vertical = false
	} else if !vertical && !canH {
		vertical = true
	}

	size := h
	if vertical {
		size = w
	}
	lo := max(int(float64(size)*a.MinRatio), a.MinLeaf)
	hi := min(int(float64(size)*a.MaxRatio), size-a.MinLeaf)
	if hi < lo {
		return
	}
	offset := rng.IntRange(lo, hi)

	b := node.area
	node.vertical = vertical
	if vertical {
		node.split = b.MinX + offset
		node.left = &bspNode{area: Bounds{b.MinX, b.MinY, node.split - 1, b.MaxY}, room: -1}
		node.right = &bspNode{area: Bounds{node.split, b.MinY, b.MaxX, b.MaxY}, room: -1}
	} else {
		node.split = b.MinY + offset
		node.left = &bspNode{area: Bounds{b.MinX, b.MinY, b.MaxX, node.split - 1}, room: -1}
		node.right = &bspNode{area: Bounds{b.MinX, node.split, b.MaxX, b.MaxY}, room: -1}
	}

	a.split(node.left, depth+1, maxDepth, rng)
	a.split(node.right, depth+1, maxDepth, rng)
}

// placeRooms creates one room per leaf, 60-90% of the leaf inside a one-cell margin
func (a *BSP) placeRooms(node *bspNode, m *TileMap, g *RoomGraph, rng *RNG) {
	if !node.leaf() {
		a.placeRooms(node.left, m, g, rng)
		a.placeRooms(node.right, m, g, rng)
		return
	}

	inner := node.area.Inner(1)
	if inner.Width() < 3 || inner.Height() < 3 {
		return
	}
	rw := clamp(int(float64(inner.Width())*(0.6+rng.Float64()*0.3)), 3, inner.Width())
	rh := clamp(int(float64(inner.Height())*(0.6+rng.Float64()*0.3)), 3, inner.Height())
	x := rng.IntRange(inner.MinX, inner.MaxX-rw+1)
	y := rng.IntRange(inner.MinY, inner.MaxY-rh+1)

	r := g.AddRoom(Rect(x, y, rw, rh))
	m.Fill(r.Bounds, RoleFloor)
	node.room = r.ID
}

// connect joins the two subtrees of every internal node between the rooms
// nearest the partition line
func (a *BSP) connect(node *bspNode, m *TileMap, g *RoomGraph, area Bounds, rng *RNG) error {
	if node.leaf() {
		return nil
	}
	if err := a.connect(node.left, m, g, area, rng); err != nil {
		return err
	}
	if err := a.connect(node.right, m, g, area, rng); err != nil {
		return err
	}

	from := nearestToLine(node.left, g, node.vertical, node.split)
	to := nearestToLine(node.right, g, node.vertical, node.split)
	if from < 0 || to < 0 {
		return nil
	}
	path := lPath(g.Rooms[from].Center(), g.Rooms[to].Center(), node.vertical)
	return connectRooms(m, g, from, to, path, 1, area)
}

// nearestToLine returns the room in the subtree whose centre lies closest to
// the partition line, or -1 if the subtree has no rooms
func nearestToLine(node *bspNode, g *RoomGraph, vertical bool, line int) int {
	best, bestDist := -1, 0
	var walk func(n *bspNode)
	walk = func(n *bspNode) {
		if n == nil {
			return
		}
		if n.leaf() {
			if n.room < 0 {
				return
			}
			c := g.Rooms[n.room].Center()
			d := abs(c.Y - line)
			if vertical {
				d = abs(c.X - line)
			}
			if best < 0 || d < bestDist {
				best, bestDist = n.room, d
			}
			return
		}
		walk(n.left)
		walk(n.right)
	}
	walk(node)
	return best
}
