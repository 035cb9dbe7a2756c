package generation

import (
	"fmt"
	"testing"
)

func TestLargestRect(t *testing.T) {
	area := Rect(0, 0, 8, 6)
	cells := map[Point]bool{}
	// an L shape: a 5x2 bar on top of a 2x4 column
	for _, p := range Rect(1, 0, 5, 2).Points() {
		cells[p] = true
	}
	for _, p := range Rect(1, 2, 2, 4).Points() {
		cells[p] = true
	}
	got := largestRect(area, func(p Point) bool { return cells[p] })
	if got.Area() != 12 {
		t.Fatalf("largestRect = %+v (area %d), want area 12", got, got.Area())
	}
	for _, p := range got.Points() {
		if !cells[p] {
			t.Fatalf("rect %+v includes %v outside the shape", got, p)
		}
	}

	none := largestRect(area, func(Point) bool { return false })
	if !none.Empty() {
		t.Errorf("empty shape gave %+v", none)
	}
}

func TestSectionsAreDisjoint(t *testing.T) {
	area := Rect(1, 1, 62, 30)
	for _, n := range []int{1, 4, 7, 16} {
		secs := sections(area, n)
		if len(secs) < n {
			t.Errorf("sections(%d) = %d parts", n, len(secs))
		}
		covered := 0
		for i, a := range secs {
			covered += a.Area()
			for _, b := range secs[i+1:] {
				if a.Overlaps(b) {
					t.Fatalf("sections %+v and %+v overlap", a, b)
				}
			}
		}
		if covered != area.Area() {
			t.Errorf("sections(%d) cover %d cells, want %d", n, covered, area.Area())
		}
	}
}

// checkLayout asserts the structural guarantees every algorithm must give
func checkLayout(t *testing.T, g *RoomGraph, m *TileMap, cfg GenerationConfig) {
	t.Helper()
	if m.Width() != cfg.Width || m.Height() != cfg.Height {
		t.Fatalf("map is %dx%d, want %dx%d", m.Width(), m.Height(), cfg.Width, cfg.Height)
	}
	if a, b, ok := g.FindOverlap(); ok {
		t.Fatalf("rooms %d and %d overlap", a, b)
	}
	inner := m.Bounds().Inner(1)
	for _, r := range g.Rooms {
		if !inner.Contains(Point{r.Bounds.MinX, r.Bounds.MinY}) || !inner.Contains(Point{r.Bounds.MaxX, r.Bounds.MaxY}) {
			t.Fatalf("room %d %+v leaves the map interior", r.ID, r.Bounds)
		}
	}
	for x := 0; x < m.Width(); x++ {
		if m.IsWalkable(Point{x, 0}) || m.IsWalkable(Point{x, m.Height() - 1}) {
			t.Fatalf("border broken at column %d", x)
		}
	}
	for y := 0; y < m.Height(); y++ {
		if m.IsWalkable(Point{0, y}) || m.IsWalkable(Point{m.Width() - 1, y}) {
			t.Fatalf("border broken at row %d", y)
		}
	}
	if g.Len() == 0 {
		return
	}
	if !g.IsConnected(0) {
		t.Fatalf("rooms %v unreachable in the graph", g.FindUnreachable(0))
	}
	reach := m.Reachable(g.Rooms[0].Center())
	for _, r := range g.Rooms {
		for _, p := range r.Bounds.Points() {
			if !reach.Has(p) {
				t.Fatalf("cell %v of room %d not walkable from room 0", p, r.ID)
			}
		}
	}
}

func TestAlgorithmsKeepInvariants(t *testing.T) {
	sizes := [][2]int{{64, 64}, {96, 40}, {24, 24}}
	for kind, alg := range DefaultAlgorithms() {
		for _, size := range sizes {
			for seed := uint64(1); seed <= 6; seed++ {
				name := fmt.Sprintf("%s/%dx%d/seed%d", kind, size[0], size[1], seed)
				t.Run(name, func(t *testing.T) {
					cfg := DefaultConfig(seed)
					cfg.Width, cfg.Height = size[0], size[1]
					g, m, err := alg.Generate(&cfg, NewRNG(seed))
					if err != nil {
						t.Fatalf("Generate: %v", err)
					}
					checkLayout(t, g, m, cfg)
				})
			}
		}
	}
}

func TestAlgorithmsDeterministic(t *testing.T) {
	for kind, alg := range DefaultAlgorithms() {
		t.Run(string(kind), func(t *testing.T) {
			cfg := DefaultConfig(99)
			g1, m1, err := alg.Generate(&cfg, NewRNG(99))
			if err != nil {
				t.Fatal(err)
			}
			g2, m2, err := alg.Generate(&cfg, NewRNG(99))
			if err != nil {
				t.Fatal(err)
			}
			if g1.Len() != g2.Len() || len(g1.Connections) != len(g2.Connections) {
				t.Fatalf("graphs differ: %d/%d rooms, %d/%d corridors",
					g1.Len(), g2.Len(), len(g1.Connections), len(g2.Connections))
			}
			for i := range g1.Rooms {
				if g1.Rooms[i].Bounds != g2.Rooms[i].Bounds {
					t.Fatalf("room %d differs", i)
				}
			}
			r1, r2 := m1.RoleRows(), m2.RoleRows()
			for y := range r1 {
				if r1[y] != r2[y] {
					t.Fatalf("row %d differs:\n%s\n%s", y, r1[y], r2[y])
				}
			}
		})
	}
}

func TestMazeHasNoDeadSpace(t *testing.T) {
	cfg := DefaultConfig(5)
	cfg.Algorithm = AlgorithmMaze
	g, m, err := NewMaze().Generate(&cfg, NewRNG(5))
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() < 2 {
		t.Fatalf("maze has %d chambers", g.Len())
	}
	if got, want := m.Reachable(g.Rooms[0].Center()).Size(), m.CountWalkable(); got != want {
		t.Errorf("reachable %d of %d walkable cells", got, want)
	}
	// a perfect maze has exactly n-1 corridors; braiding only adds
	if len(g.Connections) < g.Len()-1 {
		t.Errorf("%d corridors for %d chambers", len(g.Connections), g.Len())
	}
}

func TestHybridBridgePolicy(t *testing.T) {
	calls := 0
	h := NewHybrid()
	h.Bridge = func(a, b []*Room) (int, int) {
		calls++
		return NearestCentroid(a, b)
	}
	cfg := DefaultConfig(11)
	cfg.Algorithm = AlgorithmHybrid
	g, m, err := h.Generate(&cfg, NewRNG(11))
	if err != nil {
		t.Fatal(err)
	}
	if calls == 0 {
		t.Error("custom bridge policy never consulted")
	}
	checkLayout(t, g, m, cfg)
}

func TestNearestCentroid(t *testing.T) {
	a := []*Room{{Bounds: Rect(0, 0, 3, 3)}, {Bounds: Rect(10, 0, 3, 3)}}
	b := []*Room{{Bounds: Rect(30, 0, 3, 3)}, {Bounds: Rect(15, 0, 3, 3)}}
	if i, j := NearestCentroid(a, b); i != 1 || j != 1 {
		t.Errorf("NearestCentroid = %d, %d; want 1, 1", i, j)
	}
}

func TestHybridWithout(t *testing.T) {
	h := NewHybrid()
	h2 := h.Without(AlgorithmCellular, AlgorithmMaze)
	if len(h.Parts) != 4 {
		t.Fatalf("Without modified the original: %d parts", len(h.Parts))
	}
	if len(h2.Parts) != 2 {
		t.Fatalf("restricted hybrid has %d parts, want 2", len(h2.Parts))
	}
	for _, p := range h2.Parts {
		if kind, _ := partKind(p); kind == AlgorithmCellular || kind == AlgorithmMaze {
			t.Errorf("restricted hybrid still runs %s", kind)
		}
	}
}
