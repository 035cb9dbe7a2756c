package generation

import (
	"reflect"
	"testing"
)

// chainGraph builds n 3x3 rooms in a row joined 0-1-2-...
func chainGraph(t *testing.T, n int) *RoomGraph {
	t.Helper()
	g := NewRoomGraph()
	for i := 0; i < n; i++ {
		g.AddRoom(Rect(1+i*5, 1, 3, 3))
	}
	for i := 1; i < n; i++ {
		if _, err := g.Connect(i-1, i, nil, 1); err != nil {
			t.Fatalf("Connect(%d, %d): %v", i-1, i, err)
		}
	}
	return g
}

func TestSpanningTree(t *testing.T) {
	edges := []Edge{
		{From: 0, To: 1, Weight: 1},
		{From: 1, To: 2, Weight: 2},
		{From: 0, To: 2, Weight: 2.5},
		{From: 2, To: 3, Weight: 1},
		{From: 0, To: 3, Weight: 9},
	}
	mst := SpanningTree(4, edges)
	if len(mst) != 3 {
		t.Fatalf("mst has %d edges, want 3", len(mst))
	}
	total := 0.0
	for _, e := range mst {
		total += e.Weight
	}
	if total != 4 {
		t.Errorf("mst weight = %v, want 4", total)
	}
	if edges[0].Weight != 1 || edges[4].Weight != 9 {
		t.Error("SpanningTree reordered its input")
	}
}

func TestSpanningTreeForest(t *testing.T) {
	mst := SpanningTree(4, []Edge{{From: 0, To: 1, Weight: 1}, {From: 2, To: 3, Weight: 1}})
	if len(mst) != 2 {
		t.Errorf("forest has %d edges, want 2", len(mst))
	}
}

func TestRoomGraphDistances(t *testing.T) {
	g := chainGraph(t, 4)
	g.AddRoom(Rect(40, 10, 3, 3)) // isolated

	if got, want := g.Distances(0), []int{0, 1, 2, 3, -1}; !reflect.DeepEqual(got, want) {
		t.Errorf("Distances(0) = %v, want %v", got, want)
	}
	if g.IsConnected(0) {
		t.Error("graph with an isolated room reported connected")
	}
	if got := g.FindUnreachable(0); !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("FindUnreachable(0) = %v, want [4]", got)
	}
	if got := g.Components(); len(got) != 2 {
		t.Errorf("Components = %v, want 2 groups", got)
	}
}

func TestRoomGraphDeadEnds(t *testing.T) {
	g := chainGraph(t, 4)
	if got := g.DeadEnds(); !reflect.DeepEqual(got, []int{0, 3}) {
		t.Errorf("DeadEnds = %v, want [0 3]", got)
	}
	if got := g.DeadEndRatio(); got != 0.5 {
		t.Errorf("DeadEndRatio = %v, want 0.5", got)
	}
	if _, err := g.Connect(0, 3, nil, 1); err != nil {
		t.Fatal(err)
	}
	if got := g.DeadEndRatio(); got != 0 {
		t.Errorf("ring DeadEndRatio = %v, want 0", got)
	}
}

func TestRoomGraphConnectErrors(t *testing.T) {
	g := chainGraph(t, 2)
	tests := []struct {
		name string
		a, b int
	}{
		{"unknown a", 7, 1},
		{"unknown b", 0, -1},
		{"self loop", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.Connect(tt.a, tt.b, nil, 1); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRoomGraphAbsorbAndClone(t *testing.T) {
	g := chainGraph(t, 2)
	other := chainGraph(t, 3)
	offset := g.Absorb(other)
	if offset != 2 || g.Len() != 5 {
		t.Fatalf("offset %d, len %d", offset, g.Len())
	}
	if !g.HasEdge(2, 3) || !g.HasEdge(3, 4) || g.HasEdge(1, 2) {
		t.Error("absorbed edges were not renumbered")
	}
	for i, c := range g.Connections {
		if c.ID != i {
			t.Errorf("connection %d has id %d", i, c.ID)
		}
	}

	cp := g.Clone()
	cp.Rooms[0].Bounds = Rect(0, 0, 1, 1)
	if _, err := cp.Connect(1, 2, nil, 1); err != nil {
		t.Fatal(err)
	}
	if g.Rooms[0].Bounds == cp.Rooms[0].Bounds || g.HasEdge(1, 2) {
		t.Error("clone shares state with the original")
	}
}

func TestFindOverlap(t *testing.T) {
	g := chainGraph(t, 3)
	if _, _, ok := g.FindOverlap(); ok {
		t.Fatal("chain rooms should not overlap")
	}
	g.AddRoom(Rect(7, 2, 3, 3))
	a, b, ok := g.FindOverlap()
	if !ok || a != 1 || b != 3 {
		t.Errorf("FindOverlap = %d, %d, %v; want 1, 3, true", a, b, ok)
	}
}

func TestLinkSpanningConnectsEveryRoom(t *testing.T) {
	g := NewRoomGraph()
	for i := 0; i < 8; i++ {
		g.AddRoom(Rect(2+(i%4)*10, 2+(i/4)*10, 4, 4))
	}
	err := linkSpanning(g, 2, NewRNG(3), func(a, b int) error {
		_, err := g.Connect(a, b, nil, 1)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if !g.IsConnected(0) {
		t.Error("rooms not connected")
	}
	if got := len(g.Connections); got != 9 {
		t.Errorf("connections = %d, want 7 tree edges + 2 loops", got)
	}
}
