package generation

import (
	"fmt"
	"sort"
)

// RoomType is the gameplay purpose of a room
type RoomType int

const (
	RoomCombat RoomType = iota
	RoomPlatforming
	RoomPuzzle
	RoomBoss
	RoomTreasure
	RoomSafe
)

var roomTypeNames = [...]string{
	RoomCombat:      "combat",
	RoomPlatforming: "platforming",
	RoomPuzzle:      "puzzle",
	RoomBoss:        "boss",
	RoomTreasure:    "treasure",
	RoomSafe:        "safe",
}

func (t RoomType) String() string {
	if t >= 0 && int(t) < len(roomTypeNames) {
		return roomTypeNames[t]
	}
	return fmt.Sprintf("room_type(%d)", int(t))
}

// MarshalText encodes the room type by name
func (t RoomType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(roomTypeNames) {
		return nil, fmt.Errorf("unknown room type %d", int(t))
	}
	return []byte(roomTypeNames[t]), nil
}

// UnmarshalText decodes a room type name
func (t *RoomType) UnmarshalText(text []byte) error {
	for i, n := range roomTypeNames {
		if n == string(text) {
			*t = RoomType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown room type %q", text)
}

// Hostile reports whether regular enemies may spawn in rooms of this type
func (t RoomType) Hostile() bool {
	return t != RoomSafe && t != RoomTreasure
}

// Room is a rectangular, typed area of the level.
// Bounds covers the room's floor; its walls lie outside.
type Room struct {
	ID          int      `json:"id"`
	Bounds      Bounds   `json:"bounds"`
	Type        RoomType `json:"type"`
	Start       bool     `json:"start,omitempty"`
	Biome       BiomeID  `json:"biome"`
	Connections []int    `json:"connections"`
	SpawnPoints []Point  `json:"spawn_points"`
}

// Center returns the centre cell of the room
func (r *Room) Center() Point {
	return r.Bounds.Center()
}

// Connection is a carved corridor linking exactly two rooms
type Connection struct {
	ID    int     `json:"id"`
	A     int     `json:"a"`
	B     int     `json:"b"`
	Path  []Point `json:"path"`
	Width int     `json:"width"`
}

// Other returns the endpoint that is not id
func (c *Connection) Other(id int) int {
	if c.A == id {
		return c.B
	}
	return c.A
}

// Edge is a weighted candidate link used while building spanning trees
type Edge struct {
	From, To int
	Weight   float64
}

// RoomGraph holds the rooms of a level and the corridors between them.
// Room and connection ids equal their index.
type RoomGraph struct {
	Rooms       []*Room
	Connections []*Connection

	// Adjacency list for quick lookups
	adjacent [][]int
}

// NewRoomGraph creates an empty graph
func NewRoomGraph() *RoomGraph {
	return &RoomGraph{}
}

// AddRoom appends a room with the given floor bounds and returns it
func (g *RoomGraph) AddRoom(b Bounds) *Room {
	r := &Room{ID: len(g.Rooms), Bounds: b, Connections: []int{}, SpawnPoints: []Point{}}
	g.Rooms = append(g.Rooms, r)
	g.adjacent = append(g.adjacent, nil)
	return r
}

// Room returns the room with the given id, or nil
func (g *RoomGraph) Room(id int) *Room {
	if id < 0 || id >= len(g.Rooms) {
		return nil
	}
	return g.Rooms[id]
}

// Len returns the number of rooms
func (g *RoomGraph) Len() int {
	return len(g.Rooms)
}

// Connect records a corridor between two rooms
func (g *RoomGraph) Connect(a, b int, path []Point, width int) (*Connection, error) {
	if g.Room(a) == nil {
		return nil, fmt.Errorf("room %d not found", a)
	}
	if g.Room(b) == nil {
		return nil, fmt.Errorf("room %d not found", b)
	}
	if a == b {
		return nil, fmt.Errorf("room %d cannot connect to itself", a)
	}
	if width < 1 {
		width = 1
	}

	c := &Connection{ID: len(g.Connections), A: a, B: b, Path: path, Width: width}
	g.Connections = append(g.Connections, c)
	g.Rooms[a].Connections = append(g.Rooms[a].Connections, c.ID)
	g.Rooms[b].Connections = append(g.Rooms[b].Connections, c.ID)
	g.adjacent[a] = append(g.adjacent[a], b)
	g.adjacent[b] = append(g.adjacent[b], a)
	return c, nil
}

// HasEdge reports whether a and b are directly connected
func (g *RoomGraph) HasEdge(a, b int) bool {
	if a < 0 || a >= len(g.adjacent) {
		return false
	}
	for _, n := range g.adjacent[a] {
		if n == b {
			return true
		}
	}
	return false
}

// Neighbors returns the ids of rooms directly connected to id
func (g *RoomGraph) Neighbors(id int) []int {
	if id < 0 || id >= len(g.adjacent) {
		return nil
	}
	out := make([]int, len(g.adjacent[id]))
	copy(out, g.adjacent[id])
	return out
}

// Degree returns the number of corridors touching a room
func (g *RoomGraph) Degree(id int) int {
	if id < 0 || id >= len(g.adjacent) {
		return 0
	}
	return len(g.adjacent[id])
}

// StartRoom returns the room marked Start, or nil
func (g *RoomGraph) StartRoom() *Room {
	for _, r := range g.Rooms {
		if r.Start {
			return r
		}
	}
	return nil
}

// SetStart marks exactly one room as the start room
func (g *RoomGraph) SetStart(id int) {
	for _, r := range g.Rooms {
		r.Start = r.ID == id
	}
}

// Distances returns BFS hop counts from start; unreachable rooms get -1
func (g *RoomGraph) Distances(start int) []int {
	dist := make([]int, len(g.Rooms))
	for i := range dist {
		dist[i] = -1
	}
	if start < 0 || start >= len(g.Rooms) {
		return dist
	}

	dist[start] = 0
	queue := []int{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, neighborID := range g.adjacent[current] {
			if dist[neighborID] < 0 {
				dist[neighborID] = dist[current] + 1
				queue = append(queue, neighborID)
			}
		}
	}
	return dist
}

// IsConnected checks if all rooms are reachable from a starting room using BFS
func (g *RoomGraph) IsConnected(start int) bool {
	if len(g.Rooms) == 0 {
		return true
	}
	return len(g.FindUnreachable(start)) == 0
}

// FindUnreachable returns the ids of rooms not reachable from start, ascending
func (g *RoomGraph) FindUnreachable(start int) []int {
	unreachable := make([]int, 0)
	for id, d := range g.Distances(start) {
		if d < 0 {
			unreachable = append(unreachable, id)
		}
	}
	return unreachable
}

// Components groups room ids into connected components, ordered by smallest id
func (g *RoomGraph) Components() [][]int {
	seen := make([]bool, len(g.Rooms))
	var comps [][]int
	for id := range g.Rooms {
		if seen[id] {
			continue
		}
		var comp []int
		for other, d := range g.Distances(id) {
			if d >= 0 {
				seen[other] = true
				comp = append(comp, other)
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

// DeadEnds returns the rooms with exactly one corridor
func (g *RoomGraph) DeadEnds() []int {
	out := make([]int, 0)
	for id := range g.Rooms {
		if g.Degree(id) == 1 {
			out = append(out, id)
		}
	}
	return out
}

// DeadEndRatio is the fraction of rooms with degree one
func (g *RoomGraph) DeadEndRatio() float64 {
	if len(g.Rooms) == 0 {
		return 0
	}
	return float64(len(g.DeadEnds())) / float64(len(g.Rooms))
}

// FindOverlap returns the first pair of rooms whose bounds intersect
func (g *RoomGraph) FindOverlap() (int, int, bool) {
	for i := 0; i < len(g.Rooms); i++ {
		for j := i + 1; j < len(g.Rooms); j++ {
			if g.Rooms[i].Bounds.Overlaps(g.Rooms[j].Bounds) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// Absorb appends every room and connection of other, renumbering ids.
// It returns the id offset applied to other's rooms.
func (g *RoomGraph) Absorb(other *RoomGraph) int {
	offset := len(g.Rooms)
	for _, r := range other.Rooms {
		nr := g.AddRoom(r.Bounds)
		nr.Type = r.Type
		nr.Biome = r.Biome
		nr.SpawnPoints = append(nr.SpawnPoints, r.SpawnPoints...)
	}
	for _, c := range other.Connections {
		// ids are in range by construction
		_, _ = g.Connect(c.A+offset, c.B+offset, c.Path, c.Width)
	}
	return offset
}

// Clone returns a deep copy of the graph
func (g *RoomGraph) Clone() *RoomGraph {
	out := &RoomGraph{
		Rooms:       make([]*Room, len(g.Rooms)),
		Connections: make([]*Connection, len(g.Connections)),
		adjacent:    make([][]int, len(g.adjacent)),
	}
	for i, r := range g.Rooms {
		cp := *r
		cp.Connections = append([]int{}, r.Connections...)
		cp.SpawnPoints = append([]Point{}, r.SpawnPoints...)
		out.Rooms[i] = &cp
	}
	for i, c := range g.Connections {
		cp := *c
		cp.Path = append([]Point{}, c.Path...)
		out.Connections[i] = &cp
	}
	for i, adj := range g.adjacent {
		out.adjacent[i] = append([]int(nil), adj...)
	}
	return out
}

// rebuildAdjacency restores the adjacency list from the connection list
func (g *RoomGraph) rebuildAdjacency() {
	g.adjacent = make([][]int, len(g.Rooms))
	for _, c := range g.Connections {
		g.adjacent[c.A] = append(g.adjacent[c.A], c.B)
		g.adjacent[c.B] = append(g.adjacent[c.B], c.A)
	}
}

// CandidateEdges lists every room pair weighted by centre distance
func (g *RoomGraph) CandidateEdges() []Edge {
	edges := make([]Edge, 0, len(g.Rooms)*(len(g.Rooms)-1)/2)
	for i := 0; i < len(g.Rooms); i++ {
		for j := i + 1; j < len(g.Rooms); j++ {
			edges = append(edges, Edge{
				From:   i,
				To:     j,
				Weight: euclideanDist(g.Rooms[i].Center(), g.Rooms[j].Center()),
			})
		}
	}
	return edges
}

// SpanningTree computes a minimum spanning forest over n nodes using Kruskal's
// algorithm. Edges of equal weight keep their input order.
func SpanningTree(n int, edges []Edge) []Edge {
	// Union-Find data structure
	parent := make([]int, n)
	rank := make([]int, n)
	for i := range parent {
		parent[i] = i
	}

	var find func(x int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}

	union := func(x, y int) bool {
		rootX, rootY := find(x), find(y)
		if rootX == rootY {
			return false
		}
		if rank[rootX] < rank[rootY] {
			rootX, rootY = rootY, rootX
		}
		parent[rootY] = rootX
		if rank[rootX] == rank[rootY] {
			rank[rootX]++
		}
		return true
	}

	mst := make([]Edge, 0, n)
	for _, edge := range sortedEdges(edges) {
		if edge.From < 0 || edge.From >= n || edge.To < 0 || edge.To >= n {
			continue
		}
		if union(edge.From, edge.To) {
			mst = append(mst, edge)
		}
	}
	return mst
}

// sortedEdges returns a copy of edges ordered by weight, stable for ties
func sortedEdges(edges []Edge) []Edge {
	sorted := make([]Edge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight < sorted[j].Weight
	})
	return sorted
}
