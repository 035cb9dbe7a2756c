package generation

import (
	"container/heap"

	"github.com/zyedidia/generic/mapset"
)

// FloodFill collects every cell reachable from start through cells accepted by pass.
// Cells are returned in visit order, which is deterministic for a given map.
func (m *TileMap) FloodFill(start Point, pass func(Point) bool) []Point {
	if !m.InBounds(start) || !pass(start) {
		return nil
	}

	visited := mapset.New[Point]()
	visited.Put(start)
	queue := []Point{start}
	out := make([]Point, 0, 64)

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		out = append(out, p)

		for _, adj := range p.Adjacent() {
			if !m.InBounds(adj) || visited.Has(adj) || !pass(adj) {
				continue
			}
			visited.Put(adj)
			queue = append(queue, adj)
		}
	}
	return out
}

// Reachable returns the set of walkable cells connected to start
func (m *TileMap) Reachable(start Point) mapset.Set[Point] {
	set := mapset.New[Point]()
	for _, p := range m.FloodFill(start, m.IsWalkable) {
		set.Put(p)
	}
	return set
}

// WalkableRegions splits the walkable cells inside area into 4-connected regions,
// discovered in row-major order
func (m *TileMap) WalkableRegions(area Bounds) [][]Point {
	seen := mapset.New[Point]()
	var regions [][]Point
	inside := func(p Point) bool {
		return area.Contains(p) && m.IsWalkable(p)
	}

	for y := area.MinY; y <= area.MaxY; y++ {
		for x := area.MinX; x <= area.MaxX; x++ {
			p := Point{x, y}
			if seen.Has(p) || !inside(p) {
				continue
			}
			region := m.FloodFill(p, inside)
			for _, c := range region {
				seen.Put(c)
			}
			regions = append(regions, region)
		}
	}
	return regions
}

// CountWalkable returns the number of walkable cells in the whole map
func (m *TileMap) CountWalkable() int {
	n := 0
	for _, c := range m.cells {
		if c.Role.Walkable() {
			n++
		}
	}
	return n
}

// ---- A* Pathfinding ----

// astarNode represents a node in the A* priority queue
type astarNode struct {
	point  Point
	gScore int
	fScore int
	order  int // insertion counter, breaks ties deterministically
	index  int
}

// priorityQueue implements heap.Interface for A*
type priorityQueue []*astarNode

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].fScore != pq[j].fScore {
		return pq[i].fScore < pq[j].fScore
	}
	return pq[i].order < pq[j].order
}
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}
func (pq *priorityQueue) Push(x interface{}) {
	n := x.(*astarNode)
	n.index = len(*pq)
	*pq = append(*pq, n)
}
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*pq = old[:len(old)-1]
	return n
}

// digCost is the price of tunnelling through a wall cell; walkable cells cost 1
const digCost = 4

// FindDigPath uses A* to find a path between two points inside area, treating wall
// cells as passable at a higher cost so existing floor is preferred.
// Returns nil if either endpoint is outside area.
func (m *TileMap) FindDigPath(from, to Point, area Bounds) []Point {
	if !area.Contains(from) || !area.Contains(to) || !m.InBounds(from) || !m.InBounds(to) {
		return nil
	}

	openSet := &priorityQueue{}
	heap.Init(openSet)

	gScore := map[Point]int{from: 0}
	cameFrom := make(map[Point]Point)
	closed := mapset.New[Point]()
	order := 0

	heap.Push(openSet, &astarNode{point: from, fScore: manhattanDist(from, to)})

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*astarNode)
		if closed.Has(current.point) {
			continue
		}
		closed.Put(current.point)

		if current.point == to {
			path := []Point{to}
			curr := to
			for curr != from {
				curr = cameFrom[curr]
				path = append(path, curr)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}

		for _, neighbor := range current.point.Adjacent() {
			if !area.Contains(neighbor) || !m.InBounds(neighbor) || closed.Has(neighbor) {
				continue
			}
			step := 1
			if !m.IsWalkable(neighbor) {
				step = digCost
			}
			tentativeG := current.gScore + step
			if oldG, exists := gScore[neighbor]; exists && tentativeG >= oldG {
				continue
			}
			gScore[neighbor] = tentativeG
			cameFrom[neighbor] = current.point
			order++
			heap.Push(openSet, &astarNode{
				point:  neighbor,
				gScore: tentativeG,
				fScore: tentativeG + manhattanDist(neighbor, to),
				order:  order,
			})
		}
	}

	return nil
}

// ---- Seeded RNG ----

// RNG is a seeded SplitMix64 generator. One instance is created per generation
// attempt and threaded explicitly through every step.
type RNG struct {
	state uint64
}

// NewRNG creates a new RNG with the given seed
func NewRNG(seed uint64) *RNG {
	return &RNG{state: seed}
}

const golden = 0x9E3779B97F4A7C15

func splitmix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Uint64 returns a pseudo-random uint64
func (r *RNG) Uint64() uint64 {
	r.state += golden
	return splitmix64(r.state)
}

// Int63 returns a non-negative pseudo-random int64
func (r *RNG) Int63() int64 {
	return int64(r.Uint64() >> 1)
}

// Float64 returns a pseudo-random float64 in [0, 1)
func (r *RNG) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

// Intn returns a pseudo-random int in [0, n)
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Uint64() % uint64(n))
}

// IntRange returns a pseudo-random int in [min, max]
func (r *RNG) IntRange(min, max int) int {
	if min >= max {
		return min
	}
	return min + r.Intn(max-min+1)
}

// Chance returns true with probability p
func (r *RNG) Chance(p float64) bool {
	return r.Float64() < p
}

// Shuffle randomly reorders n elements using swap
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, r.Intn(i+1))
	}
}

// WeightedIndex picks an index with probability proportional to its weight.
// Returns -1 when no weight is positive.
func (r *RNG) WeightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	roll := r.Float64() * total
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		if roll < w {
			return i
		}
		roll -= w
	}
	return last
}

// DeriveSeed produces the seed for a retry attempt. Attempt 0 keeps the original
// seed so a first-try success reports the seed the caller asked for.
func DeriveSeed(seed uint64, attempt int) uint64 {
	if attempt <= 0 {
		return seed
	}
	return splitmix64(seed ^ (uint64(attempt) * golden))
}
