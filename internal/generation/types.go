package generation

import "math"

// Point represents a 2D cell coordinate
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns a new point offset by dx, dy
func (p Point) Add(dx, dy int) Point {
	return Point{p.X + dx, p.Y + dy}
}

// Adjacent returns the 4 cardinal neighbors
func (p Point) Adjacent() []Point {
	return []Point{
		{p.X, p.Y - 1}, // N
		{p.X + 1, p.Y}, // E
		{p.X, p.Y + 1}, // S
		{p.X - 1, p.Y}, // W
	}
}

// Direction represents cardinal directions
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Delta returns the x,y offset for moving in this direction
func (d Direction) Delta() (int, int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	}
	return 0, 0
}

// Bounds represents an inclusive rectangular region
type Bounds struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

// Rect builds bounds from an origin and a size
func Rect(x, y, w, h int) Bounds {
	return Bounds{x, y, x + w - 1, y + h - 1}
}

// Width returns the width of the bounds
func (b Bounds) Width() int {
	return b.MaxX - b.MinX + 1
}

// Height returns the height of the bounds
func (b Bounds) Height() int {
	return b.MaxY - b.MinY + 1
}

// Area returns the number of cells covered, zero for empty bounds
func (b Bounds) Area() int {
	if b.Empty() {
		return 0
	}
	return b.Width() * b.Height()
}

// Empty reports whether the bounds cover no cells
func (b Bounds) Empty() bool {
	return b.MaxX < b.MinX || b.MaxY < b.MinY
}

// Contains checks if a point is within bounds
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Overlaps checks if two bounds intersect
func (b Bounds) Overlaps(other Bounds) bool {
	return b.MinX <= other.MaxX && b.MaxX >= other.MinX &&
		b.MinY <= other.MaxY && b.MaxY >= other.MinY
}

// Expand returns bounds grown by n tiles in each direction
func (b Bounds) Expand(n int) Bounds {
	return Bounds{b.MinX - n, b.MinY - n, b.MaxX + n, b.MaxY + n}
}

// Center returns the center point of the bounds
func (b Bounds) Center() Point {
	return Point{(b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2}
}

// Clamp returns the point nearest to p that lies inside the bounds
func (b Bounds) Clamp(p Point) Point {
	return Point{clamp(p.X, b.MinX, b.MaxX), clamp(p.Y, b.MinY, b.MaxY)}
}

// Inner returns the bounds shrunk by n tiles on every side
func (b Bounds) Inner(n int) Bounds {
	return b.Expand(-n)
}

// Points lists every cell in row-major order
func (b Bounds) Points() []Point {
	if b.Empty() {
		return nil
	}
	pts := make([]Point, 0, b.Area())
	for y := b.MinY; y <= b.MaxY; y++ {
		for x := b.MinX; x <= b.MaxX; x++ {
			pts = append(pts, Point{x, y})
		}
	}
	return pts
}

func manhattanDist(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func euclideanDist(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
