package generation

// ValidationRules are the layout-quality thresholds a level must meet
type ValidationRules struct {
	MinRooms        int     `json:"min_rooms" validate:"gte=1"`
	MaxDeadEndRatio float64 `json:"max_dead_end_ratio" validate:"gte=0,lte=1"`
}

// DefaultRules returns the default thresholds
func DefaultRules() ValidationRules {
	return ValidationRules{MinRooms: 6, MaxDeadEndRatio: 0.6}
}

// Validator checks a generated layout against ValidationRules
type Validator struct {
	Rules ValidationRules
}

// NewValidator creates a validator with the given rules
func NewValidator(rules ValidationRules) *Validator {
	return &Validator{Rules: rules}
}

// Validate returns nil or a recoverable *GenerationError naming the first
// broken constraint
func (v *Validator) Validate(g *RoomGraph, m *TileMap) error {
	// 1. Room count
	if g.Len() < v.Rules.MinRooms {
		return newError(KindInsufficientRoomCount, "%d rooms, need at least %d", g.Len(), v.Rules.MinRooms)
	}

	// 2. Overlap and bounds
	if a, b, ok := g.FindOverlap(); ok {
		return newError(KindOverlappingRooms, "rooms %d and %d overlap", a, b)
	}
	mapBounds := m.Bounds()
	for _, r := range g.Rooms {
		if r.Bounds.Empty() || !mapBounds.Contains(Point{r.Bounds.MinX, r.Bounds.MinY}) ||
			!mapBounds.Contains(Point{r.Bounds.MaxX, r.Bounds.MaxY}) {
			return newError(KindOverlappingRooms, "room %d lies outside the map", r.ID)
		}
	}

	// 3. Graph connectivity from the start room
	start := g.StartRoom()
	if start == nil {
		return newError(KindUnreachableRooms, "no start room")
	}
	if unreachable := g.FindUnreachable(start.ID); len(unreachable) > 0 {
		return newError(KindUnreachableRooms, "rooms %v not connected to start room %d", unreachable, start.ID)
	}

	// 4. Tile accessibility: every room must hold a cell reachable on foot
	reachable := m.Reachable(start.Center())
	for _, r := range g.Rooms {
		ok := false
		for _, p := range r.Bounds.Points() {
			if reachable.Has(p) {
				ok = true
				break
			}
		}
		if !ok {
			return newError(KindUnreachableRooms, "room %d not walkable from start room %d", r.ID, start.ID)
		}
	}

	// 5. Dead ends
	if ratio := g.DeadEndRatio(); ratio > v.Rules.MaxDeadEndRatio {
		return newError(KindDeadEndRatioExceeded, "dead-end ratio %.2f exceeds %.2f", ratio, v.Rules.MaxDeadEndRatio)
	}
	return nil
}
