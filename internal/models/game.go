package models

// Position represents a coordinate on a level
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ExploreRequest is one step of a walk through a stored level
type ExploreRequest struct {
	Direction string   `json:"direction" validate:"required,oneof=north south east west n s e w N S E W"`
	Position  Position `json:"position"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
}

// ExploreState is returned after every step
type ExploreState struct {
	LevelID  string        `json:"level_id"`
	Position Position      `json:"position"`
	Viewport *ViewportData `json:"viewport"`
	Visited  []int         `json:"visited,omitempty"` // rooms entered on this step
}

// RenderedTile represents a tile as sent to the client
type RenderedTile struct {
	Character string `json:"char"`
	Color     string `json:"color"`
}
