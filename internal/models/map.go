package models

// RoomInfo describes the room under the player
type RoomInfo struct {
	ID    int    `json:"id"`
	Type  string `json:"type"`
	Biome string `json:"biome"`
	Start bool   `json:"start,omitempty"`
}

// ViewportData represents the visible area around the player
type ViewportData struct {
	Tiles       [][]RenderedTile `json:"tiles"`
	PlayerX     int              `json:"player_x"` // Relative to viewport
	PlayerY     int              `json:"player_y"` // Relative to viewport
	CurrentRoom *RoomInfo        `json:"current_room,omitempty"`
}
