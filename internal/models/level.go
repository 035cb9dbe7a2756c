package models

// GenerateRequest is the body of POST /api/levels and the first websocket
// message. Omitted fields take the server defaults.
type GenerateRequest struct {
	Seed           *uint64  `json:"seed,omitempty"` // random when omitted
	Width          int      `json:"width,omitempty" validate:"omitempty,gte=8,lte=1024"`
	Height         int      `json:"height,omitempty" validate:"omitempty,gte=8,lte=1024"`
	RoomTarget     int      `json:"room_target,omitempty" validate:"gte=0,lte=512"`
	Algorithm      string   `json:"algorithm,omitempty"`
	Biomes         []string `json:"biomes,omitempty" validate:"omitempty,max=8,dive,required"`
	Difficulty     *float64 `json:"difficulty,omitempty" validate:"omitempty,gte=0,lte=1000"`
	MaxRetryBudget *int     `json:"max_retry_budget,omitempty" validate:"omitempty,gte=0,lte=100"`
	BlendRadius    int      `json:"blend_radius,omitempty" validate:"gte=-1,lte=16"`
}

// BiomeSummary is the public listing of a catalog biome
type BiomeSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Code     string   `json:"code"`
	Boss     string   `json:"boss"`
	Enemies  []string `json:"enemies"`
	Items    []string `json:"items"`
	Excludes []string `json:"excludes,omitempty"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
