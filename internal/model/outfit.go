package model

import "time"

// Outfit is a saved arrangement of wardrobe items.
type Outfit struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Name       string      `json:"name"`
	Placements []Placement `json:"placements"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Placement positions one item on the outfit canvas.
type Placement struct {
	ItemID string  `json:"item_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Scale  float64 `json:"scale"`
	ZIndex int     `json:"z_index"`

	// Joined fields (not always populated).
	Item *Item `json:"item,omitempty"`
}
