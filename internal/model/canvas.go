package model

import (
	"errors"
	"sort"
	"strings"
)

// Default placement for items dropped onto the canvas.
const (
	DefaultCanvasX     = 50
	DefaultCanvasY     = 50
	DefaultCanvasScale = 1
)

// ErrEmptyCanvas is returned when saving a canvas with nothing on it.
var ErrEmptyCanvas = errors.New("add some items to create an outfit before saving")

// ErrNotOnCanvas is returned when an operation targets an item that is not placed.
var ErrNotOnCanvas = errors.New("item is not on the canvas")

// Canvas is the working surface of the outfit studio. Each item can be
// placed at most once. Not safe for concurrent use.
type Canvas struct {
	placements []Placement
}

// Len returns the number of placed items.
func (c *Canvas) Len() int {
	return len(c.placements)
}

// Add places item at the default position on top of everything else.
// Adding an item that is already placed brings it to the front instead.
func (c *Canvas) Add(item Item) Placement {
	if i := c.index(item.ID); i >= 0 {
		_ = c.BringToFront(item.ID)
		return c.placements[i]
	}
	it := item
	p := Placement{
		ItemID: item.ID,
		X:      DefaultCanvasX,
		Y:      DefaultCanvasY,
		Scale:  DefaultCanvasScale,
		ZIndex: c.nextZ(),
		Item:   &it,
	}
	c.placements = append(c.placements, p)
	return p
}

// Place puts a placement on the canvas as given, replacing any existing
// placement of the same item.
func (c *Canvas) Place(p Placement) {
	if p.Scale <= 0 {
		p.Scale = DefaultCanvasScale
	}
	if i := c.index(p.ItemID); i >= 0 {
		c.placements[i] = p
		return
	}
	c.placements = append(c.placements, p)
}

// Remove takes an item off the canvas.
func (c *Canvas) Remove(itemID string) error {
	i := c.index(itemID)
	if i < 0 {
		return ErrNotOnCanvas
	}
	c.placements = append(c.placements[:i], c.placements[i+1:]...)
	return nil
}

// Move sets an item's position.
func (c *Canvas) Move(itemID string, x, y float64) error {
	i := c.index(itemID)
	if i < 0 {
		return ErrNotOnCanvas
	}
	c.placements[i].X = x
	c.placements[i].Y = y
	return nil
}

// Resize sets an item's scale. Non-positive scales are rejected.
func (c *Canvas) Resize(itemID string, scale float64) error {
	if scale <= 0 {
		return errors.New("scale must be positive")
	}
	i := c.index(itemID)
	if i < 0 {
		return ErrNotOnCanvas
	}
	c.placements[i].Scale = scale
	return nil
}

// BringToFront gives an item the highest z-index on the canvas.
func (c *Canvas) BringToFront(itemID string) error {
	i := c.index(itemID)
	if i < 0 {
		return ErrNotOnCanvas
	}
	top := c.nextZ() - 1
	if c.placements[i].ZIndex == top {
		return nil
	}
	c.placements[i].ZIndex = top + 1
	return nil
}

// Clear removes every item from the canvas.
func (c *Canvas) Clear() {
	c.placements = nil
}

// Placements returns a copy of the placements ordered bottom to top.
func (c *Canvas) Placements() []Placement {
	out := make([]Placement, len(c.placements))
	copy(out, c.placements)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

// Outfit snapshots the canvas into an unsaved outfit.
func (c *Canvas) Outfit(name string) (*Outfit, error) {
	if len(c.placements) == 0 {
		return nil, ErrEmptyCanvas
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Untitled outfit"
	}
	placements := c.Placements()
	for i := range placements {
		placements[i].Item = nil
	}
	return &Outfit{Name: name, Placements: placements}, nil
}

func (c *Canvas) index(itemID string) int {
	for i, p := range c.placements {
		if p.ItemID == itemID {
			return i
		}
	}
	return -1
}

func (c *Canvas) nextZ() int {
	z := 0
	for _, p := range c.placements {
		if p.ZIndex >= z {
			z = p.ZIndex + 1
		}
	}
	return z
}
