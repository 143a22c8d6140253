package model

import (
	"errors"
	"testing"
)

func TestCanvasAddDefaults(t *testing.T) {
	var c Canvas

	for i, id := range []string{"a", "b", "c"} {
		p := c.Add(Item{ID: id})
		if p.X != DefaultCanvasX || p.Y != DefaultCanvasY || p.Scale != DefaultCanvasScale {
			t.Errorf("item %s: unexpected default placement %+v", id, p)
		}
		if p.ZIndex != i {
			t.Errorf("item %s: expected z-index %d, got %d", id, i, p.ZIndex)
		}
	}
	if c.Len() != 3 {
		t.Errorf("expected 3 placements, got %d", c.Len())
	}
}

func TestCanvasAddTwiceBringsToFront(t *testing.T) {
	var c Canvas
	c.Add(Item{ID: "a"})
	c.Add(Item{ID: "b"})
	c.Add(Item{ID: "a"})

	if c.Len() != 2 {
		t.Fatalf("expected 2 placements, got %d", c.Len())
	}
	ps := c.Placements()
	if ps[len(ps)-1].ItemID != "a" {
		t.Errorf("expected a on top, got %s", ps[len(ps)-1].ItemID)
	}
}

func TestCanvasMoveResizeRemove(t *testing.T) {
	var c Canvas
	c.Add(Item{ID: "a"})

	if err := c.Move("a", 10, 20); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if err := c.Resize("a", 1.5); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	p := c.Placements()[0]
	if p.X != 10 || p.Y != 20 || p.Scale != 1.5 {
		t.Errorf("unexpected placement %+v", p)
	}

	if err := c.Resize("a", 0); err == nil {
		t.Error("expected error for zero scale")
	}
	if err := c.Move("missing", 1, 1); !errors.Is(err, ErrNotOnCanvas) {
		t.Errorf("expected ErrNotOnCanvas, got %v", err)
	}
	if err := c.Remove("a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty canvas")
	}
}

func TestCanvasBringToFront(t *testing.T) {
	var c Canvas
	c.Add(Item{ID: "a"})
	c.Add(Item{ID: "b"})
	c.Add(Item{ID: "c"})

	if err := c.BringToFront("a"); err != nil {
		t.Fatalf("BringToFront: %v", err)
	}
	ps := c.Placements()
	order := []string{ps[0].ItemID, ps[1].ItemID, ps[2].ItemID}
	if order[0] != "b" || order[1] != "c" || order[2] != "a" {
		t.Errorf("unexpected order %v", order)
	}
}

func TestCanvasOutfit(t *testing.T) {
	var c Canvas
	if _, err := c.Outfit("Monday"); !errors.Is(err, ErrEmptyCanvas) {
		t.Fatalf("expected ErrEmptyCanvas, got %v", err)
	}

	c.Add(Item{ID: "a"})
	c.Add(Item{ID: "b"})
	outfit, err := c.Outfit("  ")
	if err != nil {
		t.Fatalf("Outfit: %v", err)
	}
	if outfit.Name != "Untitled outfit" {
		t.Errorf("unexpected name %q", outfit.Name)
	}
	if len(outfit.Placements) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(outfit.Placements))
	}
	for _, p := range outfit.Placements {
		if p.Item != nil {
			t.Error("expected joined item to be stripped")
		}
	}

	c.Clear()
	if c.Len() != 0 {
		t.Error("expected Clear to empty the canvas")
	}
}
