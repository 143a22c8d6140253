package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Item is a single garment in a user's wardrobe.
type Item struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	OriginalImageURL  string    `json:"original_image_url"`
	ProcessedImageURL string    `json:"processed_image_url,omitempty"`
	Category          string    `json:"category"`
	Brand             string    `json:"brand,omitempty"`
	Color             string    `json:"color,omitempty"`
	Size              string    `json:"size,omitempty"`
	Price             *float64  `json:"price,omitempty"`
	Tags              []string  `json:"tags"`
	Notes             string    `json:"notes,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Item statuses.
const (
	ItemStatusPending   = "pending_processing"
	ItemStatusProcessed = "processed"
	ItemStatusError     = "error_processing"
)

// DisplayImageURL returns the processed image when there is one, otherwise
// the original upload.
func (i *Item) DisplayImageURL() string {
	if i.ProcessedImageURL != "" {
		return i.ProcessedImageURL
	}
	return i.OriginalImageURL
}

// ErrCategoryRequired is returned when an item is saved without a category.
var ErrCategoryRequired = errors.New("please enter a category for the item")

// ItemInput holds the editable metadata of an item.
type ItemInput struct {
	Category string   `json:"category"`
	Brand    string   `json:"brand"`
	Color    string   `json:"color"`
	Size     string   `json:"size"`
	Price    *float64 `json:"price"`
	Tags     []string `json:"tags"`
	Notes    string   `json:"notes"`
}

// Normalize trims every text field and drops blank tags.
func (in *ItemInput) Normalize() {
	in.Category = strings.TrimSpace(in.Category)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Color = strings.TrimSpace(in.Color)
	in.Size = strings.TrimSpace(in.Size)
	in.Notes = strings.TrimSpace(in.Notes)

	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	in.Tags = tags
}

// Validate checks the input after normalization.
func (in *ItemInput) Validate() error {
	if strings.TrimSpace(in.Category) == "" {
		return ErrCategoryRequired
	}
	if in.Price != nil {
		if math.IsInf(*in.Price, 0) || math.IsNaN(*in.Price) {
			return fmt.Errorf("price must be a finite number")
		}
		if *in.Price < 0 {
			return fmt.Errorf("price must not be negative")
		}
	}
	return nil
}

// ParseTags splits a comma separated tag list.
func ParseTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ParsePrice parses an optional price. An empty string means no price.
func ParsePrice(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(p, 0) || math.IsNaN(p) {
		return nil, fmt.Errorf("invalid price %q", s)
	}
	return &p, nil
}
