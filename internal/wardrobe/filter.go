// Package wardrobe lists a user's items and narrows them by search term and
// category chip.
package wardrobe

import (
	"strings"

	"github.com/erazemk/omara/internal/model"
)

// AllCategories is the chip that disables category filtering.
const AllCategories = "All"

// Categories are the chips offered by the wardrobe and item picker.
var Categories = []string{
	AllCategories, "Tops", "Bottoms", "Dresses", "Outerwear", "Shoes",
	"Accessories", "Bags", "Jewelry", "Sportswear",
}

// Query narrows a wardrobe listing.
type Query struct {
	Search   string
	Category string
}

// Filter returns the items matching q, preserving their order. An item
// matches when its category equals the chip (case-insensitive; "All" or an
// empty chip matches everything) and the search term is a case-insensitive
// substring of its category, brand, color or any tag.
func Filter(items []model.Item, q Query) []model.Item {
	category := strings.TrimSpace(q.Category)
	filterCategory := category != "" && !strings.EqualFold(category, AllCategories)
	term := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if filterCategory && !strings.EqualFold(it.Category, category) {
			continue
		}
		if term != "" && !matches(it, term) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// matches reports whether term (already lowercased) occurs in any searchable field.
func matches(it model.Item, term string) bool {
	for _, field := range []string{it.Category, it.Brand, it.Color} {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	for _, tag := range it.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}
