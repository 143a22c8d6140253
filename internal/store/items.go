package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/omara/internal/model"
)

const itemColumns = `id, user_id, original_image_url, processed_image_url, category, brand, color,
	size, price, tags, notes, status, created_at, updated_at`

// NewItemID returns a fresh item identifier. Callers that need the id before
// the row exists (to name blobs) generate it up front.
func NewItemID() string {
	return uuid.NewString()
}

// CreateItem creates a new item in the pending_processing state.
func CreateItem(ctx context.Context, db *sql.DB, id, userID, originalImageURL string, in model.ItemInput) (*model.Item, error) {
	if id == "" {
		id = NewItemID()
	}
	tags, err := encodeStrings(in.Tags)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = db.ExecContext(ctx,
		`INSERT INTO items (id, user_id, original_image_url, category, brand, color, size, price,
		                    tags, notes, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, originalImageURL, in.Category, in.Brand, in.Color, in.Size, in.Price,
		tags, in.Notes, model.ItemStatusPending, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItemsByUser returns a user's items, newest first.
func ListItemsByUser(ctx context.Context, db *sql.DB, userID string) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE user_id = ?
		 ORDER BY created_at DESC, rowid DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ListItemsByStatus returns all items in a status, oldest first.
func ListItemsByStatus(ctx context.Context, db *sql.DB, status string) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE status = ?
		 ORDER BY created_at, rowid`, status,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items by status: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// UpdateItem replaces an item's metadata.
func UpdateItem(ctx context.Context, db *sql.DB, id string, in model.ItemInput) error {
	tags, err := encodeStrings(in.Tags)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`UPDATE items SET category = ?, brand = ?, color = ?, size = ?, price = ?, tags = ?, notes = ?,
		                  updated_at = ?
		 WHERE id = ?`,
		in.Category, in.Brand, in.Color, in.Size, in.Price, tags, in.Notes, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// ReplaceItemImage points an item at a new original image. The processed
// image is cleared and the item goes back to pending_processing.
func ReplaceItemImage(ctx context.Context, db *sql.DB, id, originalImageURL string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET original_image_url = ?, processed_image_url = NULL, status = ?, updated_at = ?
		 WHERE id = ?`,
		originalImageURL, model.ItemStatusPending, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("replacing item image: %w", err)
	}
	return nil
}

// SetItemProcessed records the processed image and marks the item processed.
// It only applies while the item still has the given original image, so a
// result for a replaced image is discarded. Reports whether the row changed.
func SetItemProcessed(ctx context.Context, db *sql.DB, id, originalImageURL, processedImageURL string) (bool, error) {
	res, err := db.ExecContext(ctx,
		`UPDATE items SET processed_image_url = ?, status = ?, updated_at = ?
		 WHERE id = ? AND original_image_url = ?`,
		processedImageURL, model.ItemStatusProcessed, time.Now().UTC(), id, originalImageURL,
	)
	if err != nil {
		return false, fmt.Errorf("setting item processed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("setting item processed: %w", err)
	}
	return n > 0, nil
}

// SetItemFailed marks an item error_processing while it still has the given
// original image. Reports whether the row changed.
func SetItemFailed(ctx context.Context, db *sql.DB, id, originalImageURL string) (bool, error) {
	res, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = ? WHERE id = ? AND original_image_url = ?`,
		model.ItemStatusError, time.Now().UTC(), id, originalImageURL,
	)
	if err != nil {
		return false, fmt.Errorf("setting item failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("setting item failed: %w", err)
	}
	return n > 0, nil
}

// DeleteItem removes an item. Outfit placements referencing it go with it.
func DeleteItem(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanItem(s scanner) (*model.Item, error) {
	item := &model.Item{}
	var processed, brand, color, size, notes sql.NullString
	var price sql.NullFloat64
	var tags string
	err := s.Scan(&item.ID, &item.UserID, &item.OriginalImageURL, &processed, &item.Category,
		&brand, &color, &size, &price, &tags, &notes, &item.Status, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.ProcessedImageURL = processed.String
	item.Brand = brand.String
	item.Color = color.String
	item.Size = size.String
	item.Notes = notes.String
	if price.Valid {
		p := price.Float64
		item.Price = &p
	}
	if item.Tags, err = decodeStrings(tags); err != nil {
		return nil, err
	}
	return item, nil
}
