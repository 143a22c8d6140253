package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/omara/internal/model"
)

// CreateOutfit saves an outfit and its placements atomically.
func CreateOutfit(ctx context.Context, db *sql.DB, userID, name string, placements []model.Placement) (*model.Outfit, error) {
	id := uuid.NewString()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO outfits (id, user_id, name, created_at) VALUES (?, ?, ?, ?)`,
		id, userID, name, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating outfit: %w", err)
	}

	for _, p := range placements {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO outfit_items (outfit_id, item_id, x, y, scale, z_index) VALUES (?, ?, ?, ?, ?, ?)`,
			id, p.ItemID, p.X, p.Y, p.Scale, p.ZIndex,
		)
		if err != nil {
			return nil, fmt.Errorf("adding item %s to outfit: %w", p.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing outfit: %w", err)
	}

	return GetOutfit(ctx, db, id)
}

// GetOutfit returns an outfit with its placements and joined items.
func GetOutfit(ctx context.Context, db *sql.DB, id string) (*model.Outfit, error) {
	o := &model.Outfit{}
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at FROM outfits WHERE id = ?`, id,
	).Scan(&o.ID, &o.UserID, &o.Name, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting outfit: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT oi.item_id, oi.x, oi.y, oi.scale, oi.z_index, `+prefixed("i", itemColumns)+`
		 FROM outfit_items oi
		 JOIN items i ON i.id = oi.item_id
		 WHERE oi.outfit_id = ?
		 ORDER BY oi.z_index`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting outfit placements: %w", err)
	}
	defer rows.Close()

	o.Placements = []model.Placement{}
	for rows.Next() {
		var p model.Placement
		item, err := scanItem(placementScanner{rows: rows, p: &p})
		if err != nil {
			return nil, fmt.Errorf("scanning placement: %w", err)
		}
		p.Item = item
		o.Placements = append(o.Placements, p)
	}
	return o, rows.Err()
}

// ListOutfits returns a user's outfits, newest first, without placements.
func ListOutfits(ctx context.Context, db *sql.DB, userID string) ([]model.Outfit, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, name, created_at FROM outfits WHERE user_id = ?
		 ORDER BY created_at DESC, rowid DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing outfits: %w", err)
	}
	defer rows.Close()

	var outfits []model.Outfit
	for rows.Next() {
		var o model.Outfit
		if err := rows.Scan(&o.ID, &o.UserID, &o.Name, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning outfit: %w", err)
		}
		outfits = append(outfits, o)
	}
	return outfits, rows.Err()
}

// DeleteOutfit removes an outfit and its placements.
func DeleteOutfit(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM outfits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting outfit: %w", err)
	}
	return nil
}

// placementScanner scans the placement columns that precede the item columns.
type placementScanner struct {
	rows *sql.Rows
	p    *model.Placement
}

func (s placementScanner) Scan(dest ...any) error {
	all := append([]any{&s.p.ItemID, &s.p.X, &s.p.Y, &s.p.Scale, &s.p.ZIndex}, dest...)
	return s.rows.Scan(all...)
}
