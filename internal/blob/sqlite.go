package blob

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLStore keeps blobs in the blobs table of the main database.
type SQLStore struct {
	DB *sql.DB
}

// NewSQLStore returns a Store backed by db.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

// Put writes data at path, replacing any existing blob, and returns its URL.
func (s *SQLStore) Put(ctx context.Context, path string, data []byte, mime string) (string, error) {
	path, err := CleanPath(path)
	if err != nil {
		return "", err
	}
	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO blobs (path, data, mime, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET data = excluded.data, mime = excluded.mime,
		                                 created_at = excluded.created_at`,
		path, data, mime, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("storing blob: %w", err)
	}
	return URL(path), nil
}

// Get reads the blob at path.
func (s *SQLStore) Get(ctx context.Context, path string) (*Blob, error) {
	b := &Blob{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT path, data, mime, created_at FROM blobs WHERE path = ?`, path,
	).Scan(&b.Path, &b.Data, &b.MIME, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting blob: %w", err)
	}
	return b, nil
}

// Delete removes the blob at path.
func (s *SQLStore) Delete(ctx context.Context, path string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM blobs WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("deleting blob: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting blob: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
