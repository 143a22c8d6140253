package db

import (
	"path/filepath"
	"testing"
)

func TestEnsureSchemaIdempotent(t *testing.T) {
	database := NewTestDB(t)

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	database := NewTestDB(t)

	_, err := database.Exec(
		`INSERT INTO items (id, user_id, original_image_url, category, created_at, updated_at)
		 VALUES ('i1', 'no-such-user', '/x', 'Tops', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
	)
	if err == nil {
		t.Error("expected foreign key violation for unknown user")
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "omara.sqlite3")

	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	var mode string
	if err := database.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("expected wal journal mode, got %q", mode)
	}
}
