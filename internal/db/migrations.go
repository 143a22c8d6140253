package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: processing picks up pending items oldest first.
	`CREATE INDEX IF NOT EXISTS idx_items_status_created
	     ON items(status, created_at)`,
	// Migration 2: usernames are case-insensitively unique across profiles.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_username
	     ON profiles(username COLLATE NOCASE)`,
}

func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}
	return nil
}
