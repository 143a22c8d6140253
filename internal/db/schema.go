package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
    user_id               TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    email                 TEXT NOT NULL,
    first_name            TEXT NOT NULL,
    last_name             TEXT NOT NULL,
    birthdate             TEXT NOT NULL,
    username              TEXT NOT NULL,
    profile_picture_url   TEXT,
    interests             TEXT NOT NULL DEFAULT '[]',
    notifications_enabled INTEGER NOT NULL DEFAULT 1,
    created_at            DATETIME NOT NULL,
    updated_at            DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
    id                  TEXT PRIMARY KEY,
    user_id             TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    original_image_url  TEXT NOT NULL,
    processed_image_url TEXT,
    category            TEXT NOT NULL,
    brand               TEXT,
    color               TEXT,
    size                TEXT,
    price               REAL,
    tags                TEXT NOT NULL DEFAULT '[]',
    notes               TEXT,
    status              TEXT NOT NULL DEFAULT 'pending_processing'
                        CHECK (status IN ('pending_processing', 'processed', 'error_processing')),
    created_at          DATETIME NOT NULL,
    updated_at          DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_user_created
    ON items(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS outfits (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name       TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS outfit_items (
    outfit_id TEXT NOT NULL REFERENCES outfits(id) ON DELETE CASCADE,
    item_id   TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    x         REAL NOT NULL,
    y         REAL NOT NULL,
    scale     REAL NOT NULL CHECK (scale > 0),
    z_index   INTEGER NOT NULL,
    PRIMARY KEY (outfit_id, item_id)
);

CREATE TABLE IF NOT EXISTS blobs (
    path       TEXT PRIMARY KEY,
    data       BLOB NOT NULL,
    mime       TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist,
// then applies pending migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return migrate(db)
}
