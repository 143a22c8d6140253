package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

const jwtSecretKey = "jwt_secret"

// GetSetting returns a stored setting value and whether it exists.
func GetSetting(ctx context.Context, db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSettingIfAbsent stores value under key unless the key already exists,
// and returns the value that ends up stored.
func SetSettingIfAbsent(ctx context.Context, db *sql.DB, key, value string) (string, error) {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value,
	)
	if err != nil {
		return "", fmt.Errorf("storing setting %s: %w", key, err)
	}

	stored, ok, err := GetSetting(ctx, db, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("setting %s missing after insert", key)
	}
	return stored, nil
}

// GetJWTSecret retrieves the JWT signing secret, generating and persisting
// one on first use. Concurrent first calls agree on a single secret.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	return SetSettingIfAbsent(ctx, db, jwtSecretKey, hex.EncodeToString(buf))
}
