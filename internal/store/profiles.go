package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/omara/internal/model"
)

// Profile write errors.
var (
	ErrProfileExists = errors.New("profile already exists")
	ErrUsernameTaken = errors.New("username already taken")
)

// CreateProfile writes a user's profile. A profile can only be created once.
func CreateProfile(ctx context.Context, db *sql.DB, p model.Profile) (*model.Profile, error) {
	interests, err := encodeStrings(p.Interests)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, email, first_name, last_name, birthdate, username,
		                       profile_picture_url, interests, notifications_enabled, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.Email, p.FirstName, p.LastName, p.Birthdate, p.Username,
		nullString(p.ProfilePictureURL), interests, p.NotificationsEnabled, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "username") {
				return nil, ErrUsernameTaken
			}
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("creating profile: %w", err)
	}

	return GetProfile(ctx, db, p.UserID)
}

// GetProfile returns a user's profile, or nil if onboarding is incomplete.
func GetProfile(ctx context.Context, db *sql.DB, userID string) (*model.Profile, error) {
	p := &model.Profile{}
	var picture sql.NullString
	var interests string
	err := db.QueryRowContext(ctx,
		`SELECT user_id, email, first_name, last_name, birthdate, username, profile_picture_url,
		        interests, notifications_enabled, created_at, updated_at
		 FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.Email, &p.FirstName, &p.LastName, &p.Birthdate, &p.Username, &picture,
		&interests, &p.NotificationsEnabled, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	p.ProfilePictureURL = picture.String
	if p.Interests, err = decodeStrings(interests); err != nil {
		return nil, err
	}
	return p, nil
}

// UsernameAvailable reports whether no profile uses username (case-insensitive).
func UsernameAvailable(ctx context.Context, db *sql.DB, username string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profiles WHERE username = ? COLLATE NOCASE`, username,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking username: %w", err)
	}
	return count == 0, nil
}

// UpdateProfilePicture sets the picture of an existing profile.
func UpdateProfilePicture(ctx context.Context, db *sql.DB, userID, url string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE profiles SET profile_picture_url = ?, updated_at = ? WHERE user_id = ?`,
		nullString(url), time.Now().UTC(), userID,
	)
	if err != nil {
		return fmt.Errorf("updating profile picture: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
