package model

import "time"

// Profile is written once when onboarding completes.
type Profile struct {
	UserID               string    `json:"uid"`
	Email                string    `json:"email"`
	FirstName            string    `json:"first_name"`
	LastName             string    `json:"last_name"`
	Birthdate            string    `json:"birthdate"`
	Username             string    `json:"username"`
	ProfilePictureURL    string    `json:"profile_picture_url,omitempty"`
	Interests            []string  `json:"interests"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
