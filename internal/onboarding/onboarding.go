// Package onboarding validates the profile set-up steps that follow sign-up.
// Each step carries the previous step's fields forward unchanged, and the
// last step turns them into a profile.
package onboarding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/erazemk/omara/internal/model"
)

// Validation errors.
var (
	ErrMissingFields   = errors.New("please fill in all fields")
	ErrMissingUsername = errors.New("please enter a username")
	ErrNoAccount       = errors.New("no authenticated user found, please sign in again")
)

// InterestOptions are the selectable style interests.
var InterestOptions = []string{
	"Sustainable Fashion", "Minimalism", "Vintage Finds", "Streetwear", "Luxury Brands",
	"Capsule Wardrobe", "DIY Fashion", "Second-hand Shopping", "Ethical Fashion",
	"Seasonal Trends", "Comfort Core", "Accessorizing",
}

// UserInfo is the output of the first step.
type UserInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Birthdate string `json:"birthdate"`
}

// Draft is the output of the username step and the input of the interests step.
type Draft struct {
	UserInfo
	Username          string `json:"username"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
}

// Preferences is what the interests step collects.
type Preferences struct {
	Interests            []string `json:"interests"`
	NotificationsEnabled *bool    `json:"notifications_enabled"`
}

// Account identifies the signed-in user completing onboarding.
type Account struct {
	UserID string
	Email  string
}

// SubmitUserInfo validates the first step. The birthdate format is not checked.
func SubmitUserInfo(info UserInfo) (UserInfo, error) {
	if info.FirstName == "" || info.LastName == "" || info.Birthdate == "" {
		return UserInfo{}, ErrMissingFields
	}
	return info, nil
}

// SubmitUsername validates the second step and carries info forward.
func SubmitUsername(info UserInfo, username, pictureURL string) (Draft, error) {
	info, err := SubmitUserInfo(info)
	if err != nil {
		return Draft{}, err
	}
	if username == "" {
		return Draft{}, ErrMissingUsername
	}
	return Draft{UserInfo: info, Username: username, ProfilePictureURL: pictureURL}, nil
}

// Complete validates the final step and builds the profile to store.
// Notifications default to on.
func Complete(acct Account, d Draft, prefs Preferences) (model.Profile, error) {
	if acct.UserID == "" {
		return model.Profile{}, ErrNoAccount
	}
	d, err := SubmitUsername(d.UserInfo, d.Username, d.ProfilePictureURL)
	if err != nil {
		return model.Profile{}, err
	}
	interests, err := NormalizeInterests(prefs.Interests)
	if err != nil {
		return model.Profile{}, err
	}
	notifications := true
	if prefs.NotificationsEnabled != nil {
		notifications = *prefs.NotificationsEnabled
	}

	return model.Profile{
		UserID:               acct.UserID,
		Email:                acct.Email,
		FirstName:            d.FirstName,
		LastName:             d.LastName,
		Birthdate:            d.Birthdate,
		Username:             d.Username,
		ProfilePictureURL:    d.ProfilePictureURL,
		Interests:            interests,
		NotificationsEnabled: notifications,
	}, nil
}

// NormalizeInterests rejects unknown interests and drops repeats, keeping
// the order of first selection.
func NormalizeInterests(selected []string) ([]string, error) {
	out := make([]string, 0, len(selected))
	seen := make(map[string]bool, len(selected))
	var unknown []string
	for _, s := range selected {
		if !isOption(s) {
			unknown = append(unknown, s)
			continue
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown interests: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

func isOption(s string) bool {
	for _, o := range InterestOptions {
		if o == s {
			return true
		}
	}
	return false
}
