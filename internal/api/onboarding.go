package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/omara/internal/blob"
	"github.com/erazemk/omara/internal/onboarding"
	"github.com/erazemk/omara/internal/store"
)

// OnboardingHandler handles the profile set-up steps and the profile itself.
type OnboardingHandler struct {
	DB             *sql.DB
	Blobs          blob.Store
	MaxUploadBytes int64
}

type usernameRequest struct {
	onboarding.UserInfo
	Username          string `json:"username"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

type profileRequest struct {
	onboarding.Draft
	onboarding.Preferences
}

// Interests handles GET /api/onboarding/interests.
func (h *OnboardingHandler) Interests(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{"interests": onboarding.InterestOptions})
}

// UserInfo handles POST /api/onboarding/user-info.
func (h *OnboardingHandler) UserInfo(w http.ResponseWriter, r *http.Request) {
	var req onboarding.UserInfo
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	info, err := onboarding.SubmitUserInfo(req)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, info)
}

// Username handles POST /api/onboarding/username.
func (h *OnboardingHandler) Username(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req usernameRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	draft, err := onboarding.SubmitUsername(req.UserInfo, strings.TrimSpace(req.Username), req.ProfilePictureURL)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !ownsPicture(claims.UserID, draft.ProfilePictureURL) {
		jsonError(w, http.StatusBadRequest, "invalid profile picture")
		return
	}

	available, err := store.UsernameAvailable(r.Context(), h.DB, draft.Username)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !available {
		jsonError(w, http.StatusConflict, store.ErrUsernameTaken.Error())
		return
	}

	jsonResponse(w, http.StatusOK, draft)
}

// Picture handles PUT /api/onboarding/picture. The picture is stored and,
// when the profile already exists, attached to it.
func (h *OnboardingHandler) Picture(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := parseMultipart(w, r, h.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	data, mime, err := readImage(r)
	if errors.Is(err, errNoImage) {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	url, err := h.Blobs.Put(r.Context(), blob.ProfilePicturePath(claims.UserID), data, mime)
	if err != nil {
		slog.Error("storing profile picture", "user_id", claims.UserID, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	profile, err := store.GetProfile(r.Context(), h.DB, claims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if profile != nil {
		if err := store.UpdateProfilePicture(r.Context(), h.DB, claims.UserID, url); err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to update profile")
			return
		}
		if profile.ProfilePictureURL != "" && profile.ProfilePictureURL != url {
			h.deleteBlob(r, profile.ProfilePictureURL)
		}
	}

	jsonResponse(w, http.StatusOK, map[string]string{"profile_picture_url": url})
}

// CreateProfile handles POST /api/profile, the last onboarding step.
func (h *OnboardingHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	if !ownsPicture(claims.UserID, req.ProfilePictureURL) {
		jsonError(w, http.StatusBadRequest, "invalid profile picture")
		return
	}

	acct := onboarding.Account{UserID: claims.UserID, Email: claims.Email}
	profile, err := onboarding.Complete(acct, req.Draft, req.Preferences)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := store.CreateProfile(r.Context(), h.DB, profile)
	switch {
	case errors.Is(err, store.ErrProfileExists), errors.Is(err, store.ErrUsernameTaken):
		jsonError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		slog.Error("creating profile", "user_id", claims.UserID, "error", err)
		jsonError(w, http.StatusInternalServerError, "Could not save your profile. Please try again.")
		return
	}

	slog.Info("onboarding complete", "user_id", claims.UserID)
	jsonResponse(w, http.StatusCreated, created)
}

// GetProfile handles GET /api/profile.
func (h *OnboardingHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	profile, err := store.GetProfile(r.Context(), h.DB, claims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if profile == nil {
		jsonError(w, http.StatusNotFound, "profile not found")
		return
	}
	jsonResponse(w, http.StatusOK, profile)
}

func (h *OnboardingHandler) deleteBlob(r *http.Request, url string) {
	if !blob.IsLocalURL(url) {
		return
	}
	if err := blob.DeleteURL(r.Context(), h.Blobs, url); err != nil && !errors.Is(err, blob.ErrNotFound) {
		slog.Warn("deleting old profile picture", "error", err)
	}
}

// ownsPicture rejects local blob URLs that belong to another user. Remote
// URLs and an empty URL are accepted.
func ownsPicture(userID, url string) bool {
	if url == "" || !blob.IsLocalURL(url) {
		return true
	}
	p, err := blob.PathFromURL(url)
	if err != nil {
		return false
	}
	return blob.OwnerOf(p) == userID
}
