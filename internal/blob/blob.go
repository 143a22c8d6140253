// Package blob stores image files by path and hands out URLs for them.
package blob

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// URLPrefix is the path under which blobs are served.
const URLPrefix = "/api/blobs/"

// ErrNotFound is returned when no blob exists at a path.
var ErrNotFound = errors.New("blob not found")

// Blob is a stored file.
type Blob struct {
	Path      string
	Data      []byte
	MIME      string
	CreatedAt time.Time
}

// Store persists blobs by path.
type Store interface {
	Put(ctx context.Context, path string, data []byte, mime string) (string, error)
	Get(ctx context.Context, path string) (*Blob, error)
	Delete(ctx context.Context, path string) error
}

// URL returns the download URL for a blob path.
func URL(p string) string {
	return URLPrefix + p
}

// IsLocalURL reports whether url points into this blob store.
func IsLocalURL(url string) bool {
	return strings.HasPrefix(url, URLPrefix) && len(url) > len(URLPrefix)
}

// PathFromURL resolves a download URL back to its blob path.
func PathFromURL(url string) (string, error) {
	if !IsLocalURL(url) {
		return "", fmt.Errorf("not a blob url: %q", url)
	}
	return CleanPath(strings.TrimPrefix(url, URLPrefix))
}

// CleanPath normalizes a blob path and rejects traversal.
func CleanPath(p string) (string, error) {
	if p == "" || strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("invalid blob path %q", p)
	}
	cleaned := path.Clean(p)
	if cleaned != p || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid blob path %q", p)
	}
	return cleaned, nil
}

// OwnerOf returns the user id segment of a per-user blob path
// (<area>/<uid>/...), or "" for paths outside that layout.
func OwnerOf(p string) string {
	parts := strings.Split(p, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[1]
}

// ItemImagePath names a freshly uploaded item image. Every call returns a
// new path.
func ItemImagePath(userID string, now time.Time) string {
	return fmt.Sprintf("item_images/%s/item_%s_%d_%s", userID, userID, now.UnixMilli(), shortID())
}

// ProcessedImagePath names one processed rendition of an item. Every call
// returns a new path, so a render never overwrites another.
func ProcessedImagePath(userID, itemID string) string {
	return fmt.Sprintf("item_images/%s/processed/%s_%s.jpg", userID, itemID, shortID())
}

// ProfilePicturePath names an uploaded profile picture.
func ProfilePicturePath(userID string) string {
	return fmt.Sprintf("profile_pictures/%s/%s", userID, uuid.NewString())
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// DeleteURL deletes the blob behind a download URL.
func DeleteURL(ctx context.Context, s Store, url string) error {
	p, err := PathFromURL(url)
	if err != nil {
		return err
	}
	return s.Delete(ctx, p)
}
