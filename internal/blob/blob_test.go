package blob

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/omara/internal/db"
)

func TestSQLStorePutGetDelete(t *testing.T) {
	s := NewSQLStore(db.NewTestDB(t))
	ctx := context.Background()

	url, err := s.Put(ctx, "item_images/u1/a", []byte("data"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/api/blobs/item_images/u1/a", url)

	b, err := s.Get(ctx, "item_images/u1/a")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), b.Data)
	assert.Equal(t, "image/png", b.MIME)

	_, err = s.Put(ctx, "item_images/u1/a", []byte("new"), "image/jpeg")
	require.NoError(t, err)
	b, err = s.Get(ctx, "item_images/u1/a")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), b.Data)

	require.NoError(t, DeleteURL(ctx, s, url))
	_, err = s.Get(ctx, "item_images/u1/a")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = DeleteURL(ctx, s, url)
	assert.True(t, errors.Is(err, ErrNotFound), "second delete should report not found")
}

func TestSQLStoreRejectsBadPath(t *testing.T) {
	s := NewSQLStore(db.NewTestDB(t))

	for _, p := range []string{"", "/abs", "../up", "a/../b", "a//b"} {
		_, err := s.Put(context.Background(), p, []byte("x"), "image/png")
		assert.Error(t, err, "path %q", p)
	}
}

func TestPathFromURL(t *testing.T) {
	p, err := PathFromURL("/api/blobs/profile_pictures/u1/x")
	require.NoError(t, err)
	assert.Equal(t, "profile_pictures/u1/x", p)

	_, err = PathFromURL("https://example.com/shirt.jpg")
	assert.Error(t, err)
	_, err = PathFromURL("/api/blobs/")
	assert.Error(t, err)

	assert.True(t, IsLocalURL("/api/blobs/a/b/c"))
	assert.False(t, IsLocalURL("gs://bucket/a"))
}

func TestPathHelpers(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	assert.True(t, strings.HasPrefix(ItemImagePath("u1", now), "item_images/u1/item_u1_1700000000123_"))
	assert.NotEqual(t, ItemImagePath("u1", now), ItemImagePath("u1", now))

	processed := ProcessedImagePath("u1", "i1")
	assert.True(t, strings.HasPrefix(processed, "item_images/u1/processed/i1_"))
	assert.True(t, strings.HasSuffix(processed, ".jpg"))
	assert.NotEqual(t, processed, ProcessedImagePath("u1", "i1"))
	assert.Equal(t, "u1", OwnerOf(processed))
	assert.Equal(t, "u1", OwnerOf(ProfilePicturePath("u1")))
	assert.Equal(t, "u1", OwnerOf(ItemImagePath("u1", now)))
	assert.Equal(t, "", OwnerOf("loose"))
}
