package wardrobe

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/store"
)

// Cache is the subset of the JSON cache the service needs.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Service fetches wardrobes, through the cache when one is configured.
type Service struct {
	DB    *sql.DB
	Cache Cache
	TTL   time.Duration
}

// NewService returns a Service. cache may be nil.
func NewService(db *sql.DB, cache Cache, ttl time.Duration) *Service {
	return &Service{DB: db, Cache: cache, TTL: ttl}
}

// CacheKey is the cache key of a user's unfiltered item list.
func CacheKey(userID string) string {
	return "wardrobe:items:" + userID
}

// Items returns all of a user's items, newest first.
func (s *Service) Items(ctx context.Context, userID string) ([]model.Item, error) {
	key := CacheKey(userID)
	if s.Cache != nil {
		var cached []model.Item
		hit, err := s.Cache.GetJSON(ctx, key, &cached)
		if err != nil {
			slog.Warn("wardrobe cache read failed", "user_id", userID, "error", err)
		}
		if hit {
			return cached, nil
		}
	}

	items, err := store.ListItemsByUser(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}

	if s.Cache != nil {
		if err := s.Cache.SetJSON(ctx, key, items, s.TTL); err != nil {
			slog.Warn("wardrobe cache write failed", "user_id", userID, "error", err)
		}
	}
	return items, nil
}

// List returns a user's items narrowed by q.
func (s *Service) List(ctx context.Context, userID string, q Query) ([]model.Item, error) {
	items, err := s.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Filter(items, q), nil
}

// Invalidate drops a user's cached list after any item write.
func (s *Service) Invalidate(ctx context.Context, userID string) {
	if s == nil || s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, CacheKey(userID)); err != nil {
		slog.Warn("wardrobe cache invalidation failed", "user_id", userID, "error", err)
	}
}
