package api

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/erazemk/omara/internal/blob"
	"github.com/erazemk/omara/internal/live"
	"github.com/erazemk/omara/internal/wardrobe"
)

// DefaultMaxUploadBytes caps multipart uploads when Deps leaves it unset.
const DefaultMaxUploadBytes = 10 << 20

// Enqueuer schedules items for image processing.
type Enqueuer interface {
	Enqueue(ctx context.Context, itemID string) error
}

// Deps are the collaborators the handlers share.
type Deps struct {
	DB        *sql.DB
	JWTSecret string
	Blobs     blob.Store
	Wardrobe  *wardrobe.Service
	Hub       *live.Hub
	Processor Enqueuer

	MaxUploadBytes int64
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d Deps) http.Handler {
	if d.Blobs == nil {
		d.Blobs = blob.NewSQLStore(d.DB)
	}
	if d.Wardrobe == nil {
		d.Wardrobe = wardrobe.NewService(d.DB, nil, 0)
	}
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = DefaultMaxUploadBytes
	}

	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: d.DB, JWTSecret: d.JWTSecret}
	onboardingHandler := &OnboardingHandler{DB: d.DB, Blobs: d.Blobs, MaxUploadBytes: d.MaxUploadBytes}
	itemsHandler := &ItemsHandler{
		DB:             d.DB,
		Blobs:          d.Blobs,
		Wardrobe:       d.Wardrobe,
		Hub:            d.Hub,
		Processor:      d.Processor,
		MaxUploadBytes: d.MaxUploadBytes,
	}
	blobsHandler := &BlobsHandler{Blobs: d.Blobs}
	outfitsHandler := &OutfitsHandler{DB: d.DB}

	authMW := AuthMiddleware(d.JWTSecret, d.DB)
	protected := func(h http.HandlerFunc) http.Handler {
		return authMW(h)
	}

	// Public: account creation and login.
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Session.
	mux.Handle("POST /api/auth/logout", protected(authHandler.Logout))
	mux.Handle("GET /api/auth/session", protected(authHandler.Session))
	mux.Handle("PUT /api/auth/password", protected(authHandler.ChangePassword))

	// Onboarding and profile.
	mux.Handle("GET /api/onboarding/interests", protected(onboardingHandler.Interests))
	mux.Handle("POST /api/onboarding/user-info", protected(onboardingHandler.UserInfo))
	mux.Handle("POST /api/onboarding/username", protected(onboardingHandler.Username))
	mux.Handle("PUT /api/onboarding/picture", protected(onboardingHandler.Picture))
	mux.Handle("POST /api/profile", protected(onboardingHandler.CreateProfile))
	mux.Handle("GET /api/profile", protected(onboardingHandler.GetProfile))

	// Wardrobe.
	mux.Handle("GET /api/categories", protected(itemsHandler.Categories))
	mux.Handle("GET /api/items", protected(itemsHandler.List))
	mux.Handle("POST /api/items", protected(itemsHandler.Create))
	mux.Handle("GET /api/items/{id}", protected(itemsHandler.Get))
	mux.Handle("PUT /api/items/{id}", protected(itemsHandler.Update))
	mux.Handle("DELETE /api/items/{id}", protected(itemsHandler.Delete))
	mux.Handle("GET /api/items/{id}/watch", protected(itemsHandler.Watch))

	// Blobs (owner only).
	mux.Handle("GET /api/blobs/{path...}", protected(blobsHandler.Get))

	// Outfits.
	mux.Handle("GET /api/outfits", protected(outfitsHandler.List))
	mux.Handle("POST /api/outfits", protected(outfitsHandler.Create))
	mux.Handle("GET /api/outfits/{id}", protected(outfitsHandler.Get))
	mux.Handle("DELETE /api/outfits/{id}", protected(outfitsHandler.Delete))

	return mux
}
