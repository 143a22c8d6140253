package api

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/omara/internal/blob"
	"github.com/erazemk/omara/internal/live"
	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/store"
	"github.com/erazemk/omara/internal/wardrobe"
)

const enqueueTimeout = 5 * time.Second

// ItemsHandler handles wardrobe item endpoints.
type ItemsHandler struct {
	DB             *sql.DB
	Blobs          blob.Store
	Wardrobe       *wardrobe.Service
	Hub            *live.Hub
	Processor      Enqueuer
	MaxUploadBytes int64
}

// Categories handles GET /api/categories.
func (h *ItemsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{"categories": wardrobe.Categories})
}

// List handles GET /api/items?q=&category=.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	q := wardrobe.Query{
		Search:   r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}
	items, err := h.Wardrobe.List(r.Context(), claims.UserID, q)
	if err != nil {
		slog.Error("fetching wardrobe items", "user_id", claims.UserID, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items. The body is a multipart form with an
// "image" file or an "image_url" field plus the item metadata.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "You must be logged in to save items.")
		return
	}

	if err := parseMultipart(w, r, h.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := itemInput(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	imageURL, uploaded, err := itemImage(r.Context(), r, h.Blobs, claims.UserID)
	if !h.imageOK(w, err, claims.UserID) {
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, "", claims.UserID, imageURL, in)
	if err != nil {
		slog.Error("creating item", "user_id", claims.UserID, "error", err)
		if uploaded {
			h.deleteBlob(r.Context(), imageURL)
		}
		jsonError(w, http.StatusInternalServerError, "Could not save item.")
		return
	}

	h.Wardrobe.Invalidate(r.Context(), claims.UserID)
	h.enqueue(r.Context(), item.ID)

	slog.Info("item created", "item_id", item.ID, "user_id", claims.UserID)
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}. A new image is optional; when given,
// the item goes back to pending_processing and the old images are removed.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	if err := parseMultipart(w, r, h.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := itemInput(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	imageURL, uploaded, err := itemImage(r.Context(), r, h.Blobs, item.UserID)
	replaced := err == nil && imageURL != item.OriginalImageURL
	if err != nil && !errors.Is(err, errNoImage) {
		h.imageOK(w, err, item.UserID)
		return
	}

	if replaced {
		if err := store.ReplaceItemImage(r.Context(), h.DB, item.ID, imageURL); err != nil {
			slog.Error("replacing item image", "item_id", item.ID, "error", err)
			if uploaded {
				h.deleteBlob(r.Context(), imageURL)
			}
			jsonError(w, http.StatusInternalServerError, "Could not update item.")
			return
		}
		h.deleteBlob(r.Context(), item.OriginalImageURL)
		h.deleteBlob(r.Context(), item.ProcessedImageURL)
	}

	if err := store.UpdateItem(r.Context(), h.DB, item.ID, in); err != nil {
		slog.Error("updating item", "item_id", item.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "Could not update item.")
		return
	}

	updated, err := store.GetItem(r.Context(), h.DB, item.ID)
	if err != nil || updated == nil {
		jsonError(w, http.StatusInternalServerError, "Could not update item.")
		return
	}

	h.Wardrobe.Invalidate(r.Context(), item.UserID)
	h.Hub.ItemUpdated(updated)
	if replaced {
		h.enqueue(r.Context(), item.ID)
	}

	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/items/{id}. The record goes first; its images
// are removed afterwards and failures there are only logged.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, item.ID); err != nil {
		slog.Error("deleting item", "item_id", item.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "Could not delete item.")
		return
	}

	h.deleteBlob(r.Context(), item.OriginalImageURL)
	h.deleteBlob(r.Context(), item.ProcessedImageURL)

	h.Wardrobe.Invalidate(r.Context(), item.UserID)
	h.Hub.ItemDeleted(item.ID)

	slog.Info("item deleted", "item_id", item.ID, "user_id", item.UserID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Item deleted successfully."})
}

// Watch handles GET /api/items/{id}/watch, a websocket stream of the item's
// state. The subscription ends when the client disconnects.
func (h *ItemsHandler) Watch(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}
	if h.Hub == nil {
		jsonError(w, http.StatusServiceUnavailable, "live updates unavailable")
		return
	}
	h.Hub.WatchItem(w, r, item.ID, func(ctx context.Context) (*model.Item, error) {
		return store.GetItem(ctx, h.DB, item.ID)
	})
}

// ownedItem loads the item named in the path. Items of other users read as
// missing.
func (h *ItemsHandler) ownedItem(w http.ResponseWriter, r *http.Request) (*model.Item, bool) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}

	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("fetching item", "error", err)
		jsonError(w, http.StatusInternalServerError, "Could not fetch item details.")
		return nil, false
	}
	if item == nil || item.UserID != claims.UserID {
		jsonError(w, http.StatusNotFound, "Item not found or has been deleted.")
		return nil, false
	}
	return item, true
}

// imageOK writes the response for a failed image read and reports whether
// the request may continue.
func (h *ItemsHandler) imageOK(w http.ResponseWriter, err error, userID string) bool {
	var br *badRequest
	switch {
	case err == nil:
		return true
	case errors.Is(err, errNoImage):
		jsonError(w, http.StatusBadRequest, "No image was provided. Please go back and select an image.")
	case errors.As(err, &br):
		jsonError(w, http.StatusBadRequest, br.Error())
	default:
		slog.Error("storing item image", "user_id", userID, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save image")
	}
	return false
}

func (h *ItemsHandler) enqueue(ctx context.Context, itemID string) {
	if h.Processor == nil {
		return
	}
	// Items that miss the queue stay pending and are picked up on restart.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), enqueueTimeout)
	defer cancel()
	if err := h.Processor.Enqueue(ctx, itemID); err != nil {
		slog.Warn("queueing item for processing", "item_id", itemID, "error", err)
	}
}

// deleteBlob removes an image this service stores. Remote URLs and missing
// blobs are ignored; other failures are logged.
func (h *ItemsHandler) deleteBlob(ctx context.Context, url string) {
	if !blob.IsLocalURL(url) {
		return
	}
	if err := blob.DeleteURL(ctx, h.Blobs, url); err != nil && !errors.Is(err, blob.ErrNotFound) {
		slog.Warn("deleting item image", "url", url, "error", err)
	}
}
