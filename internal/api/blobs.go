package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/erazemk/omara/internal/blob"
)

// BlobsHandler serves stored images to their owners.
type BlobsHandler struct {
	Blobs blob.Store
}

// Get handles GET /api/blobs/{path...}.
func (h *BlobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	p, err := blob.CleanPath(r.PathValue("path"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid path")
		return
	}
	if blob.OwnerOf(p) != claims.UserID {
		jsonError(w, http.StatusNotFound, "not found")
		return
	}

	b, err := h.Blobs.Get(r.Context(), p)
	if errors.Is(err, blob.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}

	w.Header().Set("Content-Type", b.MIME)
	w.Header().Set("Content-Length", strconv.Itoa(len(b.Data)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(b.Data)
}
