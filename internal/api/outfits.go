package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/store"
)

// OutfitsHandler handles saved outfit endpoints.
type OutfitsHandler struct {
	DB *sql.DB
}

// createOutfitRequest carries either explicit placements or item ids to lay
// out at the default canvas position.
type createOutfitRequest struct {
	Name       string            `json:"name"`
	Placements []model.Placement `json:"placements"`
	ItemIDs    []string          `json:"item_ids"`
}

// List handles GET /api/outfits.
func (h *OutfitsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	outfits, err := store.ListOutfits(r.Context(), h.DB, claims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list outfits")
		return
	}
	if outfits == nil {
		outfits = []model.Outfit{}
	}
	jsonResponse(w, http.StatusOK, outfits)
}

// Create handles POST /api/outfits.
func (h *OutfitsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createOutfitRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var canvas model.Canvas
	for _, p := range req.Placements {
		if !h.owns(w, r, claims.UserID, p.ItemID) {
			return
		}
		canvas.Place(p)
	}
	for _, id := range req.ItemIDs {
		if !h.owns(w, r, claims.UserID, id) {
			return
		}
		canvas.Add(model.Item{ID: id})
	}

	outfit, err := canvas.Outfit(req.Name)
	if errors.Is(err, model.ErrEmptyCanvas) {
		jsonError(w, http.StatusBadRequest, "Add some items to create an outfit before saving.")
		return
	}
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := store.CreateOutfit(r.Context(), h.DB, claims.UserID, outfit.Name, outfit.Placements)
	if err != nil {
		slog.Error("creating outfit", "user_id", claims.UserID, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save outfit")
		return
	}

	slog.Info("outfit saved", "outfit_id", saved.ID, "items", len(saved.Placements))
	jsonResponse(w, http.StatusCreated, saved)
}

// Get handles GET /api/outfits/{id}.
func (h *OutfitsHandler) Get(w http.ResponseWriter, r *http.Request) {
	outfit, ok := h.ownedOutfit(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, outfit)
}

// Delete handles DELETE /api/outfits/{id}. The items themselves are kept.
func (h *OutfitsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	outfit, ok := h.ownedOutfit(w, r)
	if !ok {
		return
	}

	if err := store.DeleteOutfit(r.Context(), h.DB, outfit.ID); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete outfit")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "outfit deleted"})
}

func (h *OutfitsHandler) ownedOutfit(w http.ResponseWriter, r *http.Request) (*model.Outfit, bool) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}

	outfit, err := store.GetOutfit(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get outfit")
		return nil, false
	}
	if outfit == nil || outfit.UserID != claims.UserID {
		jsonError(w, http.StatusNotFound, "outfit not found")
		return nil, false
	}
	return outfit, true
}

// owns reports whether itemID is one of the user's items, writing a 400
// response when it is not.
func (h *OutfitsHandler) owns(w http.ResponseWriter, r *http.Request, userID, itemID string) bool {
	item, err := store.GetItem(r.Context(), h.DB, itemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return false
	}
	if item == nil || item.UserID != userID {
		jsonError(w, http.StatusBadRequest, "unknown item "+itemID)
		return false
	}
	return true
}
