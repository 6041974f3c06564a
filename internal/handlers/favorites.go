package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/identity"
	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/models"
	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/store"
)

type FavoritesHandler struct {
	Store    *store.Store
	Identity *identity.Resolver
}

func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	id := h.Identity.Resolve(r, r.URL.Query().Get("session_id"))
	if id.IsAnonymous() && id.Key == "" {
		writeJSON(w, http.StatusOK, map[string]any{"favorites": []models.MenuItem{}})
		return
	}

	items, err := h.Store.GetFavorites(id.OwnerKey())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching favorites")
		return
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"favorites": items})
}

func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MenuItemID int64  `json:"menu_item_id"`
		SessionID  string `json:"session_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := h.Identity.Resolve(r, req.SessionID)
	if id.IsAnonymous() && id.Key == "" {
		writeError(w, http.StatusBadRequest, "Session ID required")
		return
	}

	err := h.Store.AddFavorite(id.OwnerKey(), req.MenuItemID)
	if errors.Is(err, store.ErrMenuItemNotFound) {
		writeError(w, http.StatusNotFound, "Menu item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error adding favorite")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Added to favorites"})
}

// IDs returns just the favorited menu item IDs, for quick membership
// checks on menu screens.
func (h *FavoritesHandler) IDs(w http.ResponseWriter, r *http.Request) {
	id := h.Identity.Resolve(r, r.URL.Query().Get("session_id"))
	if id.IsAnonymous() && id.Key == "" {
		writeJSON(w, http.StatusOK, map[string]any{"ids": []int64{}})
		return
	}

	ids, err := h.Store.GetFavoriteIDs(id.OwnerKey())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching favorites")
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ids": ids})
}

// Remove is idempotent like cart removal.
func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid menu item ID")
		return
	}

	id := h.Identity.Resolve(r, r.URL.Query().Get("session_id"))
	if id.IsAnonymous() && id.Key == "" {
		writeError(w, http.StatusBadRequest, "Session ID required")
		return
	}

	if err := h.Store.RemoveFavorite(id.OwnerKey(), itemID); err != nil {
		writeError(w, http.StatusInternalServerError, "Error removing favorite")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Removed from favorites"})
}
