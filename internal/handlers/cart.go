package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/events"
	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/identity"
	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/models"
	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/store"
)

type CartHandler struct {
	Store    *store.Store
	Identity *identity.Resolver
	Bus      *events.Bus
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := h.Identity.Resolve(r, r.URL.Query().Get("session_id"))
	if id.IsAnonymous() && id.Key == "" {
		writeJSON(w, http.StatusOK, map[string]any{"cart": []models.CartLine{}, "total": 0.0, "item_count": 0})
		return
	}

	lines, err := h.Store.GetCart(id.OwnerKey())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching cart")
		return
	}
	total, count, err := h.Store.CartTotals(id.OwnerKey())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching cart")
		return
	}
	if lines == nil {
		lines = []models.CartLine{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": lines, "total": total, "item_count": count})
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MenuItemID int64  `json:"menu_item_id"`
		Quantity   int    `json:"quantity"`
		SessionID  string `json:"session_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	id := h.Identity.Resolve(r, req.SessionID)
	if id.IsAnonymous() && id.Key == "" {
		writeError(w, http.StatusBadRequest, "Session ID required")
		return
	}
	if req.MenuItemID == 0 {
		writeError(w, http.StatusBadRequest, "Menu item ID required")
		return
	}

	line, err := h.Store.AddCartItem(id.OwnerKey(), req.MenuItemID, req.Quantity)
	if errors.Is(err, store.ErrMenuItemNotFound) {
		writeError(w, http.StatusNotFound, "Menu item not found or unavailable")
		return
	}
	if errors.Is(err, store.ErrInvalidQuantity) {
		writeError(w, http.StatusBadRequest, "Invalid quantity")
		return
	}
	if err != nil {
		slog.Error("Failed to add to cart", "error", err)
		writeError(w, http.StatusInternalServerError, "Error adding to cart")
		return
	}

	h.broadcast(id.OwnerKey())
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Added to cart successfully",
		"cart_item_id": line.ID,
		"quantity":     line.Quantity,
		"subtotal":     line.Subtotal,
	})
}

func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	lineID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid cart item ID")
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	line, err := h.Store.UpdateCartItemQuantity(lineID, req.Quantity)
	if errors.Is(err, store.ErrInvalidQuantity) {
		writeError(w, http.StatusBadRequest, "Invalid quantity")
		return
	}
	if errors.Is(err, store.ErrCartItemNotFound) {
		writeError(w, http.StatusNotFound, "Cart item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error updating cart item")
		return
	}

	h.broadcastLine(lineID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Cart item updated successfully",
		"quantity": line.Quantity,
		"subtotal": line.Subtotal,
	})
}

// Remove is idempotent: deleting a line that is already gone reports
// success so duplicate clicks never surface an error.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	lineID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid cart item ID")
		return
	}

	// The owner must be captured before the DELETE erases the row.
	ownerKey, existed := h.ownerOfLine(lineID)

	if err := h.Store.RemoveCartItem(lineID); err != nil {
		writeError(w, http.StatusInternalServerError, "Error removing cart item")
		return
	}

	if existed {
		// Only a real deletion changes cart state worth broadcasting.
		h.broadcast(ownerKey)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Item removed from cart",
	})
}

func (h *CartHandler) broadcast(ownerKey string) {
	if h.Bus == nil {
		return
	}
	total, count, err := h.Store.CartTotals(ownerKey)
	if err != nil {
		slog.Warn("Failed to compute cart totals for broadcast", "error", err)
		return
	}
	h.Bus.Publish(events.CartUpdated{OwnerKey: ownerKey, Total: total, ItemCount: count})
}

// broadcastLine resolves the owner from a line ID when the request did
// not carry a session token (update/remove address lines directly).
func (h *CartHandler) broadcastLine(lineID int64) {
	if ownerKey, ok := h.ownerOfLine(lineID); ok {
		h.broadcast(ownerKey)
	}
}

func (h *CartHandler) ownerOfLine(lineID int64) (string, bool) {
	var ownerKey string
	err := h.Store.DB.QueryRow(`SELECT owner_key FROM cart_items WHERE id = ?`, lineID).Scan(&ownerKey)
	if err != nil {
		return "", false
	}
	return ownerKey, true
}
