package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/metrics"
	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/models"
	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/store"
)

// PartnerHandler serves the staff order console: the per-partner order
// feed and the status mutation endpoint it drives.
type PartnerHandler struct {
	Store   *store.Store
	Auth    *AuthHandler
	Metrics *metrics.ServerMetrics
}

// Orders returns the orders containing the partner's items. Items and
// totals are scoped to the partner; other partners' lines in the same
// order are never exposed.
func (h *PartnerHandler) Orders(w http.ResponseWriter, r *http.Request) {
	partner := h.partnerFor(r)
	if partner == "" {
		writeError(w, http.StatusBadRequest, "Partner required")
		return
	}

	orders, err := h.Store.GetPartnerOrders(partner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"partner": partner,
		"orders":  orders,
		"count":   len(orders),
	})
}

// UpdateStatus applies a status transition to an order in the partner's
// feed. Illegal transitions are rejected with 409 and the order is left
// untouched.
func (h *PartnerHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	newStatus, err := models.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown status")
		return
	}
	if newStatus == models.StatusCancelled && strings.TrimSpace(req.Reason) == "" {
		writeError(w, http.StatusBadRequest, "Rejection reason required")
		return
	}

	// Unscoped mutations are never allowed; the partner bounds which
	// orders this endpoint may touch.
	partner := h.partnerFor(r)
	if partner == "" {
		writeError(w, http.StatusBadRequest, "Partner required")
		return
	}
	inFeed, err := h.Store.OrderHasPartner(orderID, partner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching order")
		return
	}
	if !inFeed {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}

	order, err := h.Store.TransitionOrder(orderID, newStatus, req.Reason)
	if errors.Is(err, store.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if errors.Is(err, models.ErrInvalidTransition) {
		h.countTransition(newStatus, "rejected")
		writeError(w, http.StatusConflict, "Invalid status transition")
		return
	}
	if err != nil {
		slog.Error("Failed to update order status", "order_id", orderID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error updating order status")
		return
	}

	h.countTransition(newStatus, "ok")
	slog.Info("Order status updated", "order_id", orderID, "status", newStatus)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order status updated",
		"order":   order,
	})
}

// partnerFor resolves the partner scope: the staff account's assigned
// partner when present, otherwise the query parameter.
func (h *PartnerHandler) partnerFor(r *http.Request) string {
	if user := h.Auth.currentUser(r); user != nil && user.FoodPartner != "" {
		return user.FoodPartner
	}
	return r.URL.Query().Get("partner")
}

func (h *PartnerHandler) countTransition(to models.OrderStatus, outcome string) {
	if h.Metrics == nil {
		return
	}
	h.Metrics.Transitions.WithLabelValues(to.String(), outcome).Inc()
}
