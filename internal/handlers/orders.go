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

type OrderHandler struct {
	Store    *store.Store
	Identity *identity.Resolver
	Bus      *events.Bus
}

// Create converts the checkout selection into an order. The order total
// is computed from the live cart lines, never taken from the request.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID     string  `json:"session_id"`
		CustomerName  string  `json:"customer_name"`
		PaymentMethod string  `json:"payment_method"`
		Tip           float64 `json:"tip"`
		PickupDate    string  `json:"pickup_date"`
		PickupTime    string  `json:"pickup_time"`
		ItemIDs       []int64 `json:"item_ids"`
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
	if req.Tip < 0 {
		writeError(w, http.StatusBadRequest, "Invalid tip amount")
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "cash"
	}

	order, err := h.Store.CreateOrder(store.NewOrder{
		OwnerKey:      id.OwnerKey(),
		CustomerName:  req.CustomerName,
		PaymentMethod: req.PaymentMethod,
		Tip:           req.Tip,
		PickupDate:    req.PickupDate,
		PickupTime:    req.PickupTime,
		ItemIDs:       req.ItemIDs,
	})
	if errors.Is(err, store.ErrCartEmpty) {
		writeError(w, http.StatusBadRequest, "Cart is empty")
		return
	}
	if err != nil {
		slog.Error("Failed to create order", "error", err)
		writeError(w, http.StatusInternalServerError, "Error creating order")
		return
	}

	if h.Bus != nil {
		total, count, terr := h.Store.CartTotals(id.OwnerKey())
		if terr == nil {
			h.Bus.Publish(events.CartUpdated{OwnerKey: id.OwnerKey(), Total: total, ItemCount: count})
		}
	}

	slog.Info("Order created", "order_id", order.ID, "total", order.Total)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"message":  "Order placed successfully",
		"order_id": order.ID,
		"order":    order,
	})
}

// List returns the caller's own orders, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	id := h.Identity.Resolve(r, r.URL.Query().Get("session_id"))
	if id.IsAnonymous() && id.Key == "" {
		writeJSON(w, http.StatusOK, map[string]any{"orders": []models.Order{}})
		return
	}

	orders, err := h.Store.GetOrdersByOwner(id.OwnerKey())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// Cancel moves the caller's order to cancelled. Any non-terminal order
// may be cancelled; ownership is checked before the transition.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req struct {
		SessionID string `json:"session_id"`
		Reason    string `json:"reason"`
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

	order, err := h.Store.GetOrderByID(orderID)
	if errors.Is(err, store.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching order")
		return
	}
	owned, err := h.Store.OrderBelongsTo(orderID, id.OwnerKey())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching order")
		return
	}
	if !owned {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}

	updated, err := h.Store.TransitionOrder(orderID, models.StatusCancelled, req.Reason)
	if errors.Is(err, models.ErrInvalidTransition) {
		writeError(w, http.StatusConflict, "Order can no longer be cancelled")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error cancelling order")
		return
	}

	slog.Info("Order cancelled", "order_id", order.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order cancelled",
		"order":   updated,
	})
}
