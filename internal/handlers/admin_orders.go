package handlers

import (
	"net/http"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/models"
	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/store"
)

// AdminHandler exposes the read-only order overview for admins.
type AdminHandler struct {
	Store *store.Store
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Store.GetAllOrders()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	counts := make(map[string]int)
	for _, o := range orders {
		counts[o.Status.String()]++
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"orders":        orders,
		"count":         len(orders),
		"status_counts": counts,
	})
}
