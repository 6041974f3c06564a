package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/store"
)

type MenuHandler struct {
	Store *store.Store
}

func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.GetMenuItems()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching menu")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid menu item ID")
		return
	}

	item, err := h.Store.GetMenuItemByID(id)
	if errors.Is(err, store.ErrMenuItemNotFound) {
		writeError(w, http.StatusNotFound, "Menu item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching menu item")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

func (h *MenuHandler) Partners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.Store.GetPartners()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching partners")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"partners": partners})
}

func (h *MenuHandler) PartnerMenu(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(r.PathValue("name"))
	if err != nil || name == "" {
		writeError(w, http.StatusBadRequest, "Partner name required")
		return
	}

	items, err := h.Store.GetPartnerMenuItems(name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching partner menu")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"partner": name,
		"items":   items,
		"count":   len(items),
	})
}
