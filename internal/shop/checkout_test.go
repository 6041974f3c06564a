package shop

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionSetDedupesKeepingOrder(t *testing.T) {
	var sel Selection
	sel.Set([]int64{3, 1, 3, 2, 1})
	assert.Equal(t, []int64{3, 1, 2}, sel.IDs())
}

func TestSelectionRemove(t *testing.T) {
	var sel Selection
	sel.Set([]int64{1, 2, 3})

	sel.Remove(2)
	assert.Equal(t, []int64{1, 3}, sel.IDs())

	sel.Remove(99) // absent, no-op
	assert.Equal(t, []int64{1, 3}, sel.IDs())

	sel.Clear()
	assert.Empty(t, sel.IDs())
}

// shopServer fakes the storefront API with an in-memory cart.
type shopServer struct {
	mu     sync.Mutex
	lines  []models.CartLine
	orders []map[string]any
}

func (ss *shopServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/cart", func(w http.ResponseWriter, r *http.Request) {
		ss.mu.Lock()
		defer ss.mu.Unlock()
		var total float64
		count := 0
		for _, l := range ss.lines {
			total += l.Subtotal
			count += l.Quantity
		}
		json.NewEncoder(w).Encode(map[string]any{"cart": ss.lines, "total": total, "item_count": count})
	})
	mux.HandleFunc("DELETE /api/cart/remove/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	mux.HandleFunc("POST /api/orders/create", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		ss.mu.Lock()
		ss.orders = append(ss.orders, req)
		ss.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"order": models.Order{ID: 1, Status: models.StatusPending},
		})
	})
	return mux
}

func newTestShop(t *testing.T, ss *shopServer) *Client {
	t.Helper()
	srv := httptest.NewServer(ss.handler())
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, NewTokenStore(filepath.Join(t.TempDir(), "session")))
	require.NoError(t, err)
	return c
}

func TestCheckoutSelectionReresolvesAgainstLiveCart(t *testing.T) {
	ss := &shopServer{lines: []models.CartLine{
		{ID: 1, Name: "Item A", Price: 50, Quantity: 2, Subtotal: 100},
		{ID: 2, Name: "Item B", Price: 30, Quantity: 1, Subtotal: 30},
	}}
	c := newTestShop(t, ss)

	c.SelectForCheckout([]int64{2, 1})

	// The cart changed between selection and checkout: line 1 grew.
	ss.mu.Lock()
	ss.lines[0].Quantity = 3
	ss.lines[0].Subtotal = 150
	ss.mu.Unlock()

	lines, err := c.CheckoutSelection(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, int64(2), lines[0].ID) // selection order preserved
	assert.Equal(t, int64(1), lines[1].ID)
	assert.Equal(t, 3, lines[1].Quantity) // live quantity, not the stale one
}

func TestCheckoutSelectionDropsRemovedLines(t *testing.T) {
	ss := &shopServer{lines: []models.CartLine{
		{ID: 1, Name: "Item A", Price: 50, Quantity: 1, Subtotal: 50},
	}}
	c := newTestShop(t, ss)

	c.SelectForCheckout([]int64{1, 2}) // line 2 no longer exists

	lines, err := c.CheckoutSelection(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].ID)
}

func TestCheckoutSendsSelectedIDsOnly(t *testing.T) {
	ss := &shopServer{lines: []models.CartLine{
		{ID: 1, Name: "Item A", Price: 50, Quantity: 2, Subtotal: 100},
		{ID: 2, Name: "Item B", Price: 30, Quantity: 1, Subtotal: 30},
	}}
	c := newTestShop(t, ss)

	c.SelectForCheckout([]int64{1})
	order, err := c.Checkout(context.Background(), CheckoutRequest{
		CustomerName:  "Maria",
		PaymentMethod: "cash",
		Tip:           10,
		PickupTime:    "12:30",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.ID)

	require.Len(t, ss.orders, 1)
	sent := ss.orders[0]
	assert.Equal(t, []any{float64(1)}, sent["item_ids"])
	assert.Equal(t, "cash", sent["payment_method"])
	assert.Equal(t, 10.0, sent["tip"])
	assert.NotEmpty(t, sent["session_id"])

	// A successful checkout consumes the selection.
	assert.Empty(t, c.selection.IDs())
}

func TestCheckoutEmptySelection(t *testing.T) {
	ss := &shopServer{lines: []models.CartLine{
		{ID: 1, Name: "Item A", Price: 50, Quantity: 1, Subtotal: 50},
	}}
	c := newTestShop(t, ss)

	_, err := c.Checkout(context.Background(), CheckoutRequest{PaymentMethod: "cash"})
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Empty(t, ss.orders)
}

func TestRemoveLineDropsFromSelection(t *testing.T) {
	ss := &shopServer{lines: []models.CartLine{
		{ID: 1, Name: "Item A", Price: 50, Quantity: 1, Subtotal: 50},
		{ID: 2, Name: "Item B", Price: 30, Quantity: 1, Subtotal: 30},
	}}
	c := newTestShop(t, ss)

	c.SelectForCheckout([]int64{1, 2})
	require.NoError(t, c.RemoveLine(context.Background(), 1))
	assert.Equal(t, []int64{2}, c.selection.IDs())
}

func TestNotAuthenticated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, NewTokenStore(filepath.Join(t.TempDir(), "session")))
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "maria", "wrong")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
