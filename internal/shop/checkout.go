package shop

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/models"
)

// Selection is the checkout selection: the ordered cart line IDs chosen
// on the cart screen. It only carries IDs; quantities and prices are
// re-resolved against the live cart when the order is placed.
type Selection struct {
	mu  sync.Mutex
	ids []int64
}

// Set replaces the selection, dropping duplicate IDs while keeping the
// first occurrence's position.
func (s *Selection) Set(ids []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int64]bool, len(ids))
	s.ids = s.ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			s.ids = append(s.ids, id)
		}
	}
}

// IDs returns the selection in order.
func (s *Selection) IDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, len(s.ids))
	copy(out, s.ids)
	return out
}

// Remove drops one ID from the selection if present.
func (s *Selection) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = nil
}

// CheckoutRequest carries the fields the customer fills in at checkout.
// The total is never part of it.
type CheckoutRequest struct {
	CustomerName  string
	PaymentMethod string
	Tip           float64
	PickupDate    string
	PickupTime    string
}

// SelectForCheckout stashes the chosen cart line IDs for the checkout
// step.
func (c *Client) SelectForCheckout(ids []int64) {
	c.selection.Set(ids)
}

// CheckoutSelection returns the lines currently selected for checkout,
// re-resolved against the live cart. Selected lines that have since
// been removed simply drop out.
func (c *Client) CheckoutSelection(ctx context.Context) ([]models.CartLine, error) {
	cart, err := c.FetchCart(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]models.CartLine, len(cart.Lines))
	for _, l := range cart.Lines {
		byID[l.ID] = l
	}

	var lines []models.CartLine
	for _, id := range c.selection.IDs() {
		if l, ok := byID[id]; ok {
			lines = append(lines, l)
		}
	}
	return lines, nil
}

// Checkout places an order from the current selection. Only the
// selected lines are converted; the rest of the cart stays behind.
func (c *Client) Checkout(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	lines, err := c.CheckoutSelection(ctx)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptySelection
	}

	token, err := c.Tokens.Token()
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(lines))
	for i, l := range lines {
		ids[i] = l.ID
	}

	var resp struct {
		Order *models.Order `json:"order"`
	}
	err = c.do(ctx, http.MethodPost, "/api/orders/create", map[string]any{
		"session_id":     token,
		"customer_name":  req.CustomerName,
		"payment_method": req.PaymentMethod,
		"tip":            req.Tip,
		"pickup_date":    req.PickupDate,
		"pickup_time":    req.PickupTime,
		"item_ids":       ids,
	}, &resp)
	if err != nil {
		return nil, err
	}

	c.selection.Clear()
	return resp.Order, nil
}

// Orders fetches the customer's order history, newest first.
func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	token, err := c.Tokens.Token()
	if err != nil {
		return nil, err
	}
	var resp struct {
		Orders []models.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/orders?session_id="+token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// CancelOrder asks the server to cancel one of the customer's orders.
func (c *Client) CancelOrder(ctx context.Context, orderID int64, reason string) (*models.Order, error) {
	token, err := c.Tokens.Token()
	if err != nil {
		return nil, err
	}
	var resp struct {
		Order *models.Order `json:"order"`
	}
	err = c.do(ctx, http.MethodPost, fmt.Sprintf("/api/orders/cancel/%d", orderID), map[string]any{
		"session_id": token,
		"reason":     reason,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Order, nil
}
