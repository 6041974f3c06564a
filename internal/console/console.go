package console

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/models"
)

// ErrEmptyReason is returned when a rejection is attempted without a
// reason. Rejections always carry one.
var ErrEmptyReason = errors.New("rejection reason required")

// Console holds a partner's view of their order feed. Each refresh
// replaces the snapshot wholesale rather than patching it, so the view
// can never drift from the backend.
type Console struct {
	client *Client

	mu     sync.RWMutex
	orders []models.Order
	subs   map[int]chan struct{}
	nextID int
}

func New(client *Client) *Console {
	return &Console{client: client, subs: make(map[int]chan struct{})}
}

// Subscribe returns a channel that receives a tick after every snapshot
// replacement, plus a cancel func. Slow subscribers miss ticks rather
// than blocking refreshes.
func (c *Console) Subscribe() (<-chan struct{}, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	ch := make(chan struct{}, 1)
	c.subs[id] = ch

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if ch, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Orders returns the current snapshot.
func (c *Console) Orders() []models.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Order, len(c.orders))
	copy(out, c.orders)
	return out
}

// Order looks up one order in the snapshot.
func (c *Console) Order(orderID int64) (models.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, o := range c.orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return models.Order{}, false
}

// Refresh fetches the feed and replaces the snapshot.
func (c *Console) Refresh(ctx context.Context) error {
	orders, err := c.client.FetchOrders(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.orders = orders
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	c.mu.Unlock()
	return nil
}

// SetStatus moves an order to status. The transition is checked against
// the local snapshot first so obviously illegal moves never reach the
// wire; after the mutation the feed is re-fetched rather than patched
// locally, keeping the backend authoritative.
func (c *Console) SetStatus(ctx context.Context, orderID int64, status models.OrderStatus, reason string) error {
	if o, ok := c.Order(orderID); ok {
		if err := models.CheckTransition(o.Status, status); err != nil {
			return err
		}
	}

	if _, err := c.client.UpdateStatus(ctx, orderID, status, reason); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Reject cancels an order with a mandatory reason.
func (c *Console) Reject(ctx context.Context, orderID int64, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrEmptyReason
	}
	return c.SetStatus(ctx, orderID, models.StatusCancelled, reason)
}
