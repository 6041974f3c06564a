package shop

import (
	"sync"
	"time"
)

// DefaultGraceWindow is how long after placing an order the customer is
// shown a one-click cancel affordance. The window is a client-side
// courtesy; the server accepts cancellation at any non-terminal status.
const DefaultGraceWindow = 60 * time.Second

// GraceWindow is a countdown attached to a freshly placed order. While
// it runs the UI offers instant cancellation; when it expires the
// callback fires so the affordance can be withdrawn.
type GraceWindow struct {
	OrderID  int64
	deadline time.Time
	timer    *time.Timer

	mu      sync.Mutex
	stopped bool
}

// NewGraceWindow starts the countdown. onExpire runs once when the
// window lapses, unless Stop is called first.
func NewGraceWindow(orderID int64, d time.Duration, onExpire func(orderID int64)) *GraceWindow {
	g := &GraceWindow{
		OrderID:  orderID,
		deadline: time.Now().Add(d),
	}
	g.timer = time.AfterFunc(d, func() {
		g.mu.Lock()
		expired := !g.stopped
		g.stopped = true
		g.mu.Unlock()
		if expired && onExpire != nil {
			onExpire(orderID)
		}
	})
	return g
}

// Remaining reports how much of the window is left. Zero means expired
// or stopped.
func (g *GraceWindow) Remaining() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped {
		return 0
	}
	if rem := time.Until(g.deadline); rem > 0 {
		return rem
	}
	return 0
}

// Active reports whether the window is still open.
func (g *GraceWindow) Active() bool {
	return g.Remaining() > 0
}

// Stop cancels the countdown without firing the expiry callback. Used
// when the customer cancels inside the window or navigates away.
func (g *GraceWindow) Stop() {
	g.mu.Lock()
	g.stopped = true
	g.mu.Unlock()
	g.timer.Stop()
}
