package console

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	// DefaultRetryBase is the backoff unit for cold-start retries: the
	// nth retry waits n times this long.
	DefaultRetryBase = 3 * time.Second

	// DefaultInterval is the steady-state refresh period once the first
	// fetch has succeeded.
	DefaultInterval = 30 * time.Second

	// MaxAttempts bounds the cold-start retry loop.
	MaxAttempts = 5
)

// Poller keeps a Console's snapshot fresh. Startup tolerates a backend
// that is still warming up: a 503 is retried with linearly growing
// delays, anything else fails immediately.
type Poller struct {
	Console   *Console
	RetryBase time.Duration
	Interval  time.Duration

	cancel context.CancelFunc
	done   chan struct{}
	kick   chan struct{}
}

func NewPoller(c *Console) *Poller {
	return &Poller{
		Console:   c,
		RetryBase: DefaultRetryBase,
		Interval:  DefaultInterval,
		kick:      make(chan struct{}, 1),
	}
}

// Start performs the initial fetch with retries, then refreshes on the
// steady-state interval until Stop or context cancellation. It returns
// an error only when the initial fetch cannot be completed.
func (p *Poller) Start(ctx context.Context) error {
	if err := p.fetchWithRetry(ctx); err != nil {
		return err
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.loop(ctx)
	return nil
}

// Stop halts the refresh loop and waits for it to exit.
func (p *Poller) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}

// ForceRefresh triggers an immediate refresh outside the interval, used
// after a status mutation. It never blocks.
func (p *Poller) ForceRefresh() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-p.kick:
		}
		if err := p.Console.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Warn("Order feed refresh failed", "error", err)
		}
	}
}

// fetchWithRetry is the cold-start loop: attempt n waits n * RetryBase
// before retrying, up to MaxAttempts total attempts. Only 503 responses
// are retried.
func (p *Poller) fetchWithRetry(ctx context.Context) error {
	var err error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		err = p.Console.Refresh(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrServiceUnavailable) {
			return err
		}
		if attempt == MaxAttempts {
			break
		}

		delay := time.Duration(attempt) * p.RetryBase
		slog.Info("Backend warming up, retrying", "attempt", attempt, "delay", delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
