package console

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedServer scripts the backend: the first `unavailable` feed requests
// answer 503, then every request serves the current orders.
type feedServer struct {
	mu          sync.Mutex
	unavailable int
	fetches     int
	patches     []string
	orders      []models.Order
}

func (f *feedServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/partner/orders", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.fetches++
		if f.unavailable > 0 {
			f.unavailable--
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"orders": f.orders})
	})
	mux.HandleFunc("PATCH /api/partner/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status string `json:"status"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.patches = append(f.patches, r.PathValue("id")+":"+req.Status)
		for i := range f.orders {
			f.orders[i].Status = models.OrderStatus(req.Status)
		}
		json.NewEncoder(w).Encode(map[string]any{"order": f.orders[0]})
	})
	return mux
}

func (f *feedServer) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func newTestConsole(t *testing.T, f *feedServer) (*Console, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return New(NewClient(srv.URL, "Partner One")), srv
}

func TestFetchOrders503(t *testing.T) {
	f := &feedServer{unavailable: 1}
	c, _ := newTestConsole(t, f)

	err := c.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestFetchOrdersOtherErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "Partner One")
	_, err := client.FetchOrders(context.Background())
	require.Error(t, err)

	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, http.StatusInternalServerError, be.StatusCode)
	assert.Contains(t, be.Error(), "boom")
	assert.NotErrorIs(t, err, ErrServiceUnavailable)
}

func TestPollerRetriesWhileWarmingUp(t *testing.T) {
	f := &feedServer{
		unavailable: 3,
		orders:      []models.Order{{ID: 1, Status: models.StatusPending}},
	}
	c, _ := newTestConsole(t, f)

	p := NewPoller(c)
	p.RetryBase = 5 * time.Millisecond
	p.Interval = time.Hour

	start := time.Now()
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	// Three 503s then success: waits of 1x, 2x and 3x the base.
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.Equal(t, 4, f.fetchCount())
	assert.Len(t, c.Orders(), 1)
}

func TestPollerGivesUpAfterMaxAttempts(t *testing.T) {
	f := &feedServer{unavailable: 100}
	c, _ := newTestConsole(t, f)

	p := NewPoller(c)
	p.RetryBase = time.Millisecond

	err := p.Start(context.Background())
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Equal(t, MaxAttempts, f.fetchCount())
}

func TestPollerStopsRetryingOnHardError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(NewClient(srv.URL, "Partner One"))
	p := NewPoller(c)
	p.RetryBase = time.Millisecond

	err := p.Start(context.Background())
	require.Error(t, err)
	var be *BackendError
	assert.ErrorAs(t, err, &be)
}

func TestPollerRetryCancellable(t *testing.T) {
	f := &feedServer{unavailable: 100}
	c, _ := newTestConsole(t, f)

	p := NewPoller(c)
	p.RetryBase = time.Hour // cancellation must not wait this out

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Start(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("retry sequence did not abort on cancellation")
	}
}

func TestPollerForceRefresh(t *testing.T) {
	f := &feedServer{orders: []models.Order{{ID: 1, Status: models.StatusPending}}}
	c, _ := newTestConsole(t, f)

	p := NewPoller(c)
	p.Interval = time.Hour
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	before := f.fetchCount()
	p.ForceRefresh()

	require.Eventually(t, func() bool {
		return f.fetchCount() > before
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSetStatusRefetchesFeed(t *testing.T) {
	f := &feedServer{orders: []models.Order{{ID: 7, Status: models.StatusPending}}}
	c, _ := newTestConsole(t, f)
	require.NoError(t, c.Refresh(context.Background()))

	err := c.SetStatus(context.Background(), 7, models.StatusConfirmed, "")
	require.NoError(t, err)

	// The snapshot reflects the backend's answer, not a local patch.
	got, ok := c.Order(7)
	require.True(t, ok)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.Equal(t, []string{"7:confirmed"}, f.patches)
}

func TestSetStatusFastFailsLocally(t *testing.T) {
	f := &feedServer{orders: []models.Order{{ID: 7, Status: models.StatusReady}}}
	c, _ := newTestConsole(t, f)
	require.NoError(t, c.Refresh(context.Background()))

	// ready -> confirmed is illegal; the request never reaches the wire.
	err := c.SetStatus(context.Background(), 7, models.StatusConfirmed, "")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.Empty(t, f.patches)
}

func TestRejectRequiresReason(t *testing.T) {
	f := &feedServer{orders: []models.Order{{ID: 7, Status: models.StatusPending}}}
	c, _ := newTestConsole(t, f)
	require.NoError(t, c.Refresh(context.Background()))

	assert.ErrorIs(t, c.Reject(context.Background(), 7, ""), ErrEmptyReason)
	assert.ErrorIs(t, c.Reject(context.Background(), 7, "   "), ErrEmptyReason)
	assert.Empty(t, f.patches)

	require.NoError(t, c.Reject(context.Background(), 7, "out of stock"))
	assert.Equal(t, []string{"7:cancelled"}, f.patches)
}

func TestSubscribeTicksOnRefresh(t *testing.T) {
	f := &feedServer{orders: []models.Order{{ID: 1, Status: models.StatusPending}}}
	c, _ := newTestConsole(t, f)

	ch, cancel := c.Subscribe()
	defer cancel()

	require.NoError(t, c.Refresh(context.Background()))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no tick after refresh")
	}
}
