package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/models"
)

// ErrServiceUnavailable marks a 503 from the backend. It is the only
// response the poller treats as retryable.
var ErrServiceUnavailable = errors.New("service unavailable")

// BackendError is any other non-2xx response. The poller gives up on
// these immediately.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Client talks to the order feed API on behalf of one partner.
type Client struct {
	BaseURL string
	Partner string
	HTTP    *http.Client
}

func NewClient(baseURL, partner string) *Client {
	return &Client{
		BaseURL: baseURL,
		Partner: partner,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchOrders retrieves the partner's current order feed.
func (c *Client) FetchOrders(ctx context.Context) ([]models.Order, error) {
	u := fmt.Sprintf("%s/api/partner/orders?partner=%s", c.BaseURL, url.QueryEscape(c.Partner))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var payload struct {
		Orders []models.Order `json:"orders"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Orders, nil
}

// UpdateStatus asks the backend to move an order to status. A reason is
// only meaningful for cancellations.
func (c *Client) UpdateStatus(ctx context.Context, orderID int64, status models.OrderStatus, reason string) (*models.Order, error) {
	body, err := json.Marshal(map[string]string{
		"status": status.String(),
		"reason": reason,
	})
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/api/partner/orders/%d/status?partner=%s", c.BaseURL, orderID, url.QueryEscape(c.Partner))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var payload struct {
		Order *models.Order `json:"order"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Order, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusServiceUnavailable {
		return ErrServiceUnavailable
	}
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return &BackendError{StatusCode: resp.StatusCode, Message: body.Error}
}
