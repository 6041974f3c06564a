package shop

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/models"
)

var (
	// ErrNotAuthenticated marks a 401 from an authenticated-only call.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrEmptySelection is returned when checkout is attempted with no
	// cart lines selected.
	ErrEmptySelection = errors.New("no items selected for checkout")
)

// APIError is any other non-2xx response from the storefront API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api returned %d", e.StatusCode)
}

// Cart is the customer's view of their cart.
type Cart struct {
	Lines     []models.CartLine `json:"cart"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"item_count"`
}

// Client is the customer-side engine: it owns the anonymous session
// token, carries the auth cookie across calls, and holds the checkout
// selection between the cart screen and checkout.
type Client struct {
	BaseURL string
	Tokens  *TokenStore
	HTTP    *http.Client

	selection *Selection
}

func NewClient(baseURL string, tokens *TokenStore) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		BaseURL:   baseURL,
		Tokens:    tokens,
		HTTP:      &http.Client{Jar: jar, Timeout: 10 * time.Second},
		selection: &Selection{},
	}, nil
}

// Login authenticates and keeps the session cookie for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Logout ends the server session and clears the local session token, so
// the next anonymous visit starts with an empty cart.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", map[string]string{}, nil); err != nil {
		return err
	}
	c.selection.Clear()
	return c.Tokens.Clear()
}

// FetchCart returns the current cart with server-computed totals.
func (c *Client) FetchCart(ctx context.Context) (*Cart, error) {
	token, err := c.Tokens.Token()
	if err != nil {
		return nil, err
	}
	var cart Cart
	if err := c.do(ctx, http.MethodGet, "/api/cart?session_id="+token, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart adds quantity of a menu item, merging into an existing line
// for the same item.
func (c *Client) AddToCart(ctx context.Context, menuItemID int64, quantity int) error {
	token, err := c.Tokens.Token()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/api/cart/add", map[string]any{
		"menu_item_id": menuItemID,
		"quantity":     quantity,
		"session_id":   token,
	}, nil)
}

// SetQuantity replaces a cart line's quantity. Zero or negative values
// are rejected by the server; removal is a separate operation.
func (c *Client) SetQuantity(ctx context.Context, lineID int64, quantity int) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/cart/update/%d", lineID), map[string]int{
		"quantity": quantity,
	}, nil)
}

// RemoveLine deletes a cart line. Removing a line that is already gone
// succeeds.
func (c *Client) RemoveLine(ctx context.Context, lineID int64) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/cart/remove/%d", lineID), nil, nil); err != nil {
		return err
	}
	c.selection.Remove(lineID)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(data)
	} else {
		rdr = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrNotAuthenticated
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
