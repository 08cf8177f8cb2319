// Package orders is the HTTP client for the external order-creation API.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/co-developer342/fyp-wednesday/internal/cart"
)

// Confirmation is what the order service returns on a successful creation.
type Confirmation struct {
	OrderID string  `json:"orderId"`
	Status  string  `json:"status"`
	Total   float64 `json:"totalAmount"`
}

// Order is a past order as returned by the order-history endpoint.
type Order struct {
	ID        string          `json:"orderId"`
	UserID    string          `json:"userId"`
	Items     []cart.LineItem `json:"items"`
	Total     float64         `json:"totalAmount"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Client submits checkouts to the order service and lists a user's orders.
type Client interface {
	Create(ctx context.Context, nonce string, items []cart.LineItem) (*Confirmation, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}

type httpClient struct {
	base *url.URL
	http *http.Client
}

func NewHTTPClient(baseURL string, hc *http.Client) (Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid orders base url %q: %w", baseURL, err)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &httpClient{base: u, http: hc}, nil
}

func (c *httpClient) Create(ctx context.Context, nonce string, items []cart.LineItem) (*Confirmation, error) {
	if nonce == "" {
		return nil, fmt.Errorf("nonce is required")
	}

	payload, err := json.Marshal(struct {
		Nonce string          `json:"nonce"`
		Items []cart.LineItem `json:"cart"`
	}{Nonce: nonce, Items: items})
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	u := c.base.ResolveReference(&url.URL{Path: "/api/v1/orders"})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read order response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("order service returned status %d: %s", resp.StatusCode, string(body))
	}

	var conf Confirmation
	if err := json.Unmarshal(body, &conf); err != nil {
		return nil, fmt.Errorf("unmarshal order confirmation: %w", err)
	}
	return &conf, nil
}

func (c *httpClient) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID is required")
	}

	u := c.base.ResolveReference(&url.URL{Path: "/api/v1/orders/user/" + url.PathEscape(userID)})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create list request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read orders response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("order service returned status %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Orders []Order `json:"orders"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal orders response: %w", err)
	}
	return out.Orders, nil
}
