package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Client fetches products from the external catalog API.
type Client interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, slug string) (*Product, error)
	RelatedProducts(ctx context.Context, productID, categoryID string) ([]Product, error)
}

type httpClient struct {
	base *url.URL
	http *http.Client
}

func NewHTTPClient(baseURL string, hc *http.Client) (Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base url %q: %w", baseURL, err)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &httpClient{base: u, http: hc}, nil
}

func (c *httpClient) ListProducts(ctx context.Context) ([]Product, error) {
	var out struct {
		Products []Product `json:"products"`
	}
	if err := c.getJSON(ctx, "/api/v1/products", &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

func (c *httpClient) GetProduct(ctx context.Context, slug string) (*Product, error) {
	if slug == "" {
		return nil, fmt.Errorf("slug is required")
	}
	var out struct {
		Product *Product `json:"product"`
	}
	if err := c.getJSON(ctx, "/api/v1/products/"+url.PathEscape(slug), &out); err != nil {
		return nil, err
	}
	if out.Product == nil {
		return nil, fmt.Errorf("product not found: %s", slug)
	}
	return out.Product, nil
}

func (c *httpClient) RelatedProducts(ctx context.Context, productID, categoryID string) ([]Product, error) {
	path := fmt.Sprintf("/api/v1/products/%s/related/%s",
		url.PathEscape(productID), url.PathEscape(categoryID))
	var out struct {
		Products []Product `json:"products"`
	}
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

func (c *httpClient) getJSON(ctx context.Context, path string, out any) error {
	u := c.base.ResolveReference(&url.URL{Path: path})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call catalog: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read catalog response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal catalog response: %w", err)
	}
	return nil
}
