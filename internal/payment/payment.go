// Package payment abstracts the third-party payment provider behind a
// narrow capability interface so the checkout flow is testable without the
// real SDK.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Provider issues the client token the payment widget is initialised with.
type Provider interface {
	ClientToken(ctx context.Context) (string, error)
}

// Method is an authorized payment method obtained from the widget. A nonce
// is single-use; the provider may reject the request (declined card,
// provider-side validation, network).
type Method interface {
	RequestNonce(ctx context.Context) (string, error)
}

// MethodSource yields the payment-method capability for a client token.
// The HTTP layer uses it to stand in for the widget's onInstance callback.
type MethodSource interface {
	Method(clientToken string) Method
}

// Gateway talks to the payment provider's REST surface. It implements
// Provider and hands out HTTP-backed Methods per client token.
type Gateway struct {
	base *url.URL
	http *http.Client
}

func NewGateway(baseURL string, hc *http.Client) (*Gateway, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid payment base url %q: %w", baseURL, err)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Gateway{base: u, http: hc}, nil
}

func (g *Gateway) ClientToken(ctx context.Context) (string, error) {
	u := g.base.ResolveReference(&url.URL{Path: "/api/v1/payment/token"})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch client token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("payment provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		ClientToken string `json:"clientToken"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("unmarshal token response: %w", err)
	}
	if out.ClientToken == "" {
		return "", fmt.Errorf("payment provider returned empty client token")
	}
	return out.ClientToken, nil
}

// Method returns the payment-method capability bound to clientToken.
func (g *Gateway) Method(clientToken string) Method {
	return &httpMethod{gw: g, clientToken: clientToken}
}

type httpMethod struct {
	gw          *Gateway
	clientToken string
}

func (m *httpMethod) RequestNonce(ctx context.Context) (string, error) {
	u := m.gw.base.ResolveReference(&url.URL{Path: "/api/v1/payment/method"})

	payload, err := json.Marshal(map[string]string{"clientToken": m.clientToken})
	if err != nil {
		return "", fmt.Errorf("marshal nonce request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create nonce request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.gw.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request payment nonce: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read nonce response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("payment provider rejected method: status %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Nonce string `json:"nonce"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("unmarshal nonce response: %w", err)
	}
	if out.Nonce == "" {
		return "", fmt.Errorf("payment provider returned empty nonce")
	}
	return out.Nonce, nil
}
