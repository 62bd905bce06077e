// Gateway client for the token exchange server, an alternative to direct
// client-credentials auth when the client secret lives server-side only.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/nlandais/top50/internal/shared"
	"golang.org/x/oauth2"
)

// GatewayClient obtains access tokens from a token exchange gateway (see
// internal/server). The gateway holds the client secret; this client only
// ever sees short-lived access tokens.
//
// Implements [AppTokenSource] for catalog requests.
type GatewayClient struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.Mutex
	token *oauth2.Token
}

// NewGatewayClient creates a gateway client. A nil http client falls back
// to [http.DefaultClient].
func NewGatewayClient(baseURL string, client *http.Client) *GatewayClient {
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &GatewayClient{
		baseURL:    baseURL,
		httpClient: client,
	}
}

type gatewayTokenResponse struct {
	AccessToken      string `json:"accessToken"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
	Error            string `json:"error"`
}

// Token returns a cached application token, requesting a fresh one from
// the gateway when the cache is empty or close to expiry.
func (g *GatewayClient) Token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.token != nil && time.Until(g.token.Expiry) > tokenRefreshBuffer {
		return g.token.AccessToken, nil
	}

	resp, err := g.post(ctx, "/token-exchange/client-credentials", nil)
	if err != nil {
		return "", err
	}

	g.token = &oauth2.Token{
		AccessToken: resp.AccessToken,
		Expiry:      time.Now().Add(time.Duration(resp.ExpiresInSeconds) * time.Second),
	}
	return g.token.AccessToken, nil
}

// ExchangeCode trades an authorization code for a user access token via
// the gateway.
func (g *GatewayClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("%w: empty authorization code", shared.ErrInvalidArgument)
	}

	resp, err := g.post(ctx, "/token-exchange/authorization-code", map[string]string{"code": code})
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (g *GatewayClient) post(ctx context.Context, path string, payload any) (*gatewayTokenResponse, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	var decoded gatewayTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if decoded.Error != "" {
			return nil, fmt.Errorf("%w: %s", shared.ErrUpstream, decoded.Error)
		}
		return nil, fmt.Errorf("%w: gateway returned status %d", shared.ErrUpstream, resp.StatusCode)
	}

	if decoded.AccessToken == "" {
		return nil, fmt.Errorf("%w: gateway returned no token", shared.ErrUpstream)
	}
	return &decoded, nil
}
