package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/nlandais/top50/internal/shared"
)

const spotifyTokenURL = "https://accounts.spotify.com/api/token"

// TokenExchangeHandler trades OAuth grants for access tokens on behalf of
// clients that must never see the client secret. The secret stays inside
// this handler; responses carry tokens only.
//
// Implements the Handler interface for registration with a Router.
type TokenExchangeHandler struct {
	clientID     string
	clientSecret string
	redirectURI  string
	tokenURL     string
	httpClient   *http.Client
	logger       *log.Logger
}

// NewTokenExchangeHandler creates the gateway handler. A nil http client
// falls back to [http.DefaultClient].
func NewTokenExchangeHandler(creds shared.SpotifyConfig, client *http.Client, logger *log.Logger) *TokenExchangeHandler {
	if client == nil {
		client = http.DefaultClient
	}
	return &TokenExchangeHandler{
		clientID:     creds.ClientID,
		clientSecret: creds.ClientSecret,
		redirectURI:  creds.RedirectURI,
		tokenURL:     spotifyTokenURL,
		httpClient:   client,
		logger:       logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *TokenExchangeHandler) Routes() []string {
	return []string{
		"/token-exchange/authorization-code",
		"/token-exchange/client-credentials",
	}
}

type exchangeRequest struct {
	Code string `json:"code"`
}

type exchangeResponse struct {
	AccessToken      string `json:"accessToken"`
	ExpiresInSeconds int    `json:"expiresInSeconds,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// upstreamToken is the authorization server's token response. The refresh
// token, when present, stays server-side.
type upstreamToken struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int    `json:"expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (h *TokenExchangeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	if h.clientID == "" || h.clientSecret == "" {
		h.logger.Error("token exchange requested but credentials are not configured")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "server is not configured for token exchange"})
		return
	}

	switch r.URL.Path {
	case "/token-exchange/authorization-code":
		h.exchangeAuthorizationCode(w, r)
	case "/token-exchange/client-credentials":
		h.exchangeClientCredentials(w, r)
	default:
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	}
}

// exchangeAuthorizationCode trades a login code for a user access token.
func (h *TokenExchangeHandler) exchangeAuthorizationCode(w http.ResponseWriter, r *http.Request) {
	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing authorization code"})
		return
	}

	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {req.Code},
		"redirect_uri": {h.redirectURI},
	}

	token, status, err := h.requestToken(r, form)
	if err != nil {
		h.logger.Warn("authorization code exchange failed", "status", status, "error", err)
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, exchangeResponse{AccessToken: token.AccessToken})
}

// exchangeClientCredentials issues an application token for catalog access.
func (h *TokenExchangeHandler) exchangeClientCredentials(w http.ResponseWriter, r *http.Request) {
	form := url.Values{"grant_type": {"client_credentials"}}

	token, status, err := h.requestToken(r, form)
	if err != nil {
		h.logger.Warn("client credentials exchange failed", "status", status, "error", err)
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, exchangeResponse{
		AccessToken:      token.AccessToken,
		ExpiresInSeconds: token.ExpiresIn,
	})
}

// requestToken posts the grant to the authorization server with HTTP basic
// auth. Returns the upstream token, or the response status to relay and an
// error safe to show to the caller.
func (h *TokenExchangeHandler) requestToken(r *http.Request, form url.Values) (*upstreamToken, int, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to build upstream request")
	}
	req.SetBasicAuth(h.clientID, h.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, http.StatusBadGateway, fmt.Errorf("authorization server unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, http.StatusBadGateway, fmt.Errorf("failed to read authorization server response")
	}

	var token upstreamToken
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, http.StatusBadGateway, fmt.Errorf("malformed authorization server response")
	}

	if resp.StatusCode != http.StatusOK {
		message := token.ErrorDescription
		if message == "" {
			message = token.Error
		}
		if message == "" {
			message = fmt.Sprintf("authorization server returned status %d", resp.StatusCode)
		}
		return nil, http.StatusBadRequest, fmt.Errorf("%s", message)
	}

	if token.AccessToken == "" {
		return nil, http.StatusBadGateway, fmt.Errorf("authorization server returned no token")
	}
	return &token, http.StatusOK, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
