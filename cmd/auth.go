package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/nlandais/top50/internal/server"
	"github.com/nlandais/top50/internal/services"
	"github.com/nlandais/top50/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const oauthTimeout = 2 * time.Minute

// AuthLogin performs the OAuth2 authorization code flow for Spotify.
//
// Starts a local HTTP server, opens the browser for user authorization, and
// exchanges the code for tokens. The exchange happens locally when the client
// secret is configured, or through the token exchange gateway otherwise.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath != r.configPath {
		if _, err := os.Stat(configPath); err == nil {
			config, err := shared.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			r.config = config
		}
		r.configPath = configPath
	}

	creds := r.config.Credentials.Spotify
	if creds.ClientID == "" {
		return fmt.Errorf("%w: spotify client_id must be set in %s", shared.ErrMissingCredentials, configPath)
	}

	var token *oauth2.Token
	var err error

	switch {
	case creds.ClientSecret != "":
		token, err = r.doOAuth(creds)
	case r.gateway != nil && r.config.Gateway.BaseURL != "":
		token, err = r.doGatewayOAuth(ctx, creds)
	default:
		return fmt.Errorf("%w: set client_secret or gateway.base_url in %s", shared.ErrMissingCredentials, configPath)
	}
	if err != nil {
		return err
	}

	if err := r.saveTokens(token); err != nil {
		return err
	}
	r.session.SetToken(token)

	if r.library != nil {
		if profile, profileErr := r.library.CurrentUser(ctx); profileErr == nil {
			r.session.SetProfile(profile)
			r.writePlain("✓ Logged in as %s\n", profile.DisplayName)
		}
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens saved to %s\n\n", configPath)
	r.writePlain("You can now use: top50 playlist save\n")

	return nil
}

// AuthStatus reports stored credentials and the current session state.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	creds := r.config.Credentials.Spotify

	if creds.ClientID == "" {
		r.writePlain("Credentials: ✗ client_id not configured\n")
	} else if creds.ClientSecret != "" {
		r.writePlain("Credentials: ✓ local client credentials\n")
	} else if r.config.Gateway.BaseURL != "" {
		r.writePlain("Credentials: ✓ gateway at %s\n", r.config.Gateway.BaseURL)
	} else {
		r.writePlain("Credentials: ⚠ client_id only (no secret, no gateway)\n")
	}

	token := creds.Token()
	switch {
	case token == nil:
		r.writePlain("Stored token: none\n")
	case token.Valid():
		r.writePlain("Stored token: valid until %s\n", token.Expiry.Format(time.RFC3339))
	default:
		r.writePlain("Stored token: expired\n")
	}

	if err := r.ensureSession(ctx); err != nil {
		r.writePlain("Session: ✗ not authenticated\n")
		return nil
	}

	r.writePlain("Session: ✓ authenticated\n")
	if profile, err := r.library.CurrentUser(ctx); err == nil {
		r.writePlain("User: %s (%s)\n", profile.DisplayName, profile.ID)
	}
	return nil
}

// AuthLogout discards the stored tokens and resets the session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.session.Reset()

	r.config.Credentials.Spotify.AccessToken = ""
	r.config.Credentials.Spotify.RefreshToken = ""
	r.config.Credentials.Spotify.TokenExpiry = ""

	configPath := cmd.String("config")
	if configPath == "" {
		configPath = r.configPath
	}
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := shared.SaveConfig(configPath, r.config); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
		}
	}

	return r.writePlain("✓ Logged out\n")
}

// doOAuth executes the authorization code flow with a local callback server,
// exchanging the code locally with the configured client secret.
func (r *Runner) doOAuth(creds shared.SpotifyConfig) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	conf := services.OAuthConfig(creds)
	handler := server.NewOAuthHandler(conf, state)

	httpServer, serverErrors := r.startCallbackServer(handler)
	defer shutdownServer(httpServer, r)

	r.promptBrowser(conf.AuthCodeURL(state))

	timeout := time.NewTimer(oauthTimeout)
	defer timeout.Stop()

	var result server.OAuthResult
	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out", shared.ErrTimeout)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}
	return result.Token, nil
}

// doGatewayOAuth executes the authorization code flow without a local client
// secret: the callback server only captures the code, and the token exchange
// gateway performs the exchange.
func (r *Runner) doGatewayOAuth(ctx context.Context, creds shared.SpotifyConfig) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	conf := services.OAuthConfig(creds)
	handler := newCodeCapture(state)

	httpServer, serverErrors := r.startCallbackServer(handler)
	defer shutdownServer(httpServer, r)

	r.promptBrowser(conf.AuthCodeURL(state))

	timeout := time.NewTimer(oauthTimeout)
	defer timeout.Stop()

	var captured codeResult
	select {
	case captured = <-handler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out", shared.ErrTimeout)
	}

	if captured.err != nil {
		return nil, fmt.Errorf("authorization failed: %w", captured.err)
	}

	accessToken, err := r.gateway.ExchangeCode(ctx, captured.code)
	if err != nil {
		return nil, fmt.Errorf("gateway exchange failed: %w", err)
	}

	return &oauth2.Token{AccessToken: accessToken}, nil
}

func (r *Runner) startCallbackServer(handler server.Handler) (*http.Server, chan error) {
	router := server.NewBasicRouter()
	router.Handler(handler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)
	return httpServer, serverErrors
}

func shutdownServer(httpServer *http.Server, r *Runner) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}
}

func (r *Runner) promptBrowser(authURL string) {
	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}
	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")
}

type codeResult struct {
	code string
	err  error
}

// codeCapture is a callback handler that only captures the authorization
// code; the exchange happens elsewhere. Implements [server.Handler].
type codeCapture struct {
	state      string
	resultChan chan codeResult
	once       sync.Once
}

func newCodeCapture(state string) *codeCapture {
	return &codeCapture{
		state:      state,
		resultChan: make(chan codeResult, 1),
	}
}

func (h *codeCapture) Routes() []string {
	return []string{"/callback"}
}

func (h *codeCapture) Result() <-chan codeResult {
	return h.resultChan
}

func (h *codeCapture) send(result codeResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

func (h *codeCapture) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.URL.Query().Get("state") != h.state {
		h.send(codeResult{err: fmt.Errorf("%w: invalid state parameter", shared.ErrAuthFailed)})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := req.URL.Query().Get("code")
	if code == "" {
		errParam := req.URL.Query().Get("error")
		h.send(codeResult{err: fmt.Errorf("%w: %s", shared.ErrAuthFailed, errParam)})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	h.send(codeResult{code: code})

	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Login successful. You can close this window and return to the terminal.")
}
