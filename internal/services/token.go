package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nlandais/top50/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// tokenRefreshBuffer is how long before expiry an application token is
// refreshed, so an in-flight request never rides a token about to lapse.
const tokenRefreshBuffer = 60 * time.Second

// AppTokenSource supplies application (client credentials) access tokens
// for catalog requests that need no user session.
type AppTokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ClientCredentialsSource obtains application tokens directly from the
// authorization server using a client id and secret. Tokens are cached and
// refreshed shortly before expiry; concurrent callers share one refresh.
type ClientCredentialsSource struct {
	mu    sync.Mutex
	conf  *clientcredentials.Config
	token *oauth2.Token
}

func NewClientCredentialsSource(clientID, clientSecret string) *ClientCredentialsSource {
	return &ClientCredentialsSource{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyTokenURL,
		},
	}
}

func (c *ClientCredentialsSource) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != nil && time.Until(c.token.Expiry) > tokenRefreshBuffer {
		return c.token.AccessToken, nil
	}

	token, err := c.conf.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	c.token = token
	return token.AccessToken, nil
}

// OAuthConfig builds the authorization-code flow config for user login.
// The scopes cover reading the user's library and writing playlists.
func OAuthConfig(creds shared.SpotifyConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Scopes: []string{
			"user-read-private",
			"user-read-email",
			"playlist-read-private",
			"playlist-modify-private",
			"playlist-modify-public",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}
}
