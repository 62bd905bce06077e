// Package services implements the Spotify Web API clients behind the
// [Catalog] and [Library] interfaces.
//
// # Authentication
//
// Catalog requests (search, album lookup) use an application token from an
// [AppTokenSource]. Two sources exist:
//   - [ClientCredentialsSource] talks to the authorization server directly
//     with a client id and secret, via [clientcredentials.Config].
//   - [GatewayClient] delegates to the token exchange gateway so the secret
//     never leaves the server (see internal/server).
//
// Both cache the token and refresh it 60 seconds before expiry.
//
// Library requests (playlists, profile) use the user session token held in
// [auth.Store], populated by the OAuth login flow.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : library call without a user session
//   - [shared.ErrTokenExpired] : upstream rejected the token (401)
//   - [shared.ErrSearchFailed] : album search failed for any reason
//   - [shared.ErrAlbumNotFound] / [shared.ErrPlaylistNotFound] : 404s
//   - [shared.ErrAPIRequest] : transport failure or unexpected status
//
// # API Mappings
//
// Wire responses convert to application models at the package boundary:
// albums join all artist names, take the year from the release date prefix,
// and fall back to "Unknown" genre and a placeholder cover.
package services
