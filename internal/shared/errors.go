package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and catalog errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrUpstream         = fmt.Errorf("upstream rejected request")
	ErrSearchFailed     = fmt.Errorf("album search failed")
	ErrAlbumNotFound    = fmt.Errorf("album not found")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrPlaylistEmpty    = fmt.Errorf("playlist has no albums")

	// Encoding errors
	ErrDecodeFailed = fmt.Errorf("share token decode failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
