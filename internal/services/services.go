package services

import (
	"context"

	"github.com/nlandais/top50/internal/auth"
	"github.com/nlandais/top50/internal/models"
)

// Catalog reads public album data. Implementations authenticate with an
// application token, no user login required.
type Catalog interface {
	// SearchAlbums searches the catalog for albums matching query. An empty
	// or whitespace-only query returns no results without a network call.
	SearchAlbums(ctx context.Context, query string, limit int) ([]models.Album, error)

	// GetAlbum retrieves a single album by id.
	// Returns [shared.ErrAlbumNotFound] when the id does not resolve.
	GetAlbum(ctx context.Context, id string) (*models.Album, error)

	// GetAlbumTracks returns the track URIs of an album in disc order.
	GetAlbumTracks(ctx context.Context, id string) ([]string, error)
}

// Library operates on the authenticated user's playlists. All methods
// return [shared.ErrNotAuthenticated] when no user session is active.
type Library interface {
	// CurrentUser retrieves the logged-in user's profile.
	CurrentUser(ctx context.Context) (*auth.Profile, error)

	// UserPlaylists retrieves all playlists owned by or followed by the
	// user, following pagination to exhaustion.
	UserPlaylists(ctx context.Context) ([]models.PlaylistRef, error)

	// CreatePlaylist creates a private playlist in the user's library.
	CreatePlaylist(ctx context.Context, name, description string) (*models.PlaylistRef, error)

	// AddTracks appends track URIs to a playlist, batching requests to the
	// API's per-call limit.
	AddTracks(ctx context.Context, playlistID string, uris []string) error

	// ClearPlaylist removes every track from a playlist.
	ClearPlaylist(ctx context.Context, playlistID string) error

	// UpdateDescription replaces a playlist's description text.
	UpdateDescription(ctx context.Context, playlistID, description string) error

	// PlaylistTracks retrieves a playlist's tracks in playlist order,
	// following pagination to exhaustion.
	PlaylistTracks(ctx context.Context, playlistID string) ([]PlaylistTrack, error)
}

// PlaylistTrack is one track within a playlist, carrying enough of its
// parent album to reconstruct a ranked entry without extra lookups.
type PlaylistTrack struct {
	URI   string
	Album models.Album
}
