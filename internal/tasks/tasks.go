// package tasks implements the mapping between the local ranked album list
// and its Spotify playlist counterpart.
//
// The core abstraction is TopEngine, which resolves albums to playlist
// tracks on save and reconstructs the list from playlist membership on
// load. Operations emit progress updates via channels for non-blocking
// status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nlandais/top50/internal/models"
	"github.com/nlandais/top50/internal/services"
	"github.com/nlandais/top50/internal/shared"
	"golang.org/x/time/rate"
)

const (
	// PlaylistName is the reserved name marking the playlist this engine
	// owns. Counterpart detection matches on it exactly.
	PlaylistName = "🎵 Top 50 Albums"

	playlistDescription = "Top 50 albums curated with top50"

	// catalog requests per second during track resolution
	defaultRateLimit = 5
)

// AlbumCache is consulted before hitting the catalog during list
// reconstruction. A nil cache disables the fast path.
type AlbumCache interface {
	Get(id string) (models.Album, bool, error)
	Put(album models.Album) error
}

// SaveOpts configures playlist publication.
type SaveOpts struct {
	// EmbedMetadata appends an advisory metadata block to the playlist
	// description. Reconstruction never depends on it; track membership
	// stays authoritative.
	EmbedMetadata bool
}

// SaveResult reports the outcome of publishing the list.
type SaveResult struct {
	Playlist    models.PlaylistRef
	TracksAdded int
	IsUpdate    bool
}

// TopEngine maps the ranked list onto a playlist: one representative track
// per album, playlist position mirroring rank.
type TopEngine struct {
	catalog services.Catalog
	library services.Library
	cache   AlbumCache
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewTopEngine creates an engine. cache may be nil.
func NewTopEngine(catalog services.Catalog, library services.Library, cache AlbumCache, logger *log.Logger) *TopEngine {
	return &TopEngine{
		catalog: catalog,
		library: library,
		cache:   cache,
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), 1),
		logger:  logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never stalls the work.
func (e *TopEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// FindCounterpart returns the user's playlist carrying the reserved name,
// or nil when none exists. When several match, the first in library order
// wins; the engine never merges duplicates.
func (e *TopEngine) FindCounterpart(ctx context.Context) (*models.PlaylistRef, error) {
	playlists, err := e.library.UserPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	for _, playlist := range playlists {
		if playlist.Name == PlaylistName {
			return &playlist, nil
		}
	}
	return nil, nil
}

// Save publishes the ranked list to its playlist counterpart, creating the
// playlist when absent and clearing-then-refilling it otherwise. Each
// album contributes its first track; albums whose tracks cannot be
// resolved are skipped with a warning, they never abort the save.
func (e *TopEngine) Save(ctx context.Context, albums []models.Album, opts SaveOpts, progress chan<- ProgressUpdate) (*SaveResult, error) {
	if len(albums) == 0 {
		return nil, shared.ErrPlaylistEmpty
	}

	e.sendProgress(progress, findCounterpartUpdate())
	existing, err := e.FindCounterpart(ctx)
	if err != nil {
		return nil, err
	}

	uris := make([]string, 0, len(albums))
	tracksAdded := 0
	for i, album := range albums {
		e.sendProgress(progress, resolveTracksUpdate(i+1, len(albums), album))

		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		tracks, err := e.catalog.GetAlbumTracks(ctx, album.ID)
		if err != nil {
			e.logger.Warn("failed to resolve album tracks, skipping", "album", album.Title, "error", err)
			continue
		}
		if len(tracks) == 0 {
			e.logger.Warn("album has no tracks, skipping", "album", album.Title)
			continue
		}

		uris = append(uris, tracks[0])
		tracksAdded++
	}

	result := &SaveResult{TracksAdded: tracksAdded, IsUpdate: existing != nil}

	if existing != nil {
		e.sendProgress(progress, clearPlaylistUpdate(existing.Name))
		if err := e.library.ClearPlaylist(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to clear playlist: %w", err)
		}
		result.Playlist = *existing
	} else {
		e.sendProgress(progress, createPlaylistUpdate())
		created, err := e.library.CreatePlaylist(ctx, PlaylistName, playlistDescription)
		if err != nil {
			return nil, fmt.Errorf("failed to create playlist: %w", err)
		}
		result.Playlist = *created
	}

	if len(uris) > 0 {
		e.sendProgress(progress, addTracksUpdate(len(uris)))
		if err := e.library.AddTracks(ctx, result.Playlist.ID, uris); err != nil {
			return result, fmt.Errorf("failed to add tracks: %w", err)
		}
	}

	if opts.EmbedMetadata {
		description := playlistDescription + " " + EncodeMetadata(albums, time.Now())
		if err := e.library.UpdateDescription(ctx, result.Playlist.ID, description); err != nil {
			// advisory only, the playlist content is already correct
			e.logger.Warn("failed to embed playlist metadata", "error", err)
		}
	}

	return result, nil
}

// Load reconstructs a ranked list from playlist membership: each track
// contributes its parent album, deduplicated by album id with the first
// occurrence fixing the rank. Catalog enrichment failures fall back to the
// album data embedded in the track; only the track fetch itself is fatal.
// An empty playlist loads as an empty list with no error.
func (e *TopEngine) Load(ctx context.Context, playlistID string, progress chan<- ProgressUpdate) ([]models.Album, error) {
	e.sendProgress(progress, fetchTracksUpdate())
	tracks, err := e.library.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist tracks: %w", err)
	}

	albums := make([]models.Album, 0, len(tracks))
	seen := make(map[string]bool)

	for i, track := range tracks {
		if track.Album.ID == "" || seen[track.Album.ID] {
			continue
		}
		seen[track.Album.ID] = true

		e.sendProgress(progress, enrichAlbumUpdate(i+1, len(tracks), track.Album))
		albums = append(albums, e.enrich(ctx, track.Album))
	}

	return albums, nil
}

// LoadFromMetadata rebuilds a list from an advisory metadata block, the
// legacy path for playlists whose tracks are gone but whose description
// survived. Entries that no longer resolve in the catalog become stubs
// carrying the metadata fields.
func (e *TopEngine) LoadFromMetadata(ctx context.Context, meta *models.PlaylistMetadata, progress chan<- ProgressUpdate) ([]models.Album, error) {
	if meta == nil || len(meta.Albums) == 0 {
		return nil, shared.ErrPlaylistEmpty
	}

	albums := make([]models.Album, 0, len(meta.Albums))
	for i, entry := range meta.Albums {
		stub := models.Album{
			ID:     entry.ID,
			Title:  entry.Title,
			Artist: entry.Artist,
			Year:   entry.Year,
			Genre:  "Unknown",
			Cover:  services.PlaceholderCover,
		}
		e.sendProgress(progress, enrichAlbumUpdate(i+1, len(meta.Albums), stub))
		albums = append(albums, e.enrich(ctx, stub))
	}

	return albums, nil
}

// enrich upgrades a partial album record to the full catalog version,
// consulting the cache first. The partial record is returned unchanged
// when both cache and catalog come up empty.
func (e *TopEngine) enrich(ctx context.Context, partial models.Album) models.Album {
	if e.cache != nil {
		if cached, ok, err := e.cache.Get(partial.ID); err == nil && ok {
			return cached
		}
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return partial
	}

	full, err := e.catalog.GetAlbum(ctx, partial.ID)
	if err != nil {
		e.logger.Warn("failed to enrich album, using embedded data", "album", partial.ID, "error", err)
		return partial
	}

	if e.cache != nil {
		if err := e.cache.Put(*full); err != nil {
			e.logger.Warn("failed to cache album", "album", full.ID, "error", err)
		}
	}
	return *full
}
