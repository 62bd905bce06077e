package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nlandais/top50/internal/models"
)

// AlbumCacheRepository caches enriched album records keyed by catalog id.
//
// Playlist reconstruction consults the cache before issuing an album lookup,
// which keeps repeated loads of the same playlist cheap. Duplicate puts
// overwrite silently.
type AlbumCacheRepository struct {
	db *sql.DB
}

// NewAlbumCacheRepository creates an AlbumCacheRepository with the given database connection
func NewAlbumCacheRepository(db *sql.DB) *AlbumCacheRepository {
	return &AlbumCacheRepository{db: db}
}

// Put stores or refreshes an album record.
func (r *AlbumCacheRepository) Put(album models.Album) error {
	if album.ID == "" {
		return fmt.Errorf("album id is required")
	}

	query := `
		INSERT INTO album_cache (id, title, artist, year, genre, cover, external_url, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			year = excluded.year,
			genre = excluded.genre,
			cover = excluded.cover,
			external_url = excluded.external_url,
			cached_at = excluded.cached_at
	`
	_, err := r.db.Exec(query, album.ID, album.Title, album.Artist, album.Year, album.Genre, album.Cover, album.ExternalURL, time.Now())
	if err != nil {
		return fmt.Errorf("failed to cache album: %w", err)
	}
	return nil
}

// Get returns the cached album for id, or ok=false on a miss.
func (r *AlbumCacheRepository) Get(id string) (models.Album, bool, error) {
	var album models.Album
	query := `
		SELECT id, title, artist, year, genre, cover, external_url
		FROM album_cache WHERE id = ?
	`
	err := r.db.QueryRow(query, id).Scan(&album.ID, &album.Title, &album.Artist, &album.Year, &album.Genre, &album.Cover, &album.ExternalURL)
	if err == sql.ErrNoRows {
		return album, false, nil
	}
	if err != nil {
		return album, false, fmt.Errorf("failed to read album cache: %w", err)
	}
	return album, true, nil
}
