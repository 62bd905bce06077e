// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/nlandais/top50/internal/auth"
	"github.com/nlandais/top50/internal/models"
	"github.com/nlandais/top50/internal/services"
)

// MockCatalog is a test double for [services.Catalog]. Unset funcs return
// zero values.
type MockCatalog struct {
	SearchAlbumsFunc   func(ctx context.Context, query string, limit int) ([]models.Album, error)
	GetAlbumFunc       func(ctx context.Context, id string) (*models.Album, error)
	GetAlbumTracksFunc func(ctx context.Context, id string) ([]string, error)
}

func (m *MockCatalog) SearchAlbums(ctx context.Context, query string, limit int) ([]models.Album, error) {
	if m.SearchAlbumsFunc != nil {
		return m.SearchAlbumsFunc(ctx, query, limit)
	}
	return nil, nil
}

func (m *MockCatalog) GetAlbum(ctx context.Context, id string) (*models.Album, error) {
	if m.GetAlbumFunc != nil {
		return m.GetAlbumFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCatalog) GetAlbumTracks(ctx context.Context, id string) ([]string, error) {
	if m.GetAlbumTracksFunc != nil {
		return m.GetAlbumTracksFunc(ctx, id)
	}
	return nil, nil
}

// MockLibrary is a test double for [services.Library].
type MockLibrary struct {
	CurrentUserFunc       func(ctx context.Context) (*auth.Profile, error)
	UserPlaylistsFunc     func(ctx context.Context) ([]models.PlaylistRef, error)
	CreatePlaylistFunc    func(ctx context.Context, name, description string) (*models.PlaylistRef, error)
	AddTracksFunc         func(ctx context.Context, playlistID string, uris []string) error
	ClearPlaylistFunc     func(ctx context.Context, playlistID string) error
	UpdateDescriptionFunc func(ctx context.Context, playlistID, description string) error
	PlaylistTracksFunc    func(ctx context.Context, playlistID string) ([]services.PlaylistTrack, error)
}

func (m *MockLibrary) CurrentUser(ctx context.Context) (*auth.Profile, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx)
	}
	return &auth.Profile{ID: "mock-user"}, nil
}

func (m *MockLibrary) UserPlaylists(ctx context.Context) ([]models.PlaylistRef, error) {
	if m.UserPlaylistsFunc != nil {
		return m.UserPlaylistsFunc(ctx)
	}
	return nil, nil
}

func (m *MockLibrary) CreatePlaylist(ctx context.Context, name, description string) (*models.PlaylistRef, error) {
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, name, description)
	}
	return &models.PlaylistRef{ID: "mock-playlist", Name: name, Description: description}, nil
}

func (m *MockLibrary) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if m.AddTracksFunc != nil {
		return m.AddTracksFunc(ctx, playlistID, uris)
	}
	return nil
}

func (m *MockLibrary) ClearPlaylist(ctx context.Context, playlistID string) error {
	if m.ClearPlaylistFunc != nil {
		return m.ClearPlaylistFunc(ctx, playlistID)
	}
	return nil
}

func (m *MockLibrary) UpdateDescription(ctx context.Context, playlistID, description string) error {
	if m.UpdateDescriptionFunc != nil {
		return m.UpdateDescriptionFunc(ctx, playlistID, description)
	}
	return nil
}

func (m *MockLibrary) PlaylistTracks(ctx context.Context, playlistID string) ([]services.PlaylistTrack, error) {
	if m.PlaylistTracksFunc != nil {
		return m.PlaylistTracksFunc(ctx, playlistID)
	}
	return nil, nil
}

// MemoryAlbumCache is an in-memory [tasks.AlbumCache] for tests.
type MemoryAlbumCache struct {
	Albums map[string]models.Album
}

func NewMemoryAlbumCache() *MemoryAlbumCache {
	return &MemoryAlbumCache{Albums: make(map[string]models.Album)}
}

func (m *MemoryAlbumCache) Get(id string) (models.Album, bool, error) {
	album, ok := m.Albums[id]
	return album, ok, nil
}

func (m *MemoryAlbumCache) Put(album models.Album) error {
	m.Albums[album.ID] = album
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
