package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/nlandais/top50/internal/models"
	"github.com/nlandais/top50/internal/services"
	"github.com/nlandais/top50/internal/shared"
	helpers "github.com/nlandais/top50/internal/testing"
	"golang.org/x/time/rate"
)

func testEngine(catalog *helpers.MockCatalog, library *helpers.MockLibrary, cache AlbumCache) *TopEngine {
	engine := NewTopEngine(catalog, library, cache, shared.NewLogger(io.Discard))
	engine.limiter = rate.NewLimiter(rate.Inf, 0)
	return engine
}

func rankedAlbums(n int) []models.Album {
	albums := make([]models.Album, 0, n)
	for i := 0; i < n; i++ {
		albums = append(albums, models.Album{
			ID:     fmt.Sprintf("alb%d", i),
			Title:  fmt.Sprintf("Album %d", i),
			Artist: "Artist",
			Year:   1990 + i,
		})
	}
	return albums
}

func TestFindCounterpart(t *testing.T) {
	t.Run("First Exact Name Match Wins", func(t *testing.T) {
		library := &helpers.MockLibrary{
			UserPlaylistsFunc: func(ctx context.Context) ([]models.PlaylistRef, error) {
				return []models.PlaylistRef{
					{ID: "pl1", Name: "Road Trip"},
					{ID: "pl2", Name: PlaylistName},
					{ID: "pl3", Name: PlaylistName},
				}, nil
			},
		}
		engine := testEngine(&helpers.MockCatalog{}, library, nil)

		ref, err := engine.FindCounterpart(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ref == nil || ref.ID != "pl2" {
			t.Errorf("expected first matching playlist, got %+v", ref)
		}
	})

	t.Run("No Match", func(t *testing.T) {
		library := &helpers.MockLibrary{
			UserPlaylistsFunc: func(ctx context.Context) ([]models.PlaylistRef, error) {
				return []models.PlaylistRef{{ID: "pl1", Name: "Top 50 Albums"}}, nil
			},
		}
		engine := testEngine(&helpers.MockCatalog{}, library, nil)

		ref, err := engine.FindCounterpart(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ref != nil {
			t.Errorf("name without the emoji prefix must not match, got %+v", ref)
		}
	})
}

func TestSave(t *testing.T) {
	t.Run("Empty List", func(t *testing.T) {
		engine := testEngine(&helpers.MockCatalog{}, &helpers.MockLibrary{}, nil)
		if _, err := engine.Save(context.Background(), nil, SaveOpts{}, nil); !errors.Is(err, shared.ErrPlaylistEmpty) {
			t.Errorf("expected ErrPlaylistEmpty, got %v", err)
		}
	})

	t.Run("Creates Playlist In Rank Order", func(t *testing.T) {
		var addedTo string
		var addedURIs []string
		catalog := &helpers.MockCatalog{
			GetAlbumTracksFunc: func(ctx context.Context, id string) ([]string, error) {
				return []string{"spotify:track:" + id + "-first", "spotify:track:" + id + "-second"}, nil
			},
		}
		library := &helpers.MockLibrary{
			CreatePlaylistFunc: func(ctx context.Context, name, description string) (*models.PlaylistRef, error) {
				if name != PlaylistName {
					t.Errorf("expected reserved playlist name, got %q", name)
				}
				return &models.PlaylistRef{ID: "pl-new", Name: name}, nil
			},
			AddTracksFunc: func(ctx context.Context, playlistID string, uris []string) error {
				addedTo = playlistID
				addedURIs = uris
				return nil
			},
			ClearPlaylistFunc: func(ctx context.Context, playlistID string) error {
				t.Error("fresh save must not clear anything")
				return nil
			},
		}
		engine := testEngine(catalog, library, nil)

		result, err := engine.Save(context.Background(), rankedAlbums(3), SaveOpts{}, nil)
		if err != nil {
			t.Fatalf("save failed: %v", err)
		}

		if result.IsUpdate {
			t.Error("expected create, not update")
		}
		if result.TracksAdded != 3 {
			t.Errorf("expected 3 tracks added, got %d", result.TracksAdded)
		}
		if addedTo != "pl-new" {
			t.Errorf("tracks added to wrong playlist %q", addedTo)
		}

		want := []string{"spotify:track:alb0-first", "spotify:track:alb1-first", "spotify:track:alb2-first"}
		for i, uri := range want {
			if addedURIs[i] != uri {
				t.Errorf("position %d: expected first track of rank %d, got %q", i, i+1, addedURIs[i])
			}
		}
	})

	t.Run("Updates Existing Playlist", func(t *testing.T) {
		var cleared bool
		catalog := &helpers.MockCatalog{
			GetAlbumTracksFunc: func(ctx context.Context, id string) ([]string, error) {
				return []string{"spotify:track:" + id}, nil
			},
		}
		library := &helpers.MockLibrary{
			UserPlaylistsFunc: func(ctx context.Context) ([]models.PlaylistRef, error) {
				return []models.PlaylistRef{{ID: "pl-old", Name: PlaylistName}}, nil
			},
			ClearPlaylistFunc: func(ctx context.Context, playlistID string) error {
				cleared = true
				return nil
			},
			CreatePlaylistFunc: func(ctx context.Context, name, description string) (*models.PlaylistRef, error) {
				t.Error("update must reuse the existing playlist")
				return nil, nil
			},
		}
		engine := testEngine(catalog, library, nil)

		result, err := engine.Save(context.Background(), rankedAlbums(2), SaveOpts{}, nil)
		if err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if !result.IsUpdate || !cleared {
			t.Errorf("expected clear-then-refill update, got IsUpdate=%v cleared=%v", result.IsUpdate, cleared)
		}
		if result.Playlist.ID != "pl-old" {
			t.Errorf("expected existing playlist reused, got %q", result.Playlist.ID)
		}
	})

	t.Run("Skips Unresolvable Albums", func(t *testing.T) {
		var addedURIs []string
		catalog := &helpers.MockCatalog{
			GetAlbumTracksFunc: func(ctx context.Context, id string) ([]string, error) {
				switch id {
				case "alb0":
					return nil, errors.New("api exploded")
				case "alb1":
					return []string{}, nil
				default:
					return []string{"spotify:track:" + id}, nil
				}
			},
		}
		library := &helpers.MockLibrary{
			AddTracksFunc: func(ctx context.Context, playlistID string, uris []string) error {
				addedURIs = uris
				return nil
			},
		}
		engine := testEngine(catalog, library, nil)

		result, err := engine.Save(context.Background(), rankedAlbums(3), SaveOpts{}, nil)
		if err != nil {
			t.Fatalf("save must survive per-album failures: %v", err)
		}
		if result.TracksAdded != 1 {
			t.Errorf("expected 1 resolvable album, got %d", result.TracksAdded)
		}
		if len(addedURIs) != 1 || addedURIs[0] != "spotify:track:alb2" {
			t.Errorf("unexpected uris: %v", addedURIs)
		}
	})

	t.Run("Embeds Metadata When Asked", func(t *testing.T) {
		var description string
		catalog := &helpers.MockCatalog{
			GetAlbumTracksFunc: func(ctx context.Context, id string) ([]string, error) {
				return []string{"spotify:track:" + id}, nil
			},
		}
		library := &helpers.MockLibrary{
			UpdateDescriptionFunc: func(ctx context.Context, playlistID, desc string) error {
				description = desc
				return nil
			},
		}
		engine := testEngine(catalog, library, nil)

		if _, err := engine.Save(context.Background(), rankedAlbums(2), SaveOpts{EmbedMetadata: true}, nil); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		if !strings.Contains(description, "[MT50]") || !strings.Contains(description, "[/MT50]") {
			t.Errorf("expected compact metadata block in description, got %q", description)
		}

		meta, ok := ParsePlaylistMetadata(description)
		if !ok {
			t.Fatal("embedded metadata must parse back")
		}
		if meta.AlbumCount != 2 || meta.Albums[0].Rank != 1 {
			t.Errorf("unexpected metadata %+v", meta)
		}
	})

	t.Run("Reports Progress", func(t *testing.T) {
		catalog := &helpers.MockCatalog{
			GetAlbumTracksFunc: func(ctx context.Context, id string) ([]string, error) {
				return []string{"spotify:track:" + id}, nil
			},
		}
		engine := testEngine(catalog, &helpers.MockLibrary{}, nil)

		progress := make(chan ProgressUpdate, 64)
		if _, err := engine.Save(context.Background(), rankedAlbums(2), SaveOpts{}, progress); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		close(progress)

		phases := make(map[Phase]bool)
		for update := range progress {
			phases[update.Phase] = true
		}
		for _, want := range []Phase{PhaseFindCounterpart, PhaseResolveTracks, PhaseCreatePlaylist, PhaseAddTracks} {
			if !phases[want] {
				t.Errorf("expected a %s progress update", want)
			}
		}
	})
}

func TestLoad(t *testing.T) {
	playlistTracks := func(albums ...models.Album) []services.PlaylistTrack {
		tracks := make([]services.PlaylistTrack, 0, len(albums))
		for i, album := range albums {
			tracks = append(tracks, services.PlaylistTrack{
				URI:   fmt.Sprintf("spotify:track:t%d", i),
				Album: album,
			})
		}
		return tracks
	}

	t.Run("Dedupes By Album First Occurrence", func(t *testing.T) {
		first := models.Album{ID: "alb1", Title: "First"}
		second := models.Album{ID: "alb2", Title: "Second"}
		library := &helpers.MockLibrary{
			PlaylistTracksFunc: func(ctx context.Context, playlistID string) ([]services.PlaylistTrack, error) {
				return playlistTracks(first, second, first), nil
			},
		}
		catalog := &helpers.MockCatalog{
			GetAlbumFunc: func(ctx context.Context, id string) (*models.Album, error) {
				return nil, fmt.Errorf("%w: %s", shared.ErrAlbumNotFound, id)
			},
		}
		engine := testEngine(catalog, library, nil)

		albums, err := engine.Load(context.Background(), "pl1", nil)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(albums) != 2 {
			t.Fatalf("expected duplicate collapsed, got %d albums", len(albums))
		}
		if albums[0].ID != "alb1" || albums[1].ID != "alb2" {
			t.Errorf("expected first-occurrence order, got %+v", albums)
		}
	})

	t.Run("Enriches From Catalog And Caches", func(t *testing.T) {
		cache := helpers.NewMemoryAlbumCache()
		library := &helpers.MockLibrary{
			PlaylistTracksFunc: func(ctx context.Context, playlistID string) ([]services.PlaylistTrack, error) {
				return playlistTracks(models.Album{ID: "alb1", Title: "Partial", Genre: "Unknown"}), nil
			},
		}
		catalog := &helpers.MockCatalog{
			GetAlbumFunc: func(ctx context.Context, id string) (*models.Album, error) {
				return &models.Album{ID: id, Title: "Full Title", Genre: "Jazz"}, nil
			},
		}
		engine := testEngine(catalog, library, cache)

		albums, err := engine.Load(context.Background(), "pl1", nil)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if albums[0].Genre != "Jazz" {
			t.Errorf("expected catalog enrichment, got %+v", albums[0])
		}
		if _, ok := cache.Albums["alb1"]; !ok {
			t.Error("expected enriched album cached")
		}
	})

	t.Run("Cache Hit Skips Catalog", func(t *testing.T) {
		cache := helpers.NewMemoryAlbumCache()
		cache.Put(models.Album{ID: "alb1", Title: "Cached", Genre: "Rock"})

		library := &helpers.MockLibrary{
			PlaylistTracksFunc: func(ctx context.Context, playlistID string) ([]services.PlaylistTrack, error) {
				return playlistTracks(models.Album{ID: "alb1", Title: "Partial"}), nil
			},
		}
		catalog := &helpers.MockCatalog{
			GetAlbumFunc: func(ctx context.Context, id string) (*models.Album, error) {
				t.Error("cached album must not hit the catalog")
				return nil, nil
			},
		}
		engine := testEngine(catalog, library, cache)

		albums, err := engine.Load(context.Background(), "pl1", nil)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if albums[0].Title != "Cached" {
			t.Errorf("expected cached record, got %+v", albums[0])
		}
	})

	t.Run("Enrichment Failure Falls Back To Embedded Album", func(t *testing.T) {
		embedded := models.Album{ID: "alb1", Title: "From Track", Artist: "Artist", Year: 2001}
		library := &helpers.MockLibrary{
			PlaylistTracksFunc: func(ctx context.Context, playlistID string) ([]services.PlaylistTrack, error) {
				return playlistTracks(embedded), nil
			},
		}
		catalog := &helpers.MockCatalog{
			GetAlbumFunc: func(ctx context.Context, id string) (*models.Album, error) {
				return nil, errors.New("catalog down")
			},
		}
		engine := testEngine(catalog, library, nil)

		albums, err := engine.Load(context.Background(), "pl1", nil)
		if err != nil {
			t.Fatalf("enrichment failure must not fail the load: %v", err)
		}
		if albums[0] != embedded {
			t.Errorf("expected embedded album as fallback, got %+v", albums[0])
		}
	})

	t.Run("Empty Playlist Loads Empty List", func(t *testing.T) {
		library := &helpers.MockLibrary{
			PlaylistTracksFunc: func(ctx context.Context, playlistID string) ([]services.PlaylistTrack, error) {
				return nil, nil
			},
		}
		engine := testEngine(&helpers.MockCatalog{}, library, nil)

		albums, err := engine.Load(context.Background(), "pl1", nil)
		if err != nil {
			t.Fatalf("empty playlist must not error: %v", err)
		}
		if len(albums) != 0 {
			t.Errorf("expected empty list, got %d albums", len(albums))
		}
	})

	t.Run("Track Fetch Failure Is Fatal", func(t *testing.T) {
		library := &helpers.MockLibrary{
			PlaylistTracksFunc: func(ctx context.Context, playlistID string) ([]services.PlaylistTrack, error) {
				return nil, fmt.Errorf("%w: pl1", shared.ErrPlaylistNotFound)
			},
		}
		engine := testEngine(&helpers.MockCatalog{}, library, nil)

		if _, err := engine.Load(context.Background(), "pl1", nil); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected playlist error surfaced, got %v", err)
		}
	})
}

func TestLoadFromMetadata(t *testing.T) {
	meta := &models.PlaylistMetadata{
		Version:    "1",
		AlbumCount: 2,
		Albums: []models.MetadataAlbum{
			{Rank: 1, ID: "alb1", Title: "First", Artist: "A", Year: 1991},
			{Rank: 2, ID: "alb2", Title: "Second", Artist: "B", Year: 1992},
		},
	}

	t.Run("Resolves Through Catalog", func(t *testing.T) {
		catalog := &helpers.MockCatalog{
			GetAlbumFunc: func(ctx context.Context, id string) (*models.Album, error) {
				return &models.Album{ID: id, Title: "Resolved " + id, Genre: "Rock"}, nil
			},
		}
		engine := testEngine(catalog, &helpers.MockLibrary{}, nil)

		albums, err := engine.LoadFromMetadata(context.Background(), meta, nil)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(albums) != 2 || albums[0].Title != "Resolved alb1" {
			t.Errorf("unexpected albums %+v", albums)
		}
	})

	t.Run("Unresolvable Entries Become Stubs", func(t *testing.T) {
		catalog := &helpers.MockCatalog{
			GetAlbumFunc: func(ctx context.Context, id string) (*models.Album, error) {
				return nil, fmt.Errorf("%w: %s", shared.ErrAlbumNotFound, id)
			},
		}
		engine := testEngine(catalog, &helpers.MockLibrary{}, nil)

		albums, err := engine.LoadFromMetadata(context.Background(), meta, nil)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}

		stub := albums[0]
		if stub.ID != "alb1" || stub.Title != "First" || stub.Year != 1991 {
			t.Errorf("expected stub from metadata fields, got %+v", stub)
		}
		if stub.Genre != "Unknown" || stub.Cover != services.PlaceholderCover {
			t.Errorf("expected stub fallbacks, got %+v", stub)
		}
	})

	t.Run("Nil Metadata", func(t *testing.T) {
		engine := testEngine(&helpers.MockCatalog{}, &helpers.MockLibrary{}, nil)
		if _, err := engine.LoadFromMetadata(context.Background(), nil, nil); !errors.Is(err, shared.ErrPlaylistEmpty) {
			t.Errorf("expected ErrPlaylistEmpty, got %v", err)
		}
	})
}
