package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nlandais/top50/internal/auth"
	"github.com/nlandais/top50/internal/shared"
	"golang.org/x/oauth2"
)

type staticTokenSource struct {
	token string
	err   error
	calls int
}

func (s *staticTokenSource) Token(ctx context.Context) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.token, nil
}

func testService(t *testing.T, handler http.Handler) (*SpotifyService, *auth.Store) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	session := auth.NewStore()
	svc := NewSpotifyService(&staticTokenSource{token: "app-token"}, session, shared.NewLogger(io.Discard))
	svc.baseURL = server.URL
	return svc, session
}

func loginSession(session *auth.Store) {
	session.SetToken(&oauth2.Token{
		AccessToken: "user-token",
		Expiry:      time.Now().Add(time.Hour),
	})
}

func TestSearchAlbums(t *testing.T) {
	t.Run("Maps Results", func(t *testing.T) {
		svc, _ := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer app-token" {
				t.Errorf("expected app token auth header, got %q", got)
			}
			if got := r.URL.Query().Get("type"); got != "album" {
				t.Errorf("expected album search, got type=%q", got)
			}
			fmt.Fprint(w, `{"albums":{"items":[{
				"id": "alb1",
				"name": "In Rainbows",
				"artists": [{"id": "art1", "name": "Radiohead"}, {"id": "art2", "name": "Guest"}],
				"release_date": "2007-10-10",
				"images": [{"url": "https://img/large.jpg"}, {"url": "https://img/small.jpg"}],
				"external_urls": {"spotify": "https://open.spotify.com/album/alb1"}
			}]}}`)
		}))

		albums, err := svc.SearchAlbums(context.Background(), "in rainbows", 20)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if len(albums) != 1 {
			t.Fatalf("expected 1 album, got %d", len(albums))
		}

		album := albums[0]
		if album.Artist != "Radiohead, Guest" {
			t.Errorf("expected all artists joined, got %q", album.Artist)
		}
		if album.Year != 2007 {
			t.Errorf("expected year from release date, got %d", album.Year)
		}
		if album.Genre != "Unknown" {
			t.Errorf("expected genre fallback, got %q", album.Genre)
		}
		if album.Cover != "https://img/large.jpg" {
			t.Errorf("expected first image as cover, got %q", album.Cover)
		}
	})

	t.Run("Empty Query Skips Network", func(t *testing.T) {
		var hits int
		svc, _ := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
		}))

		for _, query := range []string{"", "   ", "\t\n"} {
			albums, err := svc.SearchAlbums(context.Background(), query, 20)
			if err != nil {
				t.Errorf("blank query %q should not fail: %v", query, err)
			}
			if len(albums) != 0 {
				t.Errorf("blank query %q should return no results", query)
			}
		}

		if hits != 0 {
			t.Errorf("blank queries must not hit the network, saw %d requests", hits)
		}
	})

	t.Run("API Failure Wraps ErrSearchFailed", func(t *testing.T) {
		svc, _ := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		albums, err := svc.SearchAlbums(context.Background(), "anything", 20)
		if !errors.Is(err, shared.ErrSearchFailed) {
			t.Errorf("expected ErrSearchFailed, got %v", err)
		}
		if len(albums) != 0 {
			t.Error("failed search should return no results")
		}
	})

	t.Run("Missing Cover Uses Placeholder", func(t *testing.T) {
		svc, _ := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"albums":{"items":[{"id": "alb1", "name": "Bare", "artists": [], "release_date": ""}]}}`)
		}))

		albums, err := svc.SearchAlbums(context.Background(), "bare", 20)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if albums[0].Cover != PlaceholderCover {
			t.Errorf("expected placeholder cover, got %q", albums[0].Cover)
		}
		if albums[0].Artist != "Unknown Artist" {
			t.Errorf("expected artist fallback, got %q", albums[0].Artist)
		}
		if albums[0].Year != 0 {
			t.Errorf("expected zero year for empty release date, got %d", albums[0].Year)
		}
	})
}

func TestGetAlbum(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		svc, _ := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{
				"id": "alb1", "name": "OK Computer",
				"artists": [{"name": "Radiohead"}],
				"release_date": "1997-05-21",
				"genres": ["Alternative"],
				"images": [{"url": "https://img/ok.jpg"}]
			}`)
		}))

		album, err := svc.GetAlbum(context.Background(), "alb1")
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if album.Title != "OK Computer" || album.Genre != "Alternative" {
			t.Errorf("unexpected album: %+v", album)
		}
	})

	t.Run("Not Found", func(t *testing.T) {
		svc, _ := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		_, err := svc.GetAlbum(context.Background(), "missing")
		if !errors.Is(err, shared.ErrAlbumNotFound) {
			t.Errorf("expected ErrAlbumNotFound, got %v", err)
		}
	})
}

func TestGetAlbumTracks(t *testing.T) {
	svc, _ := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [{"uri": "spotify:track:t1"}, {"uri": "spotify:track:t2"}], "next": null}`)
	}))

	uris, err := svc.GetAlbumTracks(context.Background(), "alb1")
	if err != nil {
		t.Fatalf("track lookup failed: %v", err)
	}
	if len(uris) != 2 || uris[0] != "spotify:track:t1" {
		t.Errorf("unexpected uris: %v", uris)
	}
}

func TestLibraryAuthentication(t *testing.T) {
	svc, _ := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unauthenticated call must not reach the API")
	}))

	if _, err := svc.CurrentUser(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := svc.UserPlaylists(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
	if err := svc.AddTracks(context.Background(), "pl1", []string{"u"}); !errors.Is(err, shared.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestUserPlaylists(t *testing.T) {
	t.Run("Follows Pagination", func(t *testing.T) {
		var mu sync.Mutex
		var offsets []string
		svc, session := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			offsets = append(offsets, r.URL.Query().Get("offset"))
			mu.Unlock()

			if r.URL.Query().Get("offset") == "0" {
				fmt.Fprint(w, `{"items": [{"id": "pl1", "name": "First", "tracks": {"total": 3}}], "next": "https://api/page2"}`)
				return
			}
			fmt.Fprint(w, `{"items": [{"id": "pl2", "name": "Second", "tracks": {"total": 7}}], "next": null}`)
		}))
		loginSession(session)

		refs, err := svc.UserPlaylists(context.Background())
		if err != nil {
			t.Fatalf("playlist listing failed: %v", err)
		}
		if len(refs) != 2 {
			t.Fatalf("expected 2 playlists across pages, got %d", len(refs))
		}
		if refs[1].TrackCount != 7 {
			t.Errorf("expected track count mapped, got %d", refs[1].TrackCount)
		}
		if len(offsets) != 2 || offsets[0] != "0" {
			t.Errorf("unexpected pagination offsets: %v", offsets)
		}
	})

	t.Run("Expired Upstream Token", func(t *testing.T) {
		svc, session := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		loginSession(session)

		_, err := svc.UserPlaylists(context.Background())
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
	})
}

func TestCreatePlaylist(t *testing.T) {
	svc, session := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/me":
			fmt.Fprint(w, `{"id": "user1", "display_name": "User One"}`)
		case "/users/user1/playlists":
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			if body["public"] != false {
				t.Error("created playlist must be private")
			}
			fmt.Fprintf(w, `{"id": "pl-new", "name": "%s", "description": "%s"}`, body["name"], body["description"])
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	loginSession(session)

	ref, err := svc.CreatePlaylist(context.Background(), "🎵 Top 50 Albums", "curated")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if ref.ID != "pl-new" || ref.Name != "🎵 Top 50 Albums" {
		t.Errorf("unexpected playlist ref: %+v", ref)
	}
	if session.Profile() == nil || session.Profile().ID != "user1" {
		t.Error("expected fetched profile cached in session")
	}
}

func TestAddTracks(t *testing.T) {
	t.Run("Batches At API Limit", func(t *testing.T) {
		var batches [][]string
		svc, session := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				URIs []string `json:"uris"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			batches = append(batches, body.URIs)
			fmt.Fprint(w, `{"snapshot_id": "snap"}`)
		}))
		loginSession(session)

		uris := make([]string, 101)
		for i := range uris {
			uris[i] = fmt.Sprintf("spotify:track:t%03d", i)
		}

		if err := svc.AddTracks(context.Background(), "pl1", uris); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		if len(batches) != 2 {
			t.Fatalf("expected 101 uris split into 2 requests, got %d", len(batches))
		}
		if len(batches[0]) != 100 || len(batches[1]) != 1 {
			t.Errorf("expected batch sizes 100 and 1, got %d and %d", len(batches[0]), len(batches[1]))
		}
		if batches[0][0] != "spotify:track:t000" || batches[1][0] != "spotify:track:t100" {
			t.Error("batches must preserve slice order")
		}
	})

	t.Run("No Tracks No Requests", func(t *testing.T) {
		svc, session := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("empty add should not issue requests")
		}))
		loginSession(session)

		if err := svc.AddTracks(context.Background(), "pl1", nil); err != nil {
			t.Fatalf("empty add failed: %v", err)
		}
	})

	t.Run("Unknown Playlist", func(t *testing.T) {
		svc, session := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		loginSession(session)

		err := svc.AddTracks(context.Background(), "missing", []string{"u"})
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})
}

func TestPlaylistTracks(t *testing.T) {
	svc, session := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [
			{"track": {"id": "t1", "uri": "spotify:track:t1", "album": {
				"id": "alb1", "name": "First Album",
				"artists": [{"name": "Artist A"}],
				"release_date": "1999-01-01"
			}}},
			{"track": {"id": "", "uri": ""}},
			{"track": {"id": "t2", "uri": "spotify:track:t2", "album": {
				"id": "alb2", "name": "Second Album",
				"artists": [{"name": "Artist B"}],
				"release_date": "2004"
			}}}
		], "next": null}`)
	}))
	loginSession(session)

	tracks, err := svc.PlaylistTracks(context.Background(), "pl1")
	if err != nil {
		t.Fatalf("track listing failed: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected local-file entry skipped, got %d tracks", len(tracks))
	}
	if tracks[0].Album.ID != "alb1" || tracks[1].Album.Year != 2004 {
		t.Errorf("unexpected album mapping: %+v", tracks)
	}
}

func TestClientCredentialsSource(t *testing.T) {
	t.Run("Caches Until Near Expiry", func(t *testing.T) {
		var hits int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token": "app-tok", "token_type": "Bearer", "expires_in": 3600}`)
		}))
		defer server.Close()

		source := NewClientCredentialsSource("id", "secret")
		source.conf.TokenURL = server.URL

		for i := 0; i < 3; i++ {
			token, err := source.Token(context.Background())
			if err != nil {
				t.Fatalf("token fetch %d failed: %v", i, err)
			}
			if token != "app-tok" {
				t.Errorf("unexpected token %q", token)
			}
		}

		if hits != 1 {
			t.Errorf("expected a single upstream fetch, got %d", hits)
		}
	})

	t.Run("Refreshes Near Expiry", func(t *testing.T) {
		var hits int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			w.Header().Set("Content-Type", "application/json")
			// expires inside the refresh buffer, so every call refetches
			fmt.Fprint(w, `{"access_token": "app-tok", "token_type": "Bearer", "expires_in": 30}`)
		}))
		defer server.Close()

		source := NewClientCredentialsSource("id", "secret")
		source.conf.TokenURL = server.URL

		source.Token(context.Background())
		source.Token(context.Background())

		if hits != 2 {
			t.Errorf("expected refresh for token inside the expiry buffer, got %d fetches", hits)
		}
	})

	t.Run("Upstream Failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		source := NewClientCredentialsSource("id", "secret")
		source.conf.TokenURL = server.URL

		if _, err := source.Token(context.Background()); !errors.Is(err, shared.ErrRefreshFailed) {
			t.Errorf("expected ErrRefreshFailed, got %v", err)
		}
	})
}

func TestOAuthConfig(t *testing.T) {
	config := OAuthConfig(shared.SpotifyConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost:3000/callback",
	})

	url := config.AuthCodeURL("state123")
	if url == "" {
		t.Fatal("expected auth URL")
	}
	for _, want := range []string{"accounts.spotify.com", "state123", "playlist-modify-private"} {
		if !strings.Contains(url, want) {
			t.Errorf("auth URL missing %q: %s", want, url)
		}
	}
}
