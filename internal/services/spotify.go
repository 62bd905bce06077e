// Spotify Web API implementations of [Catalog] and [Library]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/nlandais/top50/internal/auth"
	"github.com/nlandais/top50/internal/models"
	"github.com/nlandais/top50/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// PlaceholderCover stands in when an album has no artwork.
	PlaceholderCover = "https://placehold.co/300x300?text=No+Cover"

	searchLimitDefault = 20
	trackBatchSize     = 100
	pageSize           = 50
)

var errNotFound = errors.New("resource not found")

type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

type spotifyAlbum struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []spotifyArtist `json:"artists"`
	ReleaseDate  string          `json:"release_date"`
	TotalTracks  int             `json:"total_tracks"`
	Genres       []string        `json:"genres"`
	Images       []spotifyImage  `json:"images"`
	ExternalURLs externalURLs    `json:"external_urls"`
	URI          string          `json:"uri"`
}

type spotifyTrack struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	URI   string       `json:"uri"`
	Album spotifyAlbum `json:"album"`
}

type spotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

type spotifyPlaylist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	Tracks      struct {
		Total int `json:"total"`
	} `json:"tracks"`
	ExternalURLs externalURLs `json:"external_urls"`
	URI          string       `json:"uri"`
}

type paginatedPlaylists struct {
	Items []spotifyPlaylist `json:"items"`
	Next  *string           `json:"next"`
}

type paginatedPlaylistTracks struct {
	Items []struct {
		Track spotifyTrack `json:"track"`
	} `json:"items"`
	Next *string `json:"next"`
}

type paginatedAlbumTracks struct {
	Items []struct {
		URI string `json:"uri"`
	} `json:"items"`
	Next *string `json:"next"`
}

// SpotifyService implements [Catalog] and [Library] against the Spotify
// Web API. Catalog calls authenticate with an application token from the
// configured [AppTokenSource]; library calls use the user session token
// held by the [auth.Store].
type SpotifyService struct {
	baseURL    string
	httpClient *http.Client
	appTokens  AppTokenSource
	session    *auth.Store
	logger     *log.Logger
}

// NewSpotifyService creates a Spotify client. appTokens supplies catalog
// credentials and may be a [ClientCredentialsSource] or a [GatewayClient];
// session may be nil when only catalog operations are needed.
func NewSpotifyService(appTokens AppTokenSource, session *auth.Store, logger *log.Logger) *SpotifyService {
	return &SpotifyService{
		baseURL:    spotifyBaseURL,
		httpClient: http.DefaultClient,
		appTokens:  appTokens,
		session:    session,
		logger:     logger,
	}
}

// doRequest performs an authenticated request against the API and decodes
// the JSON response into result when non-nil.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint, token string, body, result any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return shared.ErrTokenExpired
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: %s %s returned status %d", shared.ErrAPIRequest, method, endpoint, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func (s *SpotifyService) appToken(ctx context.Context) (string, error) {
	if s.appTokens == nil {
		return "", shared.ErrMissingCredentials
	}
	return s.appTokens.Token(ctx)
}

func (s *SpotifyService) userToken() (string, error) {
	if s.session == nil || !s.session.Authenticated() {
		return "", shared.ErrNotAuthenticated
	}
	return s.session.Token().AccessToken, nil
}

// Catalog implementation

// SearchAlbums searches the catalog. A blank query short-circuits to an
// empty result without touching the network.
func (s *SpotifyService) SearchAlbums(ctx context.Context, query string, limit int) ([]models.Album, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 || limit > pageSize {
		limit = searchLimitDefault
	}

	token, err := s.appToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSearchFailed, err)
	}

	endpoint := fmt.Sprintf("/search?q=%s&type=album&limit=%d", url.QueryEscape(query), limit)

	var response struct {
		Albums struct {
			Items []spotifyAlbum `json:"items"`
		} `json:"albums"`
	}
	if err := s.doRequest(ctx, http.MethodGet, endpoint, token, nil, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSearchFailed, err)
	}

	albums := make([]models.Album, 0, len(response.Albums.Items))
	for _, item := range response.Albums.Items {
		albums = append(albums, mapAlbum(item))
	}
	return albums, nil
}

// GetAlbum retrieves a single album. A missing id returns
// [shared.ErrAlbumNotFound]; the caller decides whether that matters.
func (s *SpotifyService) GetAlbum(ctx context.Context, id string) (*models.Album, error) {
	token, err := s.appToken(ctx)
	if err != nil {
		return nil, err
	}

	var raw spotifyAlbum
	if err := s.doRequest(ctx, http.MethodGet, "/albums/"+url.PathEscape(id), token, nil, &raw); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, fmt.Errorf("%w: %s", shared.ErrAlbumNotFound, id)
		}
		return nil, err
	}

	album := mapAlbum(raw)
	return &album, nil
}

// GetAlbumTracks returns the album's track URIs in disc order.
func (s *SpotifyService) GetAlbumTracks(ctx context.Context, id string) ([]string, error) {
	token, err := s.appToken(ctx)
	if err != nil {
		return nil, err
	}

	var uris []string
	offset := 0
	for {
		endpoint := fmt.Sprintf("/albums/%s/tracks?limit=%d&offset=%d", url.PathEscape(id), pageSize, offset)

		var page paginatedAlbumTracks
		if err := s.doRequest(ctx, http.MethodGet, endpoint, token, nil, &page); err != nil {
			if errors.Is(err, errNotFound) {
				return nil, fmt.Errorf("%w: %s", shared.ErrAlbumNotFound, id)
			}
			return nil, err
		}

		for _, item := range page.Items {
			uris = append(uris, item.URI)
		}
		if page.Next == nil {
			break
		}
		offset += pageSize
	}

	return uris, nil
}

// Library implementation

// CurrentUser retrieves the logged-in user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*auth.Profile, error) {
	token, err := s.userToken()
	if err != nil {
		return nil, err
	}

	var user spotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", token, nil, &user); err != nil {
		return nil, err
	}

	return &auth.Profile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
	}, nil
}

// UserPlaylists retrieves every playlist in the user's library.
func (s *SpotifyService) UserPlaylists(ctx context.Context) ([]models.PlaylistRef, error) {
	token, err := s.userToken()
	if err != nil {
		return nil, err
	}

	var refs []models.PlaylistRef
	offset := 0
	for {
		endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", pageSize, offset)

		var page paginatedPlaylists
		if err := s.doRequest(ctx, http.MethodGet, endpoint, token, nil, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			refs = append(refs, mapPlaylist(item))
		}
		if page.Next == nil {
			break
		}
		offset += pageSize
	}

	return refs, nil
}

// CreatePlaylist creates a private playlist in the user's library.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, name, description string) (*models.PlaylistRef, error) {
	token, err := s.userToken()
	if err != nil {
		return nil, err
	}

	profile := s.session.Profile()
	if profile == nil {
		profile, err = s.CurrentUser(ctx)
		if err != nil {
			return nil, err
		}
		s.session.SetProfile(profile)
	}

	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      false,
	}

	var created spotifyPlaylist
	endpoint := "/users/" + url.PathEscape(profile.ID) + "/playlists"
	if err := s.doRequest(ctx, http.MethodPost, endpoint, token, body, &created); err != nil {
		return nil, err
	}

	ref := mapPlaylist(created)
	return &ref, nil
}

// AddTracks appends track URIs to a playlist in batches of at most 100,
// the API's per-request limit. Batches are sent in order so playlist
// position follows slice position.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	token, err := s.userToken()
	if err != nil {
		return err
	}

	endpoint := "/playlists/" + url.PathEscape(playlistID) + "/tracks"
	for start := 0; start < len(uris); start += trackBatchSize {
		end := min(start+trackBatchSize, len(uris))

		body := map[string]any{"uris": uris[start:end]}
		if err := s.doRequest(ctx, http.MethodPost, endpoint, token, body, nil); err != nil {
			if errors.Is(err, errNotFound) {
				return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
			}
			return err
		}
	}

	return nil
}

// ClearPlaylist replaces the playlist's contents with nothing.
func (s *SpotifyService) ClearPlaylist(ctx context.Context, playlistID string) error {
	token, err := s.userToken()
	if err != nil {
		return err
	}

	endpoint := "/playlists/" + url.PathEscape(playlistID) + "/tracks"
	body := map[string]any{"uris": []string{}}
	if err := s.doRequest(ctx, http.MethodPut, endpoint, token, body, nil); err != nil {
		if errors.Is(err, errNotFound) {
			return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
		}
		return err
	}
	return nil
}

// UpdateDescription replaces the playlist's description text.
func (s *SpotifyService) UpdateDescription(ctx context.Context, playlistID, description string) error {
	token, err := s.userToken()
	if err != nil {
		return err
	}

	endpoint := "/playlists/" + url.PathEscape(playlistID)
	body := map[string]any{"description": description}
	if err := s.doRequest(ctx, http.MethodPut, endpoint, token, body, nil); err != nil {
		if errors.Is(err, errNotFound) {
			return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
		}
		return err
	}
	return nil
}

// PlaylistTracks retrieves the playlist's tracks in playlist order. Each
// entry carries the track's parent album as embedded in the response.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string) ([]PlaylistTrack, error) {
	token, err := s.userToken()
	if err != nil {
		return nil, err
	}

	var tracks []PlaylistTrack
	offset := 0
	for {
		endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=%d", url.PathEscape(playlistID), trackBatchSize, offset)

		var page paginatedPlaylistTracks
		if err := s.doRequest(ctx, http.MethodGet, endpoint, token, nil, &page); err != nil {
			if errors.Is(err, errNotFound) {
				return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
			}
			return nil, err
		}

		for _, item := range page.Items {
			// locally-saved files come back with no track object
			if item.Track.ID == "" && item.Track.URI == "" {
				continue
			}
			tracks = append(tracks, PlaylistTrack{
				URI:   item.Track.URI,
				Album: mapAlbum(item.Track.Album),
			})
		}
		if page.Next == nil {
			break
		}
		offset += trackBatchSize
	}

	return tracks, nil
}

// mapAlbum converts the wire album into the application model: all artist
// names joined, year pulled from the release date prefix, and fallbacks
// for genre and artwork.
func mapAlbum(raw spotifyAlbum) models.Album {
	names := make([]string, 0, len(raw.Artists))
	for _, artist := range raw.Artists {
		names = append(names, artist.Name)
	}
	artist := strings.Join(names, ", ")
	if artist == "" {
		artist = "Unknown Artist"
	}

	year := 0
	if len(raw.ReleaseDate) >= 4 {
		if parsed, err := strconv.Atoi(raw.ReleaseDate[:4]); err == nil {
			year = parsed
		}
	}

	genre := "Unknown"
	if len(raw.Genres) > 0 {
		genre = raw.Genres[0]
	}

	cover := PlaceholderCover
	if len(raw.Images) > 0 {
		cover = raw.Images[0].URL
	}

	return models.Album{
		ID:          raw.ID,
		Title:       raw.Name,
		Artist:      artist,
		Year:        year,
		Genre:       genre,
		Cover:       cover,
		ExternalURL: raw.ExternalURLs.Spotify,
	}
}

func mapPlaylist(raw spotifyPlaylist) models.PlaylistRef {
	return models.PlaylistRef{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		ExternalURL: raw.ExternalURLs.Spotify,
		Public:      raw.Public,
		TrackCount:  raw.Tracks.Total,
	}
}
