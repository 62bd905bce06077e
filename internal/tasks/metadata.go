package tasks

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/nlandais/top50/internal/models"
)

// Playlist descriptions come back from the API with HTML entities applied,
// so the closing tag's slash may appear as &#x2F;.
var (
	compactMetadataRe = regexp.MustCompile(`\[MT50\](.*?)\[(?:&#x2F;|&#x2f;|/)MT50\]`)
	legacyMetadataRe  = regexp.MustCompile(`\[MUSIC_TOP_50\](.*?)\[/MUSIC_TOP_50\]`)

	htmlEntityDecoder = strings.NewReplacer(
		"&quot;", `"`,
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&#x27;", "'",
		"&#x2F;", "/",
		"&#x2f;", "/",
	)
)

// compactMetadata is the abbreviated wire form embedded in playlist
// descriptions, which cap at 300 characters.
type compactMetadata struct {
	Version   string         `json:"v"`
	CreatedAt string         `json:"t"`
	Count     int            `json:"c"`
	Albums    []compactAlbum `json:"a"`
}

type compactAlbum struct {
	Rank   int    `json:"r"`
	ID     string `json:"i"`
	Title  string `json:"n"`
	Artist string `json:"ar"`
	Year   int    `json:"y"`
}

// ParsePlaylistMetadata extracts the advisory metadata block from a
// playlist description. Tries the compact [MT50] format first, then the
// legacy [MUSIC_TOP_50] format. Returns false when no block is present or
// the embedded JSON does not parse.
func ParsePlaylistMetadata(description string) (*models.PlaylistMetadata, bool) {
	if description == "" {
		return nil, false
	}

	if match := compactMetadataRe.FindStringSubmatch(description); match != nil {
		decoded := htmlEntityDecoder.Replace(match[1])

		var compact compactMetadata
		if err := json.Unmarshal([]byte(decoded), &compact); err != nil {
			return nil, false
		}

		meta := &models.PlaylistMetadata{
			Version:    compact.Version,
			CreatedAt:  compact.CreatedAt,
			AlbumCount: compact.Count,
			Albums:     make([]models.MetadataAlbum, 0, len(compact.Albums)),
		}
		for _, album := range compact.Albums {
			meta.Albums = append(meta.Albums, models.MetadataAlbum{
				Rank:   album.Rank,
				ID:     album.ID,
				Title:  album.Title,
				Artist: album.Artist,
				Year:   album.Year,
			})
		}
		return meta, true
	}

	if match := legacyMetadataRe.FindStringSubmatch(description); match != nil {
		var meta models.PlaylistMetadata
		if err := json.Unmarshal([]byte(htmlEntityDecoder.Replace(match[1])), &meta); err != nil {
			return nil, false
		}
		return &meta, true
	}

	return nil, false
}

// EncodeMetadata renders the ranked list as a compact metadata block for
// embedding in a playlist description.
func EncodeMetadata(albums []models.Album, createdAt time.Time) string {
	compact := compactMetadata{
		Version:   "1",
		CreatedAt: createdAt.UTC().Format(time.RFC3339),
		Count:     len(albums),
		Albums:    make([]compactAlbum, 0, len(albums)),
	}
	for i, album := range albums {
		compact.Albums = append(compact.Albums, compactAlbum{
			Rank:   i + 1,
			ID:     album.ID,
			Title:  album.Title,
			Artist: album.Artist,
			Year:   album.Year,
		})
	}

	data, err := json.Marshal(compact)
	if err != nil {
		return ""
	}
	return "[MT50]" + string(data) + "[/MT50]"
}
