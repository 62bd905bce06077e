package tasks

import (
	"strings"
	"testing"
	"time"

	"github.com/nlandais/top50/internal/models"
)

func TestParsePlaylistMetadata(t *testing.T) {
	t.Run("Compact Format", func(t *testing.T) {
		description := `My list [MT50]{"v":"1","t":"2024-03-01T12:00:00Z","c":2,"a":[{"r":1,"i":"alb1","n":"First","ar":"Artist A","y":1991},{"r":2,"i":"alb2","n":"Second","ar":"Artist B","y":1992}]}[/MT50]`

		meta, ok := ParsePlaylistMetadata(description)
		if !ok {
			t.Fatal("expected compact block to parse")
		}
		if meta.Version != "1" || meta.AlbumCount != 2 {
			t.Errorf("unexpected header fields %+v", meta)
		}
		if len(meta.Albums) != 2 {
			t.Fatalf("expected 2 albums, got %d", len(meta.Albums))
		}
		if meta.Albums[0].Rank != 1 || meta.Albums[0].ID != "alb1" || meta.Albums[0].Title != "First" {
			t.Errorf("unexpected first entry %+v", meta.Albums[0])
		}
	})

	t.Run("HTML Entity Encoded", func(t *testing.T) {
		// the API entity-encodes descriptions, including the closing tag's slash
		description := `[MT50]{&quot;v&quot;:&quot;1&quot;,&quot;t&quot;:&quot;2024-03-01T12:00:00Z&quot;,&quot;c&quot;:1,&quot;a&quot;:[{&quot;r&quot;:1,&quot;i&quot;:&quot;alb1&quot;,&quot;n&quot;:&quot;Tom&#x27;s Album&quot;,&quot;ar&quot;:&quot;AC&amp;DC&quot;,&quot;y&quot;:1980}]}[&#x2F;MT50]`

		meta, ok := ParsePlaylistMetadata(description)
		if !ok {
			t.Fatal("expected entity-encoded block to parse")
		}
		if meta.Albums[0].Title != "Tom's Album" {
			t.Errorf("expected entities decoded, got %q", meta.Albums[0].Title)
		}
		if meta.Albums[0].Artist != "AC&DC" {
			t.Errorf("expected ampersand decoded, got %q", meta.Albums[0].Artist)
		}
	})

	t.Run("Legacy Format", func(t *testing.T) {
		description := `[MUSIC_TOP_50]{"version":"1","createdAt":"2023-01-01T00:00:00Z","albumCount":1,"albums":[{"rank":1,"id":"alb1","title":"Old","artist":"Artist","year":1970}]}[/MUSIC_TOP_50]`

		meta, ok := ParsePlaylistMetadata(description)
		if !ok {
			t.Fatal("expected legacy block to parse")
		}
		if meta.Albums[0].Title != "Old" || meta.Albums[0].Year != 1970 {
			t.Errorf("unexpected legacy entry %+v", meta.Albums[0])
		}
	})

	t.Run("No Block", func(t *testing.T) {
		for _, description := range []string{"", "just a playlist", "[MT50]unterminated"} {
			if _, ok := ParsePlaylistMetadata(description); ok {
				t.Errorf("expected no parse for %q", description)
			}
		}
	})

	t.Run("Malformed JSON Inside Block", func(t *testing.T) {
		if _, ok := ParsePlaylistMetadata(`[MT50]{broken[/MT50]`); ok {
			t.Error("expected malformed compact block to be rejected")
		}
		if _, ok := ParsePlaylistMetadata(`[MUSIC_TOP_50]{broken[/MUSIC_TOP_50]`); ok {
			t.Error("expected malformed legacy block to be rejected")
		}
	})
}

func TestEncodeMetadata(t *testing.T) {
	albums := []models.Album{
		{ID: "alb1", Title: "First", Artist: "Artist A", Year: 1991},
		{ID: "alb2", Title: "Second", Artist: "Artist B", Year: 1992},
	}
	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	encoded := EncodeMetadata(albums, createdAt)
	if !strings.HasPrefix(encoded, "[MT50]") || !strings.HasSuffix(encoded, "[/MT50]") {
		t.Fatalf("expected tagged block, got %q", encoded)
	}

	meta, ok := ParsePlaylistMetadata(encoded)
	if !ok {
		t.Fatal("encoded block must parse back")
	}
	if meta.CreatedAt != "2024-03-01T12:00:00Z" {
		t.Errorf("unexpected timestamp %q", meta.CreatedAt)
	}
	if meta.AlbumCount != 2 || len(meta.Albums) != 2 {
		t.Errorf("unexpected counts in %+v", meta)
	}
	for i, album := range albums {
		entry := meta.Albums[i]
		if entry.Rank != i+1 || entry.ID != album.ID || entry.Title != album.Title || entry.Year != album.Year {
			t.Errorf("rank %d mismatch: %+v vs %+v", i+1, entry, album)
		}
	}
}
