// package models defines the data model for the ranked album list
package models

import (
	"sort"
	"time"
)

// MaxAlbums is the soft cap on ranked list length. Exceeding it is allowed;
// callers surface a warning instead of truncating.
const MaxAlbums = 50

// Album is an immutable record for a catalog album. ID is the identity key
// for dedup and lookups.
type Album struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"` // comma-joined when multiple artists contribute
	Year        int    `json:"year"`   // 0 when the release date is unparseable
	Genre       string `json:"genre"`  // "Unknown" when unavailable
	Cover       string `json:"cover"`
	ExternalURL string `json:"externalUrl"`
}

// SortMode governs how a ranked list maintains its order.
type SortMode string

const (
	SortModeDate   SortMode = "date"   // kept sorted by year, insertions re-sort
	SortModeManual SortMode = "manual" // order is authoritative, mutated only by Move
)

// Direction is the sort direction for date mode.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// BackupSource identifies where a backup snapshot came from.
type BackupSource string

const (
	SourceLocal  BackupSource = "local"
	SourceRemote BackupSource = "spotify"
	SourceShared BackupSource = "shared"
)

// BackupEntry is an immutable snapshot of the ranked list.
type BackupEntry struct {
	ID          string       `json:"id"`
	CreatedAt   time.Time    `json:"createdAt"`
	Albums      []Album      `json:"albums"`
	Source      BackupSource `json:"source"`
	Description string       `json:"description"`
	PlaylistID  string       `json:"playlistId,omitempty"`
}

// PlaylistMetadata is the advisory record embedded in a playlist description.
// Track membership, not this metadata, is the authoritative reconstruction
// signal; the metadata is size-constrained and drifts after manual edits.
type PlaylistMetadata struct {
	Version    string          `json:"version"`
	CreatedAt  string          `json:"createdAt"`
	AlbumCount int             `json:"albumCount"`
	Albums     []MetadataAlbum `json:"albums"`
}

// MetadataAlbum is one ranked entry inside [PlaylistMetadata].
type MetadataAlbum struct {
	Rank   int    `json:"rank"`
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Year   int    `json:"year"`
}

// PlaylistRef identifies a remote playlist.
type PlaylistRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ExternalURL string `json:"externalUrl"`
	Public      bool   `json:"public"`
	TrackCount  int    `json:"trackCount"`
}

// AddAlbum appends album to list unless its id is already present.
// The second return value reports whether the album was added; a duplicate
// add is a no-op. Ordering-mode logic is applied by the caller afterward.
func AddAlbum(list []Album, album Album) ([]Album, bool) {
	for _, a := range list {
		if a.ID == album.ID {
			return list, false
		}
	}
	out := make([]Album, 0, len(list)+1)
	out = append(out, list...)
	return append(out, album), true
}

// RemoveAlbum filters out the album with the given id. Removing an absent id
// is a no-op.
func RemoveAlbum(list []Album, id string) []Album {
	out := make([]Album, 0, len(list))
	for _, a := range list {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

// Move relocates the element at from to position to. Out-of-range indices
// are clamped into the list bounds rather than rejected.
func Move(list []Album, from, to int) []Album {
	if len(list) == 0 {
		return list
	}
	from = clamp(from, 0, len(list)-1)
	to = clamp(to, 0, len(list)-1)
	if from == to {
		out := make([]Album, len(list))
		copy(out, list)
		return out
	}

	out := make([]Album, 0, len(list))
	out = append(out, list...)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)

	tail := make([]Album, len(out)-to)
	copy(tail, out[to:])
	out = append(out[:to], moved)
	return append(out, tail...)
}

// SortByYear returns the list sorted by release year. The sort is stable:
// albums with equal years keep their relative input order.
func SortByYear(list []Album, dir Direction) []Album {
	out := make([]Album, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		if dir == Descending {
			return out[i].Year > out[j].Year
		}
		return out[i].Year < out[j].Year
	})
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
