package tasks

import (
	"fmt"

	"github.com/nlandais/top50/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	PhaseFindCounterpart Phase = iota
	PhaseResolveTracks
	PhaseCreatePlaylist
	PhaseClearPlaylist
	PhaseAddTracks
	PhaseFetchTracks
	PhaseEnrichAlbums
)

func (p Phase) String() string {
	switch p {
	case PhaseFindCounterpart:
		return "find_counterpart"
	case PhaseResolveTracks:
		return "resolve_tracks"
	case PhaseCreatePlaylist:
		return "create_playlist"
	case PhaseClearPlaylist:
		return "clear_playlist"
	case PhaseAddTracks:
		return "add_tracks"
	case PhaseFetchTracks:
		return "fetch_tracks"
	case PhaseEnrichAlbums:
		return "enrich_albums"
	default:
		return ""
	}
}

func findCounterpartUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseFindCounterpart,
		Step:    1,
		Total:   1,
		Message: "Looking for an existing playlist...",
	}
}

func resolveTracksUpdate(step, total int, album models.Album) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Resolving tracks for %s - %s", album.Artist, album.Title),
		Data:    album,
	}
}

func createPlaylistUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseCreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q...", PlaylistName),
	}
}

func clearPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseClearPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Clearing existing playlist %q...", name),
	}
}

func addTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseAddTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Adding %d tracks to the playlist...", count),
	}
}

func fetchTracksUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseFetchTracks,
		Step:    1,
		Total:   1,
		Message: "Fetching playlist tracks...",
	}
}

func enrichAlbumUpdate(step, total int, album models.Album) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseEnrichAlbums,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Loading album details for %s - %s", album.Artist, album.Title),
		Data:    album,
	}
}
