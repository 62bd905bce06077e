package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/nlandais/top50/internal/models"
	"github.com/nlandais/top50/internal/shared"
	"github.com/nlandais/top50/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistSave writes the ranked list to the managed Spotify playlist.
func (r *Runner) PlaylistSave(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureSession(ctx); err != nil {
		return err
	}

	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	ranked := store.lists.Load()
	if len(ranked.Albums) == 0 {
		return fmt.Errorf("%w: add albums before saving", shared.ErrPlaylistEmpty)
	}

	engine := tasks.NewTopEngine(r.catalog, r.library, store.cache, r.logger)

	progress, wait := r.consumeProgress()
	result, err := engine.Save(ctx, ranked.Albums, tasks.SaveOpts{EmbedMetadata: cmd.Bool("metadata")}, progress)
	close(progress)
	wait()
	if err != nil {
		return err
	}

	if result.IsUpdate {
		r.writePlain("✓ Updated playlist %q (%d tracks)\n", result.Playlist.Name, result.TracksAdded)
	} else {
		r.writePlain("✓ Created playlist %q (%d tracks)\n", result.Playlist.Name, result.TracksAdded)
	}
	if result.Playlist.ExternalURL != "" {
		r.writePlain("  %s\n", result.Playlist.ExternalURL)
	}
	return nil
}

// PlaylistLoad rebuilds the ranked list from the Spotify playlist. Track
// membership is authoritative; description metadata is only consulted when
// the playlist has no usable tracks.
func (r *Runner) PlaylistLoad(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureSession(ctx); err != nil {
		return err
	}

	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	engine := tasks.NewTopEngine(r.catalog, r.library, store.cache, r.logger)

	playlist, err := r.resolvePlaylist(ctx, engine, cmd.String("id"))
	if err != nil {
		return err
	}

	progress, wait := r.consumeProgress()
	albums, err := engine.Load(ctx, playlist.ID, progress)
	close(progress)
	wait()
	if err != nil {
		return err
	}

	if len(albums) == 0 {
		if meta, ok := tasks.ParsePlaylistMetadata(playlist.Description); ok {
			r.logger.Info("playlist has no usable tracks, falling back to description metadata")
			metaProgress, metaWait := r.consumeProgress()
			albums, err = engine.LoadFromMetadata(ctx, meta, metaProgress)
			close(metaProgress)
			metaWait()
			if err != nil {
				return err
			}
		}
	}

	if len(albums) == 0 {
		return fmt.Errorf("%w: %q has no album tracks", shared.ErrPlaylistEmpty, playlist.Name)
	}

	ranked := store.lists.Load()
	if len(ranked.Albums) > 0 {
		if _, err := store.backups.Create(ranked.Albums, models.SourceLocal, "before playlist load", ""); err != nil {
			r.logger.Warn("failed to back up before load", "error", err)
		}
	}

	ranked.Replace(albums)
	store.lists.Save(ranked)

	if _, err := store.backups.Create(albums, models.SourceRemote, "loaded from playlist", playlist.ID); err != nil {
		r.logger.Warn("failed to record remote backup", "error", err)
	}

	return r.writePlain("✓ Loaded %d albums from %q\n", len(albums), playlist.Name)
}

// PlaylistFind locates the managed playlist in the user's library.
func (r *Runner) PlaylistFind(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureSession(ctx); err != nil {
		return err
	}

	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	engine := tasks.NewTopEngine(r.catalog, r.library, store.cache, r.logger)

	playlist, err := engine.FindCounterpart(ctx)
	if err != nil {
		return err
	}
	if playlist == nil {
		return r.writePlain("No playlist named %q found. Create one with: top50 playlist save\n", tasks.PlaylistName)
	}

	r.writePlain("✓ Found %q\n", playlist.Name)
	r.writePlain("  ID: %s\n", playlist.ID)
	r.writePlain("  Tracks: %d\n", playlist.TrackCount)
	if playlist.ExternalURL != "" {
		r.writePlain("  %s\n", playlist.ExternalURL)
	}
	if meta, ok := tasks.ParsePlaylistMetadata(playlist.Description); ok {
		r.writePlain("  Metadata: %d albums, created %s\n", meta.AlbumCount, meta.CreatedAt)
	}
	return nil
}

// resolvePlaylist returns the playlist named by id, or the managed counterpart when id is empty.
func (r *Runner) resolvePlaylist(ctx context.Context, engine *tasks.TopEngine, id string) (*models.PlaylistRef, error) {
	if id == "" {
		playlist, err := engine.FindCounterpart(ctx)
		if err != nil {
			return nil, err
		}
		if playlist == nil {
			return nil, fmt.Errorf("%w: no playlist named %q", shared.ErrPlaylistNotFound, tasks.PlaylistName)
		}
		return playlist, nil
	}

	playlists, err := r.library.UserPlaylists(ctx)
	if err != nil {
		return nil, err
	}
	for _, playlist := range playlists {
		if playlist.ID == id {
			return &playlist, nil
		}
	}
	// Not in the user's library; still addressable by id.
	return &models.PlaylistRef{ID: id}, nil
}

// consumeProgress starts a goroutine printing engine progress updates.
// The caller closes the channel and then calls wait.
func (r *Runner) consumeProgress() (chan tasks.ProgressUpdate, func()) {
	progress := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		for update := range progress {
			if update.Total > 0 {
				r.writePlain("  [%d/%d] %s\n", update.Step, update.Total, update.Message)
			} else {
				r.writePlain("  %s\n", update.Message)
			}
		}
	}()

	return progress, wg.Wait
}
