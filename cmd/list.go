package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nlandais/top50/internal/formatter"
	"github.com/nlandais/top50/internal/models"
	"github.com/nlandais/top50/internal/shared"
	"github.com/urfave/cli/v3"
)

// ListShow prints the ranked list.
func (r *Runner) ListShow(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	ranked := store.lists.Load()

	if cmd.Bool("json") {
		return r.writeJSON(ranked, cmd.Bool("pretty"))
	}

	if len(ranked.Albums) == 0 {
		return r.writePlain("The ranked list is empty. Add albums with: top50 list add <id>\n")
	}

	r.writePlain("Top %d albums (%s mode):\n\n", len(ranked.Albums), ranked.Mode)
	for i, album := range ranked.Albums {
		r.writePlain("%d. %s - %s", i+1, album.Artist, album.Title)
		if album.Year > 0 {
			r.writePlain(" (%d)", album.Year)
		}
		r.writePlain("\n")
	}

	if len(ranked.Albums) > models.MaxAlbums {
		r.writePlain("\n⚠ List exceeds %d albums\n", models.MaxAlbums)
	}
	return nil
}

// ListAdd looks up an album by catalog id and adds it to the list.
func (r *Runner) ListAdd(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: album id is required", shared.ErrMissingArgument)
	}

	album, err := r.catalog.GetAlbum(ctx, id)
	if err != nil {
		return err
	}

	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	ranked := store.lists.Load()
	res := ranked.Add(*album)
	if !res.Added {
		return r.writePlain("%s is already ranked\n", album.Title)
	}

	store.lists.Save(ranked)

	r.writePlain("✓ Added %s - %s\n", album.Artist, album.Title)
	if res.OverCap {
		r.writePlain("⚠ List now exceeds %d albums\n", models.MaxAlbums)
	}
	return nil
}

// ListRemove removes an album, addressed by 1-based rank or by id.
func (r *Runner) ListRemove(ctx context.Context, cmd *cli.Command) error {
	target := strings.TrimSpace(cmd.StringArg("target"))
	if target == "" {
		return fmt.Errorf("%w: rank or album id is required", shared.ErrMissingArgument)
	}

	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	ranked := store.lists.Load()

	album, ok := resolveAlbum(ranked.Albums, target)
	if !ok {
		return fmt.Errorf("%w: no ranked album matches %q", shared.ErrAlbumNotFound, target)
	}

	ranked.Remove(album.ID)
	store.lists.Save(ranked)

	return r.writePlain("✓ Removed %s - %s\n", album.Artist, album.Title)
}

// ListMove relocates an album between 1-based ranks. Only effective in manual mode.
func (r *Runner) ListMove(ctx context.Context, cmd *cli.Command) error {
	from, fromErr := strconv.Atoi(cmd.StringArg("from"))
	to, toErr := strconv.Atoi(cmd.StringArg("to"))
	if fromErr != nil || toErr != nil || from < 1 || to < 1 {
		return fmt.Errorf("%w: ranks are 1-based integers", shared.ErrInvalidArgument)
	}

	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	ranked := store.lists.Load()
	if ranked.Mode != models.SortModeManual {
		return r.writePlain("⚠ List is in %s mode. Switch first: top50 list mode manual\n", ranked.Mode)
	}
	if from > len(ranked.Albums) {
		return fmt.Errorf("%w: rank %d out of range", shared.ErrInvalidArgument, from)
	}

	ranked.Move(from-1, to-1)
	store.lists.Save(ranked)

	return r.writePlain("✓ Moved rank %d to %d\n", from, to)
}

// ListSort switches to date mode, sorting by release year.
func (r *Runner) ListSort(ctx context.Context, cmd *cli.Command) error {
	var dir models.Direction
	switch cmd.String("direction") {
	case "asc":
		dir = models.Ascending
	case "desc":
		dir = models.Descending
	default:
		return fmt.Errorf("%w: direction must be asc or desc", shared.ErrInvalidArgument)
	}

	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	ranked := store.lists.Load()
	ranked.SetDateMode(dir)
	store.lists.Save(ranked)

	return r.writePlain("✓ Sorted by year (%s)\n", dir)
}

// ListMode switches the ordering mode.
func (r *Runner) ListMode(ctx context.Context, cmd *cli.Command) error {
	mode := cmd.StringArg("mode")

	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	ranked := store.lists.Load()
	switch models.SortMode(mode) {
	case models.SortModeManual:
		ranked.SetManualMode()
	case models.SortModeDate:
		ranked.SetDateMode(ranked.Direction)
	default:
		return fmt.Errorf("%w: mode must be date or manual", shared.ErrInvalidArgument)
	}
	store.lists.Save(ranked)

	return r.writePlain("✓ Sort mode: %s\n", ranked.Mode)
}

// ListClear empties the ranked list. The save that precedes the clear leaves
// an automatic backup behind for recovery.
func (r *Runner) ListClear(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	ranked := store.lists.Load()
	if len(ranked.Albums) > 0 {
		if _, err := store.backups.Create(ranked.Albums, models.SourceLocal, "before clear", ""); err != nil {
			r.logger.Warn("failed to back up before clear", "error", err)
		}
	}

	store.lists.Clear()
	return r.writePlain("✓ Ranked list cleared\n")
}

// ListExport writes the ranked list to disk in the requested format.
func (r *Runner) ListExport(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	ranked := store.lists.Load()
	if len(ranked.Albums) == 0 {
		return fmt.Errorf("%w: nothing to export", shared.ErrPlaylistEmpty)
	}

	output := cmd.String("output")
	title := cmd.String("title")

	switch cmd.String("format") {
	case "csv":
		files, err := formatter.WriteCSVExport(ranked.Albums, output)
		if err != nil {
			return err
		}
		for _, f := range files {
			r.writePlain("✓ Wrote %s\n", f)
		}
		return nil

	case "markdown", "md":
		var cover string
		if len(ranked.Albums) > 0 {
			cover = ranked.Albums[0].Cover
		}
		result, err := formatter.WriteMarkdownExport(ranked.Albums, output, title, cover)
		if err != nil {
			return err
		}
		for _, f := range result.Files {
			r.writePlain("✓ Wrote %s\n", f)
		}
		return nil

	case "text", "txt":
		path, err := formatter.WriteTextExport(ranked.Albums, output, title)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Wrote %s\n", path)

	case "json":
		data, err := formatter.ExportToJSON(ranked.Albums)
		if err != nil {
			return err
		}
		if output == "" {
			output = "top50.json"
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		return r.writePlain("✓ Wrote %s\n", output)

	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, cmd.String("format"))
	}
}

// resolveAlbum finds a ranked album by 1-based rank or by id.
func resolveAlbum(albums []models.Album, target string) (models.Album, bool) {
	if rank, err := strconv.Atoi(target); err == nil {
		if rank >= 1 && rank <= len(albums) {
			return albums[rank-1], true
		}
		return models.Album{}, false
	}
	for _, album := range albums {
		if album.ID == target {
			return album, true
		}
	}
	return models.Album{}, false
}
