package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/nlandais/top50/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search queries the catalog for albums. Works with an app token, no login required.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	limit := cmd.Int("limit")
	r.logger.Infof("searching catalog for %q", query)

	albums, err := r.catalog.SearchAlbums(ctx, query, limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(albums, cmd.Bool("pretty"))
	}

	if len(albums) == 0 {
		return r.writePlain("No albums found for %q\n", query)
	}

	r.writePlain("Found %d albums:\n\n", len(albums))
	for i, album := range albums {
		r.writePlain("%d. %s - %s", i+1, album.Artist, album.Title)
		if album.Year > 0 {
			r.writePlain(" (%d)", album.Year)
		}
		r.writePlain("\n   ID: %s\n", album.ID)
	}

	return nil
}
