package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/nlandais/top50/internal/models"
	"github.com/nlandais/top50/internal/share"
	"github.com/nlandais/top50/internal/shared"
	"github.com/urfave/cli/v3"
)

// ShareExport encodes the ranked list as a portable token.
func (r *Runner) ShareExport(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	ranked := store.lists.Load()
	if len(ranked.Albums) == 0 {
		return fmt.Errorf("%w: nothing to share", shared.ErrPlaylistEmpty)
	}

	token, err := share.Encode(ranked.Albums)
	if err != nil {
		return fmt.Errorf("failed to encode share token: %w", err)
	}

	r.writePlain("Share token (%d albums):\n\n%s\n", len(ranked.Albums), token)
	return nil
}

// ShareImport replaces the ranked list with a decoded share token.
func (r *Runner) ShareImport(ctx context.Context, cmd *cli.Command) error {
	token := strings.TrimSpace(cmd.StringArg("token"))
	if token == "" {
		return fmt.Errorf("%w: share token is required", shared.ErrMissingArgument)
	}

	albums, err := share.Decode(token)
	if err != nil {
		return err
	}

	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	ranked := store.lists.Load()
	if len(ranked.Albums) > 0 {
		if _, err := store.backups.Create(ranked.Albums, models.SourceLocal, "before share import", ""); err != nil {
			r.logger.Warn("failed to back up before import", "error", err)
		}
	}

	ranked.Replace(albums)
	store.lists.Save(ranked)

	if _, err := store.backups.Create(albums, models.SourceShared, "imported from share token", ""); err != nil {
		r.logger.Warn("failed to record shared backup", "error", err)
	}

	return r.writePlain("✓ Imported %d albums\n", len(albums))
}
