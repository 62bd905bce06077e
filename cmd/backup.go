package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nlandais/top50/internal/models"
	"github.com/nlandais/top50/internal/shared"
	"github.com/urfave/cli/v3"
)

// BackupList shows stored backups, newest first.
func (r *Runner) BackupList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.backups.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(entries) == 0 {
		return r.writePlain("No backups stored\n")
	}

	r.writePlain("Found %d backups:\n\n", len(entries))
	for _, entry := range entries {
		r.writePlain("%s  %s  %s  %d albums", entry.ID, entry.CreatedAt.Format(time.RFC3339), entry.Source, len(entry.Albums))
		if entry.Description != "" {
			r.writePlain("  (%s)", entry.Description)
		}
		r.writePlain("\n")
	}
	return nil
}

// BackupCreate snapshots the current list.
func (r *Runner) BackupCreate(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	ranked := store.lists.Load()
	if len(ranked.Albums) == 0 {
		return fmt.Errorf("%w: nothing to back up", shared.ErrPlaylistEmpty)
	}

	id, err := store.backups.Create(ranked.Albums, models.SourceLocal, cmd.String("description"), "")
	if err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	return r.writePlain("✓ Backup created: %s (%d albums)\n", id, len(ranked.Albums))
}

// BackupRestore replaces the ranked list with a snapshot.
func (r *Runner) BackupRestore(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: backup id is required", shared.ErrMissingArgument)
	}

	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	albums, err := store.backups.Restore(id)
	if err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}

	ranked := store.lists.Load()
	ranked.Replace(albums)
	store.lists.Save(ranked)

	return r.writePlain("✓ Restored %d albums from %s\n", len(albums), id)
}

// BackupDelete removes a backup entry.
func (r *Runner) BackupDelete(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: backup id is required", shared.ErrMissingArgument)
	}

	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.backups.Delete(id); err != nil {
		return fmt.Errorf("failed to delete backup: %w", err)
	}

	return r.writePlain("✓ Deleted backup %s\n", id)
}

// BackupCleanup prunes stale backup entries.
func (r *Runner) BackupCleanup(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.backups.Cleanup()
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	return r.writePlain("✓ Removed %d stale backups\n", removed)
}
