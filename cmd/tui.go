package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nlandais/top50/internal/shared"
	"github.com/nlandais/top50/internal/ui"
	"github.com/urfave/cli/v3"
)

const tuiLogPath = "./tmp/top50-tui.log"

// TUI launches the interactive terminal UI for list curation.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openRepos()
	if err != nil {
		return err
	}
	defer store.Close()

	// Redirect logs to file to avoid interfering with TUI rendering
	if err := os.MkdirAll(filepath.Dir(tuiLogPath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(tuiLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	r.SetLogger(shared.NewLogger(logFile))

	model := ui.NewModel(ctx, r.catalog, store.lists)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
