// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

// setupCommand handles database initialization and migrations.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize database and run migrations",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "rollback",
				Usage: "Roll back the most recent migration instead of migrating up",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles Spotify authentication.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify using OAuth2",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show current authentication state",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Discard stored tokens and session state",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogout,
			},
		},
	}
}

// searchCommand searches the album catalog.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the Spotify catalog for albums",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Search,
	}
}

// listCommand manages the local ranked album list.
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "Manage the ranked album list",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the ranked list",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.ListShow,
			},
			{
				Name:  "add",
				Usage: "Add an album by catalog id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.ListAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove an album by rank or id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "target"},
				},
				Action: r.ListRemove,
			},
			{
				Name:  "move",
				Usage: "Move an album from one rank to another (manual mode only)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "from"},
					&cli.StringArg{Name: "to"},
				},
				Action: r.ListMove,
			},
			{
				Name:  "sort",
				Usage: "Switch to date mode and sort by release year",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "direction",
						Usage: "Sort direction (asc or desc)",
						Value: "desc",
					},
				},
				Action: r.ListSort,
			},
			{
				Name:  "mode",
				Usage: "Set the ordering mode (date or manual)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "mode"},
				},
				Action: r.ListMode,
			},
			{
				Name:   "clear",
				Usage:  "Empty the ranked list",
				Action: r.ListClear,
			},
			{
				Name:  "export",
				Usage: "Export the ranked list to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format (csv, markdown, text, json)",
						Value: "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (file or directory depending on format)",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Title for markdown and text exports",
					},
				},
				Action: r.ListExport,
			},
		},
	}
}

// backupCommand manages ranked list snapshots.
func backupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Manage ranked list backups",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Show stored backups, newest first",
				Action: r.BackupList,
			},
			{
				Name:  "create",
				Usage: "Snapshot the current list",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "description",
						Usage: "Snapshot description",
					},
				},
				Action: r.BackupCreate,
			},
			{
				Name:  "restore",
				Usage: "Replace the list with a backup snapshot",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.BackupRestore,
			},
			{
				Name:  "delete",
				Usage: "Delete a backup by id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.BackupDelete,
			},
			{
				Name:   "cleanup",
				Usage:  "Prune stale backup entries",
				Action: r.BackupCleanup,
			},
		},
	}
}

// playlistCommand maps the ranked list onto its Spotify playlist.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Sync the ranked list with its Spotify playlist",
		Commands: []*cli.Command{
			{
				Name:  "save",
				Usage: "Write the ranked list to the Spotify playlist",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "metadata",
						Usage: "Embed ranking metadata in the playlist description",
						Value: true,
					},
				},
				Action: r.PlaylistSave,
			},
			{
				Name:  "load",
				Usage: "Rebuild the ranked list from the Spotify playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Playlist ID (defaults to the managed playlist)",
					},
				},
				Action: r.PlaylistLoad,
			},
			{
				Name:   "find",
				Usage:  "Locate the managed playlist in the user's library",
				Action: r.PlaylistFind,
			},
		},
	}
}

// shareCommand encodes and decodes portable share tokens.
func shareCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "share",
		Usage: "Share the ranked list as a portable token",
		Commands: []*cli.Command{
			{
				Name:   "export",
				Usage:  "Encode the current list as a share token",
				Action: r.ShareExport,
			},
			{
				Name:  "import",
				Usage: "Replace the list with a decoded share token",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "token"},
				},
				Action: r.ShareImport,
			},
		},
	}
}

// serveCommand runs the token exchange gateway.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the token exchange gateway",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive list curation.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal UI",
		Action:  r.TUI,
	}
}
