package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/nlandais/top50/internal/auth"
	"github.com/nlandais/top50/internal/repositories"
	"github.com/nlandais/top50/internal/services"
	"github.com/nlandais/top50/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	library    services.Library
	session    *auth.Store
	gateway    *services.GatewayClient
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	Library    services.Library
	Session    *auth.Store
	Gateway    *services.GatewayClient
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Session == nil {
		opts.Session = auth.NewStore()
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		library:    opts.Library,
		session:    opts.Session,
		gateway:    opts.Gateway,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, searchCommand, listCommand, backupCommand, playlistCommand, shareCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger, used when the TUI redirects logs away from the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// repos bundles the SQLite-backed repositories opened by openRepos.
type repos struct {
	db      *sql.DB
	lists   *repositories.ListRepository
	backups *repositories.BackupRepository
	cache   *repositories.AlbumCacheRepository
}

func (s *repos) Close() error {
	return s.db.Close()
}

// openRepos opens the configured database, applies pending migrations, and
// constructs the repository layer. Callers own the Close.
func (r *Runner) openRepos() (*repos, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	backups := repositories.NewBackupRepository(db)
	return &repos{
		db:      db,
		lists:   repositories.NewListRepository(db, backups, r.logger),
		backups: backups,
		cache:   repositories.NewAlbumCacheRepository(db),
	}, nil
}

// ensureSession makes sure the auth store holds a usable user token,
// refreshing an expired one through the stored refresh token when possible.
func (r *Runner) ensureSession(ctx context.Context) error {
	if r.session.Authenticated() {
		return nil
	}

	creds := r.config.Credentials.Spotify
	token := creds.Token()
	if token == nil {
		return fmt.Errorf("%w: no stored token", shared.ErrNotAuthenticated)
	}

	if token.Valid() {
		r.session.SetToken(token)
		return nil
	}

	if token.RefreshToken == "" || creds.ClientSecret == "" {
		return fmt.Errorf("%w: stored token expired", shared.ErrTokenExpired)
	}

	refreshed, err := services.OAuthConfig(creds).TokenSource(ctx, token).Token()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	if err := r.saveTokens(refreshed); err != nil {
		r.logger.Warn("failed to persist refreshed token", "error", err)
	}

	r.session.SetToken(refreshed)
	r.logger.Info("refreshed expired access token")
	return nil
}

// saveTokens stores an OAuth token in the config and writes it back to disk.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	if r.config == nil {
		return fmt.Errorf("config is nil")
	}

	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if r.configPath == "" {
		return nil
	}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
