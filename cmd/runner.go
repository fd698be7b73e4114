package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"ytspot/internal/repositories"
	"ytspot/internal/services"
	"ytspot/internal/shared"
	"ytspot/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	source  services.PlaylistSource
	dest    services.TrackDestination
	spotify *services.SpotifyService
	db      *sql.DB
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Source services.PlaylistSource
	Dest   services.TrackDestination
	Logger *log.Logger
	Output io.Writer
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

	return &Runner{
		config: opts.Config,
		source: opts.Source,
		dest:   opts.Dest,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, youtubeCommand, spotifyCommand, migrateCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the active logger, used when a command redirects logs to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// reloadConfig loads the configuration from the command's --config flag,
// keeping the current config when the file is missing or unreadable.
func (r *Runner) reloadConfig(cmd *cli.Command) *shared.Config {
	path := cmd.String("config")
	if path == "" {
		return r.config
	}
	if _, err := os.Stat(path); err != nil {
		return r.config
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, keeping current", "path", path, "error", err)
		return r.config
	}

	r.config = config
	return config
}

// youtubeService returns the playlist source, constructing it from the
// configured API key on first use.
func (r *Runner) youtubeService(ctx context.Context) (services.PlaylistSource, error) {
	if r.source != nil {
		return r.source, nil
	}

	apiKey := r.config.Credentials.YouTube.APIKey
	if apiKey == "" {
		return nil, fmt.Errorf("%w: YouTube API key must be set in config.toml or YOUTUBE_API_KEY", shared.ErrMissingCredentials)
	}

	svc, err := services.NewYouTubeService(ctx, apiKey, r.config.YouTube.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	r.source = svc
	return svc, nil
}

// spotifyService returns an authenticated Spotify client, constructing it
// from the configured credentials and the saved token on first use.
func (r *Runner) spotifyService(ctx context.Context) (*services.SpotifyService, error) {
	if r.spotify != nil {
		return r.spotify, nil
	}

	creds := r.config.Credentials.Spotify
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	svc, err := services.NewSpotifyService(creds.Map(), r.config.Spotify.RequestsPerSecond)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}
	svc.SetMaxTracksPerAdd(r.config.Spotify.MaxTracksPerAdd)

	token, err := shared.LoadToken(r.config.Output.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("%w: run 'ytspot auth spotify' first: %v", shared.ErrNotAuthenticated, err)
	}

	if err := svc.Authenticate(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to authenticate with Spotify: %w", err)
	}

	r.spotify = svc
	if r.dest == nil {
		r.dest = svc
	}
	return svc, nil
}

// trackDestination returns the destination service, defaulting to the
// authenticated Spotify client.
func (r *Runner) trackDestination(ctx context.Context) (services.TrackDestination, error) {
	if r.dest != nil {
		return r.dest, nil
	}

	svc, err := r.spotifyService(ctx)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// database returns the migration database, opening and migrating it on first use.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	return db, nil
}

// engine builds a MigrationEngine wired with both services and the cache.
func (r *Runner) engine(ctx context.Context) (*tasks.MigrationEngine, error) {
	source, err := r.youtubeService(ctx)
	if err != nil {
		return nil, err
	}

	dest, err := r.trackDestination(ctx)
	if err != nil {
		return nil, err
	}

	db, err := r.database()
	if err != nil {
		return nil, err
	}

	cache := repositories.NewMatchCache(db)
	runs := repositories.NewRunRepository(db)

	return tasks.NewMigrationEngine(source, dest, cache, runs, r.config.Output, r.logger), nil
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
