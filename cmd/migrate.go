package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"ytspot/internal/models"
	"ytspot/internal/repositories"
	"ytspot/internal/shared"
	"ytspot/internal/tasks"
	"ytspot/internal/ui"
)

// MigrateRun runs a full YouTube → Spotify migration from the command line.
func (r *Runner) MigrateRun(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")
	destName := cmd.String("dest")

	config := r.reloadConfig(cmd)
	opts := r.migrationOptions(cmd)

	fileLogger, err := shared.NewFileLogger(config.Output.LogPath())
	if err != nil {
		r.logger.Warn("failed to create log file, logging to stderr", "error", err)
	} else {
		r.SetLogger(fileLogger)
	}

	engine, err := r.engine(ctx)
	if err != nil {
		return err
	}

	r.writePlain("Starting playlist migration...\n")
	r.writePlain("Source: %s\n", playlistID)
	r.writePlain("Destination: %s\n\n", destName)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchPlaylist:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.CreatePlaylist:
				r.writePlain("\n📝 %s\n", update.Message)
			case tasks.MatchTracks:
				if result, ok := update.Data.(models.MigrationResult); ok {
					r.writeMatchLine(update.Step, update.Total, result)
				}
			case tasks.AddTracks:
				r.writePlain("\n➕ %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Run(ctx, progressCh, playlistID, destName, opts)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Migration Complete!")
	r.writePlain("Playlist: %s\n", result.Playlist.Name)
	r.writePlain("Migrated: %d/%d (%.1f%%)\n", result.SuccessCount, result.TotalTracks, result.MatchPercentage)
	r.writePlain("From cache: %d\n", result.CachedCount)
	r.writePlain("Reports written to %s\n", config.Output.DataDir)

	if result.FailedCount > 0 {
		r.writePlain("\nNot found on Spotify (%d):\n", result.FailedCount)
		for _, match := range result.Results {
			if !match.Matched() {
				r.writePlain("  - %s\n", match.Song.Title)
			}
		}
	}

	return nil
}

// MigrateUI launches the interactive migration wizard.
func (r *Runner) MigrateUI(ctx context.Context, cmd *cli.Command) error {
	config := r.reloadConfig(cmd)
	opts := r.migrationOptions(cmd)

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(config.Output.LogPath())
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine, err := r.engine(ctx)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, engine, opts)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running wizard: %w", err)
	}

	return nil
}

// MigrateHistory lists previous migration runs.
func (r *Runner) MigrateHistory(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")

	r.reloadConfig(cmd)
	db, err := r.database()
	if err != nil {
		return err
	}

	runs := repositories.NewRunRepository(db)
	history, err := runs.List(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(history) == 0 {
		r.writePlain("No migration runs recorded yet.\n")
		return nil
	}

	r.writePlain("Last %d migration runs:\n\n", len(history))
	for i, run := range history {
		r.writePlain("%d. %s → %s\n", i+1, run.YouTubePlaylistID, run.SpotifyPlaylistName)
		r.writePlain("   Status: %s\n", run.Status)
		r.writePlain("   Migrated: %d/%d\n", run.TracksMigrated, run.TracksTotal)
		r.writePlain("   Started: %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
		if run.ErrorMessage != "" {
			r.writePlain("   Error: %s\n", run.ErrorMessage)
		}
		r.writePlain("\n")
	}

	return nil
}

// migrationOptions builds run options from flags, falling back to config values.
func (r *Runner) migrationOptions(cmd *cli.Command) tasks.MigrationOptions {
	threshold := cmd.Int("threshold")
	if threshold <= 0 {
		threshold = r.config.Matching.Threshold
	}

	return tasks.MigrationOptions{
		Threshold:   threshold,
		SearchLimit: r.config.Matching.SearchLimit,
		Public:      cmd.Bool("public"),
		SkipCache:   cmd.Bool("no-cache"),
	}
}

func (r *Runner) writeMatchLine(step, total int, result models.MigrationResult) {
	switch result.Status {
	case models.StatusSuccess:
		r.writePlain("   [%d/%d] ✓ %s (score %d)\n", step, total, result.Track.Name, result.Score)
	case models.StatusCached:
		r.writePlain("   [%d/%d] ✓ %s (cached)\n", step, total, result.Track.Name)
	case models.StatusSkipped:
		r.writePlain("   [%d/%d] ~ %s (skipped)\n", step, total, result.Song.Title)
	case models.StatusAPIError:
		r.writePlain("   [%d/%d] ! %s (%s)\n", step, total, result.Song.Title, result.Message)
	default:
		r.writePlain("   [%d/%d] ✗ %s\n", step, total, result.Song.Title)
	}
}
