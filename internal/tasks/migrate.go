// package tasks implements the YouTube to Spotify playlist migration pipeline.
//
// The core abstraction is MigrationEngine, which fetches a YouTube playlist,
// matches each song against Spotify search results, fills a destination
// playlist, and writes CSV reports. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"ytspot/internal/formatter"
	"ytspot/internal/match"
	"ytspot/internal/models"
	"ytspot/internal/repositories"
	"ytspot/internal/services"
	"ytspot/internal/shared"
)

// MigrationOptions tunes a single migration run.
type MigrationOptions struct {
	Threshold   int    // Minimum accepted match score (0-100)
	SearchLimit int    // Candidates requested per Spotify search
	Public      bool   // Whether a created playlist is public
	SkipCache   bool   // Bypass the match cache for this run
	Description string // Destination playlist description
}

// MigrationRunResult contains all data from a full migration run.
type MigrationRunResult struct {
	Songs           []models.YouTubeSong     // Songs fetched from the YouTube playlist
	Playlist        *models.Playlist         // Destination Spotify playlist
	Results         []models.MigrationResult // Per-song match outcomes
	SuccessCount    int                      // Songs matched and added
	CachedCount     int                      // Matches served from the cache
	FailedCount     int                      // Songs without an accepted match
	TotalTracks     int                      // Total songs processed
	MatchPercentage float64                  // Success rate as percentage
	Run             *repositories.Run        // Persisted run record, nil when untracked
}

// MigrationEngine orchestrates a playlist migration between a source and a
// destination service, with an optional on-disk match cache.
type MigrationEngine struct {
	source services.PlaylistSource
	dest   services.TrackDestination
	cache  *repositories.MatchCache
	runs   *repositories.RunRepository
	output shared.OutputConfig
	logger *log.Logger
}

// NewMigrationEngine creates a MigrationEngine with the provided services.
// cache and runs may be nil, in which case caching and run tracking are
// disabled.
func NewMigrationEngine(source services.PlaylistSource, dest services.TrackDestination, cache *repositories.MatchCache, runs *repositories.RunRepository, output shared.OutputConfig, logger *log.Logger) *MigrationEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &MigrationEngine{
		source: source,
		dest:   dest,
		cache:  cache,
		runs:   runs,
		output: output,
		logger: logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *MigrationEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run performs a full YouTube → Spotify playlist migration.
func (e *MigrationEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, playlistID, destName string, opts MigrationOptions) (*MigrationRunResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: YouTube service not initialized", shared.ErrServiceUnavailable)
	}
	if e.dest == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist ID is required", shared.ErrMissingArgument)
	}
	if destName == "" {
		return nil, fmt.Errorf("%w: destination playlist name is required", shared.ErrMissingArgument)
	}
	if opts.Threshold <= 0 || opts.Threshold > 100 {
		opts.Threshold = 85
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = 10
	}
	if opts.Description == "" {
		opts.Description = fmt.Sprintf("Migrated from YouTube playlist %s", playlistID)
	}

	result := &MigrationRunResult{}

	e.sendProgress(progress, fetchingPlaylistUpdate(playlistID))

	songs, err := e.source.PlaylistItems(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch YouTube playlist: %w", err)
	}

	result.Songs = songs
	result.TotalTracks = len(songs)
	e.sendProgress(progress, fetchedPlaylistUpdate(len(songs)))
	e.logger.Info("fetched YouTube playlist", "playlist", playlistID, "songs", len(songs))

	if err := e.writeFetchedReport(songs); err != nil {
		e.logger.Warn("failed to write fetched report", "error", err)
	}

	if len(songs) == 0 {
		return result, fmt.Errorf("%w: playlist %s has no migratable videos", shared.ErrTrackNotFound, playlistID)
	}

	run := e.startRun(playlistID, destName, len(songs))
	result.Run = run

	e.sendProgress(progress, createPlaylistUpdate(destName))

	playlist, err := e.dest.CreateOrGetPlaylist(ctx, destName, opts.Description, opts.Public)
	if err != nil {
		e.failRun(run, err)
		return result, fmt.Errorf("failed to create Spotify playlist: %w", err)
	}
	result.Playlist = playlist
	e.logger.Info("destination playlist ready", "name", playlist.Name, "id", playlist.ID)

	results := make([]models.MigrationResult, 0, len(songs))
	for i, song := range songs {
		e.sendProgress(progress, matchTrackUpdate(i+1, len(songs), &song))

		matchResult := e.matchSong(ctx, song, opts)
		results = append(results, matchResult)

		e.sendProgress(progress, matchResultUpdate(i+1, len(songs), matchResult))
	}
	result.Results = results

	uris := make([]string, 0, len(results))
	for _, r := range results {
		if r.Matched() {
			result.SuccessCount++
			if r.Status == models.StatusCached {
				result.CachedCount++
			}
			uris = append(uris, r.Track.URI)
		} else {
			result.FailedCount++
		}
	}
	if result.TotalTracks > 0 {
		result.MatchPercentage = float64(result.SuccessCount) / float64(result.TotalTracks) * 100
	}

	if len(uris) > 0 {
		e.sendProgress(progress, addTracksUpdate(len(uris)))
		if err := e.dest.AddTracks(ctx, playlist.ID, uris); err != nil {
			e.failRun(run, err)
			return result, fmt.Errorf("failed to add tracks to playlist: %w", err)
		}
	}

	e.sendProgress(progress, writeReportsUpdate())
	if err := e.writeResultReports(results); err != nil {
		e.logger.Warn("failed to write result reports", "error", err)
	}

	e.completeRun(run, playlist, result)
	e.logger.Info("migration complete",
		"total", result.TotalTracks,
		"migrated", result.SuccessCount,
		"cached", result.CachedCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

// matchSong resolves a single song to a Spotify track, consulting the cache
// first and falling back to a targeted then a broad search.
func (e *MigrationEngine) matchSong(ctx context.Context, song models.YouTubeSong, opts MigrationOptions) models.MigrationResult {
	result := models.MigrationResult{Song: song, Status: models.StatusNotFound}

	key := e.cacheKey(song)
	if key == "" {
		result.Status = models.StatusSkipped
		result.Message = "could not derive a search target from the title"
		return result
	}

	if e.cache != nil && !opts.SkipCache {
		cached, err := e.cache.Get(key)
		if err != nil {
			e.logger.Warn("cache lookup failed", "key", key, "error", err)
		} else if cached != nil {
			if cached.Found {
				result.Track = cached.Track
				result.Score = cached.Score
				result.Status = models.StatusCached
				return result
			}
			result.Message = "no match found on a previous run"
			return result
		}
	}

	track, score, err := e.searchBest(ctx, song, opts)
	if err != nil {
		result.Status = models.StatusAPIError
		result.Message = err.Error()
		return result
	}

	result.Score = score
	if track != nil {
		result.Track = track
		result.Status = models.StatusSuccess
	} else {
		result.Message = fmt.Sprintf("best score %d below threshold %d", score, opts.Threshold)
	}

	if e.cache != nil {
		if err := e.cache.Put(key, song.VideoID, track, score); err != nil {
			e.logger.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return result
}

// searchBest runs a targeted field search when the title parsed into artist
// and song, then falls back to a broad free-text search.
func (e *MigrationEngine) searchBest(ctx context.Context, song models.YouTubeSong, opts MigrationOptions) (*models.SpotifyTrack, int, error) {
	highest := 0

	if song.ParsedArtist != "" && song.ParsedSong != "" {
		query := fmt.Sprintf("track:%s artist:%s", song.ParsedSong, song.ParsedArtist)
		candidates, err := e.dest.SearchTracks(ctx, query, opts.SearchLimit)
		if err != nil {
			return nil, 0, err
		}
		if track, score := match.Best(song, candidates, opts.Threshold); track != nil {
			return track, score, nil
		} else if score > highest {
			highest = score
		}
	}

	candidates, err := e.dest.SearchTracks(ctx, match.TargetString(song), opts.SearchLimit)
	if err != nil {
		return nil, 0, err
	}
	track, score := match.Best(song, candidates, opts.Threshold)
	if score < highest {
		score = highest
	}
	return track, score, nil
}

// cacheKey derives the cache key for a song from its parsed fields, falling
// back to the cleaned title when parsing failed.
func (e *MigrationEngine) cacheKey(song models.YouTubeSong) string {
	if song.ParsedArtist != "" || song.ParsedSong != "" {
		return match.CacheKey(song.ParsedArtist, song.ParsedSong)
	}
	return match.Normalize(match.CleanTitle(song.Title))
}

func (e *MigrationEngine) writeFetchedReport(songs []models.YouTubeSong) error {
	data, err := formatter.FetchedToCSV(songs)
	if err != nil {
		return err
	}
	return formatter.WriteReport(e.output.FetchedPath(), data)
}

func (e *MigrationEngine) writeResultReports(results []models.MigrationResult) error {
	migrated, err := formatter.MigratedToCSV(results)
	if err != nil {
		return err
	}
	if err := formatter.WriteReport(e.output.MigratedPath(), migrated); err != nil {
		return err
	}

	notFound, err := formatter.NotFoundToCSV(results)
	if err != nil {
		return err
	}
	return formatter.WriteReport(e.output.NotFoundPath(), notFound)
}

func (e *MigrationEngine) startRun(playlistID, destName string, total int) *repositories.Run {
	if e.runs == nil {
		return nil
	}
	run, err := e.runs.Create(playlistID, destName)
	if err != nil {
		e.logger.Warn("failed to record migration run", "error", err)
		return nil
	}
	run.TracksTotal = total
	return run
}

func (e *MigrationEngine) completeRun(run *repositories.Run, playlist *models.Playlist, result *MigrationRunResult) {
	if run == nil || e.runs == nil {
		return
	}
	run.SpotifyPlaylistID = playlist.ID
	run.TracksMigrated = result.SuccessCount
	run.TracksFailed = result.FailedCount
	run.Status = repositories.RunStatusCompleted
	if err := e.runs.Complete(run); err != nil {
		e.logger.Warn("failed to finalize migration run", "error", err)
	}
}

func (e *MigrationEngine) failRun(run *repositories.Run, cause error) {
	if run == nil || e.runs == nil {
		return
	}
	run.Status = repositories.RunStatusFailed
	run.ErrorMessage = cause.Error()
	if err := e.runs.Complete(run); err != nil {
		e.logger.Warn("failed to finalize migration run", "error", err)
	}
}
