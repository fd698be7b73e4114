package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"ytspot/internal/shared"
)

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run records one migration run: the playlists involved and its counters.
type Run struct {
	ID                  string
	YouTubePlaylistID   string
	SpotifyPlaylistID   string
	SpotifyPlaylistName string
	TracksTotal         int
	TracksMigrated      int
	TracksFailed        int
	Status              string
	ErrorMessage        string
	StartedAt           time.Time
	CompletedAt         *time.Time
}

// RunRepository persists migration runs.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a RunRepository with the given database connection.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run with a generated ID and running status.
func (r *RunRepository) Create(youtubePlaylistID, spotifyPlaylistName string) (*Run, error) {
	now := time.Now().UTC()
	run := &Run{
		ID:                  shared.GenerateID(),
		YouTubePlaylistID:   youtubePlaylistID,
		SpotifyPlaylistName: spotifyPlaylistName,
		Status:              RunStatusRunning,
		StartedAt:           now,
	}

	query := `
		INSERT INTO runs (
			id, youtube_playlist_id, spotify_playlist_id, spotify_playlist_name,
			tracks_total, tracks_migrated, tracks_failed, status, error_message,
			started_at, completed_at, created_at, updated_at
		)
		VALUES (?, ?, NULL, ?, 0, 0, 0, ?, NULL, ?, NULL, ?, ?)
	`

	if _, err := r.db.Exec(query, run.ID, run.YouTubePlaylistID, run.SpotifyPlaylistName, run.Status, run.StartedAt, now, now); err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	return run, nil
}

// Complete finalizes a run with its counters and final status.
func (r *RunRepository) Complete(run *Run) error {
	now := time.Now().UTC()
	run.CompletedAt = &now

	var spotifyPlaylistID any = run.SpotifyPlaylistID
	if run.SpotifyPlaylistID == "" {
		spotifyPlaylistID = nil
	}

	var errorMessage any = run.ErrorMessage
	if run.ErrorMessage == "" {
		errorMessage = nil
	}

	query := `
		UPDATE runs
		SET spotify_playlist_id = ?, tracks_total = ?, tracks_migrated = ?,
			tracks_failed = ?, status = ?, error_message = ?, completed_at = ?,
			updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		spotifyPlaylistID,
		run.TracksTotal,
		run.TracksMigrated,
		run.TracksFailed,
		run.Status,
		errorMessage,
		now,
		now,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found: %s", run.ID)
	}

	return nil
}

// List returns the most recent runs, newest first.
func (r *RunRepository) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, youtube_playlist_id, spotify_playlist_id, spotify_playlist_name,
			tracks_total, tracks_migrated, tracks_failed, status, error_message,
			started_at, completed_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			playlistID sql.NullString
			errMsg     sql.NullString
			completed  sql.NullTime
		)

		if err := rows.Scan(&run.ID, &run.YouTubePlaylistID, &playlistID, &run.SpotifyPlaylistName,
			&run.TracksTotal, &run.TracksMigrated, &run.TracksFailed, &run.Status, &errMsg,
			&run.StartedAt, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.SpotifyPlaylistID = playlistID.String
		run.ErrorMessage = errMsg.String
		if completed.Valid {
			t := completed.Time
			run.CompletedAt = &t
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}
