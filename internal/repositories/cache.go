// package repositories provides the persistence layer: the on-disk match
// cache used for deduplication and the record of migration runs.
package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ytspot/internal/models"
)

const artistSeparator = ";"

// CachedMatch is one row of the match cache: the outcome of a previous
// Spotify lookup for a parsed title key.
type CachedMatch struct {
	Key     string
	VideoID string
	Track   *models.SpotifyTrack // nil for negative (not-found) entries
	Score   int
	Found   bool
}

// MatchCache stores Spotify lookup results keyed by normalized parsed title.
//
// A hit (positive or negative) lets the pipeline skip the Spotify search for
// duplicate songs across playlist entries and across runs.
type MatchCache struct {
	db *sql.DB
}

// NewMatchCache creates a MatchCache backed by the given database.
func NewMatchCache(db *sql.DB) *MatchCache {
	return &MatchCache{db: db}
}

// Get retrieves the cached lookup for key. Returns (nil, nil) on a miss.
func (c *MatchCache) Get(key string) (*CachedMatch, error) {
	query := `
		SELECT key, video_id, spotify_id, spotify_uri, spotify_name, spotify_artists, score, found
		FROM track_matches
		WHERE key = ?
	`

	var (
		cached  CachedMatch
		id      sql.NullString
		uri     sql.NullString
		name    sql.NullString
		artists sql.NullString
		found   int
	)

	err := c.db.QueryRow(query, key).Scan(&cached.Key, &cached.VideoID, &id, &uri, &name, &artists, &cached.Score, &found)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query match cache: %w", err)
	}

	cached.Found = found == 1
	if cached.Found {
		cached.Track = &models.SpotifyTrack{
			ID:   id.String,
			URI:  uri.String,
			Name: name.String,
		}
		if artists.String != "" {
			cached.Track.Artists = strings.Split(artists.String, artistSeparator)
		}
	}

	return &cached, nil
}

// Put stores a lookup outcome for key, replacing any previous entry.
// track is nil for a negative entry.
func (c *MatchCache) Put(key, videoID string, track *models.SpotifyTrack, score int) error {
	if key == "" {
		return fmt.Errorf("empty cache key")
	}

	var (
		id, uri, name, artists any
		found                  int
	)
	if track != nil {
		id = track.ID
		uri = track.URI
		name = track.Name
		artists = strings.Join(track.Artists, artistSeparator)
		found = 1
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO track_matches (key, video_id, spotify_id, spotify_uri, spotify_name, spotify_artists, score, found, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			video_id = excluded.video_id,
			spotify_id = excluded.spotify_id,
			spotify_uri = excluded.spotify_uri,
			spotify_name = excluded.spotify_name,
			spotify_artists = excluded.spotify_artists,
			score = excluded.score,
			found = excluded.found,
			updated_at = excluded.updated_at
	`

	if _, err := c.db.Exec(query, key, videoID, id, uri, name, artists, score, found, now, now); err != nil {
		return fmt.Errorf("failed to upsert match cache entry: %w", err)
	}

	return nil
}

// Stats reports cache entry counts: total, positive and negative entries.
func (c *MatchCache) Stats() (total, found, notFound int, err error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN found = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN found = 0 THEN 1 ELSE 0 END), 0)
		FROM track_matches
	`

	if err = c.db.QueryRow(query).Scan(&total, &found, &notFound); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to query cache stats: %w", err)
	}
	return total, found, notFound, nil
}

// Clear removes all entries from the match cache.
func (c *MatchCache) Clear() (int64, error) {
	result, err := c.db.Exec("DELETE FROM track_matches")
	if err != nil {
		return 0, fmt.Errorf("failed to clear match cache: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared rows: %w", err)
	}
	return rows, nil
}
