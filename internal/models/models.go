// package models defines the data model for the playlist migrator.
package models

import "strings"

// YouTubeSong represents a song extracted from a YouTube playlist item.
//
// ParsedArtist and ParsedSong are filled in by the title parser and may be
// empty when parsing fails.
type YouTubeSong struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`         // Original video title
	ChannelTitle string `json:"channel_title"` // Owner channel of the video
	ParsedArtist string `json:"parsed_artist"`
	ParsedSong   string `json:"parsed_song"`
	Position     int    `json:"position"` // Zero-based position in the playlist
	URL          string `json:"url"`
}

// SpotifyTrack represents a track found on Spotify.
type SpotifyTrack struct {
	ID          string   `json:"id"`
	URI         string   `json:"uri"` // spotify:track:<id>
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	Album       string   `json:"album,omitempty"`
	DurationMS  int      `json:"duration_ms,omitempty"`
	ExternalURL string   `json:"external_url,omitempty"`
}

// ArtistList joins the track artists for display and matching.
func (t SpotifyTrack) ArtistList() string {
	return strings.Join(t.Artists, " & ")
}

// Status describes the outcome of a single migration attempt.
type Status string

const (
	StatusSuccess  Status = "SUCCESS"
	StatusCached   Status = "CACHED" // Matched from the local cache, no search performed
	StatusNotFound Status = "NOT_FOUND"
	StatusAPIError Status = "API_ERROR"
	StatusSkipped  Status = "SKIPPED" // Parsing produced nothing searchable
)

// MigrationResult represents the result of attempting to migrate a single
// YouTube song to Spotify. Track is nil unless the attempt matched.
type MigrationResult struct {
	Song    YouTubeSong   `json:"song"`
	Track   *SpotifyTrack `json:"track,omitempty"`
	Score   int           `json:"score"` // Fuzzy match score (0-100)
	Status  Status        `json:"status"`
	Message string        `json:"message,omitempty"`
}

// Matched reports whether the result carries an accepted Spotify match.
func (r MigrationResult) Matched() bool {
	return r.Track != nil && (r.Status == StatusSuccess || r.Status == StatusCached)
}

// Playlist represents a Spotify playlist.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
}
