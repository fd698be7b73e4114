// package services defines clients for the two hosted APIs the migrator
// talks to: YouTube Data API v3 and the Spotify Web API.
package services

import (
	"context"

	"ytspot/internal/models"
)

// PlaylistSource fetches songs from the source service (YouTube).
type PlaylistSource interface {
	// PlaylistItems retrieves all entries of a playlist, parsed into songs.
	// Private and deleted videos are skipped.
	PlaylistItems(ctx context.Context, playlistID string) ([]models.YouTubeSong, error)

	// Name returns the service name for display.
	Name() string
}

// TrackDestination searches and writes to the destination service (Spotify).
type TrackDestination interface {
	// SearchTracks returns up to limit candidate tracks for the query.
	SearchTracks(ctx context.Context, query string, limit int) ([]models.SpotifyTrack, error)

	// CreateOrGetPlaylist finds an owned playlist by name or creates it.
	CreateOrGetPlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error)

	// AddTracks appends track URIs to a playlist, batching per API limits.
	AddTracks(ctx context.Context, playlistID string, uris []string) error

	// Name returns the service name for display.
	Name() string
}
