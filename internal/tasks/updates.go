package tasks

import (
	"fmt"

	"ytspot/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylist Phase = iota
	CreatePlaylist
	MatchTracks
	AddTracks
	WriteReports
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylist:
		return "fetch_playlist"
	case CreatePlaylist:
		return "create_playlist"
	case MatchTracks:
		return "match_tracks"
	case AddTracks:
		return "add_tracks"
	case WriteReports:
		return "write_reports"
	default:
		return ""
	}
}

func fetchingPlaylistUpdate(playlistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching YouTube playlist (%s)...", playlistID),
	}
}

func fetchedPlaylistUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetched %d songs from YouTube", count),
		Data:    count,
	}
}

func createPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating Spotify playlist (%s)...", name),
	}
}

func matchTrackUpdate(step, total int, song *models.YouTubeSong) ProgressUpdate {
	message := "Matching tracks on Spotify..."
	if song != nil {
		message = fmt.Sprintf("Matching %q...", song.Title)
	}
	return ProgressUpdate{
		Phase:   MatchTracks,
		Step:    step,
		Total:   total,
		Message: message,
		Data:    song,
	}
}

func matchResultUpdate(step, total int, result models.MigrationResult) ProgressUpdate {
	message := fmt.Sprintf("No match for %q", result.Song.Title)
	if result.Matched() {
		message = fmt.Sprintf("Matched %q (score %d)", result.Track.Name, result.Score)
	}
	return ProgressUpdate{
		Phase:   MatchTracks,
		Step:    step,
		Total:   total,
		Message: message,
		Data:    result,
	}
}

func addTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Adding %d tracks to Spotify playlist...", count),
	}
}

func writeReportsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteReports,
		Step:    1,
		Total:   1,
		Message: "Writing migration reports...",
	}
}
