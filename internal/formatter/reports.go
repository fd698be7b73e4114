// package formatter writes the migration reports: fetched songs, migrated
// tracks and not-found tracks, all as CSV.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"ytspot/internal/models"
)

// FetchedToCSV renders the fetched-songs report: one row per YouTube
// playlist entry with its parsed artist/song.
func FetchedToCSV(songs []models.YouTubeSong) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "VideoID", "Title", "Channel", "ParsedArtist", "ParsedSong", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{
			strconv.Itoa(song.Position),
			song.VideoID,
			song.Title,
			song.ChannelTitle,
			song.ParsedArtist,
			song.ParsedSong,
			song.URL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// MigratedToCSV renders the success report: results that matched a Spotify
// track at or above the threshold.
func MigratedToCSV(results []models.MigrationResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"VideoID", "Title", "ParsedArtist", "ParsedSong", "SpotifyID", "SpotifyURI", "SpotifyName", "SpotifyArtists", "Score", "Status"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, result := range results {
		if !result.Matched() {
			continue
		}

		record := []string{
			result.Song.VideoID,
			result.Song.Title,
			result.Song.ParsedArtist,
			result.Song.ParsedSong,
			result.Track.ID,
			result.Track.URI,
			result.Track.Name,
			result.Track.ArtistList(),
			strconv.Itoa(result.Score),
			string(result.Status),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// NotFoundToCSV renders the failure report: results without an accepted
// match, including the best score observed and a status message.
func NotFoundToCSV(results []models.MigrationResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"VideoID", "Title", "ParsedArtist", "ParsedSong", "BestScore", "Status", "Message", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, result := range results {
		if result.Matched() {
			continue
		}

		record := []string{
			result.Song.VideoID,
			result.Song.Title,
			result.Song.ParsedArtist,
			result.Song.ParsedSong,
			strconv.Itoa(result.Score),
			string(result.Status),
			result.Message,
			result.Song.URL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteReport writes report data to path, creating parent directories.
func WriteReport(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}

	return nil
}
