package formatter

import (
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"ytspot/internal/models"
	ytxtest "ytspot/internal/testing"
)

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}
	return records
}

func TestFetchedToCSV(t *testing.T) {
	songs := []models.YouTubeSong{
		{
			VideoID:      "abc123",
			Title:        "Daft Punk - One More Time (Official Video)",
			ChannelTitle: "Daft Punk",
			ParsedArtist: "Daft Punk",
			ParsedSong:   "One More Time",
			Position:     0,
			URL:          "https://www.youtube.com/watch?v=abc123",
		},
		{
			VideoID:  "def456",
			Title:    "Some Mix",
			Position: 1,
		},
	}

	data, err := FetchedToCSV(songs)
	if err != nil {
		t.Fatalf("FetchedToCSV failed: %v", err)
	}

	records := parseCSV(t, data)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0][0] != "Position" || records[0][4] != "ParsedArtist" {
		t.Errorf("unexpected headers: %v", records[0])
	}
	if records[1][1] != "abc123" || records[1][5] != "One More Time" {
		t.Errorf("unexpected first row: %v", records[1])
	}
	if records[2][0] != "1" {
		t.Errorf("position = %q, want 1", records[2][0])
	}
}

func TestMigratedToCSV(t *testing.T) {
	results := []models.MigrationResult{
		{
			Song: models.YouTubeSong{VideoID: "v1", Title: "Daft Punk - One More Time"},
			Track: &models.SpotifyTrack{
				ID:      "t1",
				URI:     "spotify:track:t1",
				Name:    "One More Time",
				Artists: []string{"Daft Punk"},
			},
			Score:  100,
			Status: models.StatusSuccess,
		},
		{
			Song:   models.YouTubeSong{VideoID: "v2", Title: "Unmatched Song"},
			Score:  40,
			Status: models.StatusNotFound,
		},
	}

	data, err := MigratedToCSV(results)
	if err != nil {
		t.Fatalf("MigratedToCSV failed: %v", err)
	}

	records := parseCSV(t, data)
	if len(records) != 2 {
		t.Fatalf("got %d records, want header plus one matched row", len(records))
	}
	row := records[1]
	if row[0] != "v1" || row[5] != "spotify:track:t1" || row[8] != "100" {
		t.Errorf("unexpected row: %v", row)
	}
}

func TestNotFoundToCSV(t *testing.T) {
	results := []models.MigrationResult{
		{
			Song:  models.YouTubeSong{VideoID: "v1", Title: "Matched"},
			Track: &models.SpotifyTrack{ID: "t1", Name: "Matched", Artists: []string{"A"}},
			Score: 95, Status: models.StatusSuccess,
		},
		{
			Song:    models.YouTubeSong{VideoID: "v2", Title: "Obscure B-Side"},
			Score:   52,
			Status:  models.StatusNotFound,
			Message: "best score 52 below threshold 85",
		},
	}

	data, err := NotFoundToCSV(results)
	if err != nil {
		t.Fatalf("NotFoundToCSV failed: %v", err)
	}

	records := parseCSV(t, data)
	if len(records) != 2 {
		t.Fatalf("got %d records, want header plus one unmatched row", len(records))
	}
	row := records[1]
	if row[0] != "v2" || row[4] != "52" || row[5] != string(models.StatusNotFound) {
		t.Errorf("unexpected row: %v", row)
	}
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "out.csv")

	if err := WriteReport(path, []byte("a,b\n")); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	ytxtest.AssertFileExists(t, path)
	if got := ytxtest.MustReadFile(t, path); got != "a,b\n" {
		t.Errorf("file contents = %q", got)
	}
}
