package match

import (
	"testing"

	"ytspot/internal/models"
)

func TestTargetString(t *testing.T) {
	t.Run("uses parsed fields", func(t *testing.T) {
		song := models.YouTubeSong{
			Title:        "Daft Punk - One More Time (Official Video)",
			ParsedArtist: "Daft Punk",
			ParsedSong:   "One More Time",
		}
		if got := TargetString(song); got != "Daft Punk One More Time" {
			t.Errorf("TargetString = %q", got)
		}
	})

	t.Run("falls back to cleaned title", func(t *testing.T) {
		song := models.YouTubeSong{Title: "Some Mix (Official Video)"}
		if got := TargetString(song); got != "Some Mix" {
			t.Errorf("TargetString = %q", got)
		}
	})
}

func TestBest(t *testing.T) {
	song := models.YouTubeSong{
		Title:        "Daft Punk - One More Time (Official Video)",
		ParsedArtist: "Daft Punk",
		ParsedSong:   "One More Time",
	}

	t.Run("picks highest scoring candidate", func(t *testing.T) {
		candidates := []models.SpotifyTrack{
			{ID: "bad", Name: "Completely Different", Artists: []string{"Nobody"}},
			{ID: "good", Name: "One More Time", Artists: []string{"Daft Punk"}},
		}

		track, score := Best(song, candidates, 85)
		if track == nil {
			t.Fatalf("Best returned nil, score %d", score)
		}
		if track.ID != "good" {
			t.Errorf("Best picked %q", track.ID)
		}
		if score != 100 {
			t.Errorf("score = %d, want 100", score)
		}
	})

	t.Run("nothing above threshold", func(t *testing.T) {
		candidates := []models.SpotifyTrack{
			{ID: "bad", Name: "Gregorian Chant Collection", Artists: []string{"Monks"}},
		}

		track, score := Best(song, candidates, 85)
		if track != nil {
			t.Errorf("Best returned %q, want nil", track.ID)
		}
		if score <= 0 || score >= 85 {
			t.Errorf("score = %d, want between 1 and 84", score)
		}
	})

	t.Run("skips candidates without name or artists", func(t *testing.T) {
		candidates := []models.SpotifyTrack{
			{ID: "noname", Artists: []string{"Daft Punk"}},
			{ID: "noartist", Name: "One More Time"},
		}

		track, _ := Best(song, candidates, 85)
		if track != nil {
			t.Errorf("Best returned %q, want nil", track.ID)
		}
	})

	t.Run("empty candidates", func(t *testing.T) {
		track, score := Best(song, nil, 85)
		if track != nil || score != 0 {
			t.Errorf("Best = %v, %d, want nil, 0", track, score)
		}
	})
}
