package match

import (
	"strings"

	"ytspot/internal/models"
)

// TargetString builds the comparison string for a parsed YouTube song:
// "Artist Song", falling back to the cleaned title when parsing produced
// nothing.
func TargetString(song models.YouTubeSong) string {
	target := strings.TrimSpace(song.ParsedArtist + " " + song.ParsedSong)
	if target == "" {
		target = CleanTitle(song.Title)
	}
	return target
}

// candidateString builds the comparison string for a Spotify search result:
// "Artist1 & Artist2 Name".
func candidateString(track models.SpotifyTrack) string {
	return strings.TrimSpace(track.ArtistList() + " " + track.Name)
}

// Best selects the highest-scoring candidate at or above threshold.
//
// Returns nil and the best observed score when nothing clears the
// threshold. Candidates without a name or artists are ignored.
func Best(song models.YouTubeSong, candidates []models.SpotifyTrack, threshold int) (*models.SpotifyTrack, int) {
	target := TargetString(song)
	if target == "" {
		return nil, 0
	}

	var best *models.SpotifyTrack
	highest := 0

	for i := range candidates {
		candidate := candidates[i]
		if candidate.Name == "" || len(candidate.Artists) == 0 {
			continue
		}

		score := Score(target, candidateString(candidate))
		if score > highest {
			highest = score
			if score >= threshold {
				best = &candidates[i]
			}
		}
	}

	if best == nil {
		return nil, highest
	}
	return best, highest
}
