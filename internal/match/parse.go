package match

import (
	"regexp"
	"strings"
)

// noisePatterns strip common YouTube title decorations. More specific
// patterns come first so their bracket content is removed before the
// generic ones run.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\(.*\bsoundtrack\b.*\)`),
	regexp.MustCompile(`(?i)\[.*\bsoundtrack\b.*\]`),
	regexp.MustCompile(`(?i)\(.*\bofficial music video\b.*\)`),
	regexp.MustCompile(`(?i)\[.*\bofficial music video\b.*\]`),
	regexp.MustCompile(`(?i)\(.*\bofficial video\b.*\)`),
	regexp.MustCompile(`(?i)\[.*\bofficial video\b.*\]`),
	regexp.MustCompile(`(?i)\(.*\bofficial lyric video\b.*\)`),
	regexp.MustCompile(`(?i)\[.*\bofficial lyric video\b.*\]`),
	regexp.MustCompile(`(?i)\(.*\blyric video\b.*\)`),
	regexp.MustCompile(`(?i)\[.*\blyric video\b.*\]`),
	regexp.MustCompile(`(?i)\(.*\blyrics\b.*\)`),
	regexp.MustCompile(`(?i)\[.*\blyrics\b.*\]`),
	regexp.MustCompile(`(?i)\(.*\bofficial audio\b.*\)`),
	regexp.MustCompile(`(?i)\[.*\bofficial audio\b.*\]`),
	regexp.MustCompile(`(?i)\(.*\baudio\b.*\)`),
	regexp.MustCompile(`(?i)\[.*\baudio\b.*\]`),
	regexp.MustCompile(`(?i)\(.*\bvisualizer\b.*\)`),
	regexp.MustCompile(`(?i)\[.*\bvisualizer\b.*\]`),
	regexp.MustCompile(`(?i)\(.*\bfull album\b.*\)`),
	regexp.MustCompile(`(?i)\[.*\bfull album\b.*\]`),
	regexp.MustCompile(`(?i)\(.*\blive\b.*\)`),
	regexp.MustCompile(`(?i)\[.*\blive\b.*\]`),
	regexp.MustCompile(`(?i)\(\s*HD\s*\)`),
	regexp.MustCompile(`(?i)\[\s*HD\s*\]`),
	regexp.MustCompile(`(?i)\(\s*HQ\s*\)`),
	regexp.MustCompile(`(?i)\[\s*HQ\s*\]`),
	regexp.MustCompile(`(?i)\(\s*4K\s*\)`),
	regexp.MustCompile(`(?i)\[\s*4K\s*\]`),
	regexp.MustCompile(`(?i)\(feat\.[^)]+\)`),
	regexp.MustCompile(`(?i)\[feat\.[^\]]+\]`),
	regexp.MustCompile(`(?i)\(ft\.[^)]+\)`),
	regexp.MustCompile(`(?i)\[ft\.[^\]]+\]`),
	regexp.MustCompile(`(?i)\(prod\.[^)]+\)`),
	regexp.MustCompile(`(?i)\[prod\.[^\]]+\]`),
	regexp.MustCompile(`\s*#\w+`),
}

var (
	emptyParensRegex   = regexp.MustCompile(`\(\s*\)`)
	emptyBracketsRegex = regexp.MustCompile(`\[\s*\]`)
	channelSuffixRegex = regexp.MustCompile(`(?i)\s*(VEVO|Music|Official|Records|Label)$`)
)

// titleSeparators are tried in order when splitting "Artist - Song" titles.
var titleSeparators = []string{" - ", " – ", " — ", " | ", "- ", " -"}

const titleEdgeCutset = " \t\n\r-_|"

// CleanTitle removes common decorations from a YouTube video title:
// (Official Music Video), [Lyrics], (Audio), quality markers, hashtags and
// the bracket residue they leave behind.
func CleanTitle(title string) string {
	if title == "" {
		return ""
	}

	cleaned := title
	for _, pattern := range noisePatterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}

	cleaned = emptyParensRegex.ReplaceAllString(cleaned, "")
	cleaned = emptyBracketsRegex.ReplaceAllString(cleaned, "")

	cleaned = strings.Trim(cleaned, titleEdgeCutset)
	return strings.TrimSpace(cleaned)
}

// splitTitle attempts to split a cleaned title into an artist and song part.
// Returns empty strings when no separator is present.
func splitTitle(title string) (string, string) {
	for _, sep := range titleSeparators {
		if idx := strings.Index(title, sep); idx > 0 {
			artist := strings.TrimSpace(title[:idx])
			song := strings.TrimSpace(title[idx+len(sep):])
			if artist != "" && song != "" {
				return artist, song
			}
		}
	}
	return "", ""
}

// cleanChannel strips common uploader suffixes (VEVO, Music, Official,
// Records, Label) so a channel name can stand in for the artist.
func cleanChannel(channel string) string {
	cleaned := strings.TrimSpace(channelSuffixRegex.ReplaceAllString(channel, ""))
	if cleaned == "" {
		return channel
	}
	return cleaned
}

// ParseArtistSong attempts to parse artist and song name from a cleaned
// YouTube title.
//
// The split is heuristic: "Artist - Song" style separators are tried first;
// when that fails, or either part is implausibly short, the whole title is
// treated as the song and the uploader channel (minus common suffixes)
// becomes the artist. Either return value can be empty.
func ParseArtistSong(cleanedTitle, channelTitle string) (artist, song string) {
	if cleanedTitle == "" {
		return "", ""
	}

	potentialArtist, potentialSong := splitTitle(cleanedTitle)

	if len(potentialArtist) > 1 && len(potentialSong) > 1 {
		artist = potentialArtist
		song = potentialSong
	} else {
		song = cleanedTitle
		if channelTitle != "" {
			artist = cleanChannel(channelTitle)
		}
	}

	artist = strings.Trim(artist, " \t\n\r-_|[]()")
	song = strings.Trim(song, " \t\n\r-_|[]()")

	if artist == "" && channelTitle != "" {
		artist = cleanChannel(channelTitle)
	}

	return artist, song
}
