// package match implements the title parsing and fuzzy matching used to map
// YouTube videos to Spotify tracks.
package match

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	punctRegex      = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Normalize folds a string for comparison: NFKD decomposition with combining
// marks stripped, punctuation replaced by spaces, lowercase, collapsed
// whitespace.
func Normalize(text string) string {
	text = norm.NFKD.String(text)

	var result strings.Builder
	for _, r := range text {
		if !unicode.IsMark(r) {
			result.WriteRune(r)
		}
	}
	text = result.String()

	text = punctRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")

	text = strings.ToLower(text)
	return strings.TrimSpace(text)
}

// CacheKey builds the deduplication key for a parsed artist/song pair.
// Songs that normalize to the same key share one Spotify lookup.
func CacheKey(artist, song string) string {
	return strings.TrimSpace(Normalize(artist) + " - " + Normalize(song))
}
