package match

import (
	"math"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Score computes a token-set similarity score in [0, 100] between two
// strings. Both inputs are normalized before comparison, so case, accents
// and punctuation do not affect the score.
//
// The token-set construction makes the score robust against word order and
// against one side carrying extra tokens ("Artist Song" vs "Song Artist
// Remastered"): shared tokens are compared against each full token set and
// the best Levenshtein similarity of the three pairings wins.
func Score(a, b string) int {
	a = Normalize(a)
	b = Normalize(b)

	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	tokensA := tokenSet(a)
	tokensB := tokenSet(b)

	shared := intersect(tokensA, tokensB)
	onlyA := subtract(tokensA, tokensB)
	onlyB := subtract(tokensB, tokensA)

	base := joinSorted(shared)
	combinedA := strings.TrimSpace(base + " " + joinSorted(onlyA))
	combinedB := strings.TrimSpace(base + " " + joinSorted(onlyB))

	lev := metrics.NewLevenshtein()

	best := similarity(combinedA, combinedB, lev)
	if base != "" {
		if s := similarity(base, combinedA, lev); s > best {
			best = s
		}
		if s := similarity(base, combinedB, lev); s > best {
			best = s
		}
	}

	return int(math.Round(best * 100))
}

func similarity(a, b string, lev *metrics.Levenshtein) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	return strutil.Similarity(a, b, lev)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

func intersect(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for tok := range a {
		if _, ok := b[tok]; ok {
			out[tok] = struct{}{}
		}
	}
	return out
}

func subtract(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for tok := range a {
		if _, ok := b[tok]; !ok {
			out[tok] = struct{}{}
		}
	}
	return out
}

func joinSorted(set map[string]struct{}) string {
	tokens := make([]string, 0, len(set))
	for tok := range set {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
