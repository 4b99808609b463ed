// ═══════════════════════════════════════════════════════════════════════════════
// FUZZY DISTANCE
// ═══════════════════════════════════════════════════════════════════════════════
// The BK-tree needs a single pure function that turns a pair of strings into
// an integer "how different are these" score on a fixed 0-100 scale. We
// derive it from the classic similarity ratio:
//
//	ratio(s1, s2) = 100 * (|s1| + |s2| - editDistance(s1, s2)) / (|s1| + |s2|)
//
// and its complement:
//
//	d(s1, s2) = 100 - round(ratio(s1, s2))
//
// EXAMPLE:
// --------
//
//	Distance("kava", "kava") = 0      (identical)
//	Distance("kava", "kawa") = 12     (one substitution out of 8 total chars)
//	Distance("kava", "sok")  = 57     (no characters in common, 4 edits out of 7)
//
// Two identical empty strings have ratio 100 by convention (nothing to
// disagree about), so the distance is 0.
// ═══════════════════════════════════════════════════════════════════════════════

package fsearch

import (
	"math"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/levenshtein"
)

// Distance computes the BK-tree metric between two words: an integer in
// [0, 100], symmetric, and zero when s1 == s2 as rune sequences. Because the
// ratio is rounded, a single edit also yields zero once the two words
// together exceed 200 runes.
func Distance(s1, s2 string) int {
	return 100 - int(math.Round(SimilarityRatio(s1, s2)))
}

// SimilarityRatio is the underlying 0-100 similarity score that Distance
// complements. Exposed separately because the query engine's match_score
// formula (1/(distance+1)) reads more naturally against the distance, but
// tests and callers that want the raw ratio (e.g. for tuning tolerance)
// shouldn't have to reconstruct it from the distance.
func SimilarityRatio(s1, s2 string) float64 {
	l1 := utf8.RuneCountInString(s1)
	l2 := utf8.RuneCountInString(s2)
	if l1 == 0 && l2 == 0 {
		return 100
	}

	edits := levenshtein.ComputeDistance(s1, s2)
	return 100 * float64(l1+l2-edits) / float64(l1+l2)
}
