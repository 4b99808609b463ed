// ═══════════════════════════════════════════════════════════════════════════════
// TEXT NORMALIZATION
// ═══════════════════════════════════════════════════════════════════════════════
// Unlike a general-purpose English analyzer (lowercase -> stopwords -> length
// filter -> stem), this corpus is transcribed Slavic speech with a
// deliberately restricted alphabet. Normalization has three stages:
//
//  1. Lowercase        -> "Kava"  => "kava"
//  2. Alphabet filter  -> drop every rune not in AllowedAlphabet
//  3. Tokenize         -> split on whitespace
//
// There is no stemming stage: multi-language stemming is an explicit
// non-goal, and the upstream corpus alphabet (Slavic, with diacritics) has
// no correct English-stemmer analogue to reach for.
// ═══════════════════════════════════════════════════════════════════════════════

package fsearch

import (
	"fmt"
	"os"
	"strings"
)

// AllowedAlphabet is the 34-character normalizer contract: 33 Slavic
// lowercase letters with diacritics, plus space. It is a plain data contract, not a
// language detail, so it is trivially reconfigurable by anyone embedding
// this package for a different alphabet.
//
// Memory note: struct{} values cost nothing per entry, the same trick the
// teacher uses for its stopword set.
var AllowedAlphabet = map[rune]struct{}{
	'a': {}, 'b': {}, 'c': {}, 'č': {}, 'ć': {}, 'd': {}, 'đ': {}, 'e': {},
	'é': {}, 'f': {}, 'g': {}, 'h': {}, 'i': {}, 'j': {}, 'k': {}, 'l': {},
	'm': {}, 'n': {}, 'o': {}, 'ó': {}, 'p': {}, 'q': {}, 'r': {}, 's': {},
	'š': {}, 't': {}, 'u': {}, 'v': {}, 'w': {}, 'x': {}, 'y': {}, 'z': {},
	'ž': {}, ' ': {},
}

// NormalizeText lowercases text, drops every character outside
// AllowedAlphabet, and splits the remainder on whitespace to produce tokens.
// This is the exact pipeline the indexer and the query engine both run, so
// that indexed vocabulary and query tokens are comparable.
func NormalizeText(text string) []Word {
	lowered := strings.ToLower(text)

	filtered := make([]rune, 0, len(lowered))
	for _, r := range lowered {
		if _, ok := AllowedAlphabet[r]; ok {
			filtered = append(filtered, r)
		}
	}

	return strings.Fields(string(filtered))
}

// StopWordSet is a set of words to exclude from indexing and querying.
type StopWordSet map[Word]struct{}

// LoadStopWords reads a single UTF-8 file of comma-separated words. An empty
// path, or a path to an empty file, yields an empty set ("no stop words"),
// per spec §6.
func LoadStopWords(path string) (StopWordSet, error) {
	if path == "" {
		return StopWordSet{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading stop-words file %q: %v", ErrIO, path, err)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return StopWordSet{}, nil
	}

	words := strings.Split(trimmed, ",")
	set := make(StopWordSet, len(words))
	for _, w := range words {
		set[strings.TrimSpace(w)] = struct{}{}
	}
	return set, nil
}

// FilterStopWords removes every token present in stopWords, preserving
// order.
func FilterStopWords(tokens []Word, stopWords StopWordSet) []Word {
	if len(stopWords) == 0 {
		return tokens
	}
	filtered := make([]Word, 0, len(tokens))
	for _, tok := range tokens {
		if _, excluded := stopWords[tok]; !excluded {
			filtered = append(filtered, tok)
		}
	}
	return filtered
}
