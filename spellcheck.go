// ═══════════════════════════════════════════════════════════════════════════════
// EXTERNAL SPELLCHECK ADAPTER
// ═══════════════════════════════════════════════════════════════════════════════
// Very long queries (more than spellcheckThreshold unique tokens) route to
// this adapter instead of the BK-tree. The query engine only ever talks to
// the SpellBackend interface — load a dictionary, look up a word — and is
// oblivious to whatever candidate-generation strategy sits behind it.
//
// DeletionBackend is a from-scratch, symmetric-deletion (SymSpell-style)
// implementation of that interface: every dictionary word is indexed under
// every string reachable by deleting up to maxEditDistance of its
// characters, and a lookup generates the same deletions for the probe and
// matches them against that index. A word within edit distance N of the
// probe is reachable by at most N deletions from one side or the other, so
// this catches insertions, deletions, and substitutions without ever
// scanning the full dictionary.
// ═══════════════════════════════════════════════════════════════════════════════

package fsearch

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/levenshtein"
)

// Verbosity selects how many candidates Lookup returns.
type Verbosity int

const (
	// VerbosityClosest returns only the candidates at the lowest distance
	// found (spec §4.6: "return only the lowest-distance candidate set").
	VerbosityClosest Verbosity = iota

	// VerbosityAll returns every candidate within maxEditDistance.
	VerbosityAll
)

// DefaultMaxEditDistance is the spec's default max_edit_distance for
// spellcheck lookups.
const DefaultMaxEditDistance = 2

// SpellBackend is the capability surface the query engine requires from
// any alternate fuzzy backend (spec §4.6). The query engine never inspects
// a backend's internals.
type SpellBackend interface {
	// Load reads a word_counts.txt-style (<word> <count>\n) dictionary.
	Load(wordCountsFile string) error

	// Lookup returns approximate dictionary matches for word.
	Lookup(word Word, verbosity Verbosity, maxEditDistance int) []FuzzyMatch
}

// DeletionBackend is a symmetric-deletion spellcheck backend.
type DeletionBackend struct {
	maxEditDistance int
	dictionary      map[Word]int
	deletes         map[Word][]Word
}

// NewDeletionBackend constructs an empty DeletionBackend. maxEditDistance
// <= 0 falls back to DefaultMaxEditDistance.
func NewDeletionBackend(maxEditDistance int) *DeletionBackend {
	if maxEditDistance <= 0 {
		maxEditDistance = DefaultMaxEditDistance
	}
	return &DeletionBackend{
		maxEditDistance: maxEditDistance,
		dictionary:      make(map[Word]int),
		deletes:         make(map[Word][]Word),
	}
}

// Load reads a line-based "<word> <count>" dictionary file and builds the
// deletion index over it.
func (b *DeletionBackend) Load(wordCountsFile string) error {
	data, err := os.ReadFile(wordCountsFile)
	if err != nil {
		return fmt.Errorf("%w: reading word-counts file %q: %v", ErrIO, wordCountsFile, err)
	}

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return fmt.Errorf("%w: malformed word-counts line %q", ErrInputFormat, line)
		}
		count, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("%w: malformed word-counts line %q: %v", ErrInputFormat, line, err)
		}

		word := fields[0]
		b.dictionary[word] = count
		for _, del := range deletions(word, b.maxEditDistance) {
			b.deletes[del] = append(b.deletes[del], word)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: scanning word-counts file %q: %v", ErrIO, wordCountsFile, err)
	}
	return nil
}

// Lookup returns dictionary words within maxEditDistance of word. A
// maxEditDistance <= 0 falls back to the backend's configured default.
func (b *DeletionBackend) Lookup(word Word, verbosity Verbosity, maxEditDistance int) []FuzzyMatch {
	if maxEditDistance <= 0 {
		maxEditDistance = b.maxEditDistance
	}

	candidates := make(map[Word]struct{})
	if _, ok := b.dictionary[word]; ok {
		candidates[word] = struct{}{}
	}
	// A dictionary word may be the probe with characters deleted (the
	// probe's own deletions hit the dictionary directly), or the probe may
	// be a dictionary word with characters deleted (the probe itself is a
	// key of the deletion index).
	for _, cand := range b.deletes[word] {
		candidates[cand] = struct{}{}
	}
	for _, del := range deletions(word, maxEditDistance) {
		if _, ok := b.dictionary[del]; ok {
			candidates[del] = struct{}{}
		}
		for _, cand := range b.deletes[del] {
			candidates[cand] = struct{}{}
		}
	}

	matches := make([]FuzzyMatch, 0, len(candidates))
	best := maxEditDistance + 1
	for cand := range candidates {
		d := levenshtein.ComputeDistance(word, cand)
		if d > maxEditDistance {
			continue
		}
		matches = append(matches, FuzzyMatch{Distance: d, Word: cand})
		if d < best {
			best = d
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })

	if verbosity != VerbosityClosest {
		return matches
	}

	closest := matches[:0]
	for _, m := range matches {
		if m.Distance == best {
			closest = append(closest, m)
		}
	}
	return closest
}

// deletions returns every distinct string reachable from word by deleting
// between 1 and maxEditDistance of its runes.
func deletions(word Word, maxEditDistance int) []Word {
	seen := make(map[Word]struct{})
	frontier := []Word{word}

	for d := 0; d < maxEditDistance; d++ {
		next := make([]Word, 0, len(frontier))
		for _, w := range frontier {
			runes := []rune(w)
			for i := range runes {
				deleted := make([]rune, 0, len(runes)-1)
				deleted = append(deleted, runes[:i]...)
				deleted = append(deleted, runes[i+1:]...)
				candidate := string(deleted)
				if _, ok := seen[candidate]; ok {
					continue
				}
				seen[candidate] = struct{}{}
				next = append(next, candidate)
			}
		}
		frontier = next
	}

	out := make([]Word, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	return out
}
