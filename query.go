// ═══════════════════════════════════════════════════════════════════════════════
// QUERY ENGINE
// ═══════════════════════════════════════════════════════════════════════════════
// Answering a query is: tokenize -> filter -> dedupe+sort -> pick a fuzzy
// backend -> fan the tokens out to it in parallel -> aggregate every
// token's candidates into a per-document score -> return the top k.
//
// BACKEND SELECTION:
// -------------------
// Short queries (<= 86 unique tokens after filtering) go to the BK-tree.
// Longer queries route to the external spellcheck adapter instead — the
// BK-tree's per-token cost grows with vocabulary size and stops being
// worth it once a query already has that many distinct probes of its own.
//
// AGGREGATION ORDER:
// -------------------
// Fan-out runs concurrently and may complete in any order, but the tokens
// are dedup+sorted up front, so aggregation always walks the result slice
// in that same fixed token order — token completion order on the wire
// never leaks into the final scores.
// ═══════════════════════════════════════════════════════════════════════════════

package fsearch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"
)

// spellcheckThreshold is L, the unique-token count past which a query
// routes to the external spellcheck backend instead of the BK-tree.
const spellcheckThreshold = 86

// QueryConfig controls a QueryEngine's behaviour.
type QueryConfig struct {
	// Tolerance is the BK-tree distance cutoff tau.
	Tolerance int

	// CandidateCap is the match cap n passed to the fuzzy backend; -1
	// means unlimited.
	CandidateCap int

	// Policy names the default ScorePolicy used when a query doesn't
	// pick its own.
	Policy PolicyName

	// Parallel selects the worker-pool fan-out. Disabling it runs every
	// token's lookup sequentially — same aggregation result, useful for
	// deterministic tests and for environments where spinning up a pool
	// isn't worth it.
	Parallel bool

	// StopWords are stripped from the query before dedup+sort, same set
	// the documents were indexed with.
	StopWords StopWordSet
}

// DefaultQueryConfig returns the spec's defaults: tolerance 20, unlimited
// candidates, ratio_with_penalty, parallel fan-out.
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		Tolerance:    20,
		CandidateCap: -1,
		Policy:       DefaultPolicyName,
		Parallel:     true,
		StopWords:    StopWordSet{},
	}
}

// fuzzyLookup is the capability both fuzzy backends share: given a word,
// return its fuzzy candidates. The BK-tree and the spellcheck adapter have
// different native signatures (the BK-tree is tolerance/k driven, the
// spellcheck adapter is verbosity/max-edit-distance driven); this
// interface is what lets the query engine stay oblivious to which one it
// is talking to.
type fuzzyLookup interface {
	Lookup(ctx context.Context, word Word, tolerance, candidateCap int) []FuzzyMatch
}

type bkTreeBackend struct {
	tree *BKTree
}

func (b bkTreeBackend) Lookup(ctx context.Context, word Word, tolerance, candidateCap int) []FuzzyMatch {
	return b.tree.Find(ctx, word, tolerance, candidateCap)
}

type spellcheckBackendAdapter struct {
	backend SpellBackend
}

func (s spellcheckBackendAdapter) Lookup(_ context.Context, word Word, _, _ int) []FuzzyMatch {
	return s.backend.Lookup(word, VerbosityClosest, DefaultMaxEditDistance)
}

// QueryEngine answers find_relevant_documents queries (spec §4.4) against
// a fixed, already-built Index. It holds only read-only references to the
// index's artifacts and never mutates them.
type QueryEngine struct {
	Index      *Index
	Config     QueryConfig
	Spellcheck SpellBackend
}

// NewQueryEngine builds a QueryEngine over index. spellcheck may be nil if
// the caller never expects queries longer than spellcheckThreshold tokens;
// such a query then fails with ErrInputFormat rather than panicking.
func NewQueryEngine(index *Index, config QueryConfig, spellcheck SpellBackend) *QueryEngine {
	return &QueryEngine{Index: index, Config: config, Spellcheck: spellcheck}
}

// Find tokenizes query, filters stop-words, dedupes and sorts the
// remaining tokens, fans them out to the selected fuzzy backend, and
// returns the k highest-scoring documents. k = -1 means unlimited.
//
// Returns ErrEmptyQuery if nothing survives tokenization and stop-word
// filtering (spec §7): an empty query is not an error condition in the
// corpus sense, but callers need to be able to tell "nothing matched"
// apart from "there was nothing to search for".
func (qe *QueryEngine) Find(ctx context.Context, query string, k int) ([]Match, error) {
	return qe.FindWithPolicy(ctx, query, k, qe.Config.Policy)
}

// FindWithPolicy is Find with an explicit policy override for this one
// query, bypassing Config.Policy.
func (qe *QueryEngine) FindWithPolicy(ctx context.Context, query string, k int, policyName PolicyName) ([]Match, error) {
	tokens := dedupeSorted(FilterStopWords(NormalizeText(query), qe.Config.StopWords))
	L := len(tokens)
	if L == 0 {
		return nil, ErrEmptyQuery
	}

	useSpellcheck := L > spellcheckThreshold
	var backend fuzzyLookup
	if useSpellcheck {
		if qe.Spellcheck == nil {
			return nil, fmt.Errorf("%w: query has %d tokens (> %d) but no spellcheck backend is configured", ErrInputFormat, L, spellcheckThreshold)
		}
		backend = spellcheckBackendAdapter{backend: qe.Spellcheck}
	} else {
		backend = bkTreeBackend{tree: qe.Index.BKTree}
	}

	slog.Debug("query", slog.Int("tokens", L), slog.Bool("spellcheck", useSpellcheck))

	results := qe.fanOut(ctx, tokens, backend)

	policy := ResolvePolicy(policyName)
	scores := make(map[DocumentID]float64)
	for _, matches := range results {
		qe.aggregate(scores, matches, float64(L), policy, useSpellcheck)
	}

	return topK(scores, k), nil
}

// fanOut looks up every token's fuzzy candidates, in the worker pool when
// Config.Parallel is set, or sequentially otherwise. Either way the
// returned slice is indexed by tokens' position, not by completion order.
func (qe *QueryEngine) fanOut(ctx context.Context, tokens []Word, backend fuzzyLookup) [][]FuzzyMatch {
	results := make([][]FuzzyMatch, len(tokens))

	if !qe.Config.Parallel {
		for i, tok := range tokens {
			results[i] = backend.Lookup(ctx, tok, qe.Config.Tolerance, qe.Config.CandidateCap)
		}
		return results
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for i, tok := range tokens {
		i, tok := i, tok
		group.Go(func() error {
			results[i] = backend.Lookup(groupCtx, tok, qe.Config.Tolerance, qe.Config.CandidateCap)
			return nil
		})
	}
	_ = group.Wait() // Lookup itself never errors; Wait only joins the pool

	return results
}

// aggregate folds one token's fuzzy matches into scores. prevDocs is reset
// per token (spec §4.4 step 5), so the penalty policies only damp repeats
// within a single token's candidate set, never across tokens.
//
// The BK-tree path explicitly checks vocabulary membership via the
// roaring-bitmap docSets cache (Index.DocumentCount) before crediting a
// candidate (LookupMiss, spec §7); the spellcheck path does not perform
// that check, preserving the documented asymmetry between the two
// backends rather than unifying them.
func (qe *QueryEngine) aggregate(scores map[DocumentID]float64, matches []FuzzyMatch, L float64, policy ScorePolicy, useSpellcheck bool) {
	prevDocs := make(map[DocumentID]int)
	normalizer := L * float64(len(matches))

	for _, m := range matches {
		matchScore := 1.0 / float64(m.Distance+1)

		if useSpellcheck {
			for _, doc := range qe.Index.Postings[m.Word] {
				policy.Apply(scores, doc, matchScore, normalizer, prevDocs, qe.Index.TFIDF, m.Word)
			}
			continue
		}

		// LookupMiss (spec §7): m.Word is a BK-tree node label, so it is
		// drawn from the same vocabulary the postings map and the
		// roaring-bitmap docSets cache were both built from — but the
		// bitmap is the actual O(1) membership gate here, not a map
		// presence test, so it is genuinely on this hot path rather than
		// sitting beside it unused.
		if qe.Index.DocumentCount(m.Word) == 0 {
			continue
		}
		for _, doc := range qe.Index.Postings[m.Word] {
			policy.Apply(scores, doc, matchScore, normalizer, prevDocs, qe.Index.TFIDF, m.Word)
		}
	}
}

// dedupeSorted removes duplicate tokens and sorts the survivors
// lexicographically, mirroring the original numpy-backed implementation's
// use of np.unique for query preprocessing (see SPEC_FULL.md).
func dedupeSorted(tokens []Word) []Word {
	seen := make(map[Word]bool, len(tokens))
	out := make([]Word, 0, len(tokens))
	for _, tok := range tokens {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// topK returns the k highest-scoring entries of scores, ordered by score
// descending and ties broken by descending doc id — the reference
// behaviour spec §4.4 step 6 specifies explicitly. k = -1 (or any negative
// value, or a value >= len(scores)) returns every scored document.
func topK(scores map[DocumentID]float64, k int) []Match {
	matches := make([]Match, 0, len(scores))
	for doc, score := range scores {
		matches = append(matches, Match{DocumentID: doc, Score: score})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].DocumentID > matches[j].DocumentID
	})

	if k >= 0 && k < len(matches) {
		matches = matches[:k]
	}
	return matches
}
