// ═══════════════════════════════════════════════════════════════════════════════
// SCORING POLICIES
// ═══════════════════════════════════════════════════════════════════════════════
// A ScorePolicy is the single point where a fuzzy match turns into a
// contribution to a document's aggregate score. All four policies are
// additive — query-time aggregation never depends on token order — so they
// are expressed as a tiny interface with one method rather than a tagged
// variant with a type switch. No reflection.
//
// Every policy receives the same seven things:
//   - scores:    the running DocumentID -> float64 score map, mutated in place
//   - doc:       the document this call concerns
//   - matchScore: 1/(distance+1) for the fuzzy match that produced this call
//   - normalizer: L*M, the (unique query tokens) * (matches for this token) product
//   - prevDocs:   a per-token repeat counter, reset before each token is aggregated
//   - tfidf:      the corpus TF-IDF matrix, nil-safe, used only by the tfidf variants
//   - word:       the matched vocabulary word, used only by the tfidf variants
//
// The penalty variants damp a document that keeps reappearing across a
// single token's fuzzy candidates, so one noisy token can't dominate the
// ranking by itself.
// ═══════════════════════════════════════════════════════════════════════════════

package fsearch

// ScorePolicy contributes one fuzzy match's worth of evidence to scores[doc].
type ScorePolicy interface {
	Apply(scores map[DocumentID]float64, doc DocumentID, matchScore, normalizer float64, prevDocs map[DocumentID]int, tfidf *TFIDF, word Word)
}

// RatioPolicy distributes match_score evenly across the normalizer with no
// repeat penalty. This is the "ratio" policy from spec §4.4.
type RatioPolicy struct{}

func (RatioPolicy) Apply(scores map[DocumentID]float64, doc DocumentID, matchScore, normalizer float64, _ map[DocumentID]int, _ *TFIDF, _ Word) {
	if normalizer == 0 {
		return
	}
	scores[doc] += matchScore / normalizer
}

// RatioWithPenaltyPolicy is RatioPolicy with a per-token repeat penalty: the
// more times a document has already been credited for this same token's
// fuzzy candidates, the smaller each further contribution. This is the
// default policy.
type RatioWithPenaltyPolicy struct{}

func (RatioWithPenaltyPolicy) Apply(scores map[DocumentID]float64, doc DocumentID, matchScore, normalizer float64, prevDocs map[DocumentID]int, _ *TFIDF, _ Word) {
	prevDocs[doc]++
	denom := normalizer * float64(prevDocs[doc])
	if denom == 0 {
		return
	}
	scores[doc] += matchScore / denom
}

// TFIDFPolicy weights the ratio contribution by the matched word's TF-IDF
// weight in the target document, so a word that is distinctive for that
// document counts for more than a word that appears nearly everywhere.
type TFIDFPolicy struct{}

func (TFIDFPolicy) Apply(scores map[DocumentID]float64, doc DocumentID, matchScore, normalizer float64, _ map[DocumentID]int, tfidf *TFIDF, word Word) {
	if normalizer == 0 {
		return
	}
	scores[doc] += matchScore * tfidf.Value(doc, word) / normalizer
}

// TFIDFWithPenaltyPolicy combines the TF-IDF weighting of TFIDFPolicy with
// the repeat penalty of RatioWithPenaltyPolicy.
type TFIDFWithPenaltyPolicy struct{}

func (TFIDFWithPenaltyPolicy) Apply(scores map[DocumentID]float64, doc DocumentID, matchScore, normalizer float64, prevDocs map[DocumentID]int, tfidf *TFIDF, word Word) {
	prevDocs[doc]++
	denom := normalizer * float64(prevDocs[doc])
	if denom == 0 {
		return
	}
	scores[doc] += matchScore * tfidf.Value(doc, word) / denom
}

// PolicyName identifies one of the four built-in policies by the name used
// in spec §4.4, for config files and CLI flags.
type PolicyName string

const (
	PolicyRatio             PolicyName = "ratio"
	PolicyRatioWithPenalty  PolicyName = "ratio_with_penalty"
	PolicyTFIDF             PolicyName = "tfidf"
	PolicyTFIDFWithPenalty  PolicyName = "tfidf_with_penalty"
	DefaultPolicyName       PolicyName = PolicyRatioWithPenalty
)

// policies is a fixed lookup table, not a reflection-based registry: the
// set of policies is closed and small.
var policies = map[PolicyName]ScorePolicy{
	PolicyRatio:            RatioPolicy{},
	PolicyRatioWithPenalty: RatioWithPenaltyPolicy{},
	PolicyTFIDF:            TFIDFPolicy{},
	PolicyTFIDFWithPenalty: TFIDFWithPenaltyPolicy{},
}

// ResolvePolicy looks up a built-in policy by name. An unknown name falls
// back to DefaultPolicyName rather than failing a query outright.
func ResolvePolicy(name PolicyName) ScorePolicy {
	if p, ok := policies[name]; ok {
		return p
	}
	return policies[DefaultPolicyName]
}
