// ═══════════════════════════════════════════════════════════════════════════════
// TF-IDF MATRIX
// ═══════════════════════════════════════════════════════════════════════════════
// The tfidf scoring policies (scoring.go) need, for a (document, word) pair,
// "how distinctive is this word in this document". We build a dense
// document x feature matrix once at index time using gonum's mat.Dense as
// the backing store — the same dense-matrix type the rest of the retrieved
// pack reaches for when it needs numeric document vectors.
//
// WEIGHTING:
// ----------
//
//	tf(doc, term)  = raw count of term in doc
//	idf(term)      = ln((1+N)/(1+df(term))) + 1        (smoothed)
//	weight         = tf * idf, then each row L2-normalized
//
// Terms are the unigrams that survive stop-word filtering; the vocabulary
// (and therefore the matrix's column order) is the sorted union of those
// tokens across every non-empty document, so two runs over the same corpus
// produce byte-identical FeatureMaps.
// ═══════════════════════════════════════════════════════════════════════════════

package fsearch

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// TFIDF is the document x feature weight matrix plus the column ordering
// that makes it addressable by word.
type TFIDF struct {
	Matrix     *mat.Dense
	FeatureMap map[Word]int
}

// BuildTFIDF computes the TF-IDF matrix for a dense, 0-based document array
// (documents[docID] is that document's normalized, stop-word-filtered text,
// space-joined) against the same stop-word list used at index time.
func BuildTFIDF(documents []string, stopWords StopWordSet) *TFIDF {
	n := len(documents)
	docTokens := make([][]Word, n)
	documentFrequency := make(map[Word]int)
	featureSeen := make(map[Word]bool)
	featureOrder := make([]Word, 0)

	for i, doc := range documents {
		tokens := FilterStopWords(strings.Fields(doc), stopWords)
		docTokens[i] = tokens
		if len(tokens) == 0 {
			continue
		}

		seenInDoc := make(map[Word]bool, len(tokens))
		for _, tok := range tokens {
			if seenInDoc[tok] {
				continue
			}
			seenInDoc[tok] = true
			documentFrequency[tok]++
			if !featureSeen[tok] {
				featureSeen[tok] = true
				featureOrder = append(featureOrder, tok)
			}
		}
	}

	sort.Strings(featureOrder)
	featureMap := make(map[Word]int, len(featureOrder))
	idf := make([]float64, len(featureOrder))
	for i, term := range featureOrder {
		featureMap[term] = i
		idf[i] = math.Log(float64(1+n)/float64(1+documentFrequency[term])) + 1
	}

	matrix := mat.NewDense(n, len(featureOrder), nil)
	for i, tokens := range docTokens {
		termFreq := make(map[Word]int)
		for _, tok := range tokens {
			termFreq[tok]++
		}

		var normSq float64
		for term, count := range termFreq {
			idx, ok := featureMap[term]
			if !ok {
				continue
			}
			weight := float64(count) * idf[idx]
			matrix.Set(i, idx, weight)
			normSq += weight * weight
		}

		if normSq > 0 {
			norm := math.Sqrt(normSq)
			for term := range termFreq {
				idx, ok := featureMap[term]
				if !ok {
					continue
				}
				matrix.Set(i, idx, matrix.At(i, idx)/norm)
			}
		}
	}

	return &TFIDF{Matrix: matrix, FeatureMap: featureMap}
}

// Value returns the TF-IDF weight of word in docID, or 0 if either is
// absent from the matrix (an absent term is, by the data-model invariant
// in spec §3, simply a zero column).
func (t *TFIDF) Value(docID DocumentID, word Word) float64 {
	if t == nil || t.Matrix == nil {
		return 0
	}
	idx, ok := t.FeatureMap[word]
	if !ok {
		return 0
	}
	rows, _ := t.Matrix.Dims()
	if int(docID) < 0 || int(docID) >= rows {
		return 0
	}
	return t.Matrix.At(int(docID), idx)
}
