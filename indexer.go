// ═══════════════════════════════════════════════════════════════════════════════
// INDEXING PIPELINE
// ═══════════════════════════════════════════════════════════════════════════════
// The indexer walks a directory of plain-text documents and produces every
// artifact the query engine needs: a BK-tree over the vocabulary, a posting
// list per word, a corpus-wide frequency count per word, the raw filtered
// token stream per document (for TF-IDF), and — once every file is in —
// the TF-IDF matrix itself.
//
// Document ids are NOT assigned by discovery order; they are parsed out of
// each filename (see ParseDocumentID), so two indexing runs over the same
// directory in a different walk order still produce the same id for the
// same file.
// ═══════════════════════════════════════════════════════════════════════════════

package fsearch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// IndexerConfig controls a single indexing run.
type IndexerConfig struct {
	// StopWords are excluded from postings, counts, and the TF-IDF
	// vocabulary. An empty set means "index everything".
	StopWords StopWordSet

	// BuildTFIDF controls whether the (optional, per spec §4.3) TF-IDF
	// matrix is computed after the walk completes.
	BuildTFIDF bool
}

// DefaultIndexerConfig returns the standard indexing configuration: no
// stop-words, TF-IDF enabled.
func DefaultIndexerConfig() IndexerConfig {
	return IndexerConfig{
		StopWords:  StopWordSet{},
		BuildTFIDF: true,
	}
}

// Index holds every artifact the indexer produces and the query engine
// reads. It is built once and is immutable for the remainder of its
// lifetime; nothing in this package mutates an Index after Indexer.Run
// returns it.
type Index struct {
	BKTree     *BKTree
	Postings   map[Word][]DocumentID
	WordCounts map[Word]int
	Documents  []string
	TFIDF      *TFIDF

	// docSets mirrors Postings as a compressed bitmap per word, used for
	// O(1) membership checks instead of a linear scan of the posting
	// list. It is a derived cache, not an independent artifact: it is
	// rebuilt from Postings on load rather than persisted on its own.
	docSets map[Word]*roaring.Bitmap
}

// HasDocument reports whether doc is among the documents posted under
// word. It reads the same bitmap cache as DocumentCount, which is what the
// query engine's BK-tree aggregation path uses for its LookupMiss check.
func (idx *Index) HasDocument(word Word, doc DocumentID) bool {
	bm, ok := idx.docSets[word]
	if !ok {
		return false
	}
	return bm.Contains(uint32(doc))
}

// DocumentCount reports how many distinct documents a word is posted
// under, in O(1) via the bitmap's cardinality rather than len(Postings[word]),
// which may contain duplicates (spec §3, PostingList invariant).
func (idx *Index) DocumentCount(word Word) int {
	bm, ok := idx.docSets[word]
	if !ok {
		return 0
	}
	return int(bm.GetCardinality())
}

// rebuildDocSets recomputes docSets from Postings. Called both at the end
// of a fresh indexing run and after LoadIndex, so the bitmap cache is never
// itself a source of truth.
func (idx *Index) rebuildDocSets() {
	idx.docSets = make(map[Word]*roaring.Bitmap, len(idx.Postings))
	for word, docs := range idx.Postings {
		bm := roaring.NewBitmap()
		for _, d := range docs {
			bm.Add(uint32(d))
		}
		idx.docSets[word] = bm
	}
}

// Indexer runs the indexing pipeline described in spec §4.3.
type Indexer struct {
	Config IndexerConfig
}

// NewIndexer constructs an Indexer with the given configuration.
func NewIndexer(config IndexerConfig) *Indexer {
	return &Indexer{Config: config}
}

// ParseDocumentID extracts the document id from a filename following the
// <prefix>_<doc_number>_<suffix> contract (spec §3/§6): split the basename
// on "_", take the second field, parse it as a 1-based integer, and return
// it as a 0-based DocumentID. Returns ErrInputFormat for any filename that
// does not match.
func ParseDocumentID(filename string) (DocumentID, error) {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	fields := strings.Split(name, "_")
	if len(fields) < 2 {
		return 0, fmt.Errorf("%w: filename %q has no second underscore-separated field", ErrInputFormat, filename)
	}

	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("%w: filename %q field %q is not an integer: %v", ErrInputFormat, filename, fields[1], err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: filename %q document number must be >= 1, got %d", ErrInputFormat, filename, n)
	}
	return DocumentID(n - 1), nil
}

// Run walks root recursively, indexes every plain-text file it finds, and
// returns the completed Index. A file whose name doesn't parse is logged
// and skipped (spec §7, InputFormat is best-effort, not fatal); a
// directory-walk or file-read failure is fatal and returned as ErrIO.
func (ix *Indexer) Run(root string) (*Index, error) {
	idx := &Index{
		BKTree:     NewBKTree(Distance),
		Postings:   make(map[Word][]DocumentID),
		WordCounts: make(map[Word]int),
	}

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		return ix.indexFile(idx, path)
	})
	if walkErr != nil {
		return nil, fmt.Errorf("%w: walking %q: %v", ErrIO, root, walkErr)
	}

	idx.rebuildDocSets()

	if ix.Config.BuildTFIDF {
		idx.TFIDF = BuildTFIDF(idx.Documents, ix.Config.StopWords)
	}

	slog.Info("indexing complete",
		slog.Int("documents", len(idx.Documents)),
		slog.Int("vocabulary", idx.BKTree.Len()))
	return idx, nil
}

// indexFile indexes a single document into idx. It never returns an error
// for a malformed filename — that case is logged and skipped in place —
// only for an I/O failure reading a file whose name did parse.
func (ix *Indexer) indexFile(idx *Index, path string) error {
	docID, err := ParseDocumentID(path)
	if err != nil {
		slog.Warn("skipping file with unparseable name", slog.String("path", path), slog.Any("error", err))
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading %q: %v", ErrIO, path, err)
	}

	tokens := FilterStopWords(NormalizeText(string(data)), ix.Config.StopWords)

	frequency := make(map[Word]int, len(tokens))
	firstSeen := make([]Word, 0, len(tokens))
	for _, tok := range tokens {
		if frequency[tok] == 0 {
			firstSeen = append(firstSeen, tok)
		}
		frequency[tok]++
	}

	// Iterate in descending frequency order within the document; ties
	// break by insertion order (spec §4.3 step 5), which sort.SliceStable
	// preserves for free.
	byFrequency := append([]Word(nil), firstSeen...)
	sort.SliceStable(byFrequency, func(i, j int) bool {
		return frequency[byFrequency[i]] > frequency[byFrequency[j]]
	})

	for _, word := range byFrequency {
		count := frequency[word]
		if _, exists := idx.Postings[word]; !exists {
			idx.BKTree.Add(word)
		}
		idx.Postings[word] = append(idx.Postings[word], docID)
		idx.WordCounts[word] += count
	}

	ix.storeDocument(idx, docID, tokens)

	slog.Info("indexed document", slog.Int("docID", int(docID)), slog.String("path", path))
	return nil
}

// storeDocument records the document's filtered token stream, space-joined,
// at index docID in the dense document array. The array grows dynamically
// rather than being pre-sized to a fixed corpus length (see DESIGN.md for
// the Open Question this resolves).
func (ix *Indexer) storeDocument(idx *Index, docID DocumentID, tokens []Word) {
	for len(idx.Documents) <= int(docID) {
		idx.Documents = append(idx.Documents, "")
	}
	idx.Documents[docID] = strings.Join(tokens, " ")
}
