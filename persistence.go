// ═══════════════════════════════════════════════════════════════════════════════
// PERSISTENCE
// ═══════════════════════════════════════════════════════════════════════════════
// Five files make up a saved index:
//
//	bktree.json        flattened BK-tree (see MarshalTree below)
//	word_documents.json word -> ordered posting list
//	word_counts.txt     "<word> <count>" lines, for the spellcheck adapter
//	tfidf.bin           gonum mat.Dense binary encoding of the TF-IDF matrix
//	feature_map.json    word -> TF-IDF column index
//
// tfidf.bin/feature_map.json are both omitted when the index was built
// without TF-IDF (IndexerConfig.BuildTFIDF = false); LoadIndex treats their
// absence as "no TF-IDF", not as corruption.
//
// BK-TREE SERIALIZATION:
// -----------------------
// A recursive Marshal over *BKNode would recurse once per tree level, and
// this tree can be tens of thousands of words deep (spec §4.5). MarshalTree
// instead flattens the tree breadth-first into a slice of nodes addressed
// by index — parent/child edges become plain integers — so both
// marshaling and unmarshaling are iterative, not recursive. This mirrors
// the teacher's own node-index-mapping approach to avoiding deep recursion
// during serialization.
// ═══════════════════════════════════════════════════════════════════════════════

package fsearch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const (
	bktreeFile    = "bktree.json"
	postingsFile  = "word_documents.json"
	wordCountFile = "word_counts.txt"
	tfidfFile     = "tfidf.bin"
	featureFile   = "feature_map.json"
)

// bkNodeBlob is one flattened BK-tree node. Children maps a distance key to
// the index of the child node within the enclosing bkTreeBlob.Nodes slice.
type bkNodeBlob struct {
	Word     Word        `json:"word"`
	Children map[int]int `json:"children"`
}

// bkTreeBlob is the on-disk shape of a whole BK-tree; Nodes[0] is always
// the root when the tree is non-empty.
type bkTreeBlob struct {
	Nodes []bkNodeBlob `json:"nodes"`
}

// MarshalTree flattens the tree breadth-first and encodes it as JSON.
// Children are emitted in ascending distance-key order so two runs over an
// identical tree produce byte-identical output.
func (t *BKTree) MarshalTree() ([]byte, error) {
	if t.Root == nil {
		return json.Marshal(bkTreeBlob{Nodes: []bkNodeBlob{}})
	}

	index := map[*BKNode]int{t.Root: 0}
	blobs := []bkNodeBlob{{}}
	queue := []*BKNode{t.Root}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		nodeIdx := index[node]

		keys := make([]int, 0, len(node.Children))
		for key := range node.Children {
			keys = append(keys, key)
		}
		sort.Ints(keys)

		children := make(map[int]int, len(keys))
		for _, key := range keys {
			child := node.Children[key]
			childIdx, seen := index[child]
			if !seen {
				childIdx = len(blobs)
				index[child] = childIdx
				blobs = append(blobs, bkNodeBlob{})
				queue = append(queue, child)
			}
			children[key] = childIdx
		}

		blobs[nodeIdx] = bkNodeBlob{Word: node.Word, Children: children}
	}

	return json.Marshal(bkTreeBlob{Nodes: blobs})
}

// UnmarshalTree rebuilds a BKTree from MarshalTree's output, iteratively:
// every node is allocated up front, then child pointers are wired in a
// second flat pass.
func UnmarshalTree(data []byte) (*BKTree, error) {
	var blob bkTreeBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling bktree: %v", ErrCorruptIndex, err)
	}
	if len(blob.Nodes) == 0 {
		return NewBKTree(Distance), nil
	}

	nodes := make([]*BKNode, len(blob.Nodes))
	for i, b := range blob.Nodes {
		nodes[i] = &BKNode{Word: b.Word, Children: make(map[int]*BKNode, len(b.Children))}
	}
	for i, b := range blob.Nodes {
		for distance, childIdx := range b.Children {
			if childIdx < 0 || childIdx >= len(nodes) {
				return nil, fmt.Errorf("%w: bktree child index %d out of range", ErrCorruptIndex, childIdx)
			}
			nodes[i].Children[distance] = nodes[childIdx]
		}
	}

	return &BKTree{Root: nodes[0], DistanceFunc: Distance}, nil
}

// SaveIndex persists every artifact of idx into dir, creating it if
// necessary. Artifacts are written with canonical key ordering (sorted
// JSON object keys, sorted word_counts.txt lines) so that two saves of the
// same logical index are byte-identical (spec §4.3 determinism).
func SaveIndex(idx *Index, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %q: %v", ErrIO, dir, err)
	}

	treeBlob, err := idx.BKTree.MarshalTree()
	if err != nil {
		return fmt.Errorf("%w: marshaling bktree: %v", ErrIO, err)
	}
	if err := os.WriteFile(filepath.Join(dir, bktreeFile), treeBlob, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrIO, bktreeFile, err)
	}

	// encoding/json sorts map[string]... keys on Marshal, so this is
	// already canonical without any extra sorting step here.
	postingsBlob, err := json.Marshal(idx.Postings)
	if err != nil {
		return fmt.Errorf("%w: marshaling postings: %v", ErrIO, err)
	}
	if err := os.WriteFile(filepath.Join(dir, postingsFile), postingsBlob, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrIO, postingsFile, err)
	}

	if err := saveWordCounts(idx.WordCounts, filepath.Join(dir, wordCountFile)); err != nil {
		return err
	}

	if idx.TFIDF == nil {
		return nil
	}

	matrixBlob, err := idx.TFIDF.Matrix.MarshalBinary()
	if err != nil {
		return fmt.Errorf("%w: marshaling tfidf matrix: %v", ErrIO, err)
	}
	if err := os.WriteFile(filepath.Join(dir, tfidfFile), matrixBlob, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrIO, tfidfFile, err)
	}

	featureBlob, err := json.Marshal(idx.TFIDF.FeatureMap)
	if err != nil {
		return fmt.Errorf("%w: marshaling feature map: %v", ErrIO, err)
	}
	if err := os.WriteFile(filepath.Join(dir, featureFile), featureBlob, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrIO, featureFile, err)
	}

	return nil
}

// LoadIndex reverses SaveIndex. The TF-IDF artifacts are optional: if
// neither tfidf.bin nor feature_map.json is present, idx.TFIDF is left nil.
func LoadIndex(dir string) (*Index, error) {
	treeBlob, err := os.ReadFile(filepath.Join(dir, bktreeFile))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrIO, bktreeFile, err)
	}
	tree, err := UnmarshalTree(treeBlob)
	if err != nil {
		return nil, err
	}

	postingsBlob, err := os.ReadFile(filepath.Join(dir, postingsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrIO, postingsFile, err)
	}
	postings := make(map[Word][]DocumentID)
	if err := json.Unmarshal(postingsBlob, &postings); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling %s: %v", ErrCorruptIndex, postingsFile, err)
	}

	wordCounts, err := loadWordCounts(filepath.Join(dir, wordCountFile))
	if err != nil {
		return nil, err
	}

	idx := &Index{BKTree: tree, Postings: postings, WordCounts: wordCounts}
	idx.rebuildDocSets()

	tfidfPath := filepath.Join(dir, tfidfFile)
	featurePath := filepath.Join(dir, featureFile)
	if _, err := os.Stat(tfidfPath); err == nil {
		tf, err := loadTFIDF(tfidfPath, featurePath)
		if err != nil {
			return nil, err
		}
		idx.TFIDF = tf
	}

	return idx, nil
}

func saveWordCounts(counts map[Word]int, path string) error {
	words := make([]Word, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Strings(words)

	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(w)
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(counts[w]))
		sb.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrIO, wordCountFile, err)
	}
	return nil
}

func loadWordCounts(path string) (map[Word]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrIO, wordCountFile, err)
	}

	counts := make(map[Word]int)
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: malformed %s line %q", ErrCorruptIndex, wordCountFile, line)
		}
		count, err := strconv.Atoi(fields[1])
		if err != nil || count < 0 {
			return nil, fmt.Errorf("%w: malformed %s line %q", ErrCorruptIndex, wordCountFile, line)
		}
		counts[fields[0]] = count
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanning %s: %v", ErrIO, wordCountFile, err)
	}
	return counts, nil
}

func loadTFIDF(matrixPath, featurePath string) (*TFIDF, error) {
	matrixBlob, err := os.ReadFile(matrixPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrIO, tfidfFile, err)
	}
	var matrix mat.Dense
	if err := matrix.UnmarshalBinary(matrixBlob); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling %s: %v", ErrCorruptIndex, tfidfFile, err)
	}

	featureBlob, err := os.ReadFile(featurePath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrIO, featureFile, err)
	}
	featureMap := make(map[Word]int)
	if err := json.Unmarshal(featureBlob, &featureMap); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling %s: %v", ErrCorruptIndex, featureFile, err)
	}

	return &TFIDF{Matrix: &matrix, FeatureMap: featureMap}, nil
}
