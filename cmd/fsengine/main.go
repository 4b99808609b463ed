// Command fsengine is a runnable example of wiring Indexer and QueryEngine
// together. It is not a specified interface: flags, output format, and
// exit codes are free to change.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	fsearch "github.com/matttic97/field-recordings-search-engine"
)

func main() {
	corpusDir := flag.String("corpus", "", "directory of documents to index")
	indexDir := flag.String("index", "", "directory to load a previously saved index from")
	saveDir := flag.String("save", "", "directory to save the freshly built index into")
	stopWordsPath := flag.String("stopwords", "", "path to a comma-separated stop-words file")
	policy := flag.String("policy", string(fsearch.DefaultPolicyName), "scoring policy: ratio, ratio_with_penalty, tfidf, tfidf_with_penalty")
	k := flag.Int("k", 10, "number of results to return per query")
	flag.Parse()

	if *corpusDir == "" && *indexDir == "" {
		fmt.Fprintln(os.Stderr, "fsengine: one of -corpus or -index is required")
		os.Exit(2)
	}

	index, err := loadOrBuildIndex(*corpusDir, *indexDir, *saveDir, *stopWordsPath)
	if err != nil {
		slog.Error("failed to prepare index", slog.Any("error", err))
		os.Exit(1)
	}

	config := fsearch.DefaultQueryConfig()
	config.Policy = fsearch.PolicyName(*policy)
	engine := fsearch.NewQueryEngine(index, config, nil)

	fmt.Fprintln(os.Stderr, "fsengine: ready, enter queries on stdin (one per line)")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		runQuery(engine, query, *k)
	}
}

func loadOrBuildIndex(corpusDir, indexDir, saveDir, stopWordsPath string) (*fsearch.Index, error) {
	if indexDir != "" {
		return fsearch.LoadIndex(indexDir)
	}

	stopWords, err := fsearch.LoadStopWords(stopWordsPath)
	if err != nil {
		return nil, err
	}

	config := fsearch.DefaultIndexerConfig()
	config.StopWords = stopWords
	indexer := fsearch.NewIndexer(config)

	index, err := indexer.Run(corpusDir)
	if err != nil {
		return nil, err
	}

	if saveDir != "" {
		if err := fsearch.SaveIndex(index, saveDir); err != nil {
			return nil, err
		}
	}
	return index, nil
}

func runQuery(engine *fsearch.QueryEngine, query string, k int) {
	matches, err := engine.Find(context.Background(), query, k)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	for _, m := range matches {
		fmt.Printf("%d\t%.6f\n", m.DocumentID, m.Score)
	}
}
