package fsearch

// DocumentID identifies a source document. Ids are assigned once at index
// time from the document's filename (see ParseDocumentID) and are never
// renumbered afterwards.
type DocumentID int

// Word is a normalized, lowercased vocabulary token drawn from the
// restricted alphabet (see AllowedAlphabet). The type exists purely for
// readability at call sites; it carries no validation of its own.
type Word = string

// Match pairs a document with an aggregate relevance score. QueryEngine
// returns results as a ranked slice of Match.
type Match struct {
	DocumentID DocumentID
	Score      float64
}

// FuzzyMatch pairs a BK-tree or spellcheck candidate word with its distance
// from the probe that produced it.
type FuzzyMatch struct {
	Distance int
	Word     Word
}
