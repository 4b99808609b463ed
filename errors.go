package fsearch

import "errors"

// Sentinel errors, package-level so callers can compare with errors.Is. This
// mirrors the teacher's own ErrNoPostingList / ErrNoNextElement pattern.
var (
	// ErrInputFormat is returned (and, during indexing, only logged and
	// skipped — see Indexer.Run) when a filename or a word-counts line does
	// not match the expected contract, and when a query needs a spellcheck
	// backend that is not configured.
	ErrInputFormat = errors.New("fsearch: input does not match expected format")

	// ErrIO wraps a read or write failure on an index artifact. Callers
	// decide whether to retry.
	ErrIO = errors.New("fsearch: artifact io failure")

	// ErrEmptyQuery is returned when a query tokenizes to zero words after
	// stop-word removal.
	ErrEmptyQuery = errors.New("fsearch: query has no searchable terms")

	// ErrCorruptIndex is returned when a persisted artifact fails to
	// deserialize or fails an integrity check (non-integer child
	// distances, negative counts). It is fatal: the caller must rebuild
	// the index.
	ErrCorruptIndex = errors.New("fsearch: index artifact is corrupt")
)
