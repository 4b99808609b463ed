package fsearch

import (
	"os"
	"path/filepath"
	"testing"
)

func writeWordCounts(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, "word_counts.txt")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDeletionBackend_LoadAndLookupExact(t *testing.T) {
	dir := t.TempDir()
	path := writeWordCounts(t, dir, "kava 3", "čaj 1", "mleko 2")

	backend := NewDeletionBackend(DefaultMaxEditDistance)
	if err := backend.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	matches := backend.Lookup("kava", VerbosityClosest, DefaultMaxEditDistance)
	if len(matches) != 1 || matches[0].Word != "kava" || matches[0].Distance != 0 {
		t.Errorf("Lookup(kava) = %v, want [(0, kava)]", matches)
	}
}

func TestDeletionBackend_LookupFuzzy(t *testing.T) {
	dir := t.TempDir()
	path := writeWordCounts(t, dir, "kava 1")

	backend := NewDeletionBackend(2)
	if err := backend.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	matches := backend.Lookup("kawa", VerbosityClosest, 2)
	found := false
	for _, m := range matches {
		if m.Word == "kava" {
			found = true
		}
	}
	if !found {
		t.Errorf("Lookup(kawa) = %v, want to contain kava", matches)
	}
}

func TestDeletionBackend_LookupBeyondMaxEditDistance(t *testing.T) {
	dir := t.TempDir()
	path := writeWordCounts(t, dir, "kava 1")

	backend := NewDeletionBackend(1)
	if err := backend.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	matches := backend.Lookup("xxxxxxxx", VerbosityClosest, 1)
	if len(matches) != 0 {
		t.Errorf("Lookup(xxxxxxxx) = %v, want empty", matches)
	}
}

func TestDeletionBackend_LoadRejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := writeWordCounts(t, dir, "kava notanumber")

	backend := NewDeletionBackend(DefaultMaxEditDistance)
	if err := backend.Load(path); err == nil {
		t.Error("Load() error = nil, want an error for a malformed line")
	}
}

func TestDeletionBackend_VerbosityAllReturnsEveryCandidate(t *testing.T) {
	dir := t.TempDir()
	path := writeWordCounts(t, dir, "kava 1", "kawa 1", "kova 1")

	backend := NewDeletionBackend(2)
	if err := backend.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	closest := backend.Lookup("kava", VerbosityClosest, 2)
	all := backend.Lookup("kava", VerbosityAll, 2)
	if len(all) < len(closest) {
		t.Errorf("VerbosityAll returned fewer matches (%d) than VerbosityClosest (%d)", len(all), len(closest))
	}
}

func TestDeletions_SingleEdit(t *testing.T) {
	got := deletions("ab", 1)
	want := map[Word]bool{"a": true, "b": true}
	if len(got) != len(want) {
		t.Fatalf("deletions(ab, 1) = %v, want 2 entries", got)
	}
	for _, w := range got {
		if !want[w] {
			t.Errorf("deletions(ab, 1) contains unexpected %q", w)
		}
	}
}
