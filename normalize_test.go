package fsearch

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Word
	}{
		{"lowercases", "KAVA ČAJ", []Word{"kava", "čaj"}},
		{"drops disallowed chars", "kava! čaj?123", []Word{"kava", "čaj"}},
		{"collapses whitespace", "kava   čaj\tmleko\n", []Word{"kava", "čaj", "mleko"}},
		{"empty input", "", nil},
		{"disallowed only", "123!!!", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeText(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFilterStopWords(t *testing.T) {
	stop := StopWordSet{"je": {}, "in": {}}
	got := FilterStopWords([]Word{"je", "in", "kava"}, stop)
	want := []Word{"kava"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterStopWords = %v, want %v", got, want)
	}
}

func TestFilterStopWords_Empty(t *testing.T) {
	got := FilterStopWords([]Word{"kava", "čaj"}, StopWordSet{})
	want := []Word{"kava", "čaj"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterStopWords = %v, want %v", got, want)
	}
}

func TestLoadStopWords_EmptyPath(t *testing.T) {
	set, err := LoadStopWords("")
	if err != nil {
		t.Fatalf("LoadStopWords(\"\") error = %v", err)
	}
	if len(set) != 0 {
		t.Errorf("LoadStopWords(\"\") = %v, want empty", set)
	}
}

func TestLoadStopWords_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stop.txt")
	if err := os.WriteFile(path, []byte("je,in,se"), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := LoadStopWords(path)
	if err != nil {
		t.Fatalf("LoadStopWords() error = %v", err)
	}
	for _, w := range []string{"je", "in", "se"} {
		if _, ok := set[w]; !ok {
			t.Errorf("LoadStopWords() missing %q", w)
		}
	}
}

func TestLoadStopWords_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stop.txt")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := LoadStopWords(path)
	if err != nil {
		t.Fatalf("LoadStopWords() error = %v", err)
	}
	if len(set) != 0 {
		t.Errorf("LoadStopWords() on empty file = %v, want empty", set)
	}
}
