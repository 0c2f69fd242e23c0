package note

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/starford/othala/internal/apperr"
)

const testData = "---\ntopic: life\ncreated: 2025-03-16\n---\nTest data\n---\nTwo test data"

func writeNote(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func codec() YAMLCodec[Properties] { return YAMLCodec[Properties]{} }

func checkTestNote(t *testing.T, n Note[Properties]) {
	t.Helper()
	meta, err := n.Metadata()
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if meta == nil {
		t.Fatal("expected metadata")
	}
	if (*meta)["topic"] != "life" || (*meta)["created"] != "2025-03-16" {
		t.Errorf("metadata = %v", *meta)
	}
	content, err := n.Content()
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if content != "Test data\n---\nTwo test data" {
		t.Errorf("content = %q", content)
	}
}

func TestEager_FromString(t *testing.T) {
	n, err := NewEager(testData, codec())
	if err != nil {
		t.Fatal(err)
	}
	checkTestNote(t, n)
	if n.Path() != "" {
		t.Errorf("path = %q, want empty", n.Path())
	}
	if _, ok := Name[Properties](n); ok {
		t.Error("in-memory note must have no name")
	}
}

func TestEager_FromReader(t *testing.T) {
	n, err := EagerFromReader(strings.NewReader(testData), "", codec())
	if err != nil {
		t.Fatal(err)
	}
	checkTestNote(t, n)
}

func TestEager_WithoutMetadata(t *testing.T) {
	n, err := NewEager("just a body", codec())
	if err != nil {
		t.Fatal(err)
	}
	meta, err := n.Metadata()
	if err != nil {
		t.Fatal(err)
	}
	if meta != nil {
		t.Errorf("metadata = %v, want nil", meta)
	}
	content, _ := n.Content()
	if content != "just a body" {
		t.Errorf("content = %q", content)
	}
}

func TestEager_DecodeError(t *testing.T) {
	_, err := NewEager("---\n: bad: yaml: {{{\n---\nbody", codec())
	var decodeErr *apperr.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("err = %v, want DecodeError", err)
	}
}

func TestEager_UnterminatedFence(t *testing.T) {
	_, err := NewEager("---\ntopic: life\nno close", codec())
	if !errors.Is(err, apperr.ErrInvalidFormat) {
		t.Fatalf("err = %v, want ErrInvalidFormat", err)
	}
}

func TestFromFile_Strategies(t *testing.T) {
	path := writeNote(t, "Super note.md", testData)

	tests := []struct {
		name string
		open func() (Note[Properties], error)
	}{
		{"eager", func() (Note[Properties], error) { return EagerFromFile(path, codec()) }},
		{"deferred", func() (Note[Properties], error) { return NewDeferred(path, codec()) }},
		{"cached", func() (Note[Properties], error) { return NewCached(path, codec()) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := tt.open()
			if err != nil {
				t.Fatal(err)
			}
			checkTestNote(t, n)
			if n.Path() != path {
				t.Errorf("path = %q, want %q", n.Path(), path)
			}
			name, ok := Name[Properties](n)
			if !ok || name != "Super note" {
				t.Errorf("name = %q, %v", name, ok)
			}
		})
	}
}

func TestFromFile_Directory(t *testing.T) {
	dir := t.TempDir()
	if _, err := EagerFromFile(dir, codec()); err == nil {
		t.Fatal("expected error for directory")
	} else {
		var notFile *apperr.NotAFileError
		if !errors.As(err, &notFile) {
			t.Errorf("err = %v, want NotAFileError", err)
		}
	}
}

func TestDeferred_RereadsSource(t *testing.T) {
	path := writeNote(t, "note.md", "first")
	n, err := NewDeferred(path, codec())
	if err != nil {
		t.Fatal(err)
	}
	if content, _ := n.Content(); content != "first" {
		t.Fatalf("content = %q", content)
	}

	if err := os.WriteFile(path, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}
	if content, _ := n.Content(); content != "second" {
		t.Errorf("content = %q, want re-read value", content)
	}
}

func TestDeferred_SourceVanished(t *testing.T) {
	path := writeNote(t, "note.md", "data")
	n, err := NewDeferred(path, codec())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, err := n.Content(); err == nil {
		t.Error("expected I/O error after source vanished")
	}
	if _, err := n.Metadata(); err == nil {
		t.Error("expected I/O error after source vanished")
	}
}

func TestCached_CommitsFirstResult(t *testing.T) {
	path := writeNote(t, "note.md", "first")
	n, err := NewCached(path, codec())
	if err != nil {
		t.Fatal(err)
	}
	if content, _ := n.Content(); content != "first" {
		t.Fatalf("content = %q", content)
	}

	// Rewriting the file must not change the committed value.
	if err := os.WriteFile(path, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}
	if content, _ := n.Content(); content != "first" {
		t.Errorf("content = %q, want committed %q", content, "first")
	}
}

func TestCached_FailureNotCached(t *testing.T) {
	path := writeNote(t, "note.md", "data")
	n, err := NewCached(path, codec())
	if err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, err := n.Content(); err == nil {
		t.Fatal("expected error while source is gone")
	}

	// Restore the file: a later retry succeeds and commits.
	if err := os.WriteFile(path, []byte("back"), 0o644); err != nil {
		t.Fatal(err)
	}
	if content, err := n.Content(); err != nil || content != "back" {
		t.Errorf("content, err = %q, %v", content, err)
	}
}

func TestCached_ConcurrentFirstAccess(t *testing.T) {
	path := writeNote(t, "note.md", testData)
	n, err := NewCached(path, codec())
	if err != nil {
		t.Fatal(err)
	}

	const callers = 32
	results := make([]string, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			content, err := n.Content()
			if err != nil {
				t.Errorf("Content: %v", err)
				return
			}
			results[i] = content
		}()
	}
	wg.Wait()

	want := "Test data\n---\nTwo test data"
	for i, got := range results {
		if got != want {
			t.Fatalf("caller %d saw %q", i, got)
		}
	}
	if content, _ := n.Content(); content != want {
		t.Errorf("post-race read = %q", content)
	}
}

func TestWordAndRuneCount(t *testing.T) {
	n, err := NewEager("---\ntags:\n- my_tag\n---\nMy super note", codec())
	if err != nil {
		t.Fatal(err)
	}
	words, err := WordCount[Properties](n)
	if err != nil || words != 3 {
		t.Errorf("words = %d, err = %v, want 3", words, err)
	}
	runes, err := RuneCount[Properties](n)
	if err != nil || runes != len("My super note") {
		t.Errorf("runes = %d, err = %v", runes, err)
	}
}
