package note

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/starford/othala/internal/apperr"
)

// Note is the capability set of a parsed note. T is the frontmatter type.
//
// Metadata returns nil exactly when the source text has no frontmatter
// block. Content returns the body with the block removed. Path returns the
// backing file, or "" for notes built directly from in-memory text.
//
// The three implementations differ only in when content and metadata are
// computed: Eager at construction, Deferred on every call, Cached on first
// successful call.
type Note[T any] interface {
	Metadata() (*T, error)
	Content() (string, error)
	Path() string
}

// Name returns the display name of n: the file name of its path with the
// extension stripped. ok is false for notes without a path.
func Name[T any](n Note[T]) (string, bool) {
	path := n.Path()
	if path == "" {
		return "", false
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)), true
}

// WordCount returns the number of whitespace-separated words in the body.
func WordCount[T any](n Note[T]) (int, error) {
	content, err := n.Content()
	if err != nil {
		return 0, err
	}
	return len(strings.Fields(content)), nil
}

// RuneCount returns the number of runes in the body.
func RuneCount[T any](n Note[T]) (int, error) {
	content, err := n.Content()
	if err != nil {
		return 0, err
	}
	return utf8.RuneCountInString(content), nil
}

// checkFile verifies that path names an existing regular file.
func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("note: stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return &apperr.NotAFileError{Path: path}
	}
	return nil
}

// readSource reads the whole backing file. Vault files are UTF-8 by
// contract, so no transcoding happens here.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("note: read %s: %w", path, err)
	}
	return string(data), nil
}

// decodeMetadata runs codec over a split result, mapping the absent block
// to a nil pointer.
func decodeMetadata[T any](res SplitResult, codec Codec[T]) (*T, error) {
	if !res.HasMetadata {
		return nil, nil
	}
	v, err := codec.Decode(res.MetadataText)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
