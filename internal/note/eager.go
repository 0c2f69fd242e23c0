package note

import (
	"fmt"
	"io"
)

// Eager parses and decodes the whole note at construction and stores the
// results by value. Cheapest to query, most memory.
type Eager[T any] struct {
	path     string
	content  string
	metadata *T
}

// NewEager parses raw text into an in-memory note with no backing path.
func NewEager[T any](raw string, codec Codec[T]) (*Eager[T], error) {
	return newEager(raw, "", codec)
}

// EagerFromReader drains r and parses the result. path may be "" when the
// reader has no file identity.
func EagerFromReader[T any](r io.Reader, path string, codec Codec[T]) (*Eager[T], error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("note: read source: %w", err)
	}
	return newEager(string(data), path, codec)
}

// EagerFromFile reads and parses the file at path, recording path as the
// note's source identity.
func EagerFromFile[T any](path string, codec Codec[T]) (*Eager[T], error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}
	raw, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return newEager(raw, path, codec)
}

func newEager[T any](raw, path string, codec Codec[T]) (*Eager[T], error) {
	res, err := Split(raw)
	if err != nil {
		return nil, err
	}
	meta, err := decodeMetadata(res, codec)
	if err != nil {
		return nil, err
	}
	return &Eager[T]{path: path, content: res.Content, metadata: meta}, nil
}

// Metadata returns the decoded frontmatter, nil when the note has none.
func (e *Eager[T]) Metadata() (*T, error) { return e.metadata, nil }

// Content returns the note body.
func (e *Eager[T]) Content() (string, error) { return e.content, nil }

// Path returns the source file, "" for in-memory notes.
func (e *Eager[T]) Path() string { return e.path }

var _ Note[Properties] = (*Eager[Properties])(nil)
