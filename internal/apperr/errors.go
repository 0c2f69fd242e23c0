// Package apperr defines the error taxonomy shared across Othala packages.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFormat reports a frontmatter block whose opening fence is
	// never closed.
	ErrInvalidFormat = errors.New("invalid frontmatter format")

	// ErrNotFound reports a missing note or resource.
	ErrNotFound = errors.New("not found")
)

// DecodeError wraps a failure to decode a frontmatter payload into its
// structured type. The underlying codec error is preserved for errors.As.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode frontmatter: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NotADirectoryError reports a path that was expected to be a directory.
type NotADirectoryError struct {
	Path string
}

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("path %q is not a directory", e.Path)
}

// NotAFileError reports a path that was expected to be a regular file.
type NotAFileError struct {
	Path string
}

func (e *NotAFileError) Error() string {
	return fmt.Sprintf("path %q is not a file", e.Path)
}

// DuplicateIdentityError reports graph construction aborted because two or
// more notes resolve to the same node identity.
type DuplicateIdentityError struct {
	Keys []string
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("duplicate note identities: %s", strings.Join(e.Keys, ", "))
}
