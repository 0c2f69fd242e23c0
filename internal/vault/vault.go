// Package vault assembles parsed notes into an ordered collection rooted at
// a directory, and reports duplicate notes by name or by content.
package vault

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/note"
)

// Vault owns an ordered sequence of notes and the root directory they were
// parsed relative to. Immutable after construction.
type Vault[T any] struct {
	notes []note.Note[T]
	root  string
}

// Notes returns the vault's notes in assembly order.
func (v *Vault[T]) Notes() []note.Note[T] { return v.notes }

// Len returns the number of notes.
func (v *Vault[T]) Len() int { return len(v.notes) }

// Root returns the vault root directory.
func (v *Vault[T]) Root() string { return v.root }

// ParseFunc turns one file path into a note.
type ParseFunc[T any] func(path string) (note.Note[T], error)

// Build assembles a vault strictly: the first parse error aborts assembly
// and discards any notes already parsed. files is the already-filtered
// sequence produced by a walker; note order follows file order.
func Build[T any](root string, files []string, parse ParseFunc[T]) (*Vault[T], error) {
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	notes := make([]note.Note[T], 0, len(files))
	for _, path := range files {
		n, err := parse(path)
		if err != nil {
			return nil, fmt.Errorf("vault: parse %s: %w", path, err)
		}
		notes = append(notes, n)
	}
	return &Vault[T]{notes: notes, root: root}, nil
}

// BuildTolerant assembles a vault from every file that parses, collecting
// per-file errors instead of failing. The returned error covers only root
// validation.
func BuildTolerant[T any](root string, files []string, parse ParseFunc[T]) (*Vault[T], []error, error) {
	if err := checkRoot(root); err != nil {
		return nil, nil, err
	}

	var errs []error
	notes := make([]note.Note[T], 0, len(files))
	for _, path := range files {
		n, err := parse(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("vault: parse %s: %w", path, err))
			continue
		}
		notes = append(notes, n)
	}
	return &Vault[T]{notes: notes, root: root}, errs, nil
}

// BuildParallel is Build with file parses spread over an errgroup worker
// pool. Each parse is independent with no shared mutable state; note order
// still follows file order. workers <= 0 means one worker per file up to
// the scheduler's discretion.
func BuildParallel[T any](ctx context.Context, root string, files []string, parse ParseFunc[T], workers int) (*Vault[T], error) {
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	notes := make([]note.Note[T], len(files))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := parse(path)
			if err != nil {
				return fmt.Errorf("vault: parse %s: %w", path, err)
			}
			notes[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Vault[T]{notes: notes, root: root}, nil
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("vault: stat root: %w", err)
	}
	if !info.IsDir() {
		return &apperr.NotADirectoryError{Path: root}
	}
	return nil
}
