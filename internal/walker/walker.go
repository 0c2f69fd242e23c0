// Package walker enumerates candidate note files under a vault root. It
// owns all traversal policy (extension matching, hidden-file rules, depth
// limits, custom predicates) so that vault assembly only ever sees an
// already-filtered sequence of paths.
package walker

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Options control traversal. The zero value walks the whole tree for
// non-hidden .md files.
type Options struct {
	// Extension is the note file extension including the dot, matched
	// case-insensitively. Defaults to ".md".
	Extension string

	// IncludeHidden also visits dot-prefixed files and directories.
	IncludeHidden bool

	// MinDepth skips files fewer than this many levels below the root.
	// The root itself is depth 0.
	MinDepth int

	// MaxDepth prunes directories deeper than this many levels below the
	// root. 0 means unlimited.
	MaxDepth int

	// Filter, when set, must return true for a path (relative to the
	// root) to be visited. Returning false for a directory prunes it.
	Filter func(rel string, d fs.DirEntry) bool
}

// Walk returns every matching file under root, in lexical traversal order.
// Unreadable subtrees are skipped rather than failing the walk.
func Walk(root string, opts Options) ([]string, error) {
	ext := opts.Extension
	if ext == "" {
		ext = ".md"
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		depth := strings.Count(filepath.ToSlash(rel), "/") + 1

		if !opts.IncludeHidden && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if opts.Filter != nil && !opts.Filter(rel, d) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if opts.MinDepth > 0 && depth < opts.MinDepth {
			return nil
		}
		if opts.MaxDepth > 0 && depth > opts.MaxDepth {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ext) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
