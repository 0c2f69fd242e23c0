// Package note models a single Markdown note: the frontmatter/wikilink
// micro-parsers, the metadata codec, and three interchangeable storage
// strategies behind one interface.
package note

import (
	"iter"
	"strings"

	"github.com/starford/othala/internal/apperr"
)

// Fence is the frontmatter delimiter.
const Fence = "---"

// SplitResult holds the outcome of splitting raw note text.
// When HasMetadata is false, Content carries the input verbatim.
type SplitResult struct {
	HasMetadata  bool
	MetadataText string
	Content      string
}

// Split separates an optional frontmatter block from the note body.
//
// The block opens only when the first line, with trailing whitespace
// trimmed, equals the fence exactly; leading whitespace disqualifies it.
// The block closes at the first later occurrence of the fence as a plain
// substring, even mid-line; this matches the historical vault format and is
// kept for compatibility. Fences appearing after the closing one are plain
// content. An opened but never closed block is apperr.ErrInvalidFormat.
func Split(raw string) (SplitResult, error) {
	first, _, _ := strings.Cut(raw, "\n")
	if strings.TrimRight(first, " \t\r") != Fence {
		return SplitResult{Content: raw}, nil
	}

	rest := raw[len(Fence):]
	closed := strings.Index(rest, Fence)
	if closed < 0 {
		return SplitResult{}, apperr.ErrInvalidFormat
	}

	return SplitResult{
		HasMetadata:  true,
		MetadataText: strings.TrimSpace(rest[:closed]),
		Content:      strings.TrimSpace(rest[closed+len(Fence):]),
	}, nil
}

// Links yields the target of every wikilink in content, in order of
// occurrence. The sequence is lazy and restartable.
//
// All link forms reduce to their target: [[t]], [[t|alias]], [[t^block]],
// [[t#heading]], [[t#heading|alias]]. An open marker with no later close
// marker yields nothing; malformed links are never an error. Targets are
// not deduplicated.
func Links(content string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := content
		for {
			open := strings.Index(rest, "[[")
			if open < 0 {
				return
			}
			rest = rest[open+2:]

			end := strings.Index(rest, "]]")
			if end < 0 {
				return
			}

			target, _, _ := strings.Cut(rest[:end], "#")
			target, _, _ = strings.Cut(target, "^")
			target, _, _ = strings.Cut(target, "|")

			if !yield(strings.TrimSpace(target)) {
				return
			}
		}
	}
}
