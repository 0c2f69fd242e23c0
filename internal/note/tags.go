package note

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/starford/othala/internal/apperr"
)

// Tags returns the note's tags: the frontmatter "tags" list followed by
// every inline #tag in the body, in order of appearance and without
// deduplication.
//
// An inline tag is a whitespace-separated word starting with a single '#'
// (a '##' prefix is a heading, not a tag). The tag runs until the first
// rune that is not a letter, digit, other symbol, '_' or '-'; a tag that
// ends up empty is dropped.
func Tags(n Note[Properties]) ([]string, error) {
	meta, err := n.Metadata()
	if err != nil {
		return nil, err
	}
	tags, err := stringList(meta, "tags")
	if err != nil {
		return nil, err
	}

	content, err := n.Content()
	if err != nil {
		return nil, err
	}
	for _, word := range strings.Fields(content) {
		if !strings.HasPrefix(word, "#") || strings.HasPrefix(word, "##") {
			continue
		}
		if tag := trimTag(word[1:]); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// Aliases returns the frontmatter "aliases" list, empty when the note has
// no frontmatter or no aliases field.
func Aliases(n Note[Properties]) ([]string, error) {
	meta, err := n.Metadata()
	if err != nil {
		return nil, err
	}
	return stringList(meta, "aliases")
}

// IsTodo reports whether any of the note's tags is "todo".
func IsTodo(n Note[Properties]) (bool, error) {
	tags, err := Tags(n)
	if err != nil {
		return false, err
	}
	for _, tag := range tags {
		if tag == "todo" {
			return true, nil
		}
	}
	return false, nil
}

// trimTag cuts s at the first rune that cannot be part of a tag.
func trimTag(s string) string {
	for i, r := range s {
		if !isTagRune(r) {
			return s[:i]
		}
	}
	return s
}

// isTagRune admits letters, digits, '_', '-' and other-symbol runes, which
// covers emoji tags.
func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' ||
		unicode.Is(unicode.So, r)
}

// stringList reads a frontmatter field as a list of strings. A nil
// metadata map or a missing key yields an empty list; any other shape is a
// decode error.
func stringList(meta *Properties, key string) ([]string, error) {
	if meta == nil {
		return nil, nil
	}
	value, ok := (*meta)[key]
	if !ok {
		return nil, nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil, &apperr.DecodeError{Err: fmt.Errorf("field %q is not a list", key)}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &apperr.DecodeError{Err: fmt.Errorf("field %q holds a non-string entry %v", key, item)}
		}
		out = append(out, s)
	}
	return out, nil
}
