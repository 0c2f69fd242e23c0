package vault

import (
	"sort"

	"github.com/starford/othala/internal/checksum"
	"github.com/starford/othala/internal/note"
)

// DuplicatesByName returns every note whose display name collides with
// another note's. A run of k equal names contributes all k notes. Notes
// without a path have no name and never collide. O(n log n).
func (v *Vault[T]) DuplicatesByName() []note.Note[T] {
	type named struct {
		name string
		n    note.Note[T]
	}
	names := make([]named, 0, len(v.notes))
	for _, n := range v.notes {
		if name, ok := note.Name(n); ok {
			names = append(names, named{name: name, n: n})
		}
	}
	sort.SliceStable(names, func(i, j int) bool { return names[i].name < names[j].name })

	var out []note.Note[T]
	for i := 1; i < len(names); i++ {
		if names[i].name != names[i-1].name {
			continue
		}
		// First pair of a run contributes both members; every further
		// equal element contributes itself.
		if i == 1 || names[i-1].name != names[i-2].name {
			out = append(out, names[i-1].n)
		}
		out = append(out, names[i].n)
	}
	return out
}

// HasDuplicatesByName reports whether any display name collides.
func (v *Vault[T]) HasDuplicatesByName() bool {
	return len(v.DuplicatesByName()) > 0
}

// DuplicatesByContent returns every note whose content digest collides with
// another note's, in vault order. All members of a colliding group are
// reported. Propagates the first content-read error.
func (v *Vault[T]) DuplicatesByContent(digest checksum.Digest) ([]note.Note[T], error) {
	groups := make(map[string]int, len(v.notes))
	keys := make([]string, len(v.notes))
	for i, n := range v.notes {
		content, err := n.Content()
		if err != nil {
			return nil, err
		}
		key := digest([]byte(content))
		keys[i] = key
		groups[key]++
	}

	var out []note.Note[T]
	for i, n := range v.notes {
		if groups[keys[i]] > 1 {
			out = append(out, n)
		}
	}
	return out, nil
}

// HasDuplicatesByContent reports whether any content digest collides.
func (v *Vault[T]) HasDuplicatesByContent(digest checksum.Digest) (bool, error) {
	dups, err := v.DuplicatesByContent(digest)
	if err != nil {
		return false, err
	}
	return len(dups) > 0, nil
}
