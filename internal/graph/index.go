package graph

import "strings"

// index maps two key spaces to graph nodes during one construction run:
// full vault-relative paths (unique) and short display names (first writer
// wins on collision). Discarded when the run ends.
type index struct {
	full  map[string]NodeID
	short map[string]NodeID

	// fullCollisions records full keys inserted more than once; any entry
	// makes the construction run fail with a DuplicateIdentityError.
	fullCollisions []string
}

func newIndex(capacity int) *index {
	return &index{
		full:  make(map[string]NodeID, capacity),
		short: make(map[string]NodeID, capacity),
	}
}

func (ix *index) insert(full, short string, id NodeID) {
	if _, exists := ix.full[full]; exists {
		ix.fullCollisions = append(ix.fullCollisions, full)
	}
	ix.full[full] = id
	if _, exists := ix.short[short]; !exists {
		ix.short[short] = id
	}
}

// lookup resolves a link target: targets containing a path separator
// resolve against full keys only, bare names against short keys only.
func (ix *index) lookup(target string) (NodeID, bool) {
	if strings.ContainsRune(target, '/') {
		id, ok := ix.full[target]
		return id, ok
	}
	id, ok := ix.short[target]
	return id, ok
}
