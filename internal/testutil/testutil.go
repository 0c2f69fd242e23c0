// Package testutil provides shared test helpers for seeding vaults.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/othala/internal/note"
	"github.com/starford/othala/internal/vault"
	"github.com/starford/othala/internal/walker"
)

// WriteVault materializes files (slash-separated relative path → content)
// under a fresh temp directory and returns the root.
func WriteVault(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, data := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// LinkedFixture is the canonical three-note vault whose links form a cycle:
// main → data/main, link → main, data/main → link.
func LinkedFixture(t *testing.T) string {
	t.Helper()
	return WriteVault(t, map[string]string{
		"main.md":      "---\ntopic: work\ncreated: 15-04-2006\n---\nMain data. Other [[data/main|main]]",
		"link.md":      "---\ntopic: kinl\ncreated: 15-04-2006\n---\n[[main]]",
		"data/main.md": "New main. [[link]]",
	})
}

// OpenVault walks root and assembles a strict vault of cached notes.
func OpenVault(t *testing.T, root string) *vault.Vault[note.Properties] {
	t.Helper()
	paths, err := walker.Walk(root, walker.Options{})
	if err != nil {
		t.Fatal(err)
	}
	v, err := vault.Build(root, paths, func(path string) (note.Note[note.Properties], error) {
		return note.NewCached(path, note.YAMLCodec[note.Properties]{})
	})
	if err != nil {
		t.Fatal(err)
	}
	return v
}
