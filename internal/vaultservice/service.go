// Package vaultservice runs the vault analysis pipeline and serves its
// results to the HTTP and MCP layers. A Sync walks the vault, rebuilds the
// link graph and duplicate report, and swaps the whole result atomically,
// both in memory and in the SQLite snapshot.
package vaultservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/checksum"
	"github.com/starford/othala/internal/graph"
	"github.com/starford/othala/internal/note"
	"github.com/starford/othala/internal/snapshot"
	"github.com/starford/othala/internal/vault"
	"github.com/starford/othala/internal/walker"
)

// Options configure how the service walks and analyzes the vault.
type Options struct {
	Extension     string // note extension, default ".md"
	IncludeHidden bool
	Parallel      bool // use the parallel vault and graph builders
	Workers       int
	BatchSize     int
}

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	Label     string          `json:"label"`
	Name      string          `json:"name"`
	Content   string          `json:"content"`
	Checksum  string          `json:"checksum"`
	Metadata  note.Properties `json:"metadata,omitempty"`
	Backlinks []string        `json:"backlinks"`
	Tags      []string        `json:"tags"`
	Aliases   []string        `json:"aliases"`
	Todo      bool            `json:"todo"`
	Words     int             `json:"words"`
	Runes     int             `json:"runes"`
}

// NoteListItem is a lightweight item in a list response.
type NoteListItem struct {
	Label    string `json:"label"`
	Name     string `json:"name"`
	Checksum string `json:"checksum"`
}

// Duplicate is one entry of the duplicate report.
type Duplicate struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

// Service coordinates the vault pipeline and the snapshot store.
type Service struct {
	root   string // absolute path of the vault directory
	db     *snapshot.DB
	opts   Options
	digest checksum.Digest
	log    *slog.Logger

	mu       sync.RWMutex
	vault    *vault.Vault[note.Properties]
	graph    *graph.Graph
	analysis graph.Analysis
	dups     []Duplicate
	labels   map[string]note.Note[note.Properties]
	syncedAt time.Time
}

// NewService creates a service rooted at the given vault directory.
// The directory must already exist.
func NewService(root string, db *snapshot.DB, opts Options, log *slog.Logger) (*Service, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("vaultservice: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("vaultservice: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, &apperr.NotADirectoryError{Path: abs}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		root:   abs,
		db:     db,
		opts:   opts,
		digest: checksum.SHA256,
		log:    log,
	}, nil
}

// Root returns the absolute vault root.
func (s *Service) Root() string { return s.root }

// Sync rebuilds the full analysis from the file system and replaces the
// snapshot. Nothing is swapped in when any stage fails, so readers keep
// seeing the previous consistent state.
func (s *Service) Sync(ctx context.Context) error {
	started := time.Now()

	paths, err := walker.Walk(s.root, walker.Options{
		Extension:     s.opts.Extension,
		IncludeHidden: s.opts.IncludeHidden,
	})
	if err != nil {
		return fmt.Errorf("vaultservice: walk: %w", err)
	}

	parse := func(path string) (note.Note[note.Properties], error) {
		return note.NewCached[note.Properties](path, note.YAMLCodec[note.Properties]{})
	}

	var v *vault.Vault[note.Properties]
	if s.opts.Parallel {
		v, err = vault.BuildParallel(ctx, s.root, paths, parse, s.opts.Workers)
	} else {
		v, err = vault.Build(s.root, paths, parse)
	}
	if err != nil {
		return fmt.Errorf("vaultservice: build vault: %w", err)
	}

	var g *graph.Graph
	if s.opts.Parallel {
		g, err = graph.BuildParallel(ctx, v, graph.Directed, graph.ParallelOptions{
			Workers:   s.opts.Workers,
			BatchSize: s.opts.BatchSize,
		})
	} else {
		g, err = graph.Build(v, graph.Directed)
	}
	if err != nil {
		return fmt.Errorf("vaultservice: build graph: %w", err)
	}

	dups, err := s.collectDuplicates(v)
	if err != nil {
		return fmt.Errorf("vaultservice: duplicates: %w", err)
	}

	labels := make(map[string]note.Note[note.Properties], v.Len())
	nodes := make([]snapshot.NodeRow, 0, v.Len())
	for _, n := range v.Notes() {
		label, err := graph.Key(v.Root(), n)
		if err != nil {
			return err
		}
		content, err := n.Content()
		if err != nil {
			return err
		}
		name, _ := note.Name(n)
		labels[label] = n
		nodes = append(nodes, snapshot.NodeRow{
			Label:    label,
			Name:     name,
			Checksum: s.digest([]byte(content)),
		})
	}

	edges := make([]snapshot.EdgeRow, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		edges = append(edges, snapshot.EdgeRow{
			Source: g.Label(e.From),
			Target: g.Label(e.To),
		})
	}

	dupRows := make([]snapshot.DuplicateRow, len(dups))
	for i, d := range dups {
		dupRows[i] = snapshot.DuplicateRow{Kind: d.Kind, Label: d.Label}
	}

	if s.db != nil {
		if err := s.db.Replace(nodes, edges, dupRows); err != nil {
			return err
		}
	}

	analysis := graph.Analyze(g)

	s.mu.Lock()
	s.vault = v
	s.graph = g
	s.analysis = analysis
	s.dups = dups
	s.labels = labels
	s.syncedAt = time.Now()
	s.mu.Unlock()

	s.log.Info("vault synced",
		slog.Int("notes", v.Len()),
		slog.Int("edges", g.EdgeCount()),
		slog.Int("duplicates", len(dups)),
		slog.Duration("took", time.Since(started)))
	return nil
}

func (s *Service) collectDuplicates(v *vault.Vault[note.Properties]) ([]Duplicate, error) {
	var out []Duplicate
	for _, n := range v.DuplicatesByName() {
		label, err := graph.Key(v.Root(), n)
		if err != nil {
			return nil, err
		}
		out = append(out, Duplicate{Kind: snapshot.DuplicateByName, Label: label})
	}
	byContent, err := v.DuplicatesByContent(s.digest)
	if err != nil {
		return nil, err
	}
	for _, n := range byContent {
		label, err := graph.Key(v.Root(), n)
		if err != nil {
			return nil, err
		}
		out = append(out, Duplicate{Kind: snapshot.DuplicateByContent, Label: label})
	}
	return out, nil
}

// ErrNotSynced is returned by read operations before the first Sync.
var ErrNotSynced = errors.New("vaultservice: not synced yet")

// Graph returns the current link graph.
func (s *Service) Graph(_ context.Context) (*graph.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.graph == nil {
		return nil, ErrNotSynced
	}
	return s.graph, nil
}

// Analysis returns the current structural summary.
func (s *Service) Analysis(_ context.Context) (graph.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.graph == nil {
		return graph.Analysis{}, ErrNotSynced
	}
	return s.analysis, nil
}

// Duplicates returns the current duplicate report.
func (s *Service) Duplicates(_ context.Context) ([]Duplicate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.graph == nil {
		return nil, ErrNotSynced
	}
	out := make([]Duplicate, len(s.dups))
	copy(out, s.dups)
	return out, nil
}

// ListNotes returns one list item per note, in vault order.
func (s *Service) ListNotes(_ context.Context) ([]NoteListItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.vault == nil {
		return nil, ErrNotSynced
	}
	items := make([]NoteListItem, 0, s.vault.Len())
	for _, n := range s.vault.Notes() {
		label, err := graph.Key(s.vault.Root(), n)
		if err != nil {
			return nil, err
		}
		content, err := n.Content()
		if err != nil {
			return nil, err
		}
		name, _ := note.Name(n)
		items = append(items, NoteListItem{
			Label:    label,
			Name:     name,
			Checksum: s.digest([]byte(content)),
		})
	}
	return items, nil
}

// ReadNote returns the full detail of a note by its label (vault-relative
// path without extension). Labels that escape the vault root are rejected.
func (s *Service) ReadNote(_ context.Context, label string) (*NoteDetail, error) {
	if err := checkLabel(label); err != nil {
		return nil, err
	}
	s.mu.RLock()
	if s.labels == nil {
		s.mu.RUnlock()
		return nil, ErrNotSynced
	}
	n, ok := s.labels[label]
	s.mu.RUnlock()
	if !ok {
		return nil, apperr.ErrNotFound
	}

	content, err := n.Content()
	if err != nil {
		return nil, err
	}
	meta, err := n.Metadata()
	if err != nil {
		return nil, err
	}
	bl, err := s.backlinks(label)
	if err != nil {
		return nil, err
	}
	words, err := note.WordCount(n)
	if err != nil {
		return nil, err
	}
	runes, err := note.RuneCount(n)
	if err != nil {
		return nil, err
	}
	tags, err := note.Tags(n)
	if err != nil {
		return nil, err
	}
	aliases, err := note.Aliases(n)
	if err != nil {
		return nil, err
	}
	todo := false
	for _, tag := range tags {
		if tag == "todo" {
			todo = true
			break
		}
	}
	name, _ := note.Name(n)
	detail := &NoteDetail{
		Label:     label,
		Name:      name,
		Content:   content,
		Checksum:  s.digest([]byte(content)),
		Backlinks: bl,
		Tags:      emptyIfNil(tags),
		Aliases:   emptyIfNil(aliases),
		Todo:      todo,
		Words:     words,
		Runes:     runes,
	}
	if meta != nil {
		detail.Metadata = *meta
	}
	return detail, nil
}

// Backlinks returns the labels of all notes linking to target.
func (s *Service) Backlinks(_ context.Context, target string) ([]string, error) {
	if err := checkLabel(target); err != nil {
		return nil, err
	}
	s.mu.RLock()
	synced := s.graph != nil
	s.mu.RUnlock()
	if !synced {
		return nil, ErrNotSynced
	}
	return s.backlinks(target)
}

// SyncedAt reports the time of the last successful Sync.
func (s *Service) SyncedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncedAt
}

func (s *Service) backlinks(target string) ([]string, error) {
	if s.db != nil {
		bl, err := s.db.Backlinks(target)
		if err != nil {
			return nil, err
		}
		if bl == nil {
			bl = []string{}
		}
		return bl, nil
	}

	// No snapshot store, answer from the in-memory graph.
	s.mu.RLock()
	defer s.mu.RUnlock()
	bl := []string{}
	for _, e := range s.graph.Edges() {
		if s.graph.Label(e.To) == target {
			bl = append(bl, s.graph.Label(e.From))
		}
	}
	return bl, nil
}

// emptyIfNil keeps optional list fields JSON-encodable as [] rather than
// null.
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// checkLabel rejects labels that could resolve outside the vault root.
func checkLabel(label string) error {
	if label == "" || filepath.IsAbs(label) {
		return apperr.ErrNotFound
	}
	cleaned := filepath.ToSlash(filepath.Clean(label))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return apperr.ErrNotFound
	}
	return nil
}
