package graph

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/note"
	"github.com/starford/othala/internal/vault"
)

// ParallelOptions tune BuildParallel. The zero value picks one worker per
// CPU and the default batch size.
type ParallelOptions struct {
	Workers   int
	BatchSize int
}

const defaultBatchSize = 10

// Build constructs the link graph of v sequentially. Node count equals note
// count; an edge exists for every link whose target resolves in the index.
// Unresolved and malformed links are skipped silently. A content-read
// error aborts the build with no partial graph.
//
// Short-name collisions resolve to the first note in vault order, so the
// result is reproducible only as far as that order is.
func Build[T any](v *vault.Vault[T], kind Kind) (*Graph, error) {
	g := New(kind)
	ix, err := buildIndex(v, g)
	if err != nil {
		return nil, err
	}
	if err := buildEdges(v, ix, g); err != nil {
		return nil, err
	}
	return g, nil
}

// BuildParallel is Build with the edge phase spread over a worker pool.
// Workers resolve links into local batches; a single consumer stages edges
// and is the only actor mutating the graph. Any worker error fails the
// whole build and discards all staged edges.
func BuildParallel[T any](ctx context.Context, v *vault.Vault[T], kind Kind, opts ParallelOptions) (*Graph, error) {
	g := New(kind)
	ix, err := buildIndex(v, g)
	if err != nil {
		return nil, err
	}
	if err := buildEdgesParallel(ctx, v, ix, g, opts); err != nil {
		return nil, err
	}
	return g, nil
}

// BuildInto builds the graph of v and replays it into sink. The sink
// receives nothing unless the whole build succeeds.
func BuildInto[T any](v *vault.Vault[T], kind Kind, sink Writer) error {
	g, err := Build(v, kind)
	if err != nil {
		return err
	}
	Replay(g, sink)
	return nil
}

// Key returns a note's index key: its path relative to the vault root,
// slash-separated, extension stripped. Panics when the note has no path,
// since vaults handed to the graph builder must be file-backed.
func Key[T any](root string, n note.Note[T]) (string, error) {
	path := n.Path()
	if path == "" {
		panic("graph: note without a path in graph construction")
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("graph: note %s outside vault root %s: %w", path, root, err)
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel)), nil
}

func buildIndex[T any](v *vault.Vault[T], g *Graph) (*index, error) {
	ix := newIndex(v.Len())
	for _, n := range v.Notes() {
		full, err := Key(v.Root(), n)
		if err != nil {
			return nil, err
		}
		short, _ := note.Name(n)
		ix.insert(full, short, g.AddNode(full))
	}
	if len(ix.fullCollisions) > 0 {
		keys := slices.Compact(slices.Sorted(slices.Values(ix.fullCollisions)))
		return nil, &apperr.DuplicateIdentityError{Keys: keys}
	}
	return ix, nil
}

func buildEdges[T any](v *vault.Vault[T], ix *index, g *Graph) error {
	for _, n := range v.Notes() {
		full, err := Key(v.Root(), n)
		if err != nil {
			return err
		}
		from, ok := ix.full[full]
		if !ok {
			continue
		}
		content, err := n.Content()
		if err != nil {
			return err
		}
		for target := range note.Links(content) {
			if to, ok := ix.lookup(target); ok {
				g.AddEdge(from, to)
			}
		}
	}
	return nil
}

// batchResult carries one worker batch: either a local edge list or the
// error that stops the build.
type batchResult struct {
	edges []Edge
	err   error
}

func buildEdgesParallel[T any](ctx context.Context, v *vault.Vault[T], ix *index, g *Graph, opts ParallelOptions) error {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	results := make(chan batchResult)

	go func() {
		eg, ctx := errgroup.WithContext(ctx)
		eg.SetLimit(workers)
		for batch := range slices.Chunk(v.Notes(), batchSize) {
			eg.Go(func() error {
				res := resolveBatch(v.Root(), batch, ix)
				select {
				case results <- res:
				case <-ctx.Done():
				}
				return res.err
			})
		}
		eg.Wait() //nolint:errcheck // errors travel through results
		close(results)
	}()

	// This goroutine is the sole consumer and the only actor that will
	// touch the graph. Edges are staged so a late error discards them all.
	var staged []Edge
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		staged = append(staged, res.edges...)
	}
	if firstErr != nil {
		return firstErr
	}

	// Deterministic edge set, deterministic order too.
	sort.Slice(staged, func(i, j int) bool {
		if staged[i].From != staged[j].From {
			return staged[i].From < staged[j].From
		}
		return staged[i].To < staged[j].To
	})
	for _, e := range staged {
		g.AddEdge(e.From, e.To)
	}
	return nil
}

func resolveBatch[T any](root string, batch []note.Note[T], ix *index) batchResult {
	var edges []Edge
	for _, n := range batch {
		full, err := Key(root, n)
		if err != nil {
			return batchResult{err: err}
		}
		from, ok := ix.full[full]
		if !ok {
			continue
		}
		content, err := n.Content()
		if err != nil {
			return batchResult{err: err}
		}
		for target := range note.Links(content) {
			if to, ok := ix.lookup(target); ok {
				edges = append(edges, Edge{From: from, To: to})
			}
		}
	}
	return batchResult{edges: edges}
}
