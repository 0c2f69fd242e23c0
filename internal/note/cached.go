package note

import "sync/atomic"

// Cached stores the path plus two commit-once cells, one for content and
// one for metadata. The first successful call computes and commits a
// result; every later call, including concurrent ones, observes the
// committed value.
//
// Concurrency contract: under a race the compute may run more than once,
// but compare-and-swap ensures exactly one outcome is ever stored. The only
// side effect of a redundant run is the extra file read. Failed reads are
// not cached, so a later retry may succeed.
type Cached[T any] struct {
	path  string
	codec Codec[T]

	content  atomic.Pointer[string]
	metadata atomic.Pointer[metadataCell[T]]
}

// metadataCell boxes the optional decoded value so that "committed, no
// frontmatter" is distinguishable from "not yet computed".
type metadataCell[T any] struct {
	value *T
}

// NewCached binds a cached note to the file at path without reading it.
func NewCached[T any](path string, codec Codec[T]) (*Cached[T], error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}
	return &Cached[T]{path: path, codec: codec}, nil
}

// Metadata returns the decoded frontmatter, computing and committing it on
// first success. nil when the note has no frontmatter block.
func (c *Cached[T]) Metadata() (*T, error) {
	if cell := c.metadata.Load(); cell != nil {
		return cell.value, nil
	}

	res, err := c.split()
	if err != nil {
		return nil, err
	}
	meta, err := decodeMetadata(res, c.codec)
	if err != nil {
		return nil, err
	}

	c.metadata.CompareAndSwap(nil, &metadataCell[T]{value: meta})
	return c.metadata.Load().value, nil
}

// Content returns the note body, computing and committing it on first
// success.
func (c *Cached[T]) Content() (string, error) {
	if p := c.content.Load(); p != nil {
		return *p, nil
	}

	res, err := c.split()
	if err != nil {
		return "", err
	}

	c.content.CompareAndSwap(nil, &res.Content)
	return *c.content.Load(), nil
}

// Path returns the backing file.
func (c *Cached[T]) Path() string { return c.path }

func (c *Cached[T]) split() (SplitResult, error) {
	raw, err := readSource(c.path)
	if err != nil {
		return SplitResult{}, err
	}
	return Split(raw)
}

var _ Note[Properties] = (*Cached[Properties])(nil)
