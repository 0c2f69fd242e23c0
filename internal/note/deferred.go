package note

// Deferred stores only the path and re-reads the backing file on every
// call. Cheapest memory, repeated I/O cost. Suits single-pass processing of
// vaults too large to hold in memory.
type Deferred[T any] struct {
	path  string
	codec Codec[T]
}

// NewDeferred binds a deferred note to the file at path. The file must
// exist now; it vanishing later surfaces as an I/O error from the accessors.
func NewDeferred[T any](path string, codec Codec[T]) (*Deferred[T], error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}
	return &Deferred[T]{path: path, codec: codec}, nil
}

// Metadata re-reads the file and decodes its frontmatter, nil when absent.
func (d *Deferred[T]) Metadata() (*T, error) {
	res, err := d.split()
	if err != nil {
		return nil, err
	}
	return decodeMetadata(res, d.codec)
}

// Content re-reads the file and returns the body.
func (d *Deferred[T]) Content() (string, error) {
	res, err := d.split()
	if err != nil {
		return "", err
	}
	return res.Content, nil
}

// Path returns the backing file.
func (d *Deferred[T]) Path() string { return d.path }

func (d *Deferred[T]) split() (SplitResult, error) {
	raw, err := readSource(d.path)
	if err != nil {
		return SplitResult{}, err
	}
	return Split(raw)
}

var _ Note[Properties] = (*Deferred[Properties])(nil)
