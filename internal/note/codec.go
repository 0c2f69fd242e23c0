package note

import (
	"gopkg.in/yaml.v3"

	"github.com/starford/othala/internal/apperr"
)

// Properties is the schemaless metadata type used when a note has no
// caller-supplied frontmatter schema.
type Properties = map[string]any

// Codec decodes and encodes the frontmatter payload of a note.
type Codec[T any] interface {
	Decode(text string) (T, error)
	Encode(v T) (string, error)
}

// YAMLCodec is the default Codec, treating the frontmatter payload as YAML.
type YAMLCodec[T any] struct{}

// Decode unmarshals text into T. Failures are reported as apperr.DecodeError.
func (YAMLCodec[T]) Decode(text string) (T, error) {
	var v T
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return v, &apperr.DecodeError{Err: err}
	}
	return v, nil
}

// Encode marshals v back to YAML.
func (YAMLCodec[T]) Encode(v T) (string, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
