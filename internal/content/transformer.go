package content

// Transformer modifies a document, returning the modified document or an
// error.
type Transformer interface {
	// Transform modifies input, returning modified content or an error.
	Transform(input []byte) ([]byte, error)
}

// TransformerFunc is a [Transformer] that can be represented just by the
// [Transform] method.
type TransformerFunc func(input []byte) ([]byte, error)

// Transform satisfies [Transformer].
func (fn TransformerFunc) Transform(input []byte) ([]byte, error) { return fn(input) }

// Chain runs transformers in order, stopping at the first error.
func Chain(transformers ...Transformer) TransformerFunc {
	return func(input []byte) (output []byte, err error) {
		output = input
		for _, transformer := range transformers {
			if output, err = transformer.Transform(output); err != nil {
				return nil, err
			}
		}
		return output, nil
	}
}
