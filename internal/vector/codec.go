// Package vector implements the textual codec for embedding vectors.
//
// The engine's vector type accepts a bracketed, comma-separated literal
// ("[0.1,0.2,0.3]"). Elements are rendered with full round-trip precision for
// 32-bit floats, so decode(encode(v)) == v exactly.
package vector

import (
	"fmt"

	"github.com/pgvector/pgvector-go"
)

// Encode renders v as a vector literal understood by the engine's native
// vector parser.
func Encode(v []float32) string {
	return pgvector.NewVector(v).String()
}

// Decode parses a vector literal back into its elements.
func Decode(s string) ([]float32, error) {
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("malformed vector literal %q", s)
	}
	if s == "[]" {
		return []float32{}, nil
	}
	var vec pgvector.Vector
	if err := vec.Parse(s); err != nil {
		return nil, fmt.Errorf("failed to parse vector literal %q: %w", s, err)
	}
	return vec.Slice(), nil
}
