package usecase

import (
	"math"

	"github.com/cartwise/backend/internal/domain"
)

// Cosine computes the cosine similarity between two equal-length vectors:
// dot(a,b) / (||a|| * ||b||).
//
// It fails with a defined error rather than producing NaN or panicking when
// the vectors differ in length or either has zero norm. Callers treat that
// as "no similarity signal" for the pair, not as a request failure.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, domain.ErrVectorLengthMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, domain.ErrZeroVector
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
