package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrVectorLengthMismatch is returned when two vectors being compared
	// have different dimensions
	ErrVectorLengthMismatch = errors.New("vectors have different lengths")

	// ErrZeroVector is returned when a vector with zero norm is used in a
	// similarity computation
	ErrZeroVector = errors.New("vector has zero norm")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrEmbeddingFailure is returned when the embedding provider fails
	ErrEmbeddingFailure = errors.New("embedding request failed")

	// ErrExplanationFailure is returned when the explanation provider fails
	ErrExplanationFailure = errors.New("explanation request failed")

	// ErrStorageFailure is returned when a storage query fails
	ErrStorageFailure = errors.New("storage query failed")

	// ErrNoRecommendations is returned when no products can be recommended,
	// for example against an empty catalog
	ErrNoRecommendations = errors.New("no recommendations available")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
