package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/cartwise/backend/internal/domain"
)

// CachedEmbedder wraps an Embedder with a CacheRepository keyed by content
// hash, so unchanged product text never hits the inference server twice.
// Cache failures fall through to the inner embedder; caching is an
// optimization, never a correctness dependency.
type CachedEmbedder struct {
	inner domain.Embedder
	cache domain.CacheRepository
	ttl   time.Duration
}

// NewCachedEmbedder wraps inner with cache. A zero TTL defaults to 24h.
func NewCachedEmbedder(inner domain.Embedder, cache domain.CacheRepository, ttl time.Duration) *CachedEmbedder {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &CachedEmbedder{inner: inner, cache: cache, ttl: ttl}
}

// Embed returns the cached vector for the text's content hash or computes
// and caches it.
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	key := cacheKey(text)

	if value, err := e.cache.Get(ctx, key); err == nil {
		if vector, ok := decodeVector(value); ok {
			return vector, nil
		}
		// Corrupt entry: drop it and recompute.
		_ = e.cache.Delete(ctx, key)
	}

	vector, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	_ = e.cache.Set(ctx, key, vector, e.ttl)
	return vector, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "embedding:" + hex.EncodeToString(sum[:16])
}

// decodeVector handles the JSON round-trip both cache backends apply, which
// turns []float64 into []interface{}.
func decodeVector(value interface{}) ([]float64, bool) {
	switch v := value.(type) {
	case []float64:
		return v, true
	case []interface{}:
		vector := make([]float64, 0, len(v))
		for _, item := range v {
			f, ok := item.(float64)
			if !ok {
				return nil, false
			}
			vector = append(vector, f)
		}
		return vector, len(vector) > 0
	}
	return nil, false
}
