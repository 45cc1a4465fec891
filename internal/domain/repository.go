package domain

import (
	"context"
	"time"
)

// ProductRepository defines the read queries the recommenders need over the
// product catalog.
type ProductRepository interface {
	// FindByIDs returns the products with the given IDs. Unknown IDs are
	// skipped, not errors.
	FindByIDs(ctx context.Context, ids []string) ([]Product, error)

	// FindByCategories returns products whose category is in categories,
	// excluding the given product IDs.
	FindByCategories(ctx context.Context, categories []string, excludeIDs []string) ([]Product, error)

	// FindTopRated returns up to limit products sorted by rating descending,
	// then by review count descending. This is the popularity fallback query.
	FindTopRated(ctx context.Context, limit int) ([]Product, error)

	// Save inserts a product (seeding/admin only).
	Save(ctx context.Context, product *Product) error
}

// InteractionRepository defines queries over the user interaction log.
type InteractionRepository interface {
	// FindByUser returns all interactions for a user, any action type.
	FindByUser(ctx context.Context, userID string) ([]Interaction, error)

	// FindViewsByUser returns only the user's view interactions.
	FindViewsByUser(ctx context.Context, userID string) ([]Interaction, error)

	// GroupByUserForProducts returns, for every user other than excludeUserID
	// who interacted with any of the given products, the set of product IDs
	// that user touched.
	GroupByUserForProducts(ctx context.Context, productIDs []string, excludeUserID string) (map[string][]string, error)

	// Save appends an interaction to the log.
	Save(ctx context.Context, interaction *Interaction) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Embedder maps a text to a fixed-dimension vector. Implementations must be
// safe for concurrent use once initialized.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Explainer produces a short natural-language explanation for why a product
// was recommended, given a summary of the user's behavior. Implementations
// are never required to succeed; callers substitute a generic explanation on
// failure.
type Explainer interface {
	Explain(ctx context.Context, product Product, behaviorSummary string) (string, error)
}
