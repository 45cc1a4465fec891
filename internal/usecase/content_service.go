package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cartwise/backend/internal/domain"
)

// ContentConfig holds the tunables for content-based recommendation.
type ContentConfig struct {
	// SimilarityThreshold is the minimum cosine similarity a candidate must
	// exceed (strictly) to be considered relevant.
	SimilarityThreshold float64

	// EmbedConcurrency bounds how many candidate embeddings are computed in
	// parallel. Each embedding call is a potentially expensive inference
	// operation.
	EmbedConcurrency int

	EnableDebugLogging bool
}

// ContentService recommends unseen products from the categories a user has
// viewed, ranked by maximum embedding similarity to any viewed product.
type ContentService struct {
	products     domain.ProductRepository
	interactions domain.InteractionRepository
	embedder     domain.Embedder

	similarityThreshold float64
	embedConcurrency    int
	enableDebugLogging  bool
}

// NewContentService creates a content-based recommender with the given
// configuration, applying defaults for unset values.
func NewContentService(
	products domain.ProductRepository,
	interactions domain.InteractionRepository,
	embedder domain.Embedder,
	config ContentConfig,
) *ContentService {
	threshold := config.SimilarityThreshold
	if threshold <= 0 {
		threshold = 0.5 // Default relevance threshold
	}

	concurrency := config.EmbedConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	return &ContentService{
		products:            products,
		interactions:        interactions,
		embedder:            embedder,
		similarityThreshold: threshold,
		embedConcurrency:    concurrency,
		enableDebugLogging:  config.EnableDebugLogging,
	}
}

// candidate is a transient scored product; the score is discarded after
// ranking and never leaves this component.
type candidate struct {
	product domain.Product
	score   float64
	order   int // fetch order, used as the deterministic tie-break
}

// Recommend returns up to limit unseen products from the user's viewed
// categories, best-matching first.
//
// A user with no view history gets an empty result and a nil error: that is
// legitimate signal absence, not a failure. Storage and embedding errors are
// returned to the caller, which degrades them to an empty result.
func (s *ContentService) Recommend(ctx context.Context, userID string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		return nil, nil
	}

	views, err := s.interactions.FindViewsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching views: %w", err)
	}
	if len(views) == 0 {
		return nil, nil
	}

	viewedIDs := make([]string, 0, len(views))
	seen := make(map[string]bool, len(views))
	for _, v := range views {
		if !seen[v.ProductID] {
			seen[v.ProductID] = true
			viewedIDs = append(viewedIDs, v.ProductID)
		}
	}

	viewed, err := s.products.FindByIDs(ctx, viewedIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching viewed products: %w", err)
	}
	if len(viewed) == 0 {
		return nil, nil
	}

	// Embed each viewed product and collect the distinct categories viewed.
	viewedEmbeddings := make([][]float64, 0, len(viewed))
	categorySet := make(map[string]bool)
	var categories []string
	for _, p := range viewed {
		embedding, err := s.embedder.Embed(ctx, p.EmbeddingText())
		if err != nil {
			return nil, fmt.Errorf("embedding viewed product %s: %w", p.ID, err)
		}
		viewedEmbeddings = append(viewedEmbeddings, embedding)
		if !categorySet[p.Category] {
			categorySet[p.Category] = true
			categories = append(categories, p.Category)
		}
	}

	candidates, err := s.products.FindByCategories(ctx, categories, viewedIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	scored := s.scoreCandidates(ctx, candidates, viewedEmbeddings)

	// Stable sort by score descending; ties keep candidate fetch order so
	// identical inputs always rank identically.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	out := make([]domain.Product, 0, len(scored))
	for _, c := range scored {
		out = append(out, c.product)
	}
	return out, nil
}

// scoreCandidates embeds each candidate with bounded concurrency and keeps
// those whose maximum similarity to any viewed embedding clears the
// threshold. A candidate whose embedding or similarity fails is dropped
// without affecting the others.
func (s *ContentService) scoreCandidates(
	ctx context.Context,
	candidates []domain.Product,
	viewedEmbeddings [][]float64,
) []candidate {
	var mu sync.Mutex
	scored := make([]candidate, 0, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.embedConcurrency)

	for i, p := range candidates {
		i, p := i, p
		g.Go(func() error {
			embedding, err := s.embedder.Embed(gctx, p.EmbeddingText())
			if err != nil {
				if s.enableDebugLogging {
					log.Printf("[CONTENT] Skipping candidate %s: %v", p.ID, err)
				}
				return nil
			}

			maxSimilarity := 0.0
			for _, viewedEmbedding := range viewedEmbeddings {
				similarity, err := Cosine(embedding, viewedEmbedding)
				if err != nil {
					// No similarity signal for this pair; keep going.
					continue
				}
				if similarity > maxSimilarity {
					maxSimilarity = similarity
				}
			}

			if s.enableDebugLogging {
				log.Printf("[CONTENT] Candidate %s (%s) score: %.3f", p.ID, p.Name, maxSimilarity)
			}

			if maxSimilarity <= s.similarityThreshold {
				return nil
			}

			mu.Lock()
			scored = append(scored, candidate{product: p, score: maxSimilarity, order: i})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors; failures drop candidates

	// Restore fetch order before ranking so the stable sort's tie-break is
	// independent of goroutine scheduling.
	sort.Slice(scored, func(i, j int) bool { return scored[i].order < scored[j].order })

	return scored
}
