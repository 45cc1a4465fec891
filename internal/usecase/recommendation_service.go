package usecase

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/cartwise/backend/internal/domain"
)

// fallbackExplanation guarantees every recommendation carries a non-empty
// explanation even when the explanation provider is down.
const fallbackExplanation = "This product matches your browsing patterns."

// RecommendationConfig holds the tunables for the hybrid recommender.
type RecommendationConfig struct {
	// DefaultLimit is used when a request does not specify how many
	// recommendations it wants.
	DefaultLimit int

	// PopularLimit is the default size of the popularity-only listing.
	PopularLimit int

	EnableDebugLogging bool
}

// RecommendationService combines the content-based and collaborative
// recommenders into a single ranked, deduplicated, explained list, falling
// back to global popularity for cold-start users.
type RecommendationService struct {
	content       *ContentService
	collaborative *CollaborativeService
	products      domain.ProductRepository
	interactions  domain.InteractionRepository
	explainer     domain.Explainer

	defaultLimit       int
	popularLimit       int
	enableDebugLogging bool
}

// NewRecommendationService wires the hybrid recommender, applying defaults
// for unset configuration values.
func NewRecommendationService(
	content *ContentService,
	collaborative *CollaborativeService,
	products domain.ProductRepository,
	interactions domain.InteractionRepository,
	explainer domain.Explainer,
	config RecommendationConfig,
) *RecommendationService {
	defaultLimit := config.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 3
	}

	popularLimit := config.PopularLimit
	if popularLimit <= 0 {
		popularLimit = 5
	}

	return &RecommendationService{
		content:            content,
		collaborative:      collaborative,
		products:           products,
		interactions:       interactions,
		explainer:          explainer,
		defaultLimit:       defaultLimit,
		popularLimit:       popularLimit,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// DefaultLimit exposes the configured default recommendation count.
func (s *RecommendationService) DefaultLimit() int { return s.defaultLimit }

// PopularLimit exposes the configured default popular-listing size.
func (s *RecommendationService) PopularLimit() int { return s.popularLimit }

// Recommend produces up to limit explained recommendations for a user.
//
// The two recommenders run concurrently; either one failing degrades to an
// empty contribution rather than failing the request, so the worst case is
// the global popularity list. A limit of zero yields an empty list.
func (s *RecommendationService) Recommend(ctx context.Context, userID string, limit int) ([]domain.RecommendedProduct, error) {
	if userID == "" {
		return nil, domain.ErrInvalidRequest
	}
	if limit < 0 {
		limit = s.defaultLimit
	}
	if limit == 0 {
		return []domain.RecommendedProduct{}, nil
	}

	var contentRecs, collaborativeRecs []domain.Product

	// The two strategies share no mutable state, so they join lock-free.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs, err := s.content.Recommend(gctx, userID, limit)
		if err != nil {
			log.Printf("[HYBRID] Content-based recommender degraded for user %s: %v", userID, err)
			return nil
		}
		contentRecs = recs
		return nil
	})
	g.Go(func() error {
		recs, err := s.collaborative.Recommend(gctx, userID, limit)
		if err != nil {
			log.Printf("[HYBRID] Collaborative recommender degraded for user %s: %v", userID, err)
			return nil
		}
		collaborativeRecs = recs
		return nil
	})
	_ = g.Wait() // branches swallow their own errors

	merged := mergeRecommendations(contentRecs, collaborativeRecs, limit)

	// Cold-start path: no qualifying candidates from either strategy.
	if len(merged) == 0 {
		var err error
		merged, err = s.products.FindTopRated(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("popularity fallback: %w", err)
		}
	}

	if s.enableDebugLogging {
		log.Printf("[HYBRID] User %s: %d content, %d collaborative, %d merged",
			userID, len(contentRecs), len(collaborativeRecs), len(merged))
	}

	summary := s.summarizeUser(ctx, userID)
	return s.attachExplanations(ctx, merged, summary), nil
}

// Popular returns the non-personalized popularity ranking: rating descending,
// then review count descending.
func (s *RecommendationService) Popular(ctx context.Context, limit int) ([]domain.RecommendedProduct, error) {
	if limit < 0 {
		limit = s.popularLimit
	}
	if limit == 0 {
		return []domain.RecommendedProduct{}, nil
	}

	products, err := s.products.FindTopRated(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching popular products: %w", err)
	}

	return s.attachExplanations(ctx, products, coldStartSummary), nil
}

// mergeRecommendations concatenates content results ahead of collaborative
// results, dedupes by product ID keeping the first occurrence (content-based
// wins collisions), and truncates to limit.
func mergeRecommendations(contentRecs, collaborativeRecs []domain.Product, limit int) []domain.Product {
	seen := make(map[string]bool, len(contentRecs)+len(collaborativeRecs))
	merged := make([]domain.Product, 0, limit)

	for _, p := range append(append([]domain.Product{}, contentRecs...), collaborativeRecs...) {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		merged = append(merged, p)
		if len(merged) == limit {
			break
		}
	}
	return merged
}

// summarizeUser builds the behavior narrative for the explanation stage.
// Any fetch failure degrades to the cold-start summary; the summary itself
// never fails.
func (s *RecommendationService) summarizeUser(ctx context.Context, userID string) string {
	history, err := s.interactions.FindByUser(ctx, userID)
	if err != nil {
		log.Printf("[HYBRID] Behavior summary degraded for user %s: %v", userID, err)
		return coldStartSummary
	}
	if len(history) == 0 {
		return coldStartSummary
	}

	productIDs := make([]string, 0, len(history))
	seen := make(map[string]bool, len(history))
	for _, interaction := range history {
		if !seen[interaction.ProductID] {
			seen[interaction.ProductID] = true
			productIDs = append(productIDs, interaction.ProductID)
		}
	}

	products, err := s.products.FindByIDs(ctx, productIDs)
	if err != nil {
		log.Printf("[HYBRID] Behavior summary degraded for user %s: %v", userID, err)
		return coldStartSummary
	}

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	details := make([]domain.InteractionDetail, 0, len(history))
	for _, interaction := range history {
		p, ok := byID[interaction.ProductID]
		if !ok {
			continue
		}
		details = append(details, domain.InteractionDetail{
			Action:          interaction.Action,
			ProductName:     p.Name,
			ProductCategory: p.Category,
		})
	}

	return SummarizeBehavior(details)
}

// attachExplanations enriches each product with an explanation string. The
// explanation provider is never required to succeed; failures and empty
// responses get the generic fallback so every output item carries a
// non-empty explanation.
func (s *RecommendationService) attachExplanations(
	ctx context.Context,
	products []domain.Product,
	behaviorSummary string,
) []domain.RecommendedProduct {
	out := make([]domain.RecommendedProduct, 0, len(products))
	for _, p := range products {
		explanation, err := s.explainer.Explain(ctx, p, behaviorSummary)
		if err != nil || explanation == "" {
			if err != nil {
				log.Printf("[HYBRID] Explanation degraded for product %s: %v", p.ID, err)
			}
			explanation = fallbackExplanation
		}
		out = append(out, domain.RecommendedProduct{Product: p, Explanation: explanation})
	}
	return out
}
