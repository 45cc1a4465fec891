package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/cartwise/backend/internal/domain"
)

// CollaborativeConfig holds the tunables for collaborative recommendation.
type CollaborativeConfig struct {
	// MaxCandidates caps how many distinct neighbor products are fetched and
	// ranked, independent of the final limit, to bound downstream query cost.
	MaxCandidates int

	EnableDebugLogging bool
}

// CollaborativeService recommends products that co-interacting users touched
// and the target user has not, ranked by product rating. Popularity among the
// neighbor set is the signal; no per-pair similarity weighting is computed.
type CollaborativeService struct {
	products     domain.ProductRepository
	interactions domain.InteractionRepository

	maxCandidates      int
	enableDebugLogging bool
}

// NewCollaborativeService creates a collaborative recommender, applying
// defaults for unset configuration values.
func NewCollaborativeService(
	products domain.ProductRepository,
	interactions domain.InteractionRepository,
	config CollaborativeConfig,
) *CollaborativeService {
	maxCandidates := config.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = 20
	}

	return &CollaborativeService{
		products:           products,
		interactions:       interactions,
		maxCandidates:      maxCandidates,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Recommend returns up to limit products touched by co-interacting users,
// highest-rated first. Unlike the content-based recommender, it excludes
// everything the user interacted with in any way, not just views.
//
// Signal absence (no interactions, no neighbors) yields an empty result and
// a nil error; storage errors are returned for the caller to degrade.
func (s *CollaborativeService) Recommend(ctx context.Context, userID string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		return nil, nil
	}

	history, err := s.interactions.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching interactions: %w", err)
	}
	if len(history) == 0 {
		return nil, nil
	}

	owned := make(map[string]bool, len(history))
	ownedIDs := make([]string, 0, len(history))
	for _, interaction := range history {
		if !owned[interaction.ProductID] {
			owned[interaction.ProductID] = true
			ownedIDs = append(ownedIDs, interaction.ProductID)
		}
	}

	neighbors, err := s.interactions.GroupByUserForProducts(ctx, ownedIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("grouping neighbor interactions: %w", err)
	}
	if len(neighbors) == 0 {
		return nil, nil
	}

	// Union the neighbors' products, skipping anything the user already
	// touched, capped at maxCandidates. Neighbor iteration is sorted so the
	// candidate set is deterministic for identical inputs.
	neighborIDs := make([]string, 0, len(neighbors))
	for neighborID := range neighbors {
		neighborIDs = append(neighborIDs, neighborID)
	}
	sort.Strings(neighborIDs)

	candidateSet := make(map[string]bool)
	candidateIDs := make([]string, 0, s.maxCandidates)
	for _, neighborID := range neighborIDs {
		for _, productID := range neighbors[neighborID] {
			if owned[productID] || candidateSet[productID] {
				continue
			}
			if len(candidateIDs) >= s.maxCandidates {
				break
			}
			candidateSet[productID] = true
			candidateIDs = append(candidateIDs, productID)
		}
	}

	if s.enableDebugLogging {
		log.Printf("[CF] User %s: %d neighbors, %d candidates", userID, len(neighbors), len(candidateIDs))
	}

	if len(candidateIDs) == 0 {
		return nil, nil
	}

	candidates, err := s.products.FindByIDs(ctx, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching candidate products: %w", err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Rating > candidates[j].Rating
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}
