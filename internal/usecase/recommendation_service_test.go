package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/cartwise/backend/internal/domain"
)

// hybridFixture wires a full hybrid service over in-memory fakes. The target
// user viewed p1; the content recommender ranks p2 then p3, while a neighbor
// who shares p1 contributes p3 and p5 (ranked p5 then p3 by rating).
func hybridFixture() (*RecommendationService, *fakeProductRepo, *fakeInteractionRepo, *fakeExplainer) {
	products := &fakeProductRepo{products: []domain.Product{
		{ID: "p1", Name: "Headphones", Description: "viewed", Category: "electronics", Rating: 4.5, NumReviews: 120},
		{ID: "p2", Name: "Twin Headphones", Description: "near", Category: "electronics", Rating: 4.7, NumReviews: 200},
		{ID: "p3", Name: "Soundbar", Description: "moderate", Category: "electronics", Rating: 4.3, NumReviews: 90},
		{ID: "p4", Name: "Toaster", Description: "unrelated", Category: "electronics", Rating: 4.1, NumReviews: 45},
		{ID: "p5", Name: "Coffee Maker", Description: "brew", Category: "home", Rating: 4.4, NumReviews: 110},
	}}
	interactions := &fakeInteractionRepo{interactions: []domain.Interaction{
		{UserID: "target", ProductID: "p1", Action: domain.ActionView},
		{UserID: "neighbor", ProductID: "p1", Action: domain.ActionLike},
		{UserID: "neighbor", ProductID: "p3", Action: domain.ActionView},
		{UserID: "neighbor", ProductID: "p5", Action: domain.ActionPurchase},
	}}
	embedder := &tableEmbedder{vectors: map[string][]float64{
		"viewed":    vecViewed,
		"near":      vecNearMatch,
		"moderate":  vecModerate,
		"unrelated": vecUnrelated,
		"brew":      vecUnrelated,
	}}
	explainer := &fakeExplainer{}

	content := NewContentService(products, interactions, embedder, ContentConfig{})
	collaborative := NewCollaborativeService(products, interactions, CollaborativeConfig{})
	svc := NewRecommendationService(content, collaborative, products, interactions, explainer, RecommendationConfig{})
	return svc, products, interactions, explainer
}

func TestRecommendationServiceRecommend(t *testing.T) {
	ctx := context.Background()

	t.Run("merges with content priority and no duplicates", func(t *testing.T) {
		svc, _, _, _ := hybridFixture()

		got, err := svc.Recommend(ctx, "target", 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Content contributes [p2 p3], collaborative [p5 p3]; p3 dedupes to
		// its content position.
		want := []string{"p2", "p3", "p5"}
		if len(got) != len(want) {
			t.Fatalf("got %d recommendations, want %d", len(got), len(want))
		}
		for i, id := range want {
			if got[i].ID != id {
				t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
			}
		}
	})

	t.Run("output length never exceeds limit", func(t *testing.T) {
		svc, _, _, _ := hybridFixture()

		for _, limit := range []int{0, 1, 3, 100} {
			got, err := svc.Recommend(ctx, "target", limit)
			if err != nil {
				t.Fatalf("limit %d: unexpected error: %v", limit, err)
			}
			if len(got) > limit {
				t.Errorf("limit %d: got %d recommendations", limit, len(got))
			}
			seen := make(map[string]bool)
			for _, rec := range got {
				if seen[rec.ID] {
					t.Errorf("limit %d: duplicate product %s", limit, rec.ID)
				}
				seen[rec.ID] = true
			}
		}
	})

	t.Run("empty user ID is rejected", func(t *testing.T) {
		svc, _, _, _ := hybridFixture()

		_, err := svc.Recommend(ctx, "", 3)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("limit zero yields empty list", func(t *testing.T) {
		svc, _, _, _ := hybridFixture()

		got, err := svc.Recommend(ctx, "target", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d recommendations, want 0", len(got))
		}
	})

	t.Run("cold-start user falls back to popularity ranking", func(t *testing.T) {
		svc, _, _, _ := hybridFixture()

		got, err := svc.Recommend(ctx, "brand-new-user", 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"p2", "p1", "p5"} // rating desc, then reviews desc
		if len(got) != len(want) {
			t.Fatalf("got %d recommendations, want %d", len(got), len(want))
		}
		for i, id := range want {
			if got[i].ID != id {
				t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
			}
		}
	})

	t.Run("fallback also reachable when signals wash out", func(t *testing.T) {
		svc, _, interactions, _ := hybridFixture()
		// The user's only view is of a product whose category has no
		// qualifying candidates, and nobody shares their products.
		interactions.interactions = []domain.Interaction{
			{UserID: "loner", ProductID: "p5", Action: domain.ActionView},
		}

		got, err := svc.Recommend(ctx, "loner", 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d recommendations, want 2 from popularity fallback", len(got))
		}
		if got[0].ID != "p2" {
			t.Errorf("first fallback recommendation = %s, want p2", got[0].ID)
		}
	})

	t.Run("content degradation leaves collaborative results intact", func(t *testing.T) {
		_, products, interactions, _ := hybridFixture()
		embedder := &tableEmbedder{failWith: domain.ErrEmbeddingFailure}
		content := NewContentService(products, interactions, embedder, ContentConfig{})
		collaborative := NewCollaborativeService(products, interactions, CollaborativeConfig{})
		svc := NewRecommendationService(content, collaborative, products, interactions, &fakeExplainer{}, RecommendationConfig{})

		got, err := svc.Recommend(ctx, "target", 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"p5", "p3"} // collaborative only
		if len(got) != len(want) {
			t.Fatalf("got %d recommendations, want %d", len(got), len(want))
		}
		for i, id := range want {
			if got[i].ID != id {
				t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
			}
		}
	})

	t.Run("every recommendation carries a non-empty explanation", func(t *testing.T) {
		svc, _, _, _ := hybridFixture()

		got, err := svc.Recommend(ctx, "target", 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, rec := range got {
			if rec.Explanation == "" {
				t.Errorf("product %s has empty explanation", rec.ID)
			}
		}
	})

	t.Run("explainer failure substitutes the generic fallback", func(t *testing.T) {
		svc, _, _, explainer := hybridFixture()
		explainer.failWith = domain.ErrExplanationFailure

		got, err := svc.Recommend(ctx, "target", 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, rec := range got {
			if rec.Explanation != fallbackExplanation {
				t.Errorf("product %s explanation = %q, want fallback", rec.ID, rec.Explanation)
			}
		}
	})

	t.Run("empty explainer response substitutes the generic fallback", func(t *testing.T) {
		svc, _, _, explainer := hybridFixture()
		explainer.empty = true

		got, err := svc.Recommend(ctx, "target", 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].Explanation != fallbackExplanation {
			t.Errorf("got %v, want single result with fallback explanation", got)
		}
	})

	t.Run("identical inputs produce identical rankings", func(t *testing.T) {
		svc, _, _, _ := hybridFixture()

		first, err := svc.Recommend(ctx, "target", 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := svc.Recommend(ctx, "target", 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(first) != len(second) {
			t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i].ID != second[i].ID {
				t.Errorf("position %d: %s vs %s", i, first[i].ID, second[i].ID)
			}
		}
	})
}

func TestRecommendationServicePopular(t *testing.T) {
	ctx := context.Background()

	t.Run("returns highest-rated products in descending order", func(t *testing.T) {
		products := &fakeProductRepo{products: []domain.Product{
			{ID: "a", Name: "A", Rating: 4.5},
			{ID: "b", Name: "B", Rating: 4.7},
			{ID: "c", Name: "C", Rating: 4.1},
		}}
		svc := NewRecommendationService(
			NewContentService(products, &fakeInteractionRepo{}, &tableEmbedder{}, ContentConfig{}),
			NewCollaborativeService(products, &fakeInteractionRepo{}, CollaborativeConfig{}),
			products, &fakeInteractionRepo{}, &fakeExplainer{}, RecommendationConfig{},
		)

		got, err := svc.Popular(ctx, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
			t.Errorf("got %v, want [b a]", got)
		}
	})

	t.Run("applies configured default when limit is unset", func(t *testing.T) {
		svc, _, _, _ := hybridFixture()

		got, err := svc.Popular(ctx, -1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 5 { // default popular limit over a 5-product catalog
			t.Errorf("got %d results, want 5", len(got))
		}
	})

	t.Run("limit zero yields empty list", func(t *testing.T) {
		svc, _, _, _ := hybridFixture()

		got, err := svc.Popular(ctx, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d results, want 0", len(got))
		}
	})
}
