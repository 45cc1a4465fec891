package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cartwise/backend/internal/domain"
)

func collaborativeFixture() (*fakeProductRepo, *fakeInteractionRepo) {
	products := &fakeProductRepo{products: []domain.Product{
		{ID: "p1", Name: "Headphones", Category: "electronics", Rating: 4.5},
		{ID: "p2", Name: "Smartphone", Category: "electronics", Rating: 4.7},
		{ID: "p3", Name: "Earbuds", Category: "electronics", Rating: 4.3},
		{ID: "p4", Name: "T-Shirt", Category: "clothing", Rating: 4.2},
		{ID: "p5", Name: "Coffee Maker", Category: "home", Rating: 4.4},
	}}
	interactions := &fakeInteractionRepo{interactions: []domain.Interaction{
		// Target user touched p1 (view) and p2 (purchase).
		{UserID: "target", ProductID: "p1", Action: domain.ActionView},
		{UserID: "target", ProductID: "p2", Action: domain.ActionPurchase},
		// Neighbor shares p1 and also touched p3 and p5.
		{UserID: "neighbor", ProductID: "p1", Action: domain.ActionLike},
		{UserID: "neighbor", ProductID: "p3", Action: domain.ActionView},
		{UserID: "neighbor", ProductID: "p5", Action: domain.ActionPurchase},
		// Stranger shares nothing with the target.
		{UserID: "stranger", ProductID: "p4", Action: domain.ActionPurchase},
	}}
	return products, interactions
}

func TestCollaborativeServiceRecommend(t *testing.T) {
	ctx := context.Background()

	t.Run("no interactions yields empty result and nil error", func(t *testing.T) {
		products, interactions := collaborativeFixture()
		svc := NewCollaborativeService(products, interactions, CollaborativeConfig{})

		got, err := svc.Recommend(ctx, "unknown-user", 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d recommendations, want 0", len(got))
		}
	})

	t.Run("recommends neighbor products ranked by rating", func(t *testing.T) {
		products, interactions := collaborativeFixture()
		svc := NewCollaborativeService(products, interactions, CollaborativeConfig{})

		got, err := svc.Recommend(ctx, "target", 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d recommendations, want 2 (p5 and p3)", len(got))
		}
		if got[0].ID != "p5" || got[1].ID != "p3" {
			t.Errorf("got [%s %s], want [p5 p3] by rating descending", got[0].ID, got[1].ID)
		}
	})

	t.Run("never includes a product the user interacted with in any way", func(t *testing.T) {
		products, interactions := collaborativeFixture()
		svc := NewCollaborativeService(products, interactions, CollaborativeConfig{})

		got, err := svc.Recommend(ctx, "target", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, p := range got {
			if p.ID == "p1" || p.ID == "p2" {
				t.Errorf("owned product %s must not be recommended", p.ID)
			}
		}
	})

	t.Run("unrelated users never contribute", func(t *testing.T) {
		products, interactions := collaborativeFixture()
		svc := NewCollaborativeService(products, interactions, CollaborativeConfig{})

		got, err := svc.Recommend(ctx, "target", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, p := range got {
			if p.ID == "p4" {
				t.Errorf("stranger's product p4 must not be recommended")
			}
		}
	})

	t.Run("caps candidates independently of limit", func(t *testing.T) {
		products := &fakeProductRepo{}
		interactions := &fakeInteractionRepo{}
		interactions.interactions = append(interactions.interactions,
			domain.Interaction{UserID: "target", ProductID: "shared", Action: domain.ActionView},
			domain.Interaction{UserID: "neighbor", ProductID: "shared", Action: domain.ActionView},
		)
		products.products = append(products.products, domain.Product{ID: "shared", Category: "misc"})
		for i := 0; i < 30; i++ {
			id := fmt.Sprintf("extra-%02d", i)
			products.products = append(products.products, domain.Product{ID: id, Category: "misc", Rating: 3.0})
			interactions.interactions = append(interactions.interactions,
				domain.Interaction{UserID: "neighbor", ProductID: id, Action: domain.ActionView})
		}

		svc := NewCollaborativeService(products, interactions, CollaborativeConfig{MaxCandidates: 20})
		got, err := svc.Recommend(ctx, "target", 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 20 {
			t.Errorf("got %d recommendations, want 20 (candidate cap)", len(got))
		}
	})

	t.Run("truncates to limit", func(t *testing.T) {
		products, interactions := collaborativeFixture()
		svc := NewCollaborativeService(products, interactions, CollaborativeConfig{})

		got, err := svc.Recommend(ctx, "target", 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].ID != "p5" {
			t.Errorf("got %v, want [p5]", got)
		}
	})

	t.Run("limit zero yields empty result", func(t *testing.T) {
		products, interactions := collaborativeFixture()
		svc := NewCollaborativeService(products, interactions, CollaborativeConfig{})

		got, err := svc.Recommend(ctx, "target", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d recommendations, want 0", len(got))
		}
	})

	t.Run("storage failure surfaces as error", func(t *testing.T) {
		products, interactions := collaborativeFixture()
		interactions.failWith = domain.ErrStorageFailure
		svc := NewCollaborativeService(products, interactions, CollaborativeConfig{})

		_, err := svc.Recommend(ctx, "target", 3)
		if !errors.Is(err, domain.ErrStorageFailure) {
			t.Errorf("error = %v, want ErrStorageFailure", err)
		}
	})
}
