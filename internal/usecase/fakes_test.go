package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/cartwise/backend/internal/domain"
)

// fakeProductRepo serves products from a slice, preserving insertion order
// for category queries so tie-break behavior is observable.
type fakeProductRepo struct {
	products []domain.Product
	failWith error
}

func (r *fakeProductRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.Product
	for _, p := range r.products {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindByCategories(ctx context.Context, categories []string, excludeIDs []string) ([]domain.Product, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	inCategory := make(map[string]bool, len(categories))
	for _, c := range categories {
		inCategory[c] = true
	}
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []domain.Product
	for _, p := range r.products {
		if inCategory[p.Category] && !excluded[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindTopRated(ctx context.Context, limit int) ([]domain.Product, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	if limit <= 0 {
		return nil, nil
	}
	sorted := make([]domain.Product, len(r.products))
	copy(sorted, r.products)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rating != sorted[j].Rating {
			return sorted[i].Rating > sorted[j].Rating
		}
		return sorted[i].NumReviews > sorted[j].NumReviews
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (r *fakeProductRepo) Save(ctx context.Context, product *domain.Product) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.products = append(r.products, *product)
	return nil
}

// fakeInteractionRepo serves an in-memory interaction log with post-fetch
// grouping for the neighbor query.
type fakeInteractionRepo struct {
	interactions []domain.Interaction
	failWith     error
}

func (r *fakeInteractionRepo) FindByUser(ctx context.Context, userID string) ([]domain.Interaction, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []domain.Interaction
	for _, i := range r.interactions {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *fakeInteractionRepo) FindViewsByUser(ctx context.Context, userID string) ([]domain.Interaction, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []domain.Interaction
	for _, i := range r.interactions {
		if i.UserID == userID && i.Action == domain.ActionView {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *fakeInteractionRepo) GroupByUserForProducts(ctx context.Context, productIDs []string, excludeUserID string) (map[string][]string, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	want := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		want[id] = true
	}

	// Which other users touched any of the given products?
	matched := make(map[string]bool)
	for _, i := range r.interactions {
		if i.UserID != excludeUserID && want[i.ProductID] {
			matched[i.UserID] = true
		}
	}

	grouped := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	for _, i := range r.interactions {
		if !matched[i.UserID] {
			continue
		}
		if seen[i.UserID] == nil {
			seen[i.UserID] = make(map[string]bool)
		}
		if seen[i.UserID][i.ProductID] {
			continue
		}
		seen[i.UserID][i.ProductID] = true
		grouped[i.UserID] = append(grouped[i.UserID], i.ProductID)
	}
	return grouped, nil
}

func (r *fakeInteractionRepo) Save(ctx context.Context, interaction *domain.Interaction) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.interactions = append(r.interactions, *interaction)
	return nil
}

// tableEmbedder maps texts to fixed vectors so similarity outcomes are exact
// and deterministic. Unknown texts are an error: a test forgetting a vector
// should fail loudly, not silently score zero.
type tableEmbedder struct {
	vectors  map[string][]float64
	failWith error
}

func (e *tableEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if e.failWith != nil {
		return nil, e.failWith
	}
	v, ok := e.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no vector registered for text %q", text)
	}
	return v, nil
}

// fakeExplainer returns a deterministic per-product explanation, or fails.
type fakeExplainer struct {
	failWith error
	empty    bool
}

func (e *fakeExplainer) Explain(ctx context.Context, product domain.Product, behaviorSummary string) (string, error) {
	if e.failWith != nil {
		return "", e.failWith
	}
	if e.empty {
		return "", nil
	}
	return "Recommended because you may like " + product.Name, nil
}
