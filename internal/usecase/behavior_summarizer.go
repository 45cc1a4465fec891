package usecase

import (
	"fmt"
	"strings"

	"github.com/cartwise/backend/internal/domain"
)

// coldStartSummary is the fixed narrative for users with no history; it
// signals to the explanation provider that reasoning is popularity-based.
const coldStartSummary = "This user has no recorded activity yet; recommendations are based on overall popularity."

const (
	maxViewExamples = 3
	maxLikeExamples = 2
)

// SummarizeBehavior converts a user's interaction history into a short
// narrative grouped by action type, for consumption by the explanation
// stage. It is a pure transformation and never fails: absence of data yields
// the cold-start sentence, never an error.
func SummarizeBehavior(history []domain.InteractionDetail) string {
	if len(history) == 0 {
		return coldStartSummary
	}

	var views, purchases, likes []domain.InteractionDetail
	for _, d := range history {
		switch d.Action {
		case domain.ActionView:
			views = append(views, d)
		case domain.ActionPurchase:
			purchases = append(purchases, d)
		case domain.ActionLike:
			likes = append(likes, d)
		}
	}

	var clauses []string
	if clause := viewsClause(views); clause != "" {
		clauses = append(clauses, clause)
	}
	if clause := purchasesClause(purchases); clause != "" {
		clauses = append(clauses, clause)
	}
	if clause := likesClause(likes); clause != "" {
		clauses = append(clauses, clause)
	}

	if len(history) > 3 {
		if top := dominantCategory(history); top != "" {
			clauses = append(clauses, fmt.Sprintf("Overall, they show a strong interest in %s products", top))
		}
	}

	if len(clauses) == 0 {
		return coldStartSummary
	}
	return strings.Join(clauses, ". ") + "."
}

// viewsClause lists the distinct viewed categories and up to 3 example names.
func viewsClause(views []domain.InteractionDetail) string {
	if len(views) == 0 {
		return ""
	}
	categories := distinctCategories(views)
	examples := exampleNames(views, maxViewExamples)
	return fmt.Sprintf("The user browsed %s items such as %s",
		joinNatural(categories), joinNatural(examples))
}

// purchasesClause lists every purchased product name with its category.
func purchasesClause(purchases []domain.InteractionDetail) string {
	if len(purchases) == 0 {
		return ""
	}
	names := make([]string, 0, len(purchases))
	for _, p := range purchases {
		names = append(names, fmt.Sprintf("%s (%s)", p.ProductName, p.ProductCategory))
	}
	return "They purchased " + joinNatural(names)
}

// likesClause lists up to 2 liked product names with their categories.
func likesClause(likes []domain.InteractionDetail) string {
	if len(likes) == 0 {
		return ""
	}
	limit := len(likes)
	if limit > maxLikeExamples {
		limit = maxLikeExamples
	}
	names := make([]string, 0, limit)
	for _, l := range likes[:limit] {
		names = append(names, fmt.Sprintf("%s (%s)", l.ProductName, l.ProductCategory))
	}
	return "They liked " + joinNatural(names)
}

// dominantCategory returns the single most frequent category across the
// history; ties keep the first-encountered category in input order.
func dominantCategory(history []domain.InteractionDetail) string {
	counts := make(map[string]int)
	var order []string
	for _, d := range history {
		if d.ProductCategory == "" {
			continue
		}
		if counts[d.ProductCategory] == 0 {
			order = append(order, d.ProductCategory)
		}
		counts[d.ProductCategory]++
	}

	best := ""
	bestCount := 0
	for _, category := range order {
		if counts[category] > bestCount {
			best = category
			bestCount = counts[category]
		}
	}
	return best
}

func distinctCategories(details []domain.InteractionDetail) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range details {
		if d.ProductCategory == "" || seen[d.ProductCategory] {
			continue
		}
		seen[d.ProductCategory] = true
		out = append(out, d.ProductCategory)
	}
	return out
}

func exampleNames(details []domain.InteractionDetail, max int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range details {
		if d.ProductName == "" || seen[d.ProductName] {
			continue
		}
		seen[d.ProductName] = true
		out = append(out, d.ProductName)
		if len(out) == max {
			break
		}
	}
	return out
}

// joinNatural joins items as "a", "a and b", or "a, b and c".
func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
