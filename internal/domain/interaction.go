package domain

import "time"

// ActionType classifies a user interaction with a product.
type ActionType string

const (
	ActionView     ActionType = "view"
	ActionPurchase ActionType = "purchase"
	ActionLike     ActionType = "like"
)

// Valid reports whether the action type is one of the known values.
func (a ActionType) Valid() bool {
	switch a {
	case ActionView, ActionPurchase, ActionLike:
		return true
	}
	return false
}

// Interaction is a single user-product event. Interactions are an append-only
// log: a user may have any number of events for the same product.
type Interaction struct {
	ID        string     `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string     `json:"userId" bson:"userId"`
	ProductID string     `json:"productId" bson:"productId"`
	Action    ActionType `json:"actionType" bson:"actionType"`
	Timestamp time.Time  `json:"timestamp" bson:"timestamp"`
}

// InteractionDetail joins an interaction with the product fields the behavior
// summarizer needs. It has no lifecycle beyond a single request.
type InteractionDetail struct {
	Action          ActionType
	ProductName     string
	ProductCategory string
}
