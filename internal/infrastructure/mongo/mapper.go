package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cartwise/backend/internal/domain"
)

// productDoc is the MongoDB shape of a product. IDs are ObjectIDs in storage
// and hex strings everywhere else, so the mapping lives here and nowhere
// else.
type productDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Category    string             `bson:"category"`
	Brand       string             `bson:"brand,omitempty"`
	Stock       int                `bson:"stock"`
	Rating      float64            `bson:"rating"`
	NumReviews  int                `bson:"numReviews"`
	Tags        []string           `bson:"tags,omitempty"`
	Images      []string           `bson:"images,omitempty"`
}

// interactionDoc is the MongoDB shape of an interaction event. The product
// reference is kept as a hex string so the neighbor aggregation can group
// and push it without type juggling.
type interactionDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	ProductID string             `bson:"productId"`
	Action    string             `bson:"actionType"`
	Timestamp time.Time          `bson:"timestamp"`
}

func toDomainProduct(doc productDoc) domain.Product {
	return domain.Product{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		Description: doc.Description,
		Price:       doc.Price,
		Category:    doc.Category,
		Brand:       doc.Brand,
		Stock:       doc.Stock,
		Rating:      doc.Rating,
		NumReviews:  doc.NumReviews,
		Tags:        doc.Tags,
		Images:      doc.Images,
	}
}

func toProductDoc(p *domain.Product) (productDoc, error) {
	doc := productDoc{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Brand:       p.Brand,
		Stock:       p.Stock,
		Rating:      p.Rating,
		NumReviews:  p.NumReviews,
		Tags:        p.Tags,
		Images:      p.Images,
	}
	if p.ID != "" {
		id, err := primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return productDoc{}, err
		}
		doc.ID = id
	}
	return doc, nil
}

func toDomainInteraction(doc interactionDoc) domain.Interaction {
	return domain.Interaction{
		ID:        doc.ID.Hex(),
		UserID:    doc.UserID,
		ProductID: doc.ProductID,
		Action:    domain.ActionType(doc.Action),
		Timestamp: doc.Timestamp,
	}
}

// parseObjectIDs converts hex strings to ObjectIDs, skipping malformed ones.
// A malformed ID can only come from a stale reference; dropping it matches
// the skip-unknown-IDs contract of the repositories.
func parseObjectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		out = append(out, oid)
	}
	return out
}
