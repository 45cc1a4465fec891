package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cartwise/backend/internal/domain"
)

const interactionCollection = "interactions"

// InteractionRepository is the MongoDB-backed interaction event log.
type InteractionRepository struct {
	collection *mongo.Collection
}

// NewInteractionRepository creates a repository over the interactions
// collection.
func NewInteractionRepository(db *mongo.Database) *InteractionRepository {
	return &InteractionRepository{collection: db.Collection(interactionCollection)}
}

// FindByUser returns all interactions for a user, any action type.
func (r *InteractionRepository) FindByUser(ctx context.Context, userID string) ([]domain.Interaction, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// FindViewsByUser returns only the user's view interactions.
func (r *InteractionRepository) FindViewsByUser(ctx context.Context, userID string) ([]domain.Interaction, error) {
	return r.find(ctx, bson.M{"userId": userID, "actionType": string(domain.ActionView)})
}

// GroupByUserForProducts groups interactions on the given products by user,
// excluding one user, returning each neighbor's touched product IDs.
func (r *InteractionRepository) GroupByUserForProducts(
	ctx context.Context,
	productIDs []string,
	excludeUserID string,
) (map[string][]string, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"productId": bson.M{"$in": productIDs}}}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$userId",
			"products": bson.M{"$addToSet": "$productId"},
		}}},
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$ne": excludeUserID}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		UserID   string   `bson:"_id"`
		Products []string `bson:"products"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}

	grouped := make(map[string][]string, len(rows))
	for _, row := range rows {
		grouped[row.UserID] = row.Products
	}
	return grouped, nil
}

// Save appends an interaction to the log, defaulting the timestamp to now.
func (r *InteractionRepository) Save(ctx context.Context, interaction *domain.Interaction) error {
	doc := interactionDoc{
		UserID:    interaction.UserID,
		ProductID: interaction.ProductID,
		Action:    string(interaction.Action),
		Timestamp: interaction.Timestamp,
	}
	if doc.Timestamp.IsZero() {
		doc.Timestamp = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	if oid, ok := result.InsertedID.(interface{ Hex() string }); ok {
		interaction.ID = oid.Hex()
	}
	interaction.Timestamp = doc.Timestamp
	return nil
}

func (r *InteractionRepository) find(ctx context.Context, filter bson.M) ([]domain.Interaction, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	defer cursor.Close(ctx)

	var docs []interactionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}

	interactions := make([]domain.Interaction, 0, len(docs))
	for _, doc := range docs {
		interactions = append(interactions, toDomainInteraction(doc))
	}
	return interactions, nil
}
