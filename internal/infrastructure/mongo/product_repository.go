package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cartwise/backend/internal/domain"
)

const productCollection = "products"

// ProductRepository is the MongoDB-backed product catalog.
type ProductRepository struct {
	collection *mongo.Collection
}

// NewProductRepository creates a repository over the products collection.
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection(productCollection)}
}

// FindByIDs returns the products with the given IDs; unknown or malformed
// IDs are skipped.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	objectIDs := parseObjectIDs(ids)
	if len(objectIDs) == 0 {
		return nil, nil
	}

	filter := bson.M{"_id": bson.M{"$in": objectIDs}}
	return r.find(ctx, filter, nil)
}

// FindByCategories returns products in any of the given categories,
// excluding the given product IDs.
func (r *ProductRepository) FindByCategories(ctx context.Context, categories []string, excludeIDs []string) ([]domain.Product, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	filter := bson.M{"category": bson.M{"$in": categories}}
	if excluded := parseObjectIDs(excludeIDs); len(excluded) > 0 {
		filter["_id"] = bson.M{"$nin": excluded}
	}
	return r.find(ctx, filter, nil)
}

// FindTopRated returns up to limit products by rating descending, then
// review count descending.
func (r *ProductRepository) FindTopRated(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		return nil, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "numReviews", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

// Save inserts a product and backfills its generated ID.
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	doc, err := toProductDoc(product)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	if oid, ok := result.InsertedID.(interface{ Hex() string }); ok {
		product.ID = oid.Hex()
	}
	return nil
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Product, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = r.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}

	products := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, toDomainProduct(doc))
	}
	return products, nil
}
