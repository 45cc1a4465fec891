// Command seed loads a small demo catalog and interaction log into MongoDB,
// replacing whatever is there. Intended for local development only.
package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/cartwise/backend/config"
	"github.com/cartwise/backend/internal/domain"
	mongodb "github.com/cartwise/backend/internal/infrastructure/mongo"
)

var sampleProducts = []domain.Product{
	// Electronics
	{
		Name:        "Wireless Headphones",
		Description: "High-quality noise-cancelling headphones with 20-hour battery",
		Price:       199.99,
		Category:    "electronics",
		Brand:       "AudioPro",
		Stock:       50,
		Rating:      4.5,
		NumReviews:  120,
		Images:      []string{"headphones1.jpg"},
		Tags:        []string{"wireless", "audio", "headphones", "noise-cancelling"},
	},
	{
		Name:        "Smartphone",
		Description: "Latest model with 128GB storage and advanced camera",
		Price:       699.99,
		Category:    "electronics",
		Brand:       "TechStar",
		Stock:       30,
		Rating:      4.7,
		NumReviews:  200,
		Images:      []string{"smartphone1.jpg"},
		Tags:        []string{"mobile", "smartphone", "tech", "camera"},
	},
	{
		Name:        "Wireless Earbuds",
		Description: "Compact true wireless earbuds for workouts and calls",
		Price:       79.99,
		Category:    "electronics",
		Brand:       "SoundBud",
		Stock:       80,
		Rating:      4.3,
		NumReviews:  90,
		Images:      []string{"earbuds1.jpg"},
		Tags:        []string{"wireless", "earbuds", "portable", "sports"},
	},
	// Clothing
	{
		Name:        "Cotton T-Shirt",
		Description: "Comfortable 100% cotton t-shirt in classic fit",
		Price:       19.99,
		Category:    "clothing",
		Brand:       "WearWell",
		Stock:       150,
		Rating:      4.2,
		NumReviews:  65,
		Images:      []string{"tshirt1.jpg"},
		Tags:        []string{"cotton", "casual", "tshirt", "basics"},
	},
	{
		Name:        "Running Shoes",
		Description: "Lightweight running shoes with responsive cushioning",
		Price:       129.99,
		Category:    "clothing",
		Brand:       "StridePro",
		Stock:       60,
		Rating:      4.6,
		NumReviews:  140,
		Images:      []string{"shoes1.jpg"},
		Tags:        []string{"running", "shoes", "sports", "lightweight"},
	},
	// Home
	{
		Name:        "Coffee Maker",
		Description: "Programmable drip coffee maker with thermal carafe",
		Price:       89.99,
		Category:    "home",
		Brand:       "BrewMaster",
		Stock:       40,
		Rating:      4.4,
		NumReviews:  110,
		Images:      []string{"coffeemaker1.jpg"},
		Tags:        []string{"coffee", "kitchen", "appliance", "programmable"},
	},
	{
		Name:        "Desk Lamp",
		Description: "Adjustable LED desk lamp with touch dimmer",
		Price:       34.99,
		Category:    "home",
		Brand:       "BrightSpace",
		Stock:       95,
		Rating:      4.1,
		NumReviews:  45,
		Images:      []string{"lamp1.jpg"},
		Tags:        []string{"led", "lamp", "desk", "lighting"},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongodb.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)
	db := client.Database(cfg.Mongo.Database)

	// Clear existing data
	if _, err := db.Collection("products").DeleteMany(ctx, bson.M{}); err != nil {
		log.Fatalf("Failed to clear products: %v", err)
	}
	if _, err := db.Collection("interactions").DeleteMany(ctx, bson.M{}); err != nil {
		log.Fatalf("Failed to clear interactions: %v", err)
	}
	log.Printf("Cleared existing data")

	productRepo := mongodb.NewProductRepository(db)
	interactionRepo := mongodb.NewInteractionRepository(db)

	products := make([]domain.Product, len(sampleProducts))
	copy(products, sampleProducts)
	for i := range products {
		if err := productRepo.Save(ctx, &products[i]); err != nil {
			log.Fatalf("Failed to insert product %q: %v", products[i].Name, err)
		}
	}
	log.Printf("Inserted %d products", len(products))

	// Two users with overlapping electronics interest, one clothing shopper.
	interactions := []domain.Interaction{
		{UserID: "user-alice", ProductID: products[0].ID, Action: domain.ActionView},
		{UserID: "user-alice", ProductID: products[1].ID, Action: domain.ActionView},
		{UserID: "user-alice", ProductID: products[0].ID, Action: domain.ActionPurchase},
		{UserID: "user-bob", ProductID: products[0].ID, Action: domain.ActionView},
		{UserID: "user-bob", ProductID: products[2].ID, Action: domain.ActionLike},
		{UserID: "user-bob", ProductID: products[5].ID, Action: domain.ActionPurchase},
		{UserID: "user-cara", ProductID: products[3].ID, Action: domain.ActionView},
		{UserID: "user-cara", ProductID: products[4].ID, Action: domain.ActionPurchase},
	}
	for i := range interactions {
		if err := interactionRepo.Save(ctx, &interactions[i]); err != nil {
			log.Fatalf("Failed to insert interaction: %v", err)
		}
	}
	log.Printf("Inserted %d interactions", len(interactions))
	log.Printf("Seeding complete")
}
