package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/cartwise/backend/config"
	httpDelivery "github.com/cartwise/backend/internal/delivery/http"
	"github.com/cartwise/backend/internal/domain"
	"github.com/cartwise/backend/internal/infrastructure/cache"
	"github.com/cartwise/backend/internal/infrastructure/embedding"
	"github.com/cartwise/backend/internal/infrastructure/llm"
	mongodb "github.com/cartwise/backend/internal/infrastructure/mongo"
	"github.com/cartwise/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Cartwise Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	ctx := context.Background()

	// Initialize infrastructure dependencies
	client, err := mongodb.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)
	db := client.Database(cfg.Mongo.Database)

	productRepo := mongodb.NewProductRepository(db)
	interactionRepo := mongodb.NewInteractionRepository(db)

	var cacheRepo domain.CacheRepository
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		cacheRepo = redisCache
	} else {
		cacheRepo = cache.NewMemoryCache()
	}
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	embedClient := embedding.NewClient(embedding.ClientConfig{
		BaseURL:   cfg.Embedding.BaseURL,
		APIKey:    cfg.Embedding.APIKey,
		Model:     cfg.Embedding.Model,
		Dimension: cfg.Embedding.Dimension,
		Timeout:   cfg.Embedding.Timeout,
	})

	explainClient := llm.NewClient(llm.ClientConfig{
		BaseURL:   cfg.LLM.BaseURL,
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		Timeout:   cfg.LLM.Timeout,
		PerMinute: cfg.RateLimit.LLMPerMin,
	})

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		embedClient.SetDebug(true)
		explainClient.SetDebug(true)
		log.Printf("Provider client debug mode enabled")
	}

	// Warm the embedding model up front so the first user request doesn't
	// pay the model-load cost. Failure here is non-fatal; the first Embed
	// retries implicitly.
	if err := embedClient.Warmup(ctx); err != nil {
		log.Printf("WARNING: embedding warmup failed, first request will retry: %v", err)
	}

	embedder := embedding.NewCachedEmbedder(embedClient, cacheRepo, cfg.Cache.TTL)

	// Initialize usecase layer
	contentService := usecase.NewContentService(productRepo, interactionRepo, embedder, usecase.ContentConfig{
		SimilarityThreshold: cfg.Recommend.SimilarityThreshold,
		EmbedConcurrency:    cfg.Recommend.EmbedConcurrency,
		EnableDebugLogging:  cfg.Recommend.EnableDebugLogging,
	})

	collaborativeService := usecase.NewCollaborativeService(productRepo, interactionRepo, usecase.CollaborativeConfig{
		MaxCandidates:      cfg.Recommend.MaxCandidates,
		EnableDebugLogging: cfg.Recommend.EnableDebugLogging,
	})

	recommendationService := usecase.NewRecommendationService(
		contentService,
		collaborativeService,
		productRepo,
		interactionRepo,
		explainClient,
		usecase.RecommendationConfig{
			DefaultLimit:       cfg.Recommend.DefaultLimit,
			PopularLimit:       cfg.Recommend.PopularLimit,
			EnableDebugLogging: cfg.Recommend.EnableDebugLogging,
		},
	)

	log.Printf("Recommend: threshold=%.2f, candidates=%d, default_limit=%d",
		cfg.Recommend.SimilarityThreshold,
		cfg.Recommend.MaxCandidates,
		cfg.Recommend.DefaultLimit)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(recommendationService, interactionRepo)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
