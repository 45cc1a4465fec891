package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/cartwise/backend/internal/domain"
)

// Client calls an OpenAI-compatible /embeddings endpoint. The underlying
// model is loaded lazily by the serving side, so the first request can take
// seconds; Warmup absorbs that cost up front and is safe under concurrent
// first use. A failed warmup is retried on the next call rather than cached.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	dimension   int
	rateLimiter *rate.Limiter
	debug       bool

	warmupMu sync.Mutex
	warmedUp bool
}

// ClientConfig holds embedding provider settings.
type ClientConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	Dimension int
	Timeout   time.Duration
}

// NewClient creates a new embedding client
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   config.BaseURL,
		apiKey:    config.APIKey,
		model:     config.Model,
		dimension: config.Dimension,
		// Inference servers degrade badly when flooded; 20 req/s with a
		// small burst keeps candidate scoring snappy without piling up.
		rateLimiter: rate.NewLimiter(rate.Limit(20), 40),
	}
}

// SetDebug enables request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Warmup triggers model loading on the serving side. Once it succeeds,
// subsequent calls are no-ops; the first Embed triggers it implicitly if the
// caller never did.
func (c *Client) Warmup(ctx context.Context) error {
	c.warmupMu.Lock()
	defer c.warmupMu.Unlock()

	if c.warmedUp {
		return nil
	}

	start := time.Now()
	if _, err := c.embed(ctx, "warmup"); err != nil {
		log.Printf("[EMBED] Warmup failed: %v", err)
		return err
	}
	c.warmedUp = true
	log.Printf("[EMBED] Model %s warmed up in %s", c.model, time.Since(start))
	return nil
}

// Embed maps a text to a fixed-dimension vector. Safe for concurrent use.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := c.Warmup(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailure, err)
	}
	return c.embed(ctx, text)
}

func (c *Client) embed(ctx context.Context, text string) ([]float64, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	payload, err := json.Marshal(embeddingRequest{
		Model: c.model,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/embeddings", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if c.debug {
			log.Printf("[EMBED] API error - Status: %d, Body: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%w: status %d", domain.ErrEmbeddingFailure, resp.StatusCode)
	}

	var embResp embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(embResp.Data) == 0 {
		return nil, fmt.Errorf("%w: empty response", domain.ErrEmbeddingFailure)
	}

	vector := embResp.Data[0].Embedding
	if c.dimension > 0 && len(vector) != c.dimension {
		return nil, fmt.Errorf("%w: expected %d dimensions, got %d",
			domain.ErrEmbeddingFailure, c.dimension, len(vector))
	}

	if c.debug {
		log.Printf("[EMBED] Embedded %d chars into %d dimensions", len(text), len(vector))
	}

	return vector, nil
}
