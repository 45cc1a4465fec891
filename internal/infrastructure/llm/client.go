package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cartwise/backend/internal/domain"
)

const systemPrompt = "You are a helpful e-commerce assistant explaining recommendations clearly."

// Client generates recommendation explanations through an OpenAI-compatible
// chat completions endpoint. It is never required to succeed: callers
// substitute a generic explanation when it fails.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	rateLimiter *rate.Limiter
	debug       bool
}

// ClientConfig holds explanation provider settings.
type ClientConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	Timeout   time.Duration
	PerMinute int
}

// NewClient creates a new explanation client
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	perMinute := config.PerMinute
	if perMinute <= 0 {
		perMinute = 60
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     config.BaseURL,
		apiKey:      config.APIKey,
		model:       config.Model,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 5),
	}
}

// SetDebug enables request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Explain produces a 1-2 sentence explanation for why the product was
// recommended, grounded in the user's behavior summary.
func (c *Client) Explain(ctx context.Context, product domain.Product, behaviorSummary string) (string, error) {
	if behaviorSummary == "" {
		behaviorSummary = "No specific history; based on popularity."
	}

	prompt := fmt.Sprintf(
		"Explain why this product is recommended to the user in 1-2 concise, engaging sentences.\n\n"+
			"Product: %s - %s (Category: %s, Price: $%.2f)\nTags: %s\n\n"+
			"User behavior: %s\n\n"+
			"Keep it personalized and positive. End with why they'd like it.",
		product.Name, product.Description, product.Category, product.Price,
		strings.Join(product.Tags, ", "), behaviorSummary,
	)

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   100,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExplanationFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if c.debug {
			log.Printf("[LLM] API error - Status: %d, Body: %s", resp.StatusCode, string(body))
		}
		return "", fmt.Errorf("%w: status %d", domain.ErrExplanationFailure, resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", domain.ErrExplanationFailure)
	}

	explanation := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if explanation == "" {
		return "Recommendation based on your interests.", nil
	}
	return explanation, nil
}
