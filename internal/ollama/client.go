// Package ollama wraps the local Ollama server: a health probe against
// its version endpoint plus embeddings and chat completions through the
// OpenAI-compatible /v1 surface.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"docchat/internal/domain"
	"docchat/internal/logger"
)

// Config configures the backend client.
type Config struct {
	BaseURL        string
	LLMModel       string
	EmbeddingModel string
	Timeout        time.Duration
	HealthRetries  int
	HealthDelay    time.Duration
}

// Client talks to a single Ollama instance.
type Client struct {
	cfg  Config
	api  *openai.Client
	http *http.Client
}

// New creates a client with defaults filled in for zero-value fields.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.LLMModel == "" {
		cfg.LLMModel = "deepseek-r1:latest"
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = "mxbai-embed-large"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.HealthRetries == 0 {
		cfg.HealthRetries = 5
	}
	if cfg.HealthDelay == 0 {
		cfg.HealthDelay = 2 * time.Second
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	// Ollama ignores the API key but the client requires one.
	apiCfg := openai.DefaultConfig("ollama")
	apiCfg.BaseURL = cfg.BaseURL + "/v1"
	apiCfg.HTTPClient = httpClient

	return &Client{
		cfg:  cfg,
		api:  openai.NewClientWithConfig(apiCfg),
		http: httpClient,
	}
}

// Ping probes the version endpoint until it answers or the bounded
// retries with fixed delay run out. Failure is a connectivity error,
// distinct from any content error.
func (c *Client) Ping(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.HealthRetries; attempt++ {
		err := c.probe(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		logger.Warnf("ollama not ready, attempt %d/%d: %v", attempt, c.cfg.HealthRetries, err)
		if attempt < c.cfg.HealthRetries {
			select {
			case <-time.After(c.cfg.HealthDelay):
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, ctx.Err())
			}
		}
	}
	return fmt.Errorf("%w at %s: %v", domain.ErrBackendUnavailable, c.cfg.BaseURL, lastErr)
}

func (c *Client) probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/api/version", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("version probe returned %s", resp.Status)
	}
	return nil
}

// Embed returns one embedding vector per input text, in order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.cfg.EmbeddingModel),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}
	out := make([][]float64, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float64, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float64(v)
		}
		out[i] = vec
	}
	return out, nil
}

// Generate runs a single-turn chat completion and returns the model's
// text verbatim.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.LLMModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
