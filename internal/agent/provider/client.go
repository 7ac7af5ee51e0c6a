package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/arcbrain/arcbrain/internal/common/config"
	"github.com/arcbrain/arcbrain/internal/common/logger"
)

// GenerationOptions controls sampling for a single generation request
type GenerationOptions struct {
	Temperature     float64
	MaxOutputTokens int
}

// Backend is a remote text-generation service
type Backend interface {
	// Generate produces text for the prompt using the given model
	Generate(ctx context.Context, model, prompt string, opts GenerationOptions) (string, error)
	// Probe checks whether the backend is reachable
	Probe(ctx context.Context) error
}

// Client calls a Gemini-style REST generation API
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	logger  *logger.Logger
}

// Ensure Client implements Backend
var _ Backend = (*Client)(nil)

// NewClient creates a new generation API client
func NewClient(cfg config.ProviderConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpc:   &http.Client{Timeout: cfg.TimeoutDuration()},
		logger:  log,
	}
}

// generateRequest is the wire format for a generation call
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

// generateResponse is the wire format for a generation result
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate calls the backend's generateContent endpoint
func (c *Client) Generate(ctx context.Context, model, prompt string, opts GenerationOptions) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("provider API key not configured")
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			MaxOutputTokens: opts.MaxOutputTokens,
			Temperature:     opts.Temperature,
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal generation request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("generation API returned status %d", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("failed to decode generation response: %w", err)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generation API returned no candidates")
	}

	c.logger.Debug("generation request completed",
		zap.String("model", model),
		zap.Duration("duration", time.Since(start)),
	)

	return genResp.Candidates[0].Content.Parts[0].Text, nil
}

// Probe checks backend reachability by listing models
func (c *Client) Probe(ctx context.Context) error {
	if c.apiKey == "" {
		return fmt.Errorf("provider API key not configured")
	}

	url := fmt.Sprintf("%s/models?key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create probe request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("probe request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("probe returned status %d", resp.StatusCode)
	}
	return nil
}
