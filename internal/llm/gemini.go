// Package llm provides the client for the external generative-language API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNoCredential is returned when no API key is configured. A missing key
// is an expected state, not a fault: callers degrade to canned content.
var ErrNoCredential = errors.New("generative api key not configured")

// ErrEmptyResponse is returned when the API answered but the expected
// nested candidate structure was absent.
var ErrEmptyResponse = errors.New("generative api returned no candidates")

// Client produces text completions. Implemented by GeminiClient; tests
// substitute fakes.
type Client interface {
	// GenerateContent submits a prompt and returns the first candidate's
	// text. Returns ErrNoCredential when no key is configured.
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// GeminiClient calls the Google generative-language REST endpoint.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

const (
	defaultModel   = "gemini-1.5-flash"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1"
)

// NewGeminiClient creates a client. An empty apiKey is allowed; every call
// then returns ErrNoCredential.
func NewGeminiClient(apiKey, model, baseURL string) *GeminiClient {
	if model == "" {
		model = defaultModel
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

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
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateContent implements Client.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoCredential
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 1024,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call generative api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generative api status %d: %s", resp.StatusCode, string(body))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}

	// The nested shape is checked level by level; the upstream service has
	// returned empty candidate lists and partless contents in the wild.
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
