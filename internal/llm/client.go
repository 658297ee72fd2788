// Package llm enriches evidence briefs through an OpenAI-compatible chat
// API. The detection pipeline never depends on it: every caller must
// degrade cleanly when no key is configured or the provider is down.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const systemMessage = "You are a meticulous fraud analyst. Ground every statement strictly in the evidence provided. Focus on temporal correlation, attribution concentration, and financial exposure. Be terse and concrete; write for a compliance review board."

// Provider base URLs. All three speak the OpenAI chat completion dialect.
var providerBaseURLs = map[string]string{
	"openrouter": "https://openrouter.ai/api/v1",
	"openai":     "https://api.openai.com/v1",
	"deepseek":   "https://api.deepseek.com/v1",
}

// Static model lists used when a provider has no listing endpoint or the
// live fetch fails.
var fallbackModels = map[string][]Model{
	"openrouter": {{ID: "openrouter/auto", Name: "Auto Router"}},
	"openai":     {{ID: "gpt-4o", Name: "GPT-4o"}, {ID: "gpt-4-turbo", Name: "GPT-4 Turbo"}},
	"deepseek":   {{ID: "deepseek-chat", Name: "DeepSeek Chat"}, {ID: "deepseek-coder", Name: "DeepSeek Coder"}},
}

// Model identifies one model offered by a provider.
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client talks to one LLM provider.
type Client struct {
	provider string
	baseURL  string
	apiKey   string
	model    string
	client   *http.Client
}

// NewClient creates a client for a known provider. Unknown providers get
// an empty base URL and only static fallback behavior.
func NewClient(provider, apiKey, model string) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		provider: provider,
		baseURL:  providerBaseURLs[provider],
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Transport: transport},
	}
}

// WithBaseURL overrides the provider endpoint. Used in tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// Provider returns the configured provider name.
func (c *Client) Provider() string {
	return c.provider
}

type modelListResponse struct {
	Data []Model `json:"data"`
}

// ListModels fetches the provider's live model list where supported,
// falling back to a static list otherwise.
func (c *Client) ListModels(ctx context.Context) []Model {
	if c.provider == "openrouter" && c.baseURL != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
		if err == nil {
			resp, err := c.client.Do(req)
			if err == nil {
				defer resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					var list modelListResponse
					if err := json.NewDecoder(resp.Body).Decode(&list); err == nil && len(list.Data) > 0 {
						return list.Data
					}
				}
			}
		}
	}

	if models, ok := fallbackModels[c.provider]; ok {
		return models
	}
	return []Model{{ID: "default", Name: "Default Model"}}
}

// TestConnection checks that the configured key is plausible and, where
// the provider supports it, accepted.
func (c *Client) TestConnection(ctx context.Context) bool {
	if len(c.apiKey) < 5 {
		return false
	}

	if c.provider == "openrouter" && c.baseURL != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/key", nil)
		if err != nil {
			return false
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}

	return true
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", or "assistant"
	Content string `json:"content"`
}

// ChatRequest represents an OpenAI chat completion request.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// ChatResponse represents an OpenAI chat completion response.
type ChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int     `json:"index"`
		Message Message `json:"message"`
		Finish  string  `json:"finish_reason"`
	} `json:"choices"`
}

// ChatCompletion sends a chat completion request.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("unknown provider %q", c.provider)
	}

	reqBody := ChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.2,
		MaxTokens:   2000,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Analyze asks the provider to review one evidence brief.
func (c *Client) Analyze(ctx context.Context, prompt string) (string, error) {
	messages := []Message{
		{Role: "system", Content: systemMessage},
		{Role: "user", Content: prompt},
	}
	return c.ChatCompletion(ctx, messages)
}
