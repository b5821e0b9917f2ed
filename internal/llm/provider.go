// Package llm provides the text generation backends used to answer
// questions about the indexed codebase. Backends speak the OpenAI-compatible
// chat completions protocol; two profiles are configured, a primary
// (deepseek) and an alternate (openai).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/faiqfarooq/codebase-rag/internal/config"
)

// Provider generates an answer from a system and user prompt.
type Provider interface {
	// Name returns the provider identifier.
	Name() string
	// Invoke sends the prompts to the backend and returns the generated text.
	Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAICompatible is a chat-completions client for OpenAI-compatible APIs
// (OpenAI, DeepSeek, and most self-hosted gateways).
type OpenAICompatible struct {
	name        string
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	client      *http.Client
}

// NewOpenAICompatible creates a provider from a backend profile.
func NewOpenAICompatible(name string, profile config.ProfileConfig) *OpenAICompatible {
	timeout := time.Duration(profile.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &OpenAICompatible{
		name:        name,
		baseURL:     profile.BaseURL,
		apiKey:      profile.APIKey,
		model:       profile.Model,
		temperature: profile.Temperature,
		client:      &http.Client{Timeout: timeout},
	}
}

// Name returns the profile name this provider was built from.
func (p *OpenAICompatible) Name() string { return p.name }

// Invoke posts a two-message chat completion and returns the first choice.
func (p *OpenAICompatible) Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload := map[string]any{
		"model": p.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"temperature": p.temperature,
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s chat: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%s chat error (status %d): %s", p.name, resp.StatusCode, string(raw))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%s chat: no choices returned", p.name)
	}
	return result.Choices[0].Message.Content, nil
}

// MockProvider returns a canned response; for tests.
type MockProvider struct {
	Response string
	Err      error
	// LastSystem and LastUser record the most recent prompts.
	LastSystem string
	LastUser   string
}

// Name identifies the mock.
func (m *MockProvider) Name() string { return "mock" }

// Invoke records the prompts and returns the canned response.
func (m *MockProvider) Invoke(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	m.LastSystem = systemPrompt
	m.LastUser = userPrompt
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
