package llm

import (
	"strings"

	"github.com/faiqfarooq/codebase-rag/internal/apperr"
)

// Backend is the closed set of generation backends.
type Backend int

const (
	// BackendDeepseek is the primary profile.
	BackendDeepseek Backend = iota
	// BackendOpenAI is the alternate profile.
	BackendOpenAI
)

// String returns the backend's profile name.
func (b Backend) String() string {
	if b == BackendOpenAI {
		return "openai"
	}
	return "deepseek"
}

// Resolve maps a chat request's model selector to a backend. Empty or
// "deepseek" selects the primary profile; "chatgpt" and "gpt" select the
// alternate; anything else is an unknown model.
func Resolve(selector string) (Backend, error) {
	switch strings.ToLower(selector) {
	case "", "deepseek":
		return BackendDeepseek, nil
	case "chatgpt", "gpt":
		return BackendOpenAI, nil
	default:
		return 0, apperr.UnknownModel(selector)
	}
}

// Registry holds the configured provider for each backend.
type Registry struct {
	deepseek Provider
	openai   Provider
}

// NewRegistry creates a registry with the two configured providers.
func NewRegistry(deepseek, openai Provider) *Registry {
	return &Registry{deepseek: deepseek, openai: openai}
}

// Select resolves a model selector to its provider.
func (r *Registry) Select(selector string) (Provider, error) {
	backend, err := Resolve(selector)
	if err != nil {
		return nil, err
	}
	switch backend {
	case BackendOpenAI:
		return r.openai, nil
	default:
		return r.deepseek, nil
	}
}
