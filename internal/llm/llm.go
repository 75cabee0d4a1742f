package llm

import (
	"context"
	"fmt"
)

// Client is the opaque language-model collaborator: prompt in, text out.
// Implementations may fail; the caller bounds calls with a context deadline
// and never retries.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config selects and parameterizes a provider.
type Config struct {
	Provider        string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	Model           string
	MaxTokens       int
	Temperature     float64
}

// New builds a client for the configured provider.
func New(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.Model, cfg.MaxTokens, cfg.Temperature), nil
	case "anthropic":
		return NewAnthropicClient(cfg.AnthropicAPIKey, cfg.Model, cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
}
