package llm

import (
	"fmt"
	"strings"
)

const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
)

// ProviderConfig selects the completion backend. Empty fields fall back to
// the Groq defaults.
type ProviderConfig struct {
	Provider string
	BaseURL  string
	Model    string
}

// ClientFactory builds a client bound to one credential. Credentials are
// resolved per request, so clients are created per call.
type ClientFactory func(apiKey string) (LLMClient, error)

func NewClientFactory(cfg ProviderConfig) ClientFactory {
	return func(apiKey string) (LLMClient, error) {
		return NewClient(cfg, apiKey)
	}
}

func NewClient(cfg ProviderConfig, apiKey string) (LLMClient, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderGroq:
		c := NewGroqClient(apiKey)
		if cfg.BaseURL != "" {
			c.url = cfg.BaseURL
		}
		if cfg.Model != "" {
			c.model = cfg.Model
		}
		return c, nil
	case ProviderOpenAI:
		return NewOpenAIClient(cfg.BaseURL, apiKey, cfg.Model), nil
	case ProviderOllama:
		return NewOllamaClient(cfg.BaseURL, cfg.Model)
	case ProviderAnthropic:
		return NewAnthropicClient(cfg.BaseURL, apiKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
