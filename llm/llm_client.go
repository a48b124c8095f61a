package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 2048
	DefaultTimeout     = 60 * time.Second
)

type LLMClient interface {
	// GenerateInference sends one chat completion request and passes the
	// assistant content to callback. An empty completion never invokes callback.
	GenerateInference(
		ctx context.Context,
		messages []Message,
		callback func(chunk string) error,
		opts ...LLMOption,
	) error

	GetModel() string
}

type LLMSettings struct {
	model       string  // model name
	temperature float64 // randomness (0.0 to 1.0)
	maxTokens   int     // maximum tokens to generate
	system      string  // system prompt
}

type LLMOption func(*LLMSettings)

func WithLLMModel(model string) LLMOption {
	return func(s *LLMSettings) { s.model = model }
}

func WithTemperature(temp float64) LLMOption {
	return func(s *LLMSettings) { s.temperature = temp }
}

func WithMaxTokens(tokens int) LLMOption {
	return func(s *LLMSettings) { s.maxTokens = tokens }
}

func WithSystemPrompt(prompt string) LLMOption {
	return func(s *LLMSettings) { s.system = prompt }
}

func newSettings(model string, opts []LLMOption) LLMSettings {
	settings := LLMSettings{
		model:       model,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(&settings)
	}
	return settings
}

// withSystem returns messages with the system prompt prepended, if any.
func withSystem(system string, messages []Message) []Message {
	if system == "" {
		return messages
	}
	out := make([]Message, 0, len(messages)+1)
	out = append(out, Message{Role: RoleSystem, Content: system})
	return append(out, messages...)
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`    // "user", "assistant", "system"
	Content string `json:"content"` // the message content
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Complete runs a single completion with systemPrompt prepended to messages
// and returns the assistant text. A completion without content yields "".
func Complete(ctx context.Context, client LLMClient, systemPrompt string, messages []Message, opts ...LLMOption) (string, error) {
	all := make([]LLMOption, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, WithSystemPrompt(systemPrompt))

	var sb strings.Builder
	err := client.GenerateInference(ctx, messages, func(chunk string) error {
		sb.WriteString(chunk)
		return nil
	}, all...)
	if err != nil {
		return "", err
	}

	return sb.String(), nil
}

// UpstreamError is a non-success answer from the LLM provider.
type UpstreamError struct {
	Message    string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream request failed with status %d: %s", e.StatusCode, e.Message)
}
