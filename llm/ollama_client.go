package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

const DefaultOllamaURL = "http://localhost:11434"

// OllamaClient runs completions against a self-hosted Ollama server.
type OllamaClient struct {
	client *api.Client
	model  string
}

func NewOllamaClient(baseURL, model string) (*OllamaClient, error) {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url %q: %w", baseURL, err)
	}

	if model == "" {
		model = DefaultModel
	}

	return &OllamaClient{
		client: api.NewClient(base, &http.Client{Timeout: DefaultTimeout}),
		model:  model,
	}, nil
}

func (c *OllamaClient) GetModel() string {
	return c.model
}

func (c *OllamaClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	settings := newSettings(c.model, opts)

	all := withSystem(settings.system, messages)
	ollamaMessages := make([]api.Message, 0, len(all))
	for _, msg := range all {
		ollamaMessages = append(ollamaMessages, api.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    settings.model,
		Messages: ollamaMessages,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": settings.temperature,
			"num_predict": settings.maxTokens,
		},
	}

	var content string
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content += resp.Message.Content
		return nil
	})
	if err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			msg := statusErr.ErrorMessage
			if msg == "" {
				msg = statusErr.Status
			}
			return &UpstreamError{Message: msg, StatusCode: statusErr.StatusCode}
		}
		return err
	}

	if content != "" && callback != nil {
		return callback(content)
	}

	return nil
}
