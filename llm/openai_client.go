package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(baseURL, apiKey, model string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	config.HTTPClient = &http.Client{Timeout: DefaultTimeout}

	if model == "" {
		model = DefaultModel
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (c *OpenAIClient) GetModel() string {
	return c.model
}

func (c *OpenAIClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	settings := newSettings(c.model, opts)

	all := withSystem(settings.system, messages)
	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(all))
	for _, msg := range all {
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       settings.model,
		Messages:    openaiMessages,
		Temperature: float32(settings.temperature),
		MaxTokens:   settings.maxTokens,
	})
	if err != nil {
		return toUpstreamError(err)
	}

	if len(resp.Choices) == 0 {
		return nil
	}

	content := resp.Choices[0].Message.Content
	if content != "" && callback != nil {
		return callback(content)
	}

	return nil
}

// toUpstreamError maps go-openai failures carrying an HTTP status onto
// UpstreamError. Transport failures are returned as is.
func toUpstreamError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{Message: apiErr.Message, StatusCode: apiErr.HTTPStatusCode}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		msg := strings.TrimSpace(string(reqErr.Body))
		if msg == "" {
			msg = reqErr.Error()
		}
		return &UpstreamError{Message: msg, StatusCode: reqErr.HTTPStatusCode}
	}

	return err
}
