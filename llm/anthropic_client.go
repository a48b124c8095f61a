package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	AnthropicEndpoint     = "https://api.anthropic.com/v1/messages"
	AnthropicDefaultModel = "claude-3-5-sonnet-20241022"
	anthropicVersion      = "2023-06-01"
)

type AnthropicClient struct {
	apiKey     string
	httpClient *http.Client
	url        string
	model      string
}

func NewAnthropicClient(baseURL, apiKey, model string) *AnthropicClient {
	if baseURL == "" {
		baseURL = AnthropicEndpoint
	}
	if model == "" {
		model = AnthropicDefaultModel
	}

	return &AnthropicClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		url:        baseURL,
		model:      model,
	}
}

func (c *AnthropicClient) GetModel() string {
	return c.model
}

// GenerateInference sends the system prompt in the top-level system field;
// the Messages API rejects a system role inside messages.
func (c *AnthropicClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	settings := newSettings(c.model, opts)

	request := anthropicRequest{
		Model:       settings.model,
		MaxTokens:   settings.maxTokens,
		Temperature: settings.temperature,
		System:      settings.system,
		Messages:    messages,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamError{
			Message:    upstreamMessage(body),
			StatusCode: resp.StatusCode,
		}
	}

	var response anthropicResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("error unmarshaling response: %w", err)
	}

	var sb strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	if sb.Len() > 0 && callback != nil {
		return callback(sb.String())
	}
	return nil
}

type anthropicRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Messages    []Message `json:"messages"`
	System      string    `json:"system,omitempty"`
	Temperature float64   `json:"temperature"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Role    string             `json:"role"`
	Type    string             `json:"type"`
}

type anthropicContent struct {
	Text string `json:"text"`
	Type string `json:"type"`
}
