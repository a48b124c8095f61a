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

const GroqEndpoint = "https://api.groq.com/openai/v1/chat/completions"

type GroqClient struct {
	apiKey     string
	httpClient *http.Client
	url        string
	model      string
}

func NewGroqClient(apiKey string) *GroqClient {
	return &GroqClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		url:        GroqEndpoint,
		model:      DefaultModel,
	}
}

func (c *GroqClient) GetModel() string {
	return c.model
}

func (c *GroqClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	settings := newSettings(c.model, opts)

	request := groqRequest{
		Model:       settings.model,
		Messages:    withSystem(settings.system, messages),
		Temperature: settings.temperature,
		MaxTokens:   settings.maxTokens,
	}

	content, err := c.makeRequest(ctx, request)
	if err != nil {
		return err
	}

	if content != "" && callback != nil {
		return callback(content)
	}

	return nil
}

func (c *GroqClient) makeRequest(ctx context.Context, request groqRequest) (string, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{
			Message:    upstreamMessage(body),
			StatusCode: resp.StatusCode,
		}
	}

	var response groqResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("error unmarshaling response: %w", err)
	}

	if len(response.Choices) == 0 || response.Choices[0].Message == nil {
		return "", nil
	}

	return response.Choices[0].Message.Content, nil
}

// upstreamMessage pulls error.message out of a provider error envelope and
// falls back to the raw body when the envelope is missing or malformed.
func upstreamMessage(body []byte) string {
	var envelope groqErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		if msg := strings.TrimSpace(envelope.Error.Message); msg != "" {
			return msg
		}
	}
	return string(body)
}

// Groq API types
type groqRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type groqResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []groqChoice `json:"choices"`
	Usage   groqUsage    `json:"usage"`
}

type groqChoice struct {
	Index        int          `json:"index"`
	Message      *groqMessage `json:"message"`
	FinishReason string       `json:"finish_reason"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type groqErrorEnvelope struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
