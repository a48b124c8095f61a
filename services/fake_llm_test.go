package services

import (
	"context"
	"sync"

	"github.com/doclens/doclens-api/llm"
)

// fakeLLM records every call and answers with a canned response.
type fakeLLM struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	messages []llm.Message
	keys     []string
}

func (f *fakeLLM) factory() llm.ClientFactory {
	return func(apiKey string) (llm.LLMClient, error) {
		f.mu.Lock()
		f.keys = append(f.keys, apiKey)
		f.mu.Unlock()
		return f, nil
	}
}

func (f *fakeLLM) GenerateInference(ctx context.Context, messages []llm.Message, callback func(string) error, opts ...llm.LLMOption) error {
	f.mu.Lock()
	f.calls++
	f.messages = messages
	f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	if f.response == "" {
		return nil
	}
	return callback(f.response)
}

func (f *fakeLLM) GetModel() string { return "fake" }
