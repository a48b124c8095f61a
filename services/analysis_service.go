package services

import (
	"context"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/doclens/doclens-api/llm"
	"github.com/doclens/doclens-api/prompts"
	"go.uber.org/zap"
)

type AnalysisService struct {
	newClient llm.ClientFactory
}

func ProvideAnalysisService(newClient llm.ClientFactory) *AnalysisService {
	return &AnalysisService{
		newClient: newClient,
	}
}

// Analyze asks the model for the five-section analysis of documentText and
// returns its text as-is. Unknown document types are analysed as general.
// Upstream failures are returned unwrapped as *llm.UpstreamError.
func (s *AnalysisService) Analyze(ctx context.Context, apiKey, documentText, documentType string) (string, error) {
	docType := prompts.ParseDocumentType(documentType)

	systemPrompt, err := prompts.RenderAnalysisPrompt(docType)
	if err != nil {
		logger.Error("Failed to render analysis prompt", zap.Error(err))
		return "", err
	}

	client, err := s.newClient(apiKey)
	if err != nil {
		return "", err
	}

	analysis, err := async.Await(complete(ctx, client, systemPrompt, documentText))
	if err != nil {
		logger.Error("Analysis completion failed", zap.String("documentType", string(docType)), zap.Error(err))
		return "", err
	}

	logger.Info("Document analysed",
		zap.String("documentType", string(docType)),
		zap.Int("inputChars", len(documentText)),
		zap.Int("outputChars", len(analysis)))

	return analysis, nil
}

// complete runs one completion with userContent as the sole user message.
func complete(ctx context.Context, client llm.LLMClient, systemPrompt, userContent string) <-chan async.Result[string] {
	return async.Go(func() (string, error) {
		return llm.Complete(ctx, client, systemPrompt, []llm.Message{llm.UserMessage(userContent)})
	})
}
