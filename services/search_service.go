package services

import (
	"context"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/doclens/doclens-api/chunker"
	"github.com/doclens/doclens-api/llm"
	"github.com/doclens/doclens-api/prompts"
	"go.uber.org/zap"
)

// SearchHit is a validated model result joined to the chunk it points at.
type SearchHit struct {
	ChunkIndex     int    `json:"chunk_index"`
	RelevanceScore int    `json:"relevance_score"`
	Reason         string `json:"reason"`
	ChunkText      string `json:"chunk_text"`
}

type SearchOutcome struct {
	Hits        []SearchHit
	TotalChunks int
}

type SearchService struct {
	chunker   *chunker.Chunker
	newClient llm.ClientFactory
}

func ProvideSearchService(c *chunker.Chunker, newClient llm.ClientFactory) *SearchService {
	return &SearchService{
		chunker:   c,
		newClient: newClient,
	}
}

// Search chunks documentText and asks the model to rank the chunks against
// query. Hits keep the order the model returned them in. Output that cannot
// be parsed yields no hits rather than an error.
func (s *SearchService) Search(ctx context.Context, apiKey, documentText, query string) (*SearchOutcome, error) {
	chunks := s.chunker.Chunk(documentText)
	if len(chunks) == 0 {
		return &SearchOutcome{Hits: []SearchHit{}}, nil
	}

	systemPrompt, userPrompt, err := prompts.RenderSearchPrompt(ctx, query, chunks)
	if err != nil {
		logger.Error("Failed to render search prompt", zap.Error(err))
		return nil, err
	}

	client, err := s.newClient(apiKey)
	if err != nil {
		return nil, err
	}

	response, err := async.Await(complete(ctx, client, systemPrompt, userPrompt))
	if err != nil {
		logger.Error("Search completion failed", zap.Int("chunks", len(chunks)), zap.Error(err))
		return nil, err
	}

	results := ParseSearchResults(response)
	hits := joinChunks(results, chunks)

	logger.Info("Search ranked",
		zap.String("query", query),
		zap.Int("chunks", len(chunks)),
		zap.Int("results", len(results)),
		zap.Int("hits", len(hits)))

	return &SearchOutcome{Hits: hits, TotalChunks: len(chunks)}, nil
}

// joinChunks drops results whose index matches no chunk.
func joinChunks(results []SearchResult, chunks []chunker.Chunk) []SearchHit {
	byIndex := make(map[int]chunker.Chunk, len(chunks))
	for _, c := range chunks {
		byIndex[c.Index] = c
	}

	hits := make([]SearchHit, 0, len(results))
	for _, r := range results {
		c, ok := byIndex[r.ChunkIndex]
		if !ok {
			continue
		}
		hits = append(hits, SearchHit{
			ChunkIndex:     r.ChunkIndex,
			RelevanceScore: r.RelevanceScore,
			Reason:         r.Reason,
			ChunkText:      c.Text,
		})
	}
	return hits
}
