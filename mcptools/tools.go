package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/doclens/doclens-api/appconfig"
	"github.com/doclens/doclens-api/llm"
	"github.com/doclens/doclens-api/prompts"
	"github.com/doclens/doclens-api/services"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const (
	ServerName    = "doclens-mcp"
	ServerVersion = "1.0.0"
)

type DocumentTools struct {
	cfg      *appconfig.AppConfig
	analysis *services.AnalysisService
	search   *services.SearchService
}

func ProvideDocumentTools(cfg *appconfig.AppConfig, analysis *services.AnalysisService, search *services.SearchService) *DocumentTools {
	return &DocumentTools{
		cfg:      cfg,
		analysis: analysis,
		search:   search,
	}
}

// NewServer builds an MCP server exposing the document tools.
func NewServer(tools *DocumentTools) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	tools.Register(s)
	return s
}

func (t *DocumentTools) Register(s *server.MCPServer) {
	docTypes := make([]string, 0, len(prompts.DocumentTypes()))
	for _, dt := range prompts.DocumentTypes() {
		docTypes = append(docTypes, string(dt))
	}

	analyzeTool := mcp.NewTool(
		"analyze_document",
		mcp.WithDescription("Analyzes a document and returns five labelled sections: EXECUTIVE_SUMMARY, KEY_POINTS, CRITICAL_FLAGS, NAMED_ENTITIES and RECOMMENDED_ACTIONS."),
		mcp.WithString("document_text",
			mcp.Description("Full plain text of the document"),
			mcp.Required(),
		),
		mcp.WithString("document_type",
			mcp.Description("One of "+strings.Join(docTypes, ", ")+". Defaults to general."),
			mcp.Enum(docTypes...),
		),
		mcp.WithString("api_key",
			mcp.Description("Groq API key. Optional when the server has one configured."),
		),
	)

	searchTool := mcp.NewTool(
		"search_document",
		mcp.WithDescription("Semantic search inside a document. Returns JSON with the matching chunks ranked by relevance (1-10) and a one-sentence reason each."),
		mcp.WithString("document_text",
			mcp.Description("Full plain text of the document"),
			mcp.Required(),
		),
		mcp.WithString("query",
			mcp.Description("What to look for, in natural language"),
			mcp.Required(),
		),
		mcp.WithString("api_key",
			mcp.Description("Groq API key. Optional when the server has one configured."),
		),
	)

	s.AddTool(analyzeTool, t.HandleAnalyze)
	s.AddTool(searchTool, t.HandleSearch)
}

func (t *DocumentTools) HandleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("document_text")
	if err != nil || strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("document_text is required"), nil
	}

	apiKey, err := t.cfg.ResolveAPIKey(req.GetString("api_key", ""))
	if err != nil {
		return mcp.NewToolResultError(toolErrorMessage(err)), nil
	}

	text, truncated := services.TruncateDocument(text, t.cfg.MaxAnalyzeChars)

	analysis, err := t.analysis.Analyze(ctx, apiKey, text, req.GetString("document_type", string(prompts.DocumentTypeGeneral)))
	if err != nil {
		logger.Error("analyze_document failed", zap.Error(err))
		return mcp.NewToolResultError(toolErrorMessage(err)), nil
	}

	if truncated {
		analysis = fmt.Sprintf("[document truncated to %d characters]\n\n%s", t.cfg.MaxAnalyzeChars, analysis)
	}
	return mcp.NewToolResultText(analysis), nil
}

type searchToolResult struct {
	Results     []services.SearchHit `json:"results"`
	TotalChunks int                  `json:"total_chunks"`
	Query       string               `json:"query"`
}

func (t *DocumentTools) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("document_text")
	if err != nil {
		return mcp.NewToolResultError("document_text is required"), nil
	}

	query, err := req.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	apiKey, err := t.cfg.ResolveAPIKey(req.GetString("api_key", ""))
	if err != nil {
		return mcp.NewToolResultError(toolErrorMessage(err)), nil
	}

	outcome, err := t.search.Search(ctx, apiKey, text, query)
	if err != nil {
		logger.Error("search_document failed", zap.Error(err))
		return mcp.NewToolResultError(toolErrorMessage(err)), nil
	}

	out, err := json.Marshal(searchToolResult{
		Results:     outcome.Hits,
		TotalChunks: outcome.TotalChunks,
		Query:       query,
	})
	if err != nil {
		return mcp.NewToolResultError("Failed to marshal search results: " + err.Error()), nil
	}

	return mcp.NewToolResultText(string(out)), nil
}

func toolErrorMessage(err error) string {
	if errors.Is(err, appconfig.ErrNoAPIKey) {
		return "No API key provided. Set GROQ_API_KEY in .env or pass api_key."
	}

	var upstream *llm.UpstreamError
	if errors.As(err, &upstream) {
		switch upstream.StatusCode {
		case 401:
			return "Invalid API key"
		case 429:
			return "Rate limit exceeded. Please wait and try again."
		default:
			return fmt.Sprintf("LLM request failed (%d): %s", upstream.StatusCode, upstream.Message)
		}
	}

	return err.Error()
}
