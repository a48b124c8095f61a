package handler

import "github.com/doclens/doclens-api/services"

const (
	ServiceName    = "DocLens API"
	ServiceVersion = "1.0.0"
	DocsPath       = "/api/docs"
)

type AnalyzeRequest struct {
	DocumentText string `json:"document_text" binding:"required,min=1,max=200000"`
	DocumentType string `json:"document_type"`
	APIKey       string `json:"api_key"`
}

type AnalyzeResponse struct {
	Analysis  string `json:"analysis"`
	Truncated bool   `json:"truncated"`
}

type SearchRequest struct {
	DocumentText string `json:"document_text" binding:"required,min=1,max=100000"`
	Query        string `json:"query" binding:"required,min=1,max=500"`
	APIKey       string `json:"api_key"`
}

type SearchResponse struct {
	Results     []services.SearchHit `json:"results"`
	TotalChunks int                  `json:"total_chunks"`
	Query       string               `json:"query"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
