package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/doclens/doclens-api/appconfig"
	"github.com/doclens/doclens-api/chunker"
	"github.com/doclens/doclens-api/llm"
	"github.com/doclens/doclens-api/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLLM struct {
	response string
	err      error
	calls    int
	lastKey  string
	lastText string
}

func (s *stubLLM) factory() llm.ClientFactory {
	return func(apiKey string) (llm.LLMClient, error) {
		s.lastKey = apiKey
		return s, nil
	}
}

func (s *stubLLM) GenerateInference(ctx context.Context, messages []llm.Message, callback func(string) error, opts ...llm.LLMOption) error {
	s.calls++
	if len(messages) > 0 {
		s.lastText = messages[len(messages)-1].Content
	}
	if s.err != nil {
		return s.err
	}
	if s.response == "" {
		return nil
	}
	return callback(s.response)
}

func (s *stubLLM) GetModel() string { return "stub" }

func newTestRouter(cfg *appconfig.AppConfig, stub *stubLLM) *gin.Engine {
	if cfg.MaxAnalyzeChars == 0 {
		cfg.MaxAnalyzeChars = appconfig.DefaultMaxAnalyzeChars
	}
	if cfg.AllowedOrigins == "" {
		cfg.AllowedOrigins = appconfig.DefaultAllowedOrigins
	}
	analysis := services.ProvideAnalysisService(stub.factory())
	search := services.ProvideSearchService(chunker.ProvideChunker(), stub.factory())
	return NewRouter(cfg, analysis, search)
}

func doJSON(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestRootAndHealth(t *testing.T) {
	router := newTestRouter(&appconfig.AppConfig{}, &stubLLM{})

	w := doJSON(router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"service": "DocLens API", "version": "1.0.0", "docs": "/api/docs"}, decode[map[string]any](t, w))

	w = doJSON(router, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"status": "ok", "service": "doclens-api"}, decode[map[string]any](t, w))
}

func TestConfigReportsServerKey(t *testing.T) {
	w := doJSON(newTestRouter(&appconfig.AppConfig{GroqAPIKey: "gsk"}, &stubLLM{}), http.MethodGet, "/api/config", nil)
	assert.Equal(t, map[string]any{"hasApiKey": true}, decode[map[string]any](t, w))

	w = doJSON(newTestRouter(&appconfig.AppConfig{}, &stubLLM{}), http.MethodGet, "/api/config", nil)
	assert.Equal(t, map[string]any{"hasApiKey": false}, decode[map[string]any](t, w))
}

func TestAnalyzeSuccess(t *testing.T) {
	stub := &stubLLM{response: "EXECUTIVE_SUMMARY\nAll good."}
	router := newTestRouter(&appconfig.AppConfig{GroqAPIKey: "server-key"}, stub)

	w := doJSON(router, http.MethodPost, "/api/analyze", AnalyzeRequest{DocumentText: "Contract text.", DocumentType: "contracts"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, AnalyzeResponse{Analysis: "EXECUTIVE_SUMMARY\nAll good.", Truncated: false}, decode[AnalyzeResponse](t, w))
	assert.Equal(t, "server-key", stub.lastKey)
}

func TestAnalyzeRequestKeyOverridesServerKey(t *testing.T) {
	stub := &stubLLM{response: "ok"}
	router := newTestRouter(&appconfig.AppConfig{GroqAPIKey: "server-key"}, stub)

	w := doJSON(router, http.MethodPost, "/api/analyze", AnalyzeRequest{DocumentText: "text", APIKey: "client-key"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "client-key", stub.lastKey)
}

func TestAnalyzeTruncation(t *testing.T) {
	stub := &stubLLM{response: "ok"}
	router := newTestRouter(&appconfig.AppConfig{GroqAPIKey: "k", MaxAnalyzeChars: 10}, stub)

	w := doJSON(router, http.MethodPost, "/api/analyze", AnalyzeRequest{DocumentText: strings.Repeat("a", 10)})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[AnalyzeResponse](t, w).Truncated)
	assert.Len(t, stub.lastText, 10)

	w = doJSON(router, http.MethodPost, "/api/analyze", AnalyzeRequest{DocumentText: strings.Repeat("é", 11)})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[AnalyzeResponse](t, w).Truncated)
	assert.Equal(t, strings.Repeat("é", 10), stub.lastText)
}

func TestAnalyzeDefaultCeiling(t *testing.T) {
	stub := &stubLLM{response: "ok"}
	router := newTestRouter(&appconfig.AppConfig{GroqAPIKey: "k"}, stub)

	w := doJSON(router, http.MethodPost, "/api/analyze", AnalyzeRequest{DocumentText: strings.Repeat("x", 24001)})

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[AnalyzeResponse](t, w).Truncated)
	assert.Len(t, stub.lastText, 24000)
}

func TestAnalyzeWithoutKey(t *testing.T) {
	stub := &stubLLM{response: "ok"}
	router := newTestRouter(&appconfig.AppConfig{}, stub)

	w := doJSON(router, http.MethodPost, "/api/analyze", AnalyzeRequest{DocumentText: "text"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, msgNoAPIKey, decode[ErrorResponse](t, w).Detail)
	assert.Zero(t, stub.calls)
}

func TestAnalyzeValidation(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantDetail string
	}{
		{"empty text", `{"document_text":""}`, "document_text: Field required"},
		{"missing text", `{"document_type":"general"}`, "document_text: Field required"},
		{"too long", AnalyzeRequest{DocumentText: strings.Repeat("a", 200001)}, "document_text: String should have at most 200000 characters"},
		{"wrong type", `{"document_text":42}`, "document_text: Input should be a valid string"},
		{"malformed", `{"document_text":`, "JSON decode error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubLLM{response: "ok"}
			w := doJSON(newTestRouter(&appconfig.AppConfig{GroqAPIKey: "k"}, stub), http.MethodPost, "/api/analyze", tt.body)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Equal(t, tt.wantDetail, decode[ErrorResponse](t, w).Detail)
			assert.Zero(t, stub.calls)
		})
	}
}

func TestAnalyzeUpstreamErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"unauthorized", &llm.UpstreamError{Message: "Invalid API Key", StatusCode: 401}, http.StatusUnauthorized, "Invalid API key"},
		{"rate limited", &llm.UpstreamError{Message: "slow down", StatusCode: 429}, http.StatusTooManyRequests, "Rate limit exceeded. Please wait and try again."},
		{"bad request", &llm.UpstreamError{Message: "context length exceeded", StatusCode: 400}, http.StatusBadRequest, "context length exceeded"},
		{"server error", &llm.UpstreamError{Message: "overloaded", StatusCode: 503}, http.StatusInternalServerError, "overloaded"},
		{"transport", errors.New("dial tcp: i/o timeout"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&appconfig.AppConfig{GroqAPIKey: "k"}, &stubLLM{err: tt.err})

			w := doJSON(router, http.MethodPost, "/api/analyze", AnalyzeRequest{DocumentText: "text"})

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantDetail, decode[ErrorResponse](t, w).Detail)
		})
	}
}

func TestSearchSuccess(t *testing.T) {
	stub := &stubLLM{response: `[{"chunkIndex":0,"relevanceScore":12,"reason":"Matches."}]`}
	router := newTestRouter(&appconfig.AppConfig{GroqAPIKey: "k"}, stub)

	w := doJSON(router, http.MethodPost, "/api/search", SearchRequest{DocumentText: "The tenant must give notice.", Query: "notice"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[map[string]any](t, w)
	assert.Equal(t, "notice", body["query"])
	assert.EqualValues(t, 1, body["total_chunks"])

	results := body["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, map[string]any{
		"chunk_index":     float64(0),
		"relevance_score": float64(10),
		"reason":          "Matches.",
		"chunk_text":      "The tenant must give notice.",
	}, results[0])
}

func TestSearchWhitespaceDocument(t *testing.T) {
	stub := &stubLLM{response: "[]"}
	router := newTestRouter(&appconfig.AppConfig{GroqAPIKey: "k"}, stub)

	w := doJSON(router, http.MethodPost, "/api/search", SearchRequest{DocumentText: "   ", Query: "q"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"results":[],"total_chunks":0,"query":"q"}`, w.Body.String())
	assert.Zero(t, stub.calls)
}

func TestSearchMalformedModelOutput(t *testing.T) {
	router := newTestRouter(&appconfig.AppConfig{GroqAPIKey: "k"}, &stubLLM{response: "not json {{{"})

	w := doJSON(router, http.MethodPost, "/api/search", SearchRequest{DocumentText: "some text", Query: "q"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"results":[],"total_chunks":1,"query":"q"}`, w.Body.String())
}

func TestSearchValidation(t *testing.T) {
	stub := &stubLLM{}
	router := newTestRouter(&appconfig.AppConfig{GroqAPIKey: "k"}, stub)

	w := doJSON(router, http.MethodPost, "/api/search", SearchRequest{DocumentText: "text", Query: strings.Repeat("q", 501)})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "query: String should have at most 500 characters", decode[ErrorResponse](t, w).Detail)

	w = doJSON(router, http.MethodPost, "/api/search", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "document_text: Field required; query: Field required", decode[ErrorResponse](t, w).Detail)

	assert.Zero(t, stub.calls)
}

func TestSearchUpstreamBadRequestIsServerError(t *testing.T) {
	router := newTestRouter(&appconfig.AppConfig{GroqAPIKey: "k"}, &stubLLM{err: &llm.UpstreamError{Message: "bad", StatusCode: 400}})

	w := doJSON(router, http.MethodPost, "/api/search", SearchRequest{DocumentText: "text", Query: "q"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "bad", decode[ErrorResponse](t, w).Detail)
}

func TestSearchWithoutKey(t *testing.T) {
	router := newTestRouter(&appconfig.AppConfig{}, &stubLLM{})

	w := doJSON(router, http.MethodPost, "/api/search", SearchRequest{DocumentText: "text", Query: "q"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, msgNoAPIKey, decode[ErrorResponse](t, w).Detail)
}
