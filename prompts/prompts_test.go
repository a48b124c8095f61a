package prompts

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/doclens/doclens-api/chunker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAnalysisPrompt(t *testing.T) {
	systemPrompt, err := RenderAnalysisPrompt(DocumentTypeContracts)
	require.NoError(t, err)

	expectedContent := []string{
		"expert document analyst",
		"Contracts & Legal Docs",
		"termination clauses",
		"EXECUTIVE_SUMMARY",
		"KEY_POINTS",
		"CRITICAL_FLAGS",
		"NAMED_ENTITIES",
		"RECOMMENDED_ACTIONS",
	}

	for _, expected := range expectedContent {
		assert.Contains(t, systemPrompt, expected)
	}

	assert.NotContains(t, systemPrompt, "{{")
	assert.Equal(t, strings.TrimSpace(systemPrompt), systemPrompt)
}

func TestRenderAnalysisPromptPerType(t *testing.T) {
	for _, docType := range DocumentTypes() {
		t.Run(string(docType), func(t *testing.T) {
			systemPrompt, err := RenderAnalysisPrompt(docType)
			require.NoError(t, err)
			assert.Contains(t, systemPrompt, docType.Focus())
		})
	}
}

func TestParseDocumentType(t *testing.T) {
	tests := map[string]DocumentType{
		"contracts": DocumentTypeContracts,
		"research":  DocumentTypeResearch,
		"business":  DocumentTypeBusiness,
		"general":   DocumentTypeGeneral,
		" Research": DocumentTypeResearch,
		"BUSINESS":  DocumentTypeBusiness,
		"":          DocumentTypeGeneral,
		"poetry":    DocumentTypeGeneral,
	}

	for input, want := range tests {
		assert.Equal(t, want, ParseDocumentType(input), "input %q", input)
	}
}

func TestUnknownDocumentTypeFocusesOnGeneral(t *testing.T) {
	assert.Equal(t, DocumentTypeGeneral.Focus(), DocumentType("memo").Focus())
}

func TestRenderSearchPrompt(t *testing.T) {
	chunks := []chunker.Chunk{
		{Index: 0, Text: "First chunk"},
		{Index: 1, Text: "Second chunk"},
		{Index: 2, Text: "Third chunk"},
	}

	systemPrompt, userPrompt, err := RenderSearchPrompt(context.Background(), "termination notice", chunks)
	require.NoError(t, err)

	assert.Contains(t, systemPrompt, "semantic search engine")
	assert.Contains(t, systemPrompt, "'chunkIndex'")
	assert.Contains(t, systemPrompt, "relevanceScore of 6 or higher")
	assert.Contains(t, systemPrompt, "Return ONLY valid JSON")

	expectedUser := "Search Query: \"termination notice\"\n\nDocument Chunks:\n" +
		"[0] First chunk\n\n[1] Second chunk\n\n[2] Third chunk"
	assert.Equal(t, expectedUser, userPrompt)
}

func TestRenderSearchPromptKeepsQueryVerbatim(t *testing.T) {
	_, userPrompt, err := RenderSearchPrompt(context.Background(), `<b>"quoted" & raw</b>`, []chunker.Chunk{{Index: 0, Text: "a"}})
	require.NoError(t, err)
	assert.Contains(t, userPrompt, `Search Query: "<b>"quoted" & raw</b>"`)
}

func TestFormatChunksEmpty(t *testing.T) {
	formatted, err := FormatChunks(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "", formatted)
}

func TestFormatChunksKeepsChunkOrder(t *testing.T) {
	chunks := make([]chunker.Chunk, 0, 50)
	for i := 0; i < 50; i++ {
		chunks = append(chunks, chunker.Chunk{Index: i, Text: fmt.Sprintf("chunk %d", i)})
	}

	formatted, err := FormatChunks(context.Background(), chunks)
	require.NoError(t, err)

	lines := strings.Split(formatted, "\n\n")
	require.Len(t, lines, 50)
	for i, line := range lines {
		assert.Equal(t, fmt.Sprintf("[%d] chunk %d", i, i), line)
	}
}
