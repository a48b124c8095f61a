package prompts

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/SaiNageswarS/go-collection-boot/linq"
	"github.com/doclens/doclens-api/chunker"
)

//go:embed templates/*
var templatesFS embed.FS

// MinRelevanceScore is the lowest score the search prompt asks the model to return.
const MinRelevanceScore = 6

type DocumentType string

const (
	DocumentTypeContracts DocumentType = "contracts"
	DocumentTypeResearch  DocumentType = "research"
	DocumentTypeBusiness  DocumentType = "business"
	DocumentTypeGeneral   DocumentType = "general"
)

var documentFocus = map[DocumentType]string{
	DocumentTypeContracts: "Contracts & Legal Docs: focus on obligations, penalties, termination clauses, payment terms, defined terms, and risk flags.",
	DocumentTypeResearch:  "Research Papers: focus on abstract, methodology, key findings, limitations, conclusions, and citations of note.",
	DocumentTypeBusiness:  "Business Reports: focus on KPIs, financial figures, strategic decisions, action items, timelines, and named stakeholders.",
	DocumentTypeGeneral:   "General PDF / Other: broad extraction of the most important facts, themes, and recommendations.",
}

// DocumentTypes lists the accepted document types in display order.
func DocumentTypes() []DocumentType {
	return []DocumentType{DocumentTypeContracts, DocumentTypeResearch, DocumentTypeBusiness, DocumentTypeGeneral}
}

// ParseDocumentType maps s onto a known type. Anything unrecognised is general.
func ParseDocumentType(s string) DocumentType {
	t := DocumentType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := documentFocus[t]; ok {
		return t
	}
	return DocumentTypeGeneral
}

func (t DocumentType) Focus() string {
	if focus, ok := documentFocus[t]; ok {
		return focus
	}
	return documentFocus[DocumentTypeGeneral]
}

// RenderAnalysisPrompt renders the five-section analysis instructions for docType.
func RenderAnalysisPrompt(docType DocumentType) (string, error) {
	return loadPrompt("templates/analyze_system.md", map[string]string{
		"Focus": docType.Focus(),
	})
}

// RenderSearchPrompt renders the ranking instructions and the user message
// enumerating every chunk as "[index] text".
func RenderSearchPrompt(ctx context.Context, query string, chunks []chunker.Chunk) (systemPrompt, userPrompt string, err error) {
	systemPrompt, err = loadPrompt("templates/search_system.md", map[string]any{
		"MinScore": MinRelevanceScore,
	})
	if err != nil {
		return "", "", err
	}

	numbered, err := FormatChunks(ctx, chunks)
	if err != nil {
		return "", "", err
	}

	userPrompt, err = loadPrompt("templates/search_user.md", map[string]string{
		"Query":  query,
		"Chunks": numbered,
	})
	if err != nil {
		return "", "", err
	}

	return systemPrompt, userPrompt, nil
}

// FormatChunks numbers chunks for the model, separated by blank lines.
func FormatChunks(ctx context.Context, chunks []chunker.Chunk) (string, error) {
	lines, err := linq.Pipe2(
		linq.FromSlice(ctx, chunks),
		linq.Select(func(c chunker.Chunk) string {
			return fmt.Sprintf("[%d] %s", c.Index, c.Text)
		}),
		linq.ToSlice[string](),
	)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n\n"), nil
}

func loadPrompt(templatePath string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(templatesFS, templatePath)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return strings.TrimSpace(buf.String()), nil
}
