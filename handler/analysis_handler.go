package handler

import (
	"net/http"

	"github.com/doclens/doclens-api/appconfig"
	"github.com/doclens/doclens-api/services"
	"github.com/gin-gonic/gin"
)

type AnalysisHandler struct {
	cfg      *appconfig.AppConfig
	analysis *services.AnalysisService
}

func NewAnalysisHandler(cfg *appconfig.AppConfig, analysis *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		cfg:      cfg,
		analysis: analysis,
	}
}

func (h *AnalysisHandler) HandleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	if req.DocumentType == "" {
		req.DocumentType = "general"
	}

	apiKey, err := h.cfg.ResolveAPIKey(req.APIKey)
	if err != nil {
		abortWithServiceError(c, err, true)
		return
	}

	text, truncated := services.TruncateDocument(req.DocumentText, h.cfg.MaxAnalyzeChars)

	analysis, err := h.analysis.Analyze(c.Request.Context(), apiKey, text, req.DocumentType)
	if err != nil {
		abortWithServiceError(c, err, true)
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		Analysis:  analysis,
		Truncated: truncated,
	})
}
