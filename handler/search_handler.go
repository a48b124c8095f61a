package handler

import (
	"net/http"

	"github.com/doclens/doclens-api/appconfig"
	"github.com/doclens/doclens-api/services"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	cfg    *appconfig.AppConfig
	search *services.SearchService
}

func NewSearchHandler(cfg *appconfig.AppConfig, search *services.SearchService) *SearchHandler {
	return &SearchHandler{
		cfg:    cfg,
		search: search,
	}
}

func (h *SearchHandler) HandleSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	apiKey, err := h.cfg.ResolveAPIKey(req.APIKey)
	if err != nil {
		abortWithServiceError(c, err, false)
		return
	}

	outcome, err := h.search.Search(c.Request.Context(), apiKey, req.DocumentText, req.Query)
	if err != nil {
		abortWithServiceError(c, err, false)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Results:     outcome.Hits,
		TotalChunks: outcome.TotalChunks,
		Query:       req.Query,
	})
}
