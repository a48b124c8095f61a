package handler

import (
	"net/http"

	"github.com/doclens/doclens-api/appconfig"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	cfg *appconfig.AppConfig
}

func NewHealthHandler(cfg *appconfig.AppConfig) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

func (h *HealthHandler) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": ServiceName,
		"version": ServiceVersion,
		"docs":    DocsPath,
	})
}

func (h *HealthHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "doclens-api",
	})
}

// HandleConfig tells the frontend whether it has to collect a key itself.
func (h *HealthHandler) HandleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"hasApiKey": h.cfg.HasAPIKey(),
	})
}
