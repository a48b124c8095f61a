package handler

import (
	"github.com/doclens/doclens-api/appconfig"
	"github.com/doclens/doclens-api/services"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the public HTTP surface.
func NewRouter(cfg *appconfig.AppConfig, analysis *services.AnalysisService, search *services.SearchService) *gin.Engine {
	useJSONFieldNames()

	corsHandler := NewCorsHandler(cfg.Origins())
	healthHandler := NewHealthHandler(cfg)
	analysisHandler := NewAnalysisHandler(cfg, analysis)
	searchHandler := NewSearchHandler(cfg, search)

	router := gin.New()
	router.Use(gin.Recovery(), RequestID, AccessLog, corsHandler.CorsMiddleware)

	router.GET("/", healthHandler.HandleRoot)

	api := router.Group("/api")
	{
		api.GET("/health", healthHandler.HandleHealth)
		api.GET("/config", healthHandler.HandleConfig)
		api.POST("/analyze", analysisHandler.HandleAnalyze)
		api.POST("/search", searchHandler.HandleSearch)
	}

	return router
}
