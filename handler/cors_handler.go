package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const corsAllowMethods = "DELETE, GET, HEAD, OPTIONS, PATCH, POST, PUT"

type CorsHandler struct {
	allowed map[string]bool
}

func NewCorsHandler(origins []string) *CorsHandler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &CorsHandler{allowed: allowed}
}

// CorsMiddleware echoes allow-listed origins with credentials enabled and
// answers preflight requests itself.
func (h *CorsHandler) CorsMiddleware(c *gin.Context) {
	origin := c.GetHeader("Origin")
	if origin == "" {
		c.Next()
		return
	}

	header := c.Writer.Header()
	header.Add("Vary", "Origin")

	preflight := c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != ""
	if !h.allowed[origin] {
		if preflight {
			c.String(http.StatusBadRequest, "Disallowed CORS origin")
			c.Abort()
			return
		}
		c.Next()
		return
	}

	header.Set("Access-Control-Allow-Origin", origin)
	header.Set("Access-Control-Allow-Credentials", "true")

	if preflight {
		header.Set("Access-Control-Allow-Methods", corsAllowMethods)
		if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
			header.Set("Access-Control-Allow-Headers", strings.TrimSpace(requested))
		}
		header.Set("Access-Control-Max-Age", "600")
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	c.Next()
}
