package handler

import (
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// RequestID tags every request with an id, reusing the caller's if sent.
func RequestID(c *gin.Context) {
	id := c.GetHeader(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(requestIDKey, id)
	c.Writer.Header().Set(RequestIDHeader, id)
	c.Next()
}

func AccessLog(c *gin.Context) {
	start := time.Now()
	c.Next()

	logger.Info("HTTP request",
		zap.String("requestId", c.GetString(requestIDKey)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(start)))
}
