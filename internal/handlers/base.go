package handlers

import (
	"errors"
	"net/http"

	"mcpserver/internal/logger"
	"mcpserver/internal/middleware"
	"mcpserver/internal/schema"
	"mcpserver/internal/services"

	"github.com/gin-gonic/gin"
)

// Service metadata reported by the root and health endpoints.
const (
	ServiceName        = "MCP Server"
	ServiceDescription = "Corpus archive API"
	ServiceVersion     = "0.1.0"
)

const welcomeMessage = "Welcome to the MCP Server. The archive is alive."

// Welcome 根路径欢迎信息
func Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": welcomeMessage})
}

// NotFound answers unknown routes in the same shape as handler errors.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
}

// respondError translates a validation or store error into a response.
// Only unexpected storage failures are logged as errors.
func respondError(c *gin.Context, log logger.Logger, err error) {
	ctx := c.Request.Context()
	reqID := logger.String("request_id", c.GetString(middleware.RequestIDKey))

	var verr *schema.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Info(ctx, "request rejected", reqID, logger.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": verr.Fields})
	case errors.Is(err, services.ErrNodeNotFound):
		log.Debug(ctx, "node not found", reqID, logger.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"detail": "Node not found"})
	default:
		log.Error(ctx, "node store failure", reqID, logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
	}
}
