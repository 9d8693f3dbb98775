package handlers

import (
	"context"
	"net/http"
	"time"

	"mcpserver/internal/logger"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	ping func(ctx context.Context) error
	log  logger.Logger
}

// NewHealthHandler reports healthy while ping succeeds.
func NewHealthHandler(ping func(ctx context.Context) error, log logger.Logger) *HealthHandler {
	return &HealthHandler{ping: ping, log: log.Named("health")}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		h.log.Warn(ctx, "database ping failed", logger.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": ServiceName,
		"version": ServiceVersion,
	})
}
