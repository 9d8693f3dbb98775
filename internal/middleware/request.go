package middleware

import (
	"strconv"
	"time"

	"mcpserver/internal/logger"
	"mcpserver/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDKey = "request_id"
const RequestIDHeader = "X-Request-ID"

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one record per request after it has been served.
func AccessLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("latency", time.Since(start)),
			logger.String("request_id", c.GetString(RequestIDKey)),
		}
		if c.Writer.Status() >= 500 {
			log.Error(c.Request.Context(), "request failed", fields...)
			return
		}
		log.Info(c.Request.Context(), "request served", fields...)
	}
}

// Metrics records request counts and latency per route template.
func Metrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// FullPath is the route template, e.g. /nodes/:node_id; it is empty
		// for unmatched routes, which share one label to bound cardinality.
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := c.Writer.Status()
		code := strconv.Itoa(status)
		m.RecordHTTPRequest(endpoint, c.Request.Method, code, time.Since(start))
		if status >= 400 {
			m.RecordErrorByEndpoint(endpoint, c.Request.Method, errorType(status))
		}
	}
}

func errorType(status int) string {
	switch {
	case status >= 500:
		return "server_error"
	case status == 404:
		return "not_found"
	case status == 422:
		return "validation"
	default:
		return "client_error"
	}
}
