package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// CorrelationIDHeader carries the id tying a request to its log lines
const CorrelationIDHeader = "X-Correlation-ID"

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// CorrelationIDFromContext returns the correlation id stored by the CorrelationID middleware
func CorrelationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationIDKey).(string)
	return id, ok
}

// CorrelationID reuses the caller's X-Correlation-ID or generates one, echoes
// it on the response and stores it on the request context.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Header(CorrelationIDHeader, id)
		ctx := context.WithValue(c.Request.Context(), correlationIDKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Logging logs one line per request, except for excludePaths
func Logging(logger log.Logger, excludePaths []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if lo.Contains(excludePaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		begin := time.Now()
		c.Next()

		id, _ := CorrelationIDFromContext(c.Request.Context())
		status := c.Writer.Status()

		l := level.Info(logger)
		if status >= http.StatusInternalServerError {
			l = level.Error(logger)
		}
		l.Log(
			"msg", "request",
			"correlation_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"client", c.ClientIP(),
			"took", time.Since(begin),
		)
	}
}

// RateLimit rejects requests with 429 once the client's bucket is empty
func RateLimit(limiter *ClientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP(), time.Now()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
