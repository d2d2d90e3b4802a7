package api

import (
	"net/http"
	"time"

	"mediafetch/internal/notice"
	"mediafetch/internal/ratelimit"
	"mediafetch/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// errorMiddleware renders the first handler error as {"error": message}.
func errorMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		errs := c.Errors
		if len(errs) == 0 || c.Writer.Written() {
			return
		}
		err := errs[0].Err
		logger.Warn("request error",
			zap.String("path", c.Request.URL.Path),
			zap.String("trace_id", c.GetString(traceIDKey)),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(notice.Status(err), gin.H{"error": notice.Translate(err)})
	}
}

// traceIDMiddleware exposes the request's trace id to handlers and logs.
func traceIDMiddleware(c *gin.Context) {
	c.Set(traceIDKey, telemetry.TraceID(c.Request.Context()))
	c.Next()
}

func rateLimitMiddleware(l *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.Error(notice.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}

// durationMiddleware records request latency in seconds.
func durationMiddleware(requestDuration metric.Float64Histogram) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.Record(c.Request.Context(), time.Since(start).Seconds(), metric.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", c.Writer.Status()),
		))
	}
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}
