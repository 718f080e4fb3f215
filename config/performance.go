package config

import (
	"time"

	"detailstudio-backend/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const slowRequestThreshold = 200 * time.Millisecond

// PerformanceLogger logs every request with its latency, records it in the
// request histogram and warns about slow requests.
func PerformanceLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		metrics.ObserveRequest(c.Request.Method, c.FullPath(), status, latency)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		}
		logger.Info("request", fields...)

		if latency > slowRequestThreshold {
			logger.Warn("slow request", fields...)
		}
	}
}
