package middleware

import (
	"net/http"
	"time"

	"freedom_wall/pkg/logger"
	"freedom_wall/pkg/metrics"
	"freedom_wall/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MetricsMiddleware 记录请求耗时与状态码分布
func MetricsMiddleware() gin.HandlerFunc {
	collector := metrics.GetGlobalCollector()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		collector.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			metrics.StatusCategory(c.Writer.Status()),
			time.Since(start),
			c.Writer.Size(),
		)
	}
}

// RecoveryMiddleware panic 时记录日志并返回通用错误
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(RequestIDKey)),
		)
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	})
}
