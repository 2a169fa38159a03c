package security

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeadersConfig 安全头配置
type HeadersConfig struct {
	FrameOptions string
	HSTS         bool
	HSTSMaxAge   int
}

// DefaultHeadersConfig 默认安全头配置
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		FrameOptions: "DENY",
		HSTS:         true,
		HSTSMaxAge:   31536000, // 1 year
	}
}

// SecurityHeaders 安全头中间件
func SecurityHeaders(cfg HeadersConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", cfg.FrameOptions)
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// HSTS (仅 HTTPS)
		if cfg.HSTS && (c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https") {
			c.Header("Strict-Transport-Security", fmt.Sprintf("max-age=%d; includeSubDomains", cfg.HSTSMaxAge))
		}

		// API 响应不缓存
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
		}
		c.Next()
	}
}

// RequestSizeLimit 请求体大小限制
func RequestSizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"message": fmt.Sprintf("Request too large, maximum size is %d bytes", maxSize),
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
