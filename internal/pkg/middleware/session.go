package middleware

import (
	"freedom_wall/internal/pkg/identity"
	"freedom_wall/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionMiddleware 读取或创建签名会话 cookie
// 签发失败不阻断请求，调用方标识会退回到 IP
func SessionMiddleware(sessions *identity.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sessions.Ensure(c)
		if err != nil {
			logger.Log.Warn("failed to issue session cookie", zap.Error(err))
			c.Next()
			return
		}
		identity.SetSession(c, s)
		c.Next()
	}
}
