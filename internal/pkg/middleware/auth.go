package middleware

import (
	"strings"

	"freedom_wall/internal/pkg/identity"
	"freedom_wall/pkg/response"
	"freedom_wall/pkg/security"

	"github.com/gin-gonic/gin"
)

// IsAdminKey 管理员鉴权通过后写入上下文
const IsAdminKey = "isAdmin"

// AdminCredentials 收集请求中的管理员凭证：
// admin-key / x-admin-key 头、Bearer 令牌、会话中的 isAdmin 标记
func AdminCredentials(c *gin.Context) security.AdminCredentials {
	creds := security.AdminCredentials{
		Key: c.GetHeader("admin-key"),
	}
	if creds.Key == "" {
		creds.Key = c.GetHeader("x-admin-key")
	}

	// 检查格式 "Bearer <token>"
	if auth := c.GetHeader("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			creds.BearerToken = strings.TrimSpace(parts[1])
		}
	}

	if s := identity.SessionFrom(c); s != nil {
		creds.SessionAdmin = s.IsAdmin
	}
	return creds
}

// AdminMiddleware 管理员权限中间件
// 缺少凭证返回 401，凭证错误返回 403
func AdminMiddleware(authorizer security.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authorizer.Authorize(AdminCredentials(c)); err != nil {
			response.Fail(c, err)
			return
		}
		c.Set(IsAdminKey, true)
		c.Next()
	}
}

// IsAdmin 当前请求是否已通过管理员鉴权
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(IsAdminKey)
}
