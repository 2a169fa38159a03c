package security

import (
	"crypto/subtle"

	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/utils"
)

// AdminCredentials 从请求中提取的管理员凭证
type AdminCredentials struct {
	Key          string
	BearerToken  string
	SessionAdmin bool
}

// Empty 未携带任何凭证
func (c AdminCredentials) Empty() bool {
	return c.Key == "" && c.BearerToken == "" && !c.SessionAdmin
}

// Authorizer 管理员鉴权
type Authorizer interface {
	Authorize(creds AdminCredentials) error
	// CheckKey 仅校验共享密钥（登录接口使用）
	CheckKey(key string) bool
}

// AdminAuthorizer 共享密钥 + JWT + 会话标记
type AdminAuthorizer struct {
	key    []byte
	tokens *utils.TokenIssuer
}

// NewAdminAuthorizer tokens 可为 nil，此时不接受 Bearer 令牌
func NewAdminAuthorizer(key string, tokens *utils.TokenIssuer) *AdminAuthorizer {
	return &AdminAuthorizer{key: []byte(key), tokens: tokens}
}

// CheckKey 常量时间比较，未配置密钥时一律拒绝
func (a *AdminAuthorizer) CheckKey(key string) bool {
	if len(a.key) == 0 || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), a.key) == 1
}

// Authorize 无凭证返回 401，凭证错误返回 403，对外消息一致
func (a *AdminAuthorizer) Authorize(creds AdminCredentials) error {
	if creds.Empty() {
		return apperr.Unauthorized("Unauthorized")
	}
	if creds.SessionAdmin {
		return nil
	}
	if creds.Key != "" && a.CheckKey(creds.Key) {
		return nil
	}
	if creds.BearerToken != "" && a.tokens != nil {
		claims, err := a.tokens.ParseToken(creds.BearerToken)
		if err == nil && claims.Role == utils.RoleAdmin {
			return nil
		}
	}
	return apperr.Forbidden("Unauthorized")
}
