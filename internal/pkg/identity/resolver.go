package identity

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Unknown 无法识别调用方时的标识
const Unknown = "unknown"

// headerUserIDs 客户端显式传入的用户标识头
var headerUserIDs = []string{"user-id", "x-user-id"}

// Resolve 按优先级解析调用方标识：
// 显式 userId（body 或 header）> 会话 > 代理转发 IP > 对端地址 > "unknown"
// 该标识只用于去重与限流，不代表身份认证
func Resolve(c *gin.Context, explicit string) string {
	if id := strings.TrimSpace(explicit); id != "" {
		return id
	}
	if id := HeaderUserID(c.Request); id != "" {
		return id
	}
	if s := SessionFrom(c); s != nil && s.ID != "" {
		return s.ID
	}
	if ip := ClientIP(c.Request); ip != "" {
		return ip
	}
	return Unknown
}

// HeaderUserID 读取 user-id / x-user-id 头
func HeaderUserID(r *http.Request) string {
	for _, h := range headerUserIDs {
		if v := strings.TrimSpace(r.Header.Get(h)); v != "" {
			return v
		}
	}
	return ""
}

// ClientIP 代理链第一个地址 > X-Real-IP > CF-Connecting-IP > 对端地址
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return normalizeIP(first)
		}
	}
	for _, h := range []string{"X-Real-IP", "CF-Connecting-IP"} {
		if v := strings.TrimSpace(r.Header.Get(h)); v != "" {
			return normalizeIP(v)
		}
	}
	if r.RemoteAddr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return normalizeIP(host)
}

// normalizeIP 去掉 IPv4 映射前缀
func normalizeIP(ip string) string {
	return strings.TrimPrefix(ip, "::ffff:")
}

// IsUsable 拒绝空值与 "unknown"
func IsUsable(id string) bool {
	id = strings.TrimSpace(id)
	return id != "" && id != Unknown
}
