package middleware

import (
	"net/http"
	"strings"
	"time"

	"freedom_wall/internal/pkg/config"
	"freedom_wall/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// devOrigins 本地开发前端
var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://localhost:3002",
	"http://localhost:5173",
}

const vercelSuffix = ".vercel.app"

// OriginPolicy 跨域白名单：固定列表 + FRONTEND_URL + 可选 *.vercel.app
type OriginPolicy struct {
	exact       map[string]struct{}
	allowVercel bool
}

func NewOriginPolicy(cfg config.CORSConfig) *OriginPolicy {
	p := &OriginPolicy{
		exact:       make(map[string]struct{}),
		allowVercel: cfg.AllowVercel,
	}
	for _, o := range devOrigins {
		p.exact[o] = struct{}{}
	}
	for _, o := range cfg.AllowedOrigins {
		p.exact[strings.TrimRight(o, "/")] = struct{}{}
	}
	if cfg.FrontendURL != "" {
		p.exact[strings.TrimRight(cfg.FrontendURL, "/")] = struct{}{}
	}
	return p
}

// Allowed 空 origin（curl、移动端）直接放行
func (p *OriginPolicy) Allowed(origin string) bool {
	if origin == "" {
		return true
	}
	if _, ok := p.exact[origin]; ok {
		return true
	}
	if p.allowVercel && strings.HasPrefix(origin, "https://") && strings.HasSuffix(origin, vercelSuffix) {
		return true
	}
	logger.Log.Debug("CORS blocked origin", zap.String("origin", origin))
	return false
}

// CheckOrigin 供 websocket 升级使用
func (p *OriginPolicy) CheckOrigin(r *http.Request) bool {
	return p.Allowed(r.Header.Get("Origin"))
}

// CORSMiddleware 允许携带 cookie，放行调用方与管理员标识头
func CORSMiddleware(p *OriginPolicy) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc: p.Allowed,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"user-id", "x-user-id", "admin-key", "x-admin-key",
		},
		ExposeHeaders: []string{
			"Content-Length", "X-Request-ID", "Retry-After",
			"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
