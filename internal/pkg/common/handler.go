package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger 健康检查依赖，*sql.DB 满足该接口
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc 适配函数形式的检查（如 redis）
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthHandler 健康检查
type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
	started time.Time
}

// NewHealthHandler checks 中 nil 值会被忽略
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	h := &HealthHandler{
		checks:  make(map[string]Pinger, len(checks)),
		timeout: 2 * time.Second,
		started: time.Now(),
	}
	for name, p := range checks {
		if p != nil {
			h.checks[name] = p
		}
	}
	return h
}

// Health 健康检查
// @Summary 健康检查
// @Tags Common
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, p := range h.checks {
		if err := p.PingContext(ctx); err != nil {
			deps[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{
		"status":       state,
		"dependencies": deps,
		"uptime":       time.Since(h.started).Round(time.Second).String(),
		"timestamp":    time.Now().UTC(),
	})
}

// ClientCounter websocket 在线连接数
type ClientCounter interface {
	ClientCount() int
}

// PublisherLister 当前启用的通知通道
type PublisherLister interface {
	Publishers() []string
}

// NotificationHandler 通知通道状态
type NotificationHandler struct {
	clients    ClientCounter
	publishers PublisherLister
}

func NewNotificationHandler(clients ClientCounter, publishers PublisherLister) *NotificationHandler {
	return &NotificationHandler{clients: clients, publishers: publishers}
}

// Check 通知通道状态，客户端据此判断是否需要轮询
// @Summary 通知状态
// @Tags Common
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /notifications/check [get]
func (h *NotificationHandler) Check(c *gin.Context) {
	connected := 0
	if h.clients != nil {
		connected = h.clients.ClientCount()
	}
	var publishers []string
	if h.publishers != nil {
		publishers = h.publishers.Publishers()
	}
	if publishers == nil {
		publishers = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"hasUpdates":       false,
		"realtime":         len(publishers) > 0,
		"publishers":       publishers,
		"connectedClients": connected,
		"timestamp":        time.Now().UTC(),
	})
}
