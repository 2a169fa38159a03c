package common

import (
	"context"

	commonHandler "freedom_wall/internal/pkg/common"
	"freedom_wall/internal/pkg/registry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// CommonModule 通用功能模块
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	checks := map[string]commonHandler.Pinger{}
	if sqlDB, err := ctx.DB.DB(); err == nil {
		checks["database"] = sqlDB
	}
	if ctx.Redis != nil {
		rdb := ctx.Redis
		checks["redis"] = commonHandler.PingFunc(func(c context.Context) error {
			return rdb.Ping(c).Err()
		})
	}
	health := commonHandler.NewHealthHandler(checks)

	var clients commonHandler.ClientCounter
	if ctx.Hub != nil {
		clients = ctx.Hub
	}
	notifications := commonHandler.NewNotificationHandler(clients, ctx.Notifier)

	setupRoutes(ctx, health, notifications)
	return nil
}

func setupRoutes(ctx *registry.ModuleContext, health *commonHandler.HealthHandler, notifications *commonHandler.NotificationHandler) {
	r := ctx.Router
	r.GET("/health", health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	ctx.API.GET("/health", health.Health)
	ctx.API.GET("/notifications/check", notifications.Check)
}
