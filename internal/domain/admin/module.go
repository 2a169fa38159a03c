package admin

import (
	"freedom_wall/internal/domain/admin/handler"
	"freedom_wall/internal/domain/admin/repository"
	"freedom_wall/internal/domain/admin/service"
	"freedom_wall/internal/pkg/middleware"
	"freedom_wall/internal/pkg/registry"

	"github.com/jmoiron/sqlx"
)

// AdminModule 管理员登录与后台统计
// 优先级最低，依赖其他模块注册的重算器
type AdminModule struct{}

func init() {
	registry.Register(&AdminModule{})
}

func (m *AdminModule) Name() string {
	return "admin"
}

func (m *AdminModule) Priority() int {
	return 90
}

func (m *AdminModule) Init(ctx *registry.ModuleContext) error {
	sqlDB, err := ctx.DB.DB()
	if err != nil {
		return err
	}
	statsRepo := repository.NewStatsRepository(sqlx.NewDb(sqlDB, ctx.DB.Dialector.Name()))

	rescorers := make(map[string]service.Rescorer, len(ctx.Rescorers))
	for name, r := range ctx.Rescorers {
		rescorers[name] = r
	}

	var online service.OnlineCounter
	if ctx.Hub != nil {
		online = ctx.Hub
	}
	aService := service.NewAdminService(ctx.Authorizer, ctx.Tokens, statsRepo, online, rescorers)

	var sessions handler.SessionStore
	if ctx.Sessions != nil {
		sessions = ctx.Sessions
	}
	h := handler.NewAdminHandler(aService, sessions)

	g := ctx.API.Group("/admin")
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)

	protected := g.Group("")
	protected.Use(middleware.AdminMiddleware(ctx.Authorizer))
	{
		protected.GET("/stats", h.Stats)
		protected.POST("/rescore", h.Rescore)
	}
	return nil
}
