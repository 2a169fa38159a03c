package announcement

import (
	"freedom_wall/internal/domain/announcement/handler"
	"freedom_wall/internal/domain/announcement/model"
	"freedom_wall/internal/domain/announcement/repository"
	"freedom_wall/internal/domain/announcement/service"
	"freedom_wall/internal/pkg/middleware"
	"freedom_wall/internal/pkg/registry"
)

// AnnouncementModule 公告模块
type AnnouncementModule struct{}

func init() {
	registry.Register(&AnnouncementModule{})
}

func (m *AnnouncementModule) Name() string {
	return "announcement"
}

func (m *AnnouncementModule) Priority() int {
	return 30
}

func (m *AnnouncementModule) Init(ctx *registry.ModuleContext) error {
	if ctx.AutoMigrate {
		if err := ctx.DB.AutoMigrate(&model.Announcement{}); err != nil {
			return err
		}
	}

	aRepo := repository.NewAnnouncementRepository(ctx.DB)
	aService := service.NewAnnouncementService(aRepo, ctx.Sanitizer, ctx.Notifier, ctx.Config.Content.PostMaxLength)
	h := handler.NewAnnouncementHandler(aService)

	g := ctx.API.Group("/announcements")
	g.GET("", ctx.RateLimit.Middleware(middleware.ClassRead, middleware.ReadKey), h.ListVisible)

	admin := g.Group("")
	admin.Use(middleware.AdminMiddleware(ctx.Authorizer))
	{
		admin.GET("/admin", h.ListAll)
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
	return nil
}
