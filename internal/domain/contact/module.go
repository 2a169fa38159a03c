package contact

import (
	"freedom_wall/internal/domain/contact/handler"
	"freedom_wall/internal/domain/contact/model"
	"freedom_wall/internal/domain/contact/repository"
	"freedom_wall/internal/domain/contact/service"
	"freedom_wall/internal/pkg/middleware"
	"freedom_wall/internal/pkg/registry"
)

// ContactModule 联系表单模块
type ContactModule struct{}

func init() {
	registry.Register(&ContactModule{})
}

func (m *ContactModule) Name() string {
	return "contact"
}

func (m *ContactModule) Priority() int {
	return 30
}

func (m *ContactModule) Init(ctx *registry.ModuleContext) error {
	if ctx.AutoMigrate {
		if err := ctx.DB.AutoMigrate(&model.Contact{}); err != nil {
			return err
		}
	}

	cRepo := repository.NewContactRepository(ctx.DB)
	cService := service.NewContactService(cRepo, ctx.Sanitizer)
	h := handler.NewContactHandler(cService)

	g := ctx.API.Group("/contact")
	g.POST("", ctx.RateLimit.Middleware(middleware.ClassContact, middleware.ContactKey), h.Submit)

	admin := g.Group("")
	admin.Use(middleware.AdminMiddleware(ctx.Authorizer))
	{
		admin.GET("/admin", h.List)
		admin.PUT("/:id/status", h.UpdateStatus)
		admin.DELETE("/:id", h.Delete)
	}
	return nil
}
