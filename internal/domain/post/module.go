package post

import (
	"freedom_wall/internal/domain/post/handler"
	"freedom_wall/internal/domain/post/model"
	"freedom_wall/internal/domain/post/repository"
	"freedom_wall/internal/domain/post/service"
	"freedom_wall/internal/pkg/content"
	"freedom_wall/internal/pkg/middleware"
	"freedom_wall/internal/pkg/registry"
)

// PostModule 帖子模块
type PostModule struct{}

func init() {
	registry.Register(&PostModule{})
}

func (m *PostModule) Name() string {
	return "post"
}

func (m *PostModule) Priority() int {
	return 20
}

func (m *PostModule) Init(ctx *registry.ModuleContext) error {
	if ctx.AutoMigrate {
		if err := ctx.DB.AutoMigrate(&model.Post{}); err != nil {
			return err
		}
	}

	// 1. 依赖注入
	cc := ctx.Config.Content
	pRepo := repository.NewPostRepository(ctx.DB)
	pService := service.NewPostService(pRepo, content.NewCleaner(ctx.Sanitizer, ctx.BannedWords), ctx.Notifier, service.Limits{
		NameMax:     cc.NameMaxLength,
		MessageMax:  cc.PostMaxLength,
		CommentMax:  cc.CommentMaxLength,
		ReasonMax:   cc.ReasonMaxLength,
		DeviceCheck: cc.DeviceLikeCheck,
	})
	pHandler := handler.NewPostHandler(pService)
	ctx.AddRescorer("posts", pService)

	// 2. 路由注册
	setupRoutes(ctx, pHandler)

	return nil
}

func setupRoutes(ctx *registry.ModuleContext, h *handler.PostHandler) {
	g := ctx.API.Group("/posts")
	rl := ctx.RateLimit

	// Public
	g.GET("", rl.Middleware(middleware.ClassRead, middleware.ReadKey), h.ListPosts)
	g.POST("", rl.Middleware(middleware.ClassPost, middleware.PostKey), h.CreatePost)
	g.POST("/:id/like", rl.Middleware(middleware.ClassLike, middleware.LikeKey), h.ToggleLike)
	g.POST("/:id/comment", rl.Middleware(middleware.ClassComment, middleware.CommentKey), h.AddComment)
	g.POST("/:id/comments/:commentIndex/react", rl.Middleware(middleware.ClassLike, middleware.LikeKey), h.ReactToComment)
	g.POST("/:id/report", rl.Middleware(middleware.ClassReport, middleware.ReportKey), h.ReportPost)

	// Admin
	admin := g.Group("")
	admin.Use(middleware.AdminMiddleware(ctx.Authorizer))
	{
		admin.GET("/admin", h.ListAdmin)
		admin.POST("/:id/moderate", h.ModeratePost)
		admin.PUT("/:id/status", h.UpdateStatus)
		admin.DELETE("/:id", h.DeletePost)
		admin.DELETE("/:id/comment/:commentIndex", h.DeleteComment)
	}
}
