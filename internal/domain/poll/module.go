package poll

import (
	"freedom_wall/internal/domain/poll/handler"
	"freedom_wall/internal/domain/poll/model"
	"freedom_wall/internal/domain/poll/repository"
	"freedom_wall/internal/domain/poll/service"
	"freedom_wall/internal/pkg/content"
	"freedom_wall/internal/pkg/middleware"
	"freedom_wall/internal/pkg/registry"
)

// PollModule 投票模块
type PollModule struct{}

func init() {
	registry.Register(&PollModule{})
}

func (m *PollModule) Name() string {
	return "poll"
}

func (m *PollModule) Priority() int {
	return 20
}

func (m *PollModule) Init(ctx *registry.ModuleContext) error {
	if ctx.AutoMigrate {
		if err := ctx.DB.AutoMigrate(&model.Poll{}); err != nil {
			return err
		}
	}

	cc := ctx.Config.Content
	pRepo := repository.NewPollRepository(ctx.DB)
	pService := service.NewPollService(pRepo, content.NewCleaner(ctx.Sanitizer, ctx.BannedWords), ctx.Notifier, service.Options{
		QuestionMax: cc.PostMaxLength,
		OptionMax:   cc.CommentMaxLength,
		NameMax:     cc.NameMaxLength,
		MinOptions:  cc.PollMinOptions,
		MaxOptions:  cc.PollMaxOptions,
		MultiSelect: cc.PollMultiSelect,
	})
	h := handler.NewPollHandler(pService)
	ctx.AddRescorer("polls", pService)

	g := ctx.API.Group("/polls")
	rl := ctx.RateLimit
	g.GET("", rl.Middleware(middleware.ClassRead, middleware.ReadKey), h.ListPolls)
	g.GET("/trending", rl.Middleware(middleware.ClassRead, middleware.ReadKey), h.Trending)
	g.POST("", rl.Middleware(middleware.ClassPost, middleware.PostKey), h.CreatePoll)
	g.POST("/:id/vote", rl.Middleware(middleware.ClassLike, middleware.LikeKey), h.Vote)
	g.GET("/:id/results", rl.Middleware(middleware.ClassRead, middleware.ReadKey), h.Results)

	admin := g.Group("")
	admin.Use(middleware.AdminMiddleware(ctx.Authorizer))
	{
		admin.GET("/admin", h.ListAdmin)
		admin.PUT("/:id/status", h.UpdateStatus)
		admin.DELETE("/:id", h.DeletePoll)
	}
	return nil
}
