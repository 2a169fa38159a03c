package chat

import (
	"freedom_wall/internal/domain/chat/handler"
	"freedom_wall/internal/domain/chat/model"
	"freedom_wall/internal/domain/chat/repository"
	"freedom_wall/internal/domain/chat/service"
	"freedom_wall/internal/pkg/content"
	"freedom_wall/internal/pkg/middleware"
	"freedom_wall/internal/pkg/registry"
)

// ChatModule 匿名聊天室模块
type ChatModule struct{}

func init() {
	registry.Register(&ChatModule{})
}

func (m *ChatModule) Name() string {
	return "chat"
}

func (m *ChatModule) Priority() int {
	return 30
}

func (m *ChatModule) Init(ctx *registry.ModuleContext) error {
	if ctx.AutoMigrate {
		if err := ctx.DB.AutoMigrate(&model.ChatMessage{}); err != nil {
			return err
		}
	}

	cc := ctx.Config.Content
	cRepo := repository.NewChatRepository(ctx.DB)
	cService := service.NewChatService(cRepo, content.NewCleaner(ctx.Sanitizer, ctx.BannedWords), cc.PenNameMaxLength, cc.ChatMaxLength)
	h := handler.NewChatHandler(cService, ctx.Hub)
	ctx.Hub.SetHandler(h.HandleSocket)

	read := ctx.RateLimit.Middleware(middleware.ClassRead, middleware.ReadKey)
	g := ctx.API.Group("/chat")
	g.POST("/check-penname", read, h.CheckPenName)
	g.GET("/history", read, h.History)
	g.GET("/online-count", h.OnlineCount)

	ctx.Router.GET("/ws", h.ServeWS)
	return nil
}
