package bannedword

import (
	"time"

	"freedom_wall/internal/domain/bannedword/handler"
	"freedom_wall/internal/domain/bannedword/model"
	"freedom_wall/internal/domain/bannedword/repository"
	"freedom_wall/internal/domain/bannedword/service"
	"freedom_wall/internal/pkg/middleware"
	"freedom_wall/internal/pkg/registry"
)

// BannedWordModule 屏蔽词模块，需先于所有写入内容的模块初始化
type BannedWordModule struct{}

func init() {
	registry.Register(&BannedWordModule{})
}

func (m *BannedWordModule) Name() string {
	return "bannedword"
}

func (m *BannedWordModule) Priority() int {
	return 10
}

func (m *BannedWordModule) Init(ctx *registry.ModuleContext) error {
	if ctx.AutoMigrate {
		if err := ctx.DB.AutoMigrate(&model.BannedWord{}); err != nil {
			return err
		}
	}

	ttl := time.Duration(ctx.Config.Content.BannedWordsTTLSec) * time.Second
	bwRepo := repository.NewBannedWordRepository(ctx.DB)
	bwService := service.NewBannedWordService(bwRepo, ctx.Cache, ttl)
	ctx.BannedWords = bwService

	h := handler.NewBannedWordHandler(bwService)
	g := ctx.API.Group("/banned-words")
	g.GET("", h.ActiveWords)

	admin := g.Group("")
	admin.Use(middleware.AdminMiddleware(ctx.Authorizer))
	{
		admin.GET("/admin", h.List)
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
	return nil
}
