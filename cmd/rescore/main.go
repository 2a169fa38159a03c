// rescore 按批重新计算帖子与投票的热度分，修复历史数据
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	pollRepo "freedom_wall/internal/domain/poll/repository"
	pollService "freedom_wall/internal/domain/poll/service"
	postRepo "freedom_wall/internal/domain/post/repository"
	postService "freedom_wall/internal/domain/post/service"
	"freedom_wall/internal/pkg/config"
	"freedom_wall/internal/pkg/content"
	"freedom_wall/pkg/database"
	"freedom_wall/pkg/logger"
	"freedom_wall/pkg/security"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()
	config.LoadConfig()
	cfg := config.GlobalConfig
	if err := logger.Init(cfg.App.Env, cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, _, err := database.Open(cfg.Database, false)
	if err != nil {
		logger.Log.Fatal("open database", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	// 重算只读写计数字段，不需要屏蔽词与通知
	cleaner := content.NewCleaner(security.NewSanitizer(security.SanitizerConfig{}), nil)
	posts := postService.NewPostService(postRepo.NewPostRepository(db), cleaner, nil, postService.Limits{})
	polls := pollService.NewPollService(pollRepo.NewPollRepository(db), cleaner, nil, pollService.Options{})

	start := time.Now()
	var fixedPosts, fixedPolls int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		fixedPosts, err = posts.Rescore(gctx)
		return err
	})
	g.Go(func() (err error) {
		fixedPolls, err = polls.Rescore(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Log.Fatal("rescore failed",
			zap.Int("posts", fixedPosts),
			zap.Int("polls", fixedPolls),
			zap.Error(err),
		)
	}

	logger.Log.Info("rescore finished",
		zap.Int("posts", fixedPosts),
		zap.Int("polls", fixedPolls),
		zap.Duration("elapsed", time.Since(start)),
	)
}
