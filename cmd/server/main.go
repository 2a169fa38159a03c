// @title Freedom Wall API
// @version 1.0
// @description Anonymous message wall with comments, polls, moderation and a realtime chat room.
// @BasePath /api/v1
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "freedom_wall/docs"
	_ "freedom_wall/internal/domain/admin"
	_ "freedom_wall/internal/domain/announcement"
	_ "freedom_wall/internal/domain/bannedword"
	_ "freedom_wall/internal/domain/chat"
	_ "freedom_wall/internal/domain/common"
	_ "freedom_wall/internal/domain/contact"
	_ "freedom_wall/internal/domain/poll"
	_ "freedom_wall/internal/domain/post"
	"freedom_wall/internal/pkg/config"
	"freedom_wall/internal/pkg/identity"
	"freedom_wall/internal/pkg/middleware"
	"freedom_wall/internal/pkg/notify"
	"freedom_wall/internal/pkg/realtime"
	"freedom_wall/internal/pkg/registry"
	"freedom_wall/pkg/cache"
	"freedom_wall/pkg/database"
	"freedom_wall/pkg/logger"
	"freedom_wall/pkg/security"
	"freedom_wall/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// maxRequestBody 请求体上限 1MB
const maxRequestBody = 1 << 20

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg, err := config.Load("./configs", ".")
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := logger.Init(cfg.App.Env, cfg.Log.Level); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &cfg); err != nil {
		logger.Log.Fatal("server exited with error", zap.Error(err))
	}
	logger.Log.Info("Server exiting")
}

func run(ctx context.Context, cfg *config.Config) error {
	// 1. 存储
	db, dialect, err := database.Open(cfg.Database, !cfg.IsProduction())
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	database.NewPoolMonitor(sqlDB, database.PoolMonitorConfig{}).Start(ctx)

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		if rdb, err = database.InitRedis(cfg.Redis); err != nil {
			return err
		}
		defer rdb.Close()
	}

	var store cache.CacheService
	if rdb != nil {
		store = cache.NewRedisCache(rdb, "freedomwall")
	} else {
		store = cache.NewMemoryCache(1024, time.Duration(cfg.Content.BannedWordsTTLSec)*time.Second)
	}

	// 2. 安全组件
	tokens := utils.NewTokenIssuer(cfg.Admin.JWTSecret, time.Duration(cfg.Admin.TokenTTLHours)*time.Hour)
	authorizer := security.NewAdminAuthorizer(cfg.Admin.Key, tokens)
	sessions := identity.NewSessionManager(cfg.Session, cfg.IsProduction())
	limiter := newLimiter(ctx, cfg, rdb)
	origins := middleware.NewOriginPolicy(cfg.CORS)

	// 3. 实时推送与通知
	hub := realtime.NewHub(realtime.Options{
		MessagesPerSecond: cfg.Chat.MessagesPerSecond,
		Burst:             cfg.Chat.Burst,
		CheckOrigin:       origins.CheckOrigin,
	})
	go hub.Run(ctx)

	publishers := []notify.Publisher{notify.NewHubPublisher(hub)}
	if cfg.Kafka.Enabled {
		kp := notify.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kp.Close()
		publishers = append(publishers, kp)
	}
	notifier := notify.NewNotifier(notify.PoolConfig{
		Workers:   cfg.Worker.Workers,
		QueueSize: cfg.Worker.QueueSize,
		MaxRetry:  cfg.Worker.MaxRetry,
	}, publishers...)
	notifier.Start(ctx)
	defer notifier.Stop()

	// 4. 路由与模块
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(
		middleware.RecoveryMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.MetricsMiddleware(),
		middleware.CORSMiddleware(origins),
		security.SecurityHeaders(security.DefaultHeadersConfig()),
		security.RequestSizeLimit(maxRequestBody),
		middleware.SessionMiddleware(sessions),
	)

	err = registry.InitModules(&registry.ModuleContext{
		Config:      cfg,
		DB:          db,
		Redis:       rdb,
		Router:      r,
		API:         r.Group("/api/v1"),
		AutoMigrate: dialect == database.DialectSQLite || cfg.Database.AutoMigrate,
		Cache:       store,
		Sanitizer: security.NewSanitizer(security.SanitizerConfig{
			EscapeHTML: cfg.Content.EscapeHTML,
			SlurMask:   cfg.Content.SlurMask,
		}),
		Authorizer: authorizer,
		Tokens:     tokens,
		Sessions:   sessions,
		RateLimit:  middleware.NewRateLimit(limiter, authorizer),
		Hub:        hub,
		Notifier:   notifier,
	})
	if err != nil {
		return err
	}

	// 5. 启动并优雅退出
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server listening",
			zap.String("port", cfg.Server.Port),
			zap.String("database", dialect),
			zap.Bool("redis", rdb != nil),
			zap.Strings("publishers", notifier.Publishers()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// newLimiter 按配置选择内存或 Redis 滑动窗口
func newLimiter(ctx context.Context, cfg *config.Config, rdb *redis.Client) security.RateLimiter {
	limits := make(map[string]security.Limit, len(cfg.RateLimit.Classes))
	for class, cl := range cfg.RateLimit.Classes {
		limits[class] = security.Limit{Max: cl.Limit, Window: cl.Window}
	}

	if cfg.RateLimit.Backend == "redis" && rdb != nil {
		return security.NewRedisSlidingWindow(rdb, limits)
	}
	sw := security.NewSlidingWindow(limits)
	sw.StartJanitor(ctx, cfg.RateLimit.SweepInterval, cfg.RateLimit.IdleTTL)
	return sw
}
