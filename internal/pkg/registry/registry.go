package registry

import (
	"context"
	"fmt"
	"sort"

	"freedom_wall/internal/pkg/config"
	"freedom_wall/internal/pkg/identity"
	"freedom_wall/internal/pkg/middleware"
	"freedom_wall/internal/pkg/notify"
	"freedom_wall/internal/pkg/realtime"
	"freedom_wall/pkg/cache"
	"freedom_wall/pkg/security"
	"freedom_wall/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// WordSource 当前生效的屏蔽词，由 bannedword 模块提供
type WordSource interface {
	ActiveWords(ctx context.Context) ([]string, error)
}

// Rescorer 按批重新计算已存储的热度分，返回修正条数
type Rescorer interface {
	Rescore(ctx context.Context) (int, error)
}

// ModuleContext 模块初始化所需的上下文
type ModuleContext struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Router *gin.Engine
	// API 挂载在 /api/v1 下的路由组
	API *gin.RouterGroup
	// AutoMigrate 为 true 时模块在初始化时自行建表（SQLite 部署）
	AutoMigrate bool

	Cache      cache.CacheService
	Sanitizer  *security.Sanitizer
	Authorizer security.Authorizer
	Tokens     *utils.TokenIssuer
	Sessions   *identity.SessionManager
	RateLimit  *middleware.RateLimit
	Hub        *realtime.Hub
	Notifier   *notify.Notifier

	// BannedWords 由优先级更高的 bannedword 模块注入
	BannedWords WordSource
	// Rescorers 由 post、poll 模块注册，admin 模块使用
	Rescorers map[string]Rescorer
}

// AddRescorer 注册热度重算器
func (c *ModuleContext) AddRescorer(name string, r Rescorer) {
	if c.Rescorers == nil {
		c.Rescorers = make(map[string]Rescorer)
	}
	c.Rescorers[name] = r
}

// Module 模块接口
type Module interface {
	// Name 返回模块名称
	Name() string

	// Init 初始化模块（依赖注入、路由注册等）
	Init(ctx *ModuleContext) error

	// Priority 返回初始化优先级（数字越小越先初始化）
	// 例如：bannedword 需要先于 post 初始化
	Priority() int
}

// moduleRegistry 全局模块注册表
var moduleRegistry = make(map[string]Module)

// Register 注册模块
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

// GetModules 获取所有已注册的模块
func GetModules() map[string]Module {
	return moduleRegistry
}

// sortedModules 按优先级排序，优先级相同时按名称排序
func sortedModules() []Module {
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Priority() != modules[j].Priority() {
			return modules[i].Priority() < modules[j].Priority()
		}
		return modules[i].Name() < modules[j].Name()
	})
	return modules
}

// InitModules 按优先级初始化所有模块
func InitModules(ctx *ModuleContext) error {
	for _, module := range sortedModules() {
		if err := module.Init(ctx); err != nil {
			return fmt.Errorf("init module %s: %w", module.Name(), err)
		}
	}
	return nil
}
