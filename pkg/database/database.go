package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"freedom_wall/internal/pkg/config"
	"freedom_wall/pkg/logger"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dialect 数据库类型
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Open 根据 URL 前缀选择驱动：postgres:// 或 sqlite://
func Open(cfg config.DatabaseConfig, debug bool) (*gorm.DB, string, error) {
	dialector, dialect, err := dialectorFor(cfg.URL)
	if err != nil {
		return nil, "", err
	}

	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}

	// 配置 GORM
	gormConfig := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(level),
		PrepareStmt:                              dialect == DialectPostgres, // 预编译 SQL 缓存
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, "", fmt.Errorf("connect %s: %w", dialect, err)
	}

	// 获取底层 SQL DB 对象以配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, "", fmt.Errorf("get underlying sql.DB: %w", err)
	}
	configureConnectionPool(sqlDB, cfg, dialect)

	logger.Log.Info("database connection established", zap.String("dialect", dialect))
	return db, dialect, nil
}

func dialectorFor(url string) (gorm.Dialector, string, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		// pgx 直接接受 URL 形式的 DSN
		return postgres.Open(url), DialectPostgres, nil
	case strings.HasPrefix(url, "sqlite://"):
		dsn := strings.TrimPrefix(url, "sqlite://")
		return sqlite.Open(dsn), DialectSQLite, nil
	default:
		return nil, "", fmt.Errorf("invalid database url %q: must start with postgres:// or sqlite://", url)
	}
}

// configureConnectionPool 配置数据库连接池
func configureConnectionPool(sqlDB *sql.DB, cfg config.DatabaseConfig, dialect string) {
	if dialect == DialectSQLite {
		// SQLite 单写者，避免 database is locked
		sqlDB.SetMaxOpenConns(1)
		return
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 100
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = maxOpen / 10 // 推荐 MaxOpenConns 的 10%
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)
}

// OpenMemory 打开一个命名的内存 SQLite 库，多用于测试与本地演示
func OpenMemory(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}
