package database

import (
	"context"
	"database/sql"
	"time"

	"freedom_wall/pkg/logger"
	"freedom_wall/pkg/metrics"

	"go.uber.org/zap"
)

// StatsSource *sql.DB 满足该接口
type StatsSource interface {
	Stats() sql.DBStats
}

// PoolMonitorConfig 连接池监控配置
type PoolMonitorConfig struct {
	Interval time.Duration
	// WaitAlert 两次采样之间累计等待超过该值时告警
	WaitAlert time.Duration
}

// PoolMonitor 定期把连接池与运行时指标写入 prometheus
type PoolMonitor struct {
	db       StatsSource
	cfg      PoolMonitorConfig
	lastWait time.Duration
}

func NewPoolMonitor(db StatsSource, cfg PoolMonitorConfig) *PoolMonitor {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Second
	}
	if cfg.WaitAlert <= 0 {
		cfg.WaitAlert = 5 * time.Second
	}
	return &PoolMonitor{db: db, cfg: cfg}
}

// Start 后台采样，ctx 取消后退出
func (pm *PoolMonitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(pm.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pm.Collect()
			}
		}
	}()
}

// Collect 采样一次，返回本次快照
func (pm *PoolMonitor) Collect() sql.DBStats {
	stats := pm.db.Stats()

	c := metrics.GetGlobalCollector()
	c.UpdateDBConnections(stats.InUse, stats.Idle)
	c.UpdateSystemMetrics()

	waited := stats.WaitDuration - pm.lastWait
	pm.lastWait = stats.WaitDuration
	if waited > pm.cfg.WaitAlert {
		logger.Log.Warn("database pool saturated",
			zap.Int("open", stats.OpenConnections),
			zap.Int("in_use", stats.InUse),
			zap.Int("max_open", stats.MaxOpenConnections),
			zap.Duration("waited", waited),
		)
	}
	return stats
}
