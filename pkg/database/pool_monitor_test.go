package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeStats struct {
	stats sql.DBStats
}

func (f *fakeStats) Stats() sql.DBStats { return f.stats }

func TestPoolMonitorCollect(t *testing.T) {
	src := &fakeStats{stats: sql.DBStats{OpenConnections: 3, InUse: 2, Idle: 1, WaitDuration: time.Second}}
	pm := NewPoolMonitor(src, PoolMonitorConfig{})
	assert.Equal(t, 15*time.Second, pm.cfg.Interval)

	got := pm.Collect()
	assert.Equal(t, 2, got.InUse)
	assert.Equal(t, time.Second, pm.lastWait)

	src.stats.WaitDuration = 10 * time.Second
	pm.Collect()
	assert.Equal(t, 10*time.Second, pm.lastWait)
}

func TestPoolMonitorWithSQLite(t *testing.T) {
	db, err := OpenMemory("pool_monitor")
	if !assert.NoError(t, err) {
		return
	}
	sqlDB, err := db.DB()
	assert.NoError(t, err)
	defer sqlDB.Close()

	stats := NewPoolMonitor(sqlDB, PoolMonitorConfig{Interval: time.Minute}).Collect()
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
}
