package security

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrUnknownClass 未配置的动作类别，调用方应按拒绝处理
var ErrUnknownClass = errors.New("rate limit class not configured")

// Limit 单个动作类别的滑动窗口配置
type Limit struct {
	Max    int
	Window time.Duration
}

// Decision 一次限流判定结果
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter int // 秒，仅在拒绝时有意义
	ResetAt    time.Time
}

// RateLimiter 限流器接口
// 每个 (class, key) 组合拥有独立的窗口
type RateLimiter interface {
	Allow(ctx context.Context, class, key string) (Decision, error)
}

// retryAfterSeconds ceil((window - (now - oldest)) / 1s)，至少 1 秒
func retryAfterSeconds(window, elapsed time.Duration) int {
	remaining := window - elapsed
	secs := int((remaining + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

type windowEntry struct {
	hits     []time.Time
	lastSeen time.Time
}

// SlidingWindow 进程内滑动窗口限流器
type SlidingWindow struct {
	mu      sync.Mutex
	limits  map[string]Limit
	entries map[string]*windowEntry
	now     func() time.Time
}

// NewSlidingWindow 创建内存限流器
func NewSlidingWindow(limits map[string]Limit) *SlidingWindow {
	return &SlidingWindow{
		limits:  limits,
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

// Allow 判定并记录一次请求
func (sw *SlidingWindow) Allow(_ context.Context, class, key string) (Decision, error) {
	limit, ok := sw.limits[class]
	if !ok || limit.Max <= 0 {
		return Decision{}, fmt.Errorf("%w: %s", ErrUnknownClass, class)
	}

	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := sw.now()
	id := class + "|" + key
	e, ok := sw.entries[id]
	if !ok {
		e = &windowEntry{}
		sw.entries[id] = e
	}
	e.lastSeen = now

	// 丢弃窗口外的时间戳
	kept := e.hits[:0]
	for _, ts := range e.hits {
		if now.Sub(ts) < limit.Window {
			kept = append(kept, ts)
		}
	}
	e.hits = kept

	if len(e.hits) >= limit.Max {
		oldest := e.hits[0]
		return Decision{
			Allowed:    false,
			Limit:      limit.Max,
			Remaining:  0,
			RetryAfter: retryAfterSeconds(limit.Window, now.Sub(oldest)),
			ResetAt:    oldest.Add(limit.Window),
		}, nil
	}

	e.hits = append(e.hits, now)
	return Decision{
		Allowed:   true,
		Limit:     limit.Max,
		Remaining: limit.Max - len(e.hits),
		ResetAt:   e.hits[0].Add(limit.Window),
	}, nil
}

// Sweep 清理超过 idle 未访问的 key，返回清理数量
func (sw *SlidingWindow) Sweep(idle time.Duration) int {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := sw.now()
	removed := 0
	for id, e := range sw.entries {
		if now.Sub(e.lastSeen) >= idle {
			delete(sw.entries, id)
			removed++
		}
	}
	return removed
}

// Len 当前跟踪的 key 数量
func (sw *SlidingWindow) Len() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return len(sw.entries)
}

// StartJanitor 定期清理空闲 key，ctx 取消后退出
func (sw *SlidingWindow) StartJanitor(ctx context.Context, interval, idle time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sw.Sweep(idle)
			}
		}
	}()
}

// slidingScript 基于 ZSET 的滑动窗口，所有时间单位为毫秒
// 返回 {allowed, count, oldest}
var slidingScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local member = ARGV[4]

	redis.call("ZREMRANGEBYSCORE", key, "-inf", now - window)
	local count = redis.call("ZCARD", key)
	local allowed = 0
	if count < limit then
		redis.call("ZADD", key, now, member)
		redis.call("PEXPIRE", key, window)
		count = count + 1
		allowed = 1
	end

	local oldest = redis.call("ZRANGE", key, 0, 0, "WITHSCORES")
	local oldestScore = now
	if oldest[2] then
		oldestScore = tonumber(oldest[2])
	end
	return {allowed, count, oldestScore}
`)

// RedisSlidingWindow 多实例共享的滑动窗口限流器
type RedisSlidingWindow struct {
	rdb    *redis.Client
	limits map[string]Limit
	prefix string
	now    func() time.Time
}

// NewRedisSlidingWindow 创建 Redis 限流器
func NewRedisSlidingWindow(rdb *redis.Client, limits map[string]Limit) *RedisSlidingWindow {
	return &RedisSlidingWindow{
		rdb:    rdb,
		limits: limits,
		prefix: "freedomwall:rl:",
		now:    time.Now,
	}
}

// Allow 判定并记录一次请求
func (r *RedisSlidingWindow) Allow(ctx context.Context, class, key string) (Decision, error) {
	limit, ok := r.limits[class]
	if !ok || limit.Max <= 0 {
		return Decision{}, fmt.Errorf("%w: %s", ErrUnknownClass, class)
	}

	now := r.now()
	nowMs := now.UnixMilli()
	windowMs := limit.Window.Milliseconds()
	member := fmt.Sprintf("%d-%s", nowMs, uuid.NewString())

	res, err := slidingScript.Run(ctx, r.rdb, []string{r.prefix + class + ":" + key},
		nowMs, windowMs, limit.Max, member).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("redis error: %v", err)
	}
	if len(res) != 3 {
		return Decision{}, fmt.Errorf("unexpected rate limit script reply: %v", res)
	}

	oldest := time.UnixMilli(res[2])
	d := Decision{
		Allowed: res[0] == 1,
		Limit:   limit.Max,
		ResetAt: oldest.Add(limit.Window),
	}
	if d.Allowed {
		d.Remaining = limit.Max - int(res[1])
	} else {
		d.RetryAfter = retryAfterSeconds(limit.Window, now.Sub(oldest))
	}
	return d, nil
}
