package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"freedom_wall/pkg/metrics"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("cache miss")

// CacheService 缓存服务接口
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// RedisCache Redis 缓存实现
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache 创建 Redis 缓存服务
func NewRedisCache(client *redis.Client, prefix string) CacheService {
	if prefix == "" {
		prefix = "freedomwall:"
	}
	return &RedisCache{
		client: client,
		prefix: prefix,
	}
}

// getKey 获取完整的缓存键
func (c *RedisCache) getKey(key string) string {
	return c.prefix + key
}

// Get 获取缓存
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	start := time.Now()
	val, err := c.client.Get(ctx, c.getKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			record("get", "redis", key, start, false)
			return ErrCacheMiss
		}
		return fmt.Errorf("cache get error: %w", err)
	}
	record("get", "redis", key, start, true)

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}
	return nil
}

// Set 设置缓存
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.client.Set(ctx, c.getKey(key), data, expiration).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

// Delete 删除缓存
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.getKey(key)).Err()
}

// Exists 检查缓存是否存在
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	result, err := c.client.Exists(ctx, c.getKey(key)).Result()
	return result > 0, err
}

// MemoryCache 进程内缓存，基于带过期时间的 LRU
// 单条 expiration 只能比 LRU 的全局 TTL 更短，更长的按全局 TTL 处理
type MemoryCache struct {
	lru *expirable.LRU[string, memoryItem]
	now func() time.Time
}

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache 创建内存缓存
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		lru: expirable.NewLRU[string, memoryItem](size, nil, ttl),
		now: time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	start := time.Now()
	item, ok := c.lru.Get(key)
	if !ok || (!item.expiresAt.IsZero() && c.now().After(item.expiresAt)) {
		if ok {
			c.lru.Remove(key)
		}
		record("get", "memory", key, start, false)
		return ErrCacheMiss
	}
	record("get", "memory", key, start, true)
	return json.Unmarshal(item.data, dest)
}

func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	item := memoryItem{data: data}
	if expiration > 0 {
		item.expiresAt = c.now().Add(expiration)
	}
	c.lru.Add(key, item)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	item, ok := c.lru.Peek(key)
	if !ok {
		return false, nil
	}
	return item.expiresAt.IsZero() || !c.now().After(item.expiresAt), nil
}

func record(op, cacheType, key string, start time.Time, hit bool) {
	metrics.GetGlobalCollector().RecordCacheOperation(op, cacheType, keyPrefix(key), time.Since(start), hit)
}

// keyPrefix 取冒号前的部分作为指标标签，避免标签基数过高
func keyPrefix(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return key
}
