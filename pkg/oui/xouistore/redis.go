package xouistore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis 哈希字段
const (
	redisFieldText      = "text"
	redisFieldUpdatedAt = "updated_at"

	// DefaultRedisKey 是默认的缓存键。
	DefaultRedisKey = "xoui:registry"
)

// RedisCache 把快照保存在 Redis 哈希中，多个进程共享同一份注册表。
//
// 文本与更新时间（unix 纳秒）在同一个 MULTI/EXEC 中写入，读方不会看到不一致的组合。
type RedisCache struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
	now    func() time.Time
}

// RedisOption 配置 [RedisCache]。
type RedisOption func(*RedisCache)

// WithRedisTTL 为缓存键设置过期时间，0 表示不过期。
func WithRedisTTL(d time.Duration) RedisOption {
	return func(c *RedisCache) { c.ttl = d }
}

// WithRedisClock 设置时钟，用于测试。
func WithRedisClock(now func() time.Time) RedisOption {
	return func(c *RedisCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewRedisCache 创建 Redis 缓存。key 为空时使用 [DefaultRedisKey]。
func NewRedisCache(client redis.UniversalClient, key string, opts ...RedisOption) (*RedisCache, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if key == "" {
		key = DefaultRedisKey
	}
	c := &RedisCache{client: client, key: key, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Key 返回缓存键。
func (c *RedisCache) Key() string { return c.key }

// Read 读取哈希中的文本字段，键不存在或文本为空时返回 [ErrEmptyCache]。
func (c *RedisCache) Read(ctx context.Context) (string, error) {
	text, err := c.client.HGet(ctx, c.key, redisFieldText).Result()
	if errors.Is(err, redis.Nil) || (err == nil && text == "") {
		return "", ErrEmptyCache
	}
	if err != nil {
		return "", fmt.Errorf("xouistore: redis hget %s: %w", c.key, err)
	}
	return text, nil
}

// Write 在一个事务内写入文本与纳秒时间戳，并按配置设置过期时间。
func (c *RedisCache) Write(ctx context.Context, text string) error {
	prev, err := c.Timestamp(ctx)
	if err != nil {
		return err
	}
	now := c.now()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, c.key,
			redisFieldText, text,
			redisFieldUpdatedAt, strconv.FormatInt(now.UnixNano(), 10))
		if c.ttl > 0 {
			pipe.Expire(ctx, c.key, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("xouistore: redis write %s: %w", c.key, err)
	}
	return nil
}

// Timestamp 返回写入时记录的时间，键不存在时为零值。
func (c *RedisCache) Timestamp(ctx context.Context) (time.Time, error) {
	raw, err := c.client.HGet(ctx, c.key, redisFieldUpdatedAt).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("xouistore: redis hget %s: %w", c.key, err)
	}
	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad %s %q", ErrInvalidCache, redisFieldUpdatedAt, raw)
	}
	return time.Unix(0, nanos), nil
}
