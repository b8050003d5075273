package xouistore

import (
	"context"
	"sync"
	"time"
)

// CallbackCache 把快照的读写委托给调用方提供的函数，
// 适合把注册表文本存放在数据库、对象存储等外部系统。
type CallbackCache struct {
	read      func(ctx context.Context) (string, error)
	write     func(ctx context.Context, text string) error
	timestamp func(ctx context.Context) (time.Time, error)

	mu        sync.Mutex
	lastWrite time.Time
	now       func() time.Time
}

// CallbackOption 配置 [CallbackCache]。
type CallbackOption func(*CallbackCache)

// WithTimestampFunc 由外部提供快照时间戳。
// 未设置时，时间戳为通过本缓存最近一次成功 Write 的时间。
func WithTimestampFunc(fn func(ctx context.Context) (time.Time, error)) CallbackOption {
	return func(c *CallbackCache) { c.timestamp = fn }
}

// WithCallbackClock 设置时钟，用于测试。
func WithCallbackClock(now func() time.Time) CallbackOption {
	return func(c *CallbackCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCallbackCache 创建回调缓存，read 与 write 均不能为 nil。
func NewCallbackCache(
	read func(ctx context.Context) (string, error),
	write func(ctx context.Context, text string) error,
	opts ...CallbackOption,
) (*CallbackCache, error) {
	if read == nil || write == nil {
		return nil, ErrNilCallback
	}
	c := &CallbackCache{read: read, write: write, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Read 调用读回调，空文本视为 [ErrEmptyCache]。
func (c *CallbackCache) Read(ctx context.Context) (string, error) {
	text, err := c.read(ctx)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrEmptyCache
	}
	return text, nil
}

// Write 调用写回调，成功后推进本地时间戳。
func (c *CallbackCache) Write(ctx context.Context, text string) error {
	if err := c.write(ctx, text); err != nil {
		return err
	}
	c.mu.Lock()
	c.lastWrite = nextTimestamp(c.now(), c.lastWrite)
	c.mu.Unlock()
	return nil
}

// Timestamp 返回外部时间戳，或最近一次 Write 的时间。
func (c *CallbackCache) Timestamp(ctx context.Context) (time.Time, error) {
	if c.timestamp != nil {
		return c.timestamp(ctx)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastWrite, nil
}
