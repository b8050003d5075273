package xouistore

import (
	"context"
	"sync"
	"time"
)

// MemoryCache 是进程内缓存，时间戳为最近一次 Write 的时间。
// 适用于测试、离线预置数据，或不希望落盘的场景。
type MemoryCache struct {
	mu   sync.RWMutex
	text string
	ts   time.Time
	now  func() time.Time
}

// NewMemoryCache 创建内存缓存。text 非空时作为初始快照，时间戳为 ts。
func NewMemoryCache(text string, ts time.Time) *MemoryCache {
	return &MemoryCache{text: text, ts: ts, now: time.Now}
}

// Read 返回内存中的文本，为空时返回 [ErrEmptyCache]。
func (c *MemoryCache) Read(context.Context) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.text == "" {
		return "", ErrEmptyCache
	}
	return c.text, nil
}

// Write 替换文本并推进时间戳。
func (c *MemoryCache) Write(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	c.ts = nextTimestamp(c.now(), c.ts)
	return nil
}

// Timestamp 返回最近一次写入的时间，无内容时为零值。
func (c *MemoryCache) Timestamp(context.Context) (time.Time, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.text == "" {
		return time.Time{}, nil
	}
	return c.ts, nil
}

// nextTimestamp 返回不早于 now 且严格晚于 prev 的时间戳（秒精度）。
func nextTimestamp(now, prev time.Time) time.Time {
	now = now.Truncate(time.Second)
	if !prev.IsZero() && !now.After(prev) {
		return prev.Truncate(time.Second).Add(time.Second)
	}
	return now
}
