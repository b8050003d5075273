package xouistore

import (
	"context"
	"time"
)

// DefaultRegistryURL 是 IEEE 发布的 OUI 文本注册表地址。
const DefaultRegistryURL = "https://standards-oui.ieee.org/oui/oui.txt"

// Fetcher 从网络获取完整的注册表文本。
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// FetcherFunc 让普通函数实现 [Fetcher]。
type FetcherFunc func(ctx context.Context) (string, error)

// Fetch 调用 f(ctx)。
func (f FetcherFunc) Fetch(ctx context.Context) (string, error) { return f(ctx) }

// Cache 保存注册表文本快照。
type Cache interface {
	// Read 返回最新快照，没有快照时返回 [ErrEmptyCache]。
	Read(ctx context.Context) (string, error)

	// Write 保存新快照并推进时间戳。
	Write(ctx context.Context, text string) error

	// Timestamp 返回当前快照的更新时间，没有快照时返回零值。
	Timestamp(ctx context.Context) (time.Time, error)
}

// Store 是注册表原始数据的完整访问能力：网络获取 + 缓存读写。
type Store interface {
	Fetcher
	Cache
}

type store struct {
	Fetcher
	Cache
}

// New 组合 Fetcher 与 Cache。
// fetcher 为 nil 时 Fetch 总是返回 [ErrFetchFailed]，用于纯离线场景。
func New(fetcher Fetcher, cache Cache) Store {
	if fetcher == nil {
		fetcher = FetcherFunc(func(context.Context) (string, error) {
			return "", ErrFetchFailed
		})
	}
	return &store{Fetcher: fetcher, Cache: cache}
}
