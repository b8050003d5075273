package xouistore

import "errors"

var (
	// ErrInvalidCache 表示缓存位置不可用（目录不存在、不是目录等）。
	ErrInvalidCache = errors.New("xouistore: invalid cache")

	// ErrFetchFailed 表示网络获取失败（HTTP 错误、空响应、熔断打开）。
	ErrFetchFailed = errors.New("xouistore: fetch failed")

	// ErrEmptyCache 表示缓存中没有快照。
	ErrEmptyCache = errors.New("xouistore: empty cache")

	// ErrNilClient 表示未提供 Redis 客户端。
	ErrNilClient = errors.New("xouistore: nil client")

	// ErrNilCallback 表示回调缓存缺少读或写函数。
	ErrNilCallback = errors.New("xouistore: nil callback")

	// ErrInvalidPattern 表示文件缓存路径模式无效。
	ErrInvalidPattern = errors.New("xouistore: invalid cache pattern")
)
