// Package xouistore 提供 IEEE OUI 注册表原始文本的获取与缓存能力。
//
// [Store] 由两半组成：
//
//   - [Fetcher]：从网络获取完整注册表文本（[HTTPFetcher]）
//   - [Cache]：读写本地快照并报告其时间戳（[FileCache]、[CallbackCache]、[RedisCache]）
//
// 使用 [New] 组合：
//
//	fetcher, _ := xouistore.NewHTTPFetcher(xouistore.DefaultRegistryURL)
//	cache, _ := xouistore.NewFileCache("/var/cache/xoui/oui-*.txt")
//	store := xouistore.New(fetcher, cache)
//
// # 时间戳语义
//
// Cache.Timestamp 返回当前快照的更新时间，无快照时返回零值。
// 上层据此判断过期（超过 TTL）与陈旧（其他写入方更新了快照）。
// 写入保证时间戳单调递增，同一秒内的两次写入也能被观察到。
//
// # 并发
//
// 所有实现都可并发调用，但不协调多进程写入：后写者覆盖先写者。
package xouistore
