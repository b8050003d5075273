// Package xoui 提供 IEEE OUI 注册表的本地缓存、MAC 厂商查找与按厂商/国家生成 MAC 地址。
//
// # 数据流
//
// 原始注册表文本（https://standards-oui.ieee.org/oui/oui.txt）经 [xouistore.Store]
// 获取与持久化，由 [Parse] 解析为前缀表，再由 [Invert] 倒排为按国家代码、按厂商名
// 分组的两张表。三张表组成一个 [Tables] 快照，由 [Registry] 整体发布。
//
// # 新鲜度
//
//   - 过期（expired）：Store 时间戳早于 now-TTL，或 Store 为空。触发网络优先的更新。
//   - 陈旧（stale）：内存快照构建时的 Store 时间戳与当前不同，说明其他进程已更新缓存。
//     触发缓存优先的重新加载。
//
// 开启 AutoExpiration（默认）时，每次查找与生成前都会检查两者；并发检查合并为一次。
// 刷新失败时继续使用上一版快照。
//
// # 用法
//
//	reg, err := xoui.NewFromConfig(ctx, xoui.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer reg.Close()
//
//	addr, ok, err := reg.Lookup(ctx, "E0:43:DB:12:34:56")
//	if ok {
//	    fmt.Println(addr.Name(), addr.ISOCode())
//	}
//
//	mac, err := reg.GenerateStrict(ctx, xoui.WithISOCode("cn"))
//
// 长时间运行的进程可以用 [Refresher] 在后台定期刷新。
package xoui
