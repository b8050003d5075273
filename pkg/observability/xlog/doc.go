// Package xlog 基于 log/slog 的结构化日志。
//
// # 核心功能
//
//   - Builder 模式配置（输出目标、级别、格式、文件轮转）
//   - 动态级别调整（运行时热更新）
//   - 全局 Logger 便利函数
//   - OUI 领域常用属性（前缀、厂商、国家代码、数据来源）
//
// # 创建 Logger
//
// Builder 采用 first-error-wins：遇到第一个配置错误后，Build 返回该错误。
//
//	logger, cleanup, err := xlog.New().
//		SetLevel(xlog.LevelDebug).
//		SetFormat("json").
//		SetRotation("/var/log/xoui/oui.log").
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// # 使用约定
//
// 所有日志方法第一个参数为 context.Context，属性只接受 slog.Attr：
//
//	logger.Info(ctx, "registry updated",
//		xlog.Source(xlog.SourceNetwork),
//		xlog.Count(int64(n)))
//
// 库代码通过 Option 接收 Logger，未注入时使用 [Default]。
// 测试中可使用 [Discard] 丢弃输出。
package xlog
