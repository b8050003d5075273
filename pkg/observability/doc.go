// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展，支持 lumberjack 文件轮转
//
// 指标与链路追踪直接使用 OpenTelemetry API，由调用方注入 MeterProvider/TracerProvider。
package observability
