package xoui

import (
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xoui/pkg/observability/xlog"
)

// DefaultTTL 是注册表快照的默认有效期。
const DefaultTTL = 24 * time.Hour

// Option 配置 [Registry]。
type Option func(*options)

type options struct {
	ttl            time.Duration
	autoExpiration bool
	logger         xlog.Logger
	loggerSet      bool
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	now            func() time.Time
	rand           *rand.Rand
}

func defaultOptions() *options {
	return &options{
		ttl:            DefaultTTL,
		autoExpiration: true,
		logger:         xlog.Default(),
		now:            time.Now,
	}
}

// WithTTL 设置快照有效期，非正值被忽略。
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.ttl = d
		}
	}
}

// WithAutoExpiration 设置查找与生成前是否自动检查过期与陈旧，默认开启。
// 关闭后只在首次使用时加载，之后需显式调用 EnsureFresh 或 Update。
func WithAutoExpiration(enabled bool) Option {
	return func(o *options) { o.autoExpiration = enabled }
}

// WithLogger 设置日志记录器。
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
			o.loggerSet = true
		}
	}
}

// WithMeterProvider 设置 OpenTelemetry MeterProvider，默认使用全局 provider。
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// WithTracerProvider 设置 OpenTelemetry TracerProvider，默认使用全局 provider。
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithClock 设置时钟，用于测试。
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRand 设置生成地址使用的随机源。
// Registry 内部加锁使用，调用方不应再并发使用 r。
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rand = r }
}
