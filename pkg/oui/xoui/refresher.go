package xoui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/omeyang/xoui/pkg/observability/xlog"
)

// Refresher 按 cron 调度周期性调用 [Registry.EnsureFresh]，
// 使长时间运行的进程在没有查找流量时也能保持快照新鲜。
type Refresher struct {
	reg       *Registry
	cron      *cron.Cron
	logger    xlog.Logger
	timeout   time.Duration
	immediate bool

	mu      sync.Mutex
	started bool

	runCtx    context.Context
	runCancel context.CancelFunc
	wg        sync.WaitGroup
}

// RefresherOption 配置 [Refresher]。
type RefresherOption func(*Refresher)

// WithRefreshTimeout 设置单次刷新超时，默认不限制（由 Fetcher 自身超时约束）。
func WithRefreshTimeout(d time.Duration) RefresherOption {
	return func(f *Refresher) { f.timeout = d }
}

// WithImmediate 在 Start 时立即执行一次刷新。
func WithImmediate() RefresherOption {
	return func(f *Refresher) { f.immediate = true }
}

// WithRefresherLogger 设置日志记录器，默认沿用 Registry 的记录器。
func WithRefresherLogger(l xlog.Logger) RefresherOption {
	return func(f *Refresher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewRefresher 创建刷新器。schedule 为空时使用 [DefaultRefreshSchedule]，
// 支持标准 5 段表达式与 @every 等描述符。
func NewRefresher(reg *Registry, schedule string, opts ...RefresherOption) (*Refresher, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}

	f := &Refresher{reg: reg, logger: reg.logger}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With(xlog.Component("xoui.refresher"))
	f.runCtx, f.runCancel = context.WithCancel(context.Background())

	cl := cronLogger{l: f.logger}
	f.cron = cron.New(
		cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := f.cron.AddFunc(schedule, f.refresh); err != nil {
		f.runCancel()
		return nil, fmt.Errorf("%w: refresh schedule %q: %w", ErrInvalidConfig, schedule, err)
	}
	return f, nil
}

// Start 启动调度，重复调用无效。
func (f *Refresher) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.started {
		return
	}
	f.started = true
	if f.immediate {
		f.wg.Go(f.refresh)
	}
	f.cron.Start()
}

// Stop 停止调度并取消正在进行的刷新。
// 返回的 context 在正在执行的刷新全部结束后关闭。
func (f *Refresher) Stop() context.Context {
	f.runCancel()
	ctx := f.cron.Stop()
	f.wg.Wait()
	return ctx
}

func (f *Refresher) refresh() {
	ctx := f.runCtx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	start := time.Now()
	rebuilt, err := f.reg.EnsureFresh(ctx)
	if err != nil {
		f.logger.Warn(ctx, "scheduled refresh failed", xlog.Err(err), xlog.Duration(time.Since(start)))
		return
	}
	if rebuilt {
		f.logger.Info(ctx, "scheduled refresh rebuilt registry", xlog.Duration(time.Since(start)))
		return
	}
	f.logger.Debug(ctx, "registry still fresh")
}

// cronLogger 把 cron 的内部日志转给 xlog。
type cronLogger struct {
	l xlog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(context.Background(), "cron: "+msg, kvAttrs(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	attrs := append(kvAttrs(keysAndValues), xlog.Err(err))
	c.l.Error(context.Background(), "cron: "+msg, attrs...)
}

func kvAttrs(kv []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		attrs = append(attrs, slog.Any(key, kv[i+1]))
	}
	return attrs
}
