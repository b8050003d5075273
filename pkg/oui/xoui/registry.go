package xoui

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/omeyang/xoui/pkg/observability/xlog"
	"github.com/omeyang/xoui/pkg/oui/xouistore"
)

// Registry 持有注册表快照，负责过期/陈旧判断、刷新与查找。
//
// 快照（三张表 + 时间戳）作为整体在写锁下发布，读者只会看到完整的一版。
// 刷新失败时保留上一版快照继续服务。
type Registry struct {
	store          xouistore.Store
	ttl            time.Duration
	autoExpiration bool
	logger         xlog.Logger
	metrics        *metrics
	tracer         trace.Tracer
	now            func() time.Time

	randMu sync.Mutex
	rand   *rand.Rand

	group singleflight.Group

	closeOnce sync.Once
	closers   []func() error
	closeErr  error

	mu              sync.RWMutex
	tables          *Tables
	memTimestamp    time.Time
	sourceTimestamp time.Time
	builtAt         time.Time

	stats struct {
		lookups, hits, misses        atomic.Uint64
		generations                  atomic.Uint64
		updates, updateFailures      atomic.Uint64
		networkFetches, cacheReads   atomic.Uint64
		fetchFailures, cacheFailures atomic.Uint64
	}
}

// Snapshot 是当前发布状态的只读视图。
type Snapshot struct {
	// Tables 为 nil 表示尚未成功加载。
	Tables *Tables
	// MemTimestamp 是构建当前快照时 Store 报告的时间戳。
	MemTimestamp time.Time
	// SourceTimestamp 是最近一次观察到的 Store 时间戳。
	SourceTimestamp time.Time
	// BuiltAt 是当前快照发布的本地时间。
	BuiltAt time.Time
}

// Stats 是运行计数。
type Stats struct {
	Lookups        uint64
	Hits           uint64
	Misses         uint64
	Generations    uint64
	Updates        uint64
	UpdateFailures uint64
	NetworkFetches uint64
	CacheReads     uint64
	FetchFailures  uint64
	CacheFailures  uint64
}

// New 创建 Registry。构造时不加载数据，首次使用时才读取。
func New(store xouistore.Store, opts ...Option) (*Registry, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	m, err := newMetrics(o.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("xoui: create metrics: %w", err)
	}
	tp := o.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Registry{
		store:          store,
		ttl:            o.ttl,
		autoExpiration: o.autoExpiration,
		logger:         o.logger.With(xlog.Component("xoui.registry")),
		metrics:        m,
		tracer:         tp.Tracer(instrumentationName),
		now:            o.now,
		rand:           o.rand,
	}, nil
}

// Close 释放 [NewFromConfig] 创建的资源（文件监听、Redis 连接、日志文件），可重复调用。
// 通过 [New] 创建的 Registry 不持有资源，Close 总是返回 nil。
func (r *Registry) Close() error {
	r.closeOnce.Do(func() {
		r.closeErr = runClosers(r.closers)
	})
	return r.closeErr
}

// IsExpired 报告以 sourceTS 为基准、有效期 ttl 的数据在 now 时刻是否过期。
// 恰好等于 sourceTS+ttl 时未过期。
func IsExpired(sourceTS time.Time, ttl time.Duration, now time.Time) bool {
	return now.After(sourceTS.Add(ttl))
}

// TTL 返回快照有效期。
func (r *Registry) TTL() time.Duration { return r.ttl }

// Expired 报告 Store 当前数据是否已过期。Store 为空（零时间戳）视为过期。
func (r *Registry) Expired(ctx context.Context) (bool, error) {
	ts, err := r.store.Timestamp(ctx)
	if err != nil {
		return true, err
	}
	return r.expired(ts), nil
}

func (r *Registry) expired(ts time.Time) bool {
	return ts.IsZero() || IsExpired(ts, r.ttl, r.now())
}

// Stale 报告内存快照是否落后于 Store：尚未加载，或 Store 时间戳与构建时不同。
func (r *Registry) Stale(ctx context.Context) (bool, error) {
	ts, err := r.store.Timestamp(ctx)
	if err != nil {
		return true, err
	}
	return r.stale(ts), nil
}

func (r *Registry) stale(ts time.Time) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tables == nil || !ts.Equal(r.memTimestamp)
}

// EnsureFresh 过期时强制从网络更新，陈旧时从缓存重新加载，否则不做任何事。
// 返回是否发生了重建。并发调用合并为一次执行。
func (r *Registry) EnsureFresh(ctx context.Context) (bool, error) {
	v, err, _ := r.group.Do("ensure", func() (any, error) {
		return r.ensureFresh(ctx)
	})
	rebuilt, _ := v.(bool)
	return rebuilt, err
}

func (r *Registry) ensureFresh(ctx context.Context) (bool, error) {
	ts, err := r.store.Timestamp(ctx)
	if err != nil {
		r.stats.cacheFailures.Add(1)
		r.logger.Warn(ctx, "read store timestamp failed", xlog.Err(err))
		ts = time.Time{}
	}
	r.observe(ts)

	switch {
	case r.expired(r.expiryBasis(ts)):
		return true, r.update(ctx, true)
	case r.stale(ts):
		return true, r.update(ctx, false)
	default:
		return false, nil
	}
}

// expiryBasis 返回判断过期的时间基准。
// Store 为空但内存中已有快照时（网络获取成功而写回失败），以快照发布时间为准，
// 避免每次查找都重新访问网络。
func (r *Registry) expiryBasis(ts time.Time) time.Time {
	if !ts.IsZero() {
		return ts
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.tables != nil && r.memTimestamp.IsZero() {
		return r.builtAt
	}
	return ts
}

// observe 记录最近一次看到的 Store 时间戳。
func (r *Registry) observe(ts time.Time) {
	r.mu.Lock()
	r.sourceTimestamp = ts
	r.mu.Unlock()
}

// Update 重建快照。
//
// straight 为 true 时优先网络、失败回退缓存；否则优先缓存、为空或失败时回退网络。
// 网络获取的文本会写回 Store。两者都没有数据时返回 [ErrInvalidRawData] 并保留旧快照。
// 写回失败只记录日志，但若原因是缓存位置不可用（[ErrInvalidCache]），
// 在发布新快照后仍返回该错误。
func (r *Registry) Update(ctx context.Context, straight bool) error {
	key := "careful"
	if straight {
		key = "straight"
	}
	_, err, _ := r.group.Do(key, func() (any, error) {
		return nil, r.update(ctx, straight)
	})
	return err
}

func (r *Registry) update(ctx context.Context, straight bool) (err error) {
	ctx, span := r.tracer.Start(ctx, "xoui.update",
		trace.WithAttributes(attribute.Bool("xoui.straight", straight)))
	start := r.now()
	source := sourceNone
	records := 0
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.String("xoui.source", source), attribute.Int("xoui.records", records))
		span.End()
	}()

	var (
		text     string
		fetchErr error
	)
	if straight {
		text, source, fetchErr = r.fetchStraight(ctx)
	} else {
		text, source, fetchErr = r.fetchCareful(ctx)
	}
	if text == "" {
		r.stats.updateFailures.Add(1)
		r.metrics.update(ctx, sourceNone, resultError, r.now().Sub(start), 0)
		r.logger.Error(ctx, "registry update failed: no data", xlog.Err(fetchErr))
		return fmt.Errorf("%w: %w", ErrInvalidRawData, fetchErr)
	}

	var writeErr error
	if source == xlog.SourceNetwork {
		if writeErr = r.store.Write(ctx, text); writeErr != nil {
			r.stats.cacheFailures.Add(1)
			r.logger.Warn(ctx, "write registry cache failed", xlog.Err(writeErr))
		}
	}

	ts, tsErr := r.store.Timestamp(ctx)
	if tsErr != nil {
		r.logger.Warn(ctx, "read store timestamp failed", xlog.Err(tsErr))
	}

	tables := r.build(text)
	records = tables.Len()

	r.mu.Lock()
	r.tables = tables
	r.memTimestamp = ts
	r.sourceTimestamp = ts
	r.builtAt = r.now()
	r.mu.Unlock()

	r.stats.updates.Add(1)
	r.metrics.update(ctx, source, resultOK, r.now().Sub(start), records)
	r.logger.Info(ctx, "registry updated",
		xlog.Source(source),
		xlog.Count(int64(records)),
		xlog.Checksum(tables.Checksum()),
		xlog.Duration(r.now().Sub(start)))
	for _, w := range tables.warnings {
		r.logger.Debug(ctx, "registry block skipped", xlog.Prefix(w.Prefix), xlog.Err(w))
	}

	if errors.Is(writeErr, ErrInvalidCache) {
		return writeErr
	}
	return nil
}

// build 解析文本；内容与当前快照相同时复用，避免重复解析。
func (r *Registry) build(text string) *Tables {
	r.mu.RLock()
	cur := r.tables
	r.mu.RUnlock()
	if cur != nil && cur.checksum == xxhash.Sum64String(text) {
		return cur
	}
	return BuildTables(text)
}

// fetchCareful 优先缓存，缓存为空或失败时回退网络。
func (r *Registry) fetchCareful(ctx context.Context) (string, string, error) {
	text, readErr := r.readCache(ctx)
	if text != "" {
		return text, xlog.SourceCache, nil
	}
	text, fetchErr := r.fetchNetwork(ctx)
	if text != "" {
		return text, xlog.SourceNetwork, nil
	}
	return "", sourceNone, errors.Join(readErr, fetchErr)
}

// fetchStraight 优先网络，失败时回退缓存。
func (r *Registry) fetchStraight(ctx context.Context) (string, string, error) {
	text, fetchErr := r.fetchNetwork(ctx)
	if text != "" {
		return text, xlog.SourceNetwork, nil
	}
	text, readErr := r.readCache(ctx)
	if text != "" {
		r.logger.Warn(ctx, "network fetch failed, using cached registry", xlog.Err(fetchErr))
		return text, xlog.SourceCache, nil
	}
	return "", sourceNone, errors.Join(fetchErr, readErr)
}

func (r *Registry) readCache(ctx context.Context) (string, error) {
	text, err := r.store.Read(ctx)
	if err == nil && text == "" {
		err = xouistore.ErrEmptyCache
	}
	if err != nil {
		if !errors.Is(err, xouistore.ErrEmptyCache) {
			r.stats.cacheFailures.Add(1)
		}
		r.logger.Debug(ctx, "registry cache unavailable", xlog.Err(err))
		return "", err
	}
	r.stats.cacheReads.Add(1)
	return text, nil
}

func (r *Registry) fetchNetwork(ctx context.Context) (string, error) {
	text, err := r.store.Fetch(ctx)
	if err == nil && text == "" {
		err = xouistore.ErrFetchFailed
	}
	if err != nil {
		r.stats.fetchFailures.Add(1)
		return "", err
	}
	r.stats.networkFetches.Add(1)
	return text, nil
}

// reloadFromCache 在缓存被外部更新后重新加载，供文件监听回调使用。
func (r *Registry) reloadFromCache() {
	ctx := context.Background()
	if err := r.Update(ctx, false); err != nil {
		r.logger.Warn(ctx, "reload after cache change failed", xlog.Err(err))
	}
}

// Tables 返回当前快照，必要时先加载或刷新（受 AutoExpiration 控制）。
func (r *Registry) Tables(ctx context.Context) (*Tables, error) {
	if r.autoExpiration {
		if _, err := r.EnsureFresh(ctx); err != nil {
			if t := r.current(); t != nil {
				r.logger.Warn(ctx, "refresh failed, serving previous registry", xlog.Err(err))
				return t, nil
			}
			return nil, err
		}
	}
	if t := r.current(); t != nil {
		return t, nil
	}
	// 懒加载
	if err := r.Update(ctx, false); err != nil {
		if t := r.current(); t != nil {
			return t, nil
		}
		return nil, err
	}
	return r.current(), nil
}

func (r *Registry) current() *Tables {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tables
}

// Snapshot 返回当前发布状态，不触发加载。
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{
		Tables:          r.tables,
		MemTimestamp:    r.memTimestamp,
		SourceTimestamp: r.sourceTimestamp,
		BuiltAt:         r.builtAt,
	}
}

// Stats 返回运行计数。
func (r *Registry) Stats() Stats {
	return Stats{
		Lookups:        r.stats.lookups.Load(),
		Hits:           r.stats.hits.Load(),
		Misses:         r.stats.misses.Load(),
		Generations:    r.stats.generations.Load(),
		Updates:        r.stats.updates.Load(),
		UpdateFailures: r.stats.updateFailures.Load(),
		NetworkFetches: r.stats.networkFetches.Load(),
		CacheReads:     r.stats.cacheReads.Load(),
		FetchFailures:  r.stats.fetchFailures.Load(),
		CacheFailures:  r.stats.cacheFailures.Load(),
	}
}

// Lookup 查找 mac 所属厂商。
//
// mac 接受 [NewAddress] 支持的所有类型，无法构造时返回 [ErrInvalidAddress]。
// 找到时返回带厂商信息、数值与输入相同的地址；未找到时 ok 为 false、err 为 nil。
func (r *Registry) Lookup(ctx context.Context, mac any) (Address, bool, error) {
	r.stats.lookups.Add(1)
	addr, err := NewAddress(mac)
	if err != nil {
		r.metrics.lookup(ctx, resultError)
		return Address{}, false, err
	}
	t, err := r.Tables(ctx)
	if err != nil {
		r.metrics.lookup(ctx, resultError)
		return Address{}, false, err
	}
	v, ok := t.prefixes.Get(addr.Prefix())
	if !ok {
		r.stats.misses.Add(1)
		r.metrics.lookup(ctx, resultMiss)
		return Address{}, false, nil
	}
	r.stats.hits.Add(1)
	r.metrics.lookup(ctx, resultHit)
	return addr.withVendor(v), true, nil
}

// LookupStrict 类似 [Registry.Lookup]，未找到时返回 [ErrNotFoundOuiVendor]。
func (r *Registry) LookupStrict(ctx context.Context, mac any) (Address, error) {
	a, ok, err := r.Lookup(ctx, mac)
	if err != nil {
		return Address{}, err
	}
	if !ok {
		return Address{}, fmt.Errorf("%w: %v", ErrNotFoundOuiVendor, mac)
	}
	return a, nil
}
