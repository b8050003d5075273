package xouistore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/omeyang/xoui/pkg/observability/xlog"
)

// DefaultWatchDebounce 是默认防抖时间。
const DefaultWatchDebounce = 200 * time.Millisecond

// Watcher 监视文件缓存目录，其他进程写入新快照时回调通知。
type Watcher struct {
	cache    *FileCache
	watcher  *fsnotify.Watcher
	onChange func()
	debounce time.Duration
	logger   xlog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	timer  *time.Timer
	done   chan struct{}

	// inflight 跟踪已开始执行的 onChange，Close 等待其结束
	inflight sync.WaitGroup
}

// WatchOption 配置 [Watcher]。
type WatchOption func(*Watcher)

// WithDebounce 设置防抖时间，窗口内的多次变更只触发一次回调。
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger 设置日志记录器。
func WithWatchLogger(l xlog.Logger) WatchOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WatchFile 监视 cache 所在目录，匹配的快照文件被创建、改名或写入时调用 onChange。
//
// 监视目录而非文件：写入采用临时文件 + rename，直接监视文件会丢失事件。
// 返回时监视已在后台运行，调用 [Watcher.Close] 停止。
func WatchFile(cache *FileCache, onChange func(), opts ...WatchOption) (*Watcher, error) {
	if cache == nil || onChange == nil {
		return nil, ErrNilCallback
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xouistore: create watcher: %w", err)
	}
	if err := fsw.Add(cache.Dir()); err != nil {
		return nil, errors.Join(
			fmt.Errorf("%w: watch %s: %w", ErrInvalidCache, cache.Dir(), err),
			fsw.Close(),
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		cache:    cache,
		watcher:  fsw,
		onChange: onChange,
		debounce: DefaultWatchDebounce,
		logger:   xlog.Default(),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(xlog.Component("xouistore.watch"))

	go w.run()
	return w, nil
}

// Close 停止监视并等待后台 goroutine 与正在执行的回调退出，可重复调用。
// 不能在 onChange 内部调用。
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.ctx.Err() != nil {
		w.mu.Unlock()
		<-w.done
		w.inflight.Wait()
		return nil
	}
	w.cancel()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	<-w.done
	w.inflight.Wait()
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(w.ctx, "cache watch error", xlog.Err(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.cache.Match(event.Name) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx.Err() != nil {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		if w.ctx.Err() != nil {
			w.mu.Unlock()
			return
		}
		w.inflight.Add(1)
		w.mu.Unlock()
		defer w.inflight.Done()

		w.logger.Debug(w.ctx, "cache changed", xlog.Path(event.Name))
		w.onChange()
	})
}
