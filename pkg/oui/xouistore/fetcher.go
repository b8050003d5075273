package xouistore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v5"
	"github.com/sony/gobreaker/v2"

	"github.com/omeyang/xoui/pkg/observability/xlog"
)

// 默认值
const (
	DefaultUserAgent    = "xoui/1.0 (+https://github.com/omeyang/xoui)"
	DefaultFetchTimeout = 30 * time.Second
	DefaultRetryDelay   = time.Second

	// 完整注册表约 6MB，留足余量
	maxBodySize = 64 << 20

	defaultBreakerFailures = 3
	defaultBreakerTimeout  = 5 * time.Minute
)

// HTTPFetcher 通过 HTTP GET 获取注册表文本。
//
// 请求链：熔断器 → 重试 → 单次 GET。
// 默认只尝试一次，网络失败由上层的缓存回退处理；
// 连续失败后熔断器打开，在冷却期内直接返回错误，避免每次刷新都访问失效的源站。
type HTTPFetcher struct {
	url       string
	userAgent string
	client    *http.Client
	attempts  uint
	delay     time.Duration
	breaker   *gobreaker.CircuitBreaker[string]
	logger    xlog.Logger
}

// FetcherOption 配置 [HTTPFetcher]。
type FetcherOption func(*fetcherOptions)

type fetcherOptions struct {
	userAgent       string
	client          *http.Client
	timeout         time.Duration
	attempts        uint
	delay           time.Duration
	breakerFailures uint32
	breakerTimeout  time.Duration
	logger          xlog.Logger
}

// WithUserAgent 设置 User-Agent 请求头，空字符串表示不发送。
func WithUserAgent(ua string) FetcherOption {
	return func(o *fetcherOptions) { o.userAgent = ua }
}

// WithHTTPClient 使用自定义 http.Client（此时 WithTimeout 不生效）。
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(o *fetcherOptions) { o.client = c }
}

// WithTimeout 设置单次请求超时，默认 30s。
func WithTimeout(d time.Duration) FetcherOption {
	return func(o *fetcherOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithAttempts 设置总尝试次数（包含首次），默认 1。
func WithAttempts(n uint) FetcherOption {
	return func(o *fetcherOptions) {
		if n > 0 {
			o.attempts = n
		}
	}
}

// WithRetryDelay 设置重试间隔基准值（指数退避），默认 1s。
func WithRetryDelay(d time.Duration) FetcherOption {
	return func(o *fetcherOptions) {
		if d >= 0 {
			o.delay = d
		}
	}
}

// WithBreaker 设置熔断参数：连续失败 failures 次后打开，冷却 timeout 后半开。
// failures 为 0 表示关闭熔断。
func WithBreaker(failures uint32, timeout time.Duration) FetcherOption {
	return func(o *fetcherOptions) {
		o.breakerFailures = failures
		if timeout > 0 {
			o.breakerTimeout = timeout
		}
	}
}

// WithFetcherLogger 设置日志记录器。
func WithFetcherLogger(l xlog.Logger) FetcherOption {
	return func(o *fetcherOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewHTTPFetcher 创建 HTTP 获取器。url 为空时使用 [DefaultRegistryURL]。
func NewHTTPFetcher(url string, opts ...FetcherOption) (*HTTPFetcher, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		url = DefaultRegistryURL
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("%w: unsupported registry url %q", ErrFetchFailed, url)
	}

	o := &fetcherOptions{
		userAgent:       DefaultUserAgent,
		timeout:         DefaultFetchTimeout,
		attempts:        1,
		delay:           DefaultRetryDelay,
		breakerFailures: defaultBreakerFailures,
		breakerTimeout:  defaultBreakerTimeout,
		logger:          xlog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	client := o.client
	if client == nil {
		client = &http.Client{Timeout: o.timeout}
	}

	f := &HTTPFetcher{
		url:       url,
		userAgent: o.userAgent,
		client:    client,
		attempts:  o.attempts,
		delay:     o.delay,
		logger:    o.logger.With(xlog.Component("xouistore.http")),
	}
	if o.breakerFailures > 0 {
		failures := o.breakerFailures
		f.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:        "xoui-registry",
			MaxRequests: 1,
			Timeout:     o.breakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			IsExcluded: func(err error) bool {
				// 调用方取消不计入统计
				return errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				f.logger.Warn(context.Background(), "registry breaker state changed",
					xlog.URL(url),
					xlog.Operation(from.String()+"->"+to.String()))
			},
		})
	}
	return f, nil
}

// URL 返回注册表地址。
func (f *HTTPFetcher) URL() string { return f.url }

// Fetch 获取完整注册表文本。
// 所有失败都包装为 [ErrFetchFailed]；ctx 取消时同时包装 ctx.Err()。
func (f *HTTPFetcher) Fetch(ctx context.Context) (string, error) {
	start := time.Now()
	fetch := func() (string, error) { return f.fetchWithRetry(ctx) }

	var (
		text string
		err  error
	)
	if f.breaker != nil {
		text, err = f.breaker.Execute(fetch)
	} else {
		text, err = fetch()
	}
	if err != nil {
		f.logger.Warn(ctx, "fetch registry failed", xlog.URL(f.url), xlog.Err(err), xlog.Duration(time.Since(start)))
		if errors.Is(err, ErrFetchFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	f.logger.Debug(ctx, "fetched registry", xlog.URL(f.url),
		xlog.Count(int64(len(text))), xlog.Duration(time.Since(start)))
	return text, nil
}

func (f *HTTPFetcher) fetchWithRetry(ctx context.Context) (string, error) {
	return retry.NewWithData[string](
		retry.Context(ctx),
		retry.Attempts(f.attempts),
		retry.Delay(f.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			f.logger.Info(ctx, "retrying registry fetch", xlog.Count(int64(n+1)), xlog.Err(err))
		}),
	).Do(func() (string, error) {
		return f.get(ctx)
	})
}

// get 执行单次 GET。4xx 响应标记为不可重试。
func (f *HTTPFetcher) get(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", retry.Unrecoverable(err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// 丢弃响应体以复用连接
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		statusErr := fmt.Errorf("%w: %s returned %s", ErrFetchFailed, f.url, resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", retry.Unrecoverable(statusErr)
		}
		return "", statusErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", fmt.Errorf("%w: empty response body", ErrFetchFailed)
	}
	return string(body), nil
}
