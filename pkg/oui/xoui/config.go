package xoui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/redis/go-redis/v9"

	"github.com/omeyang/xoui/pkg/observability/xlog"
	"github.com/omeyang/xoui/pkg/oui/xouistore"
)

// Format 是配置文件格式。
type Format string

// 支持的配置格式。
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// 缓存类型。
const (
	CacheFile     = "file"
	CacheRedis    = "redis"
	CacheCallback = "callback"
	CacheMemory   = "memory"
)

// DefaultRefreshSchedule 是 [Refresher] 的默认调度表达式。
const DefaultRefreshSchedule = "@every 1h"

// Config 是 [NewFromConfig] 使用的配置。未在文件中出现的键保留 [DefaultConfig] 的值。
type Config struct {
	RegistryURL string `koanf:"registry_url" json:"registry_url"`
	UserAgent   string `koanf:"user_agent" json:"user_agent"`
	// TTLSeconds 是快照有效期（秒）。
	TTLSeconds     int64       `koanf:"ttl_seconds" json:"ttl_seconds"`
	Cache          CacheConfig `koanf:"cache" json:"cache"`
	AutoExpiration bool        `koanf:"auto_expiration" json:"auto_expiration"`

	FetchTimeout  time.Duration `koanf:"fetch_timeout" json:"fetch_timeout"`
	FetchAttempts uint          `koanf:"fetch_attempts" json:"fetch_attempts"`
	// RefreshSchedule 是 cron 表达式，供 [NewRefresher] 使用。
	RefreshSchedule string `koanf:"refresh_schedule" json:"refresh_schedule"`

	// LogLevel 与 LogFormat 只在未通过 [WithLogger] 指定日志记录器时生效。
	LogLevel  string `koanf:"log_level" json:"log_level"`
	LogFormat string `koanf:"log_format" json:"log_format"`
}

// CacheConfig 选择并配置原始文本缓存。
type CacheConfig struct {
	// Kind 取值 file、redis、callback、memory。
	Kind string `koanf:"kind" json:"kind"`
	// Path 是文件缓存的路径模式，见 [xouistore.NewFileCache]。
	Path string `koanf:"path" json:"path"`
	// Watch 为 true 时监听文件缓存目录，其他进程写入后立即重新加载。
	Watch bool `koanf:"watch" json:"watch"`

	RedisAddr     string        `koanf:"redis_addr" json:"redis_addr"`
	RedisPassword string        `koanf:"redis_password" json:"-"`
	RedisDB       int           `koanf:"redis_db" json:"redis_db"`
	RedisKey      string        `koanf:"redis_key" json:"redis_key"`
	RedisTTL      time.Duration `koanf:"redis_ttl" json:"redis_ttl"`

	// Callback 是 Kind 为 callback 时使用的缓存，只能在代码中设置。
	Callback xouistore.Cache `koanf:"-" json:"-"`
}

// DefaultConfig 返回默认配置。文件缓存位于用户缓存目录下的 xoui/oui-*.txt。
func DefaultConfig() Config {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return Config{
		RegistryURL:    xouistore.DefaultRegistryURL,
		UserAgent:      xouistore.DefaultUserAgent,
		TTLSeconds:     int64(DefaultTTL / time.Second),
		AutoExpiration: true,
		Cache: CacheConfig{
			Kind:     CacheFile,
			Path:     filepath.Join(dir, "xoui", "oui-*.txt"),
			RedisKey: xouistore.DefaultRedisKey,
		},
		FetchTimeout:    xouistore.DefaultFetchTimeout,
		FetchAttempts:   1,
		RefreshSchedule: DefaultRefreshSchedule,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// TTL 返回快照有效期。
func (c Config) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Validate 检查配置。
func (c Config) Validate() error {
	var errs []error
	if c.TTLSeconds <= 0 {
		errs = append(errs, fmt.Errorf("ttl_seconds must be positive, got %d", c.TTLSeconds))
	}
	if c.FetchTimeout < 0 {
		errs = append(errs, fmt.Errorf("fetch_timeout must not be negative, got %s", c.FetchTimeout))
	}
	if _, err := xlog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log_format %q", c.LogFormat))
	}
	switch c.Cache.Kind {
	case CacheFile:
		if c.Cache.Path == "" {
			errs = append(errs, errors.New("cache.path is required for file cache"))
		}
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			errs = append(errs, errors.New("cache.redis_addr is required for redis cache"))
		}
	case CacheCallback:
		if c.Cache.Callback == nil {
			errs = append(errs, errors.New("cache.Callback is required for callback cache"))
		}
	case CacheMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown cache.kind %q", c.Cache.Kind))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig 从文件加载配置，按扩展名识别 YAML（.yaml/.yml）或 JSON（.json）。
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, fmt.Errorf("%w: empty config path", ErrInvalidConfig)
	}
	format, err := detectFormat(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return ParseConfig(data, format)
}

// ParseConfig 解析配置数据。空数据返回默认配置。
func ParseConfig(data []byte, format Format) (Config, error) {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return Config{}, fmt.Errorf("%w: unsupported format %q", ErrInvalidConfig, format)
	}

	cfg := DefaultConfig()
	if len(data) == 0 {
		return cfg, nil
	}
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func detectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrInvalidConfig, ext)
	}
}

// NewFromConfig 按配置组装 Store 并创建 Registry。
//
// 未通过 [WithLogger] 指定日志记录器时，按 LogLevel/LogFormat 构建一个写 stderr 的记录器。
// 返回的 Registry 持有 Redis 连接与文件监听等资源，使用完毕须调用 [Registry.Close]。
// ctx 只用于校验 Redis 连接。
func NewFromConfig(ctx context.Context, cfg Config, opts ...Option) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	probe := defaultOptions()
	for _, opt := range opts {
		opt(probe)
	}
	var closers []func() error
	cleanup := func() { _ = runClosers(closers) }

	logger := probe.logger
	if !probe.loggerSet {
		l, closeLog, err := xlog.New().
			SetOutput(os.Stderr).
			SetLevelString(cfg.LogLevel).
			SetFormat(cfg.LogFormat).
			Build()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		logger = l
		closers = append(closers, closeLog)
	}

	fetcher, err := xouistore.NewHTTPFetcher(cfg.RegistryURL,
		xouistore.WithUserAgent(cfg.UserAgent),
		xouistore.WithTimeout(cfg.FetchTimeout),
		xouistore.WithAttempts(cfg.FetchAttempts),
		xouistore.WithFetcherLogger(logger))
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cache, fileCache, cacheClosers, err := newCache(ctx, cfg.Cache, logger)
	closers = append(closers, cacheClosers...)
	if err != nil {
		cleanup()
		return nil, err
	}

	all := append([]Option{WithTTL(cfg.TTL()), WithAutoExpiration(cfg.AutoExpiration), WithLogger(logger)}, opts...)
	r, err := New(xouistore.New(fetcher, cache), all...)
	if err != nil {
		cleanup()
		return nil, err
	}

	if fileCache != nil && cfg.Cache.Watch {
		w, err := xouistore.WatchFile(fileCache, r.reloadFromCache, xouistore.WithWatchLogger(logger))
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("%w: %w", ErrInvalidCache, err)
		}
		// 监听器须先于日志关闭
		closers = append([]func() error{w.Close}, closers...)
	}
	r.closers = closers
	return r, nil
}

func newCache(ctx context.Context, cfg CacheConfig, logger xlog.Logger) (xouistore.Cache, *xouistore.FileCache, []func() error, error) {
	switch cfg.Kind {
	case CacheFile:
		fc, err := xouistore.NewFileCache(cfg.Path, xouistore.WithFileLogger(logger))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		if err := os.MkdirAll(fc.Dir(), 0o750); err != nil {
			return nil, nil, nil, fmt.Errorf("%w: %w", ErrInvalidCache, err)
		}
		return fc, fc, nil, nil

	case CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		closers := []func() error{client.Close}
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, closers, fmt.Errorf("%w: redis ping: %w", ErrInvalidCache, err)
		}
		rc, err := xouistore.NewRedisCache(client, cfg.RedisKey, xouistore.WithRedisTTL(cfg.RedisTTL))
		if err != nil {
			return nil, nil, closers, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		return rc, nil, closers, nil

	case CacheCallback:
		return cfg.Callback, nil, nil, nil

	default:
		return xouistore.NewMemoryCache("", time.Time{}), nil, nil, nil
	}
}

func runClosers(closers []func() error) error {
	var errs []error
	for _, c := range closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
