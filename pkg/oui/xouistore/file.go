package xouistore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/omeyang/xoui/pkg/observability/xlog"
)

// FileCache 把注册表快照保存为本地文件。
//
// 路径模式中的唯一一个 '*' 会被替换为更新时刻的 unix 秒，
// 例如 "/var/cache/xoui/oui-*.txt" → "/var/cache/xoui/oui-1700000000.txt"。
// 时间戳因此随文件名持久化，多个进程可以通过文件名感知彼此的更新。
//
// 模式不含 '*' 时退化为单文件模式，时间戳取文件修改时间。
type FileCache struct {
	dir    string
	prefix string // '*' 之前的文件名部分
	suffix string // '*' 之后的文件名部分
	single bool
	now    func() time.Time
	logger xlog.Logger
}

// FileOption 配置 [FileCache]。
type FileOption func(*FileCache)

// WithFileClock 设置时钟，用于测试。
func WithFileClock(now func() time.Time) FileOption {
	return func(c *FileCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithFileLogger 设置日志记录器。
func WithFileLogger(l xlog.Logger) FileOption {
	return func(c *FileCache) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewFileCache 创建文件缓存。
//
// 模式校验：非空、不含 NUL、文件名部分最多一个 '*'、目录部分不含 '*'。
// 此处不检查目录是否存在，目录不可用在 Write 时返回 [ErrInvalidCache]。
func NewFileCache(pattern string, opts ...FileOption) (*FileCache, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || strings.ContainsRune(pattern, 0) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}
	pattern = filepath.Clean(pattern)
	dir, base := filepath.Split(pattern)
	if strings.Contains(dir, "*") || strings.Count(base, "*") > 1 || base == "" || base == "*" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}
	if dir == "" {
		dir = "."
	}

	c := &FileCache{
		dir:    filepath.Clean(dir),
		now:    time.Now,
		logger: xlog.Default(),
	}
	if i := strings.IndexByte(base, '*'); i >= 0 {
		c.prefix, c.suffix = base[:i], base[i+1:]
	} else {
		c.prefix, c.single = base, true
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(xlog.Component("xouistore.file"))
	return c, nil
}

// Dir 返回缓存目录。
func (c *FileCache) Dir() string { return c.dir }

// Pattern 返回 glob 形式的路径模式。
func (c *FileCache) Pattern() string {
	if c.single {
		return filepath.Join(c.dir, c.prefix)
	}
	return filepath.Join(c.dir, c.prefix+"*"+c.suffix)
}

// Match 报告 name（文件名或路径）是否属于本缓存。
func (c *FileCache) Match(name string) bool {
	base := filepath.Base(name)
	if c.single {
		return base == c.prefix
	}
	_, ok := c.stamp(base)
	return ok
}

// Read 读取时间戳最新的快照文件。
func (c *FileCache) Read(ctx context.Context) (string, error) {
	path, _, err := c.latest()
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", ErrEmptyCache
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// 与其他写入方的轮换竞争，按无快照处理
			return "", ErrEmptyCache
		}
		return "", fmt.Errorf("xouistore: read %s: %w", path, err)
	}
	if len(data) == 0 {
		return "", ErrEmptyCache
	}
	c.logger.Debug(ctx, "read cache", xlog.Path(path), xlog.Count(int64(len(data))))
	return string(data), nil
}

// Timestamp 返回最新快照的时间戳，无快照时返回零值。
func (c *FileCache) Timestamp(context.Context) (time.Time, error) {
	_, ts, err := c.latest()
	return ts, err
}

// Write 写入新快照：先写同目录临时文件，再 rename 为带新时间戳的文件名，最后清理旧快照。
func (c *FileCache) Write(ctx context.Context, text string) error {
	if err := c.checkDir(); err != nil {
		return err
	}
	_, prev, err := c.latest()
	if err != nil {
		return err
	}
	ts := nextTimestamp(c.now(), prev)

	tmp, err := os.CreateTemp(c.dir, ".xoui-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCache, err)
	}
	tmpName := tmp.Name()
	_, writeErr := tmp.WriteString(text)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("xouistore: write %s: %w", tmpName, err)
	}

	target := c.pathFor(ts)
	if c.single {
		if err := os.Chtimes(tmpName, ts, ts); err != nil {
			_ = os.Remove(tmpName)
			return fmt.Errorf("xouistore: chtimes %s: %w", tmpName, err)
		}
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrInvalidCache, err)
	}
	c.logger.Debug(ctx, "wrote cache", xlog.Path(target), xlog.Count(int64(len(text))))

	if !c.single {
		c.removeOlder(ctx, ts)
	}
	return nil
}

// checkDir 确认缓存目录存在且是目录。
func (c *FileCache) checkDir() error {
	info, err := os.Stat(c.dir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCache, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidCache, c.dir)
	}
	return nil
}

func (c *FileCache) pathFor(ts time.Time) string {
	if c.single {
		return filepath.Join(c.dir, c.prefix)
	}
	return filepath.Join(c.dir, c.prefix+strconv.FormatInt(ts.Unix(), 10)+c.suffix)
}

// stamp 从文件名中解析时间戳。
func (c *FileCache) stamp(base string) (time.Time, bool) {
	if len(base) <= len(c.prefix)+len(c.suffix) ||
		!strings.HasPrefix(base, c.prefix) || !strings.HasSuffix(base, c.suffix) {
		return time.Time{}, false
	}
	digits := base[len(c.prefix) : len(base)-len(c.suffix)]
	sec, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || sec < 0 {
		return time.Time{}, false
	}
	return time.Unix(sec, 0), true
}

// latest 返回最新快照的路径与时间戳。目录或快照不存在时返回空路径、零时间。
func (c *FileCache) latest() (string, time.Time, error) {
	if c.single {
		path := filepath.Join(c.dir, c.prefix)
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", time.Time{}, nil
			}
			return "", time.Time{}, fmt.Errorf("xouistore: stat %s: %w", path, err)
		}
		return path, info.ModTime(), nil
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", time.Time{}, nil
		}
		return "", time.Time{}, fmt.Errorf("xouistore: read dir %s: %w", c.dir, err)
	}
	var (
		bestPath string
		bestTS   time.Time
	)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ts, ok := c.stamp(e.Name())
		if !ok {
			continue
		}
		if bestPath == "" || ts.After(bestTS) {
			bestPath, bestTS = filepath.Join(c.dir, e.Name()), ts
		}
	}
	return bestPath, bestTS, nil
}

// removeOlder 删除时间戳早于 keep 的快照，失败只记录日志。
func (c *FileCache) removeOlder(ctx context.Context, keep time.Time) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		c.logger.Warn(ctx, "list cache dir failed", xlog.Path(c.dir), xlog.Err(err))
		return
	}
	for _, e := range entries {
		ts, ok := c.stamp(e.Name())
		if !ok || !ts.Before(keep) {
			continue
		}
		path := filepath.Join(c.dir, e.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn(ctx, "remove stale cache failed", xlog.Path(path), xlog.Err(err))
		}
	}
}
