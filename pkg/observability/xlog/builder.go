package xlog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

// 轮转默认值
const (
	DefaultMaxSizeMB  = 100
	DefaultMaxBackups = 7
	DefaultMaxAgeDays = 30
)

// ErrEmptyFilename 表示 SetRotation 的文件名为空。
var ErrEmptyFilename = errors.New("xlog: empty rotation filename")

// RotationOption 配置 lumberjack 轮转参数。
type RotationOption func(*lumberjack.Logger)

// WithMaxSize 单个文件最大大小（MB）。
func WithMaxSize(mb int) RotationOption {
	return func(l *lumberjack.Logger) { l.MaxSize = mb }
}

// WithMaxBackups 保留的旧文件个数。
func WithMaxBackups(n int) RotationOption {
	return func(l *lumberjack.Logger) { l.MaxBackups = n }
}

// WithMaxAge 旧文件保留天数。
func WithMaxAge(days int) RotationOption {
	return func(l *lumberjack.Logger) { l.MaxAge = days }
}

// WithCompress 是否 gzip 压缩旧文件。
func WithCompress(compress bool) RotationOption {
	return func(l *lumberjack.Logger) { l.Compress = compress }
}

// Builder 日志配置构建器
type Builder struct {
	output    io.Writer
	levelVar  *slog.LevelVar
	format    string
	addSource bool
	rotator   io.Closer
	onError   func(error)
	err       error
}

// New 创建配置构建器，默认 stderr、Info 级别、text 格式。
func New() *Builder {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)
	return &Builder{
		output:   os.Stderr,
		levelVar: levelVar,
		format:   "text",
	}
}

// SetOutput 设置日志输出目标
func (b *Builder) SetOutput(w io.Writer) *Builder {
	if w != nil {
		b.output = w
	}
	return b
}

// SetLevel 设置日志级别
func (b *Builder) SetLevel(level Level) *Builder {
	b.levelVar.Set(slog.Level(level))
	return b
}

// SetLevelString 通过字符串设置日志级别
func (b *Builder) SetLevelString(s string) *Builder {
	level, err := ParseLevel(s)
	if err != nil {
		b.setErr(err)
		return b
	}
	return b.SetLevel(level)
}

// SetFormat 设置输出格式：text 或 json，空值使用 text。
func (b *Builder) SetFormat(format string) *Builder {
	switch normalized := strings.ToLower(strings.TrimSpace(format)); normalized {
	case "":
		b.format = "text"
	case "text", "json":
		b.format = normalized
	default:
		b.setErr(fmt.Errorf("xlog: unknown format %q", format))
	}
	return b
}

// SetAddSource 是否在日志中添加源码位置
func (b *Builder) SetAddSource(enable bool) *Builder {
	b.addSource = enable
	return b
}

// SetRotation 将输出切换为按大小轮转的文件。
// 父目录不存在时由 lumberjack 在首次写入时创建。
func (b *Builder) SetRotation(filename string, opts ...RotationOption) *Builder {
	if strings.TrimSpace(filename) == "" {
		b.setErr(ErrEmptyFilename)
		return b
	}
	lj := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAgeDays,
		Compress:   true,
	}
	for _, opt := range opts {
		opt(lj)
	}
	b.rotator = lj
	b.output = lj
	return b
}

// SetOnError 设置内部错误回调（Handler.Handle 失败时调用）。
// 回调在热路径同步执行，应保持轻量。
func (b *Builder) SetOnError(fn func(error)) *Builder {
	b.onError = fn
	return b
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build 构建 Logger 实例
//
// 返回值：
//   - LoggerWithLevel: 日志实例
//   - func() error: 清理函数，关闭轮转文件，可重复调用
//   - error: 配置错误
func (b *Builder) Build() (LoggerWithLevel, func() error, error) {
	if b.err != nil {
		return nil, nil, b.err
	}

	opts := &slog.HandlerOptions{
		Level:     b.levelVar,
		AddSource: b.addSource,
	}
	var handler slog.Handler
	if b.format == "json" {
		handler = slog.NewJSONHandler(b.output, opts)
	} else {
		handler = slog.NewTextHandler(b.output, opts)
	}

	logger := &xlogger{
		handler:    handler,
		levelVar:   b.levelVar,
		onError:    b.onError,
		errorCount: new(atomic.Uint64),
		addSource:  b.addSource,
	}

	var once sync.Once
	rotator := b.rotator
	cleanup := func() error {
		var err error
		once.Do(func() {
			if rotator != nil {
				err = rotator.Close()
			}
		})
		return err
	}
	return logger, cleanup, nil
}

// Discard 返回丢弃所有输出的 Logger，用于测试或显式关闭日志。
func Discard() LoggerWithLevel {
	logger, _, _ := New().SetOutput(io.Discard).SetLevel(LevelError + 4).Build()
	return logger
}
