package xlog

import (
	"fmt"
	"log/slog"
	"time"
)

// 标准属性 key
const (
	KeyError     = "error"
	KeyDuration  = "duration"
	KeyCount     = "count"
	KeyComponent = "component"
	KeyOperation = "operation"
	KeyURL       = "url"
	KeyPath      = "path"
	KeyStatus    = "status_code"

	// OUI 领域
	KeyPrefix   = "oui_prefix"
	KeyVendor   = "vendor"
	KeyISOCode  = "iso_code"
	KeySource   = "source"
	KeyChecksum = "checksum"
)

// 数据来源取值，配合 [Source] 使用。
const (
	SourceNetwork = "network"
	SourceCache   = "cache"
)

// Err 创建错误属性，err 为 nil 时返回空属性（会被 slog 忽略）。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 创建耗时属性
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Count 创建计数属性
func Count(n int64) slog.Attr {
	return slog.Int64(KeyCount, n)
}

// Component 创建组件名属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation 创建操作名属性
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// URL 创建 URL 属性
func URL(u string) slog.Attr {
	return slog.String(KeyURL, u)
}

// Path 创建文件路径属性
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// StatusCode 创建 HTTP 状态码属性
func StatusCode(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}

// Prefix 创建 OUI 前缀属性（6 位大写十六进制）
func Prefix(p string) slog.Attr {
	return slog.String(KeyPrefix, p)
}

// Vendor 创建厂商名属性
func Vendor(name string) slog.Attr {
	return slog.String(KeyVendor, name)
}

// ISOCode 创建国家代码属性
func ISOCode(code string) slog.Attr {
	return slog.String(KeyISOCode, code)
}

// Source 创建数据来源属性，取值见 [SourceNetwork]、[SourceCache]。
func Source(s string) slog.Attr {
	return slog.String(KeySource, s)
}

// Checksum 创建注册表内容指纹属性（十六进制）
func Checksum(sum uint64) slog.Attr {
	return slog.String(KeyChecksum, fmt.Sprintf("%016x", sum))
}
