package xoui

import (
	"errors"

	"github.com/omeyang/xoui/pkg/oui/xouistore"
)

var (
	// ErrInvalidAddress 表示 MAC 地址格式错误、超出 48 位范围或类型不受支持。
	ErrInvalidAddress = errors.New("xoui: invalid address")

	// ErrInvalidRawData 表示网络与缓存都没有得到可用的注册表文本。
	ErrInvalidRawData = errors.New("xoui: invalid raw registry data")

	// ErrInvalidOptions 表示生成选项冲突或取值无效。
	ErrInvalidOptions = errors.New("xoui: invalid options")

	// ErrNotFoundOuiVendor 表示严格模式下未找到匹配的厂商记录。
	ErrNotFoundOuiVendor = errors.New("xoui: oui vendor not found")

	// ErrInvalidCache 表示缓存位置不可用，与 xouistore.ErrInvalidCache 相同。
	ErrInvalidCache = xouistore.ErrInvalidCache

	// ErrNilStore 表示未提供 Store。
	ErrNilStore = errors.New("xoui: nil store")

	// ErrNilRegistry 表示未提供 Registry。
	ErrNilRegistry = errors.New("xoui: nil registry")

	// ErrInvalidConfig 表示配置无效。
	ErrInvalidConfig = errors.New("xoui: invalid config")
)
