package xoui

import (
	"fmt"
	"net"
	"slices"
	"strings"

	"github.com/omeyang/xoui/pkg/util/xmac"
)

// Address 是带可选厂商信息的 MAC 地址，构造后不可变。
//
// 值部分由 [xmac.Addr] 表示；厂商信息来自注册表查找或生成，
// 通过 [NewAddress] 直接构造的地址默认不带厂商信息。
type Address struct {
	addr         xmac.Addr
	name         string
	addressLines []string
	isoCode      string
}

// NewAddress 构造地址。
//
// src 支持：
//   - Address / *Address：复制值与厂商信息（此时忽略 meta）
//   - xmac.Addr、net.HardwareAddr
//   - 各种整数类型，须在 [0, 2^48-1] 内
//   - string、[]byte：按 [xmac.Parse] 的宽松规则解析
//
// 其他类型、解析失败或越界均返回 [ErrInvalidAddress]（包装具体原因）。
// meta 只取第一个元素，其 Prefix 字段被忽略。
func NewAddress(src any, meta ...Vendor) (Address, error) {
	switch v := src.(type) {
	case Address:
		return v.clone(), nil
	case *Address:
		if v == nil {
			return Address{}, fmt.Errorf("%w: nil *Address", ErrInvalidAddress)
		}
		return v.clone(), nil
	}

	addr, err := toAddr(src)
	if err != nil {
		return Address{}, err
	}
	a := Address{addr: addr}
	if len(meta) > 0 {
		a = a.withVendor(meta[0])
	}
	return a, nil
}

// MustAddress 类似 [NewAddress]，失败时 panic。仅用于测试与常量初始化。
func MustAddress(src any, meta ...Vendor) Address {
	a, err := NewAddress(src, meta...)
	if err != nil {
		panic(err)
	}
	return a
}

func toAddr(src any) (xmac.Addr, error) {
	var (
		addr xmac.Addr
		err  error
	)
	switch v := src.(type) {
	case xmac.Addr:
		return v, nil
	case net.HardwareAddr:
		addr, err = xmac.FromHardwareAddr(v)
	case string:
		addr, err = xmac.Parse(v)
	case []byte:
		addr, err = xmac.Parse(string(v))
	case int:
		addr, err = fromSigned(int64(v))
	case int8:
		addr, err = fromSigned(int64(v))
	case int16:
		addr, err = fromSigned(int64(v))
	case int32:
		addr, err = fromSigned(int64(v))
	case int64:
		addr, err = fromSigned(v)
	case uint:
		addr, err = xmac.New(uint64(v))
	case uint8:
		addr, err = xmac.New(uint64(v))
	case uint16:
		addr, err = xmac.New(uint64(v))
	case uint32:
		addr, err = xmac.New(uint64(v))
	case uint64:
		addr, err = xmac.New(v)
	default:
		return xmac.Addr{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidAddress, src)
	}
	if err != nil {
		return xmac.Addr{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return addr, nil
}

func fromSigned(v int64) (xmac.Addr, error) {
	if v < 0 {
		return xmac.Addr{}, fmt.Errorf("%w: negative value %d", xmac.ErrOutOfRange, v)
	}
	return xmac.New(uint64(v))
}

func (a Address) clone() Address {
	a.addressLines = slices.Clone(a.addressLines)
	return a
}

// withVendor 返回保留值、替换厂商信息的新地址。
func (a Address) withVendor(v Vendor) Address {
	return Address{
		addr:         a.addr,
		name:         v.Name,
		addressLines: slices.Clone(v.AddressLines),
		isoCode:      v.ISOCode,
	}
}

// Addr 返回不带厂商信息的值部分。
func (a Address) Addr() xmac.Addr { return a.addr }

// Uint64 返回 48 位整数值。
func (a Address) Uint64() uint64 { return a.addr.Uint64() }

// String 返回大写冒号格式：XX:XX:XX:XX:XX:XX。
func (a Address) String() string { return a.addr.String() }

// Join 返回大写十六进制，每两位之间插入 sep。
func (a Address) Join(sep string) string { return a.addr.Join(sep) }

// Prefix 返回高 24 位的 6 位大写十六进制表示。
func (a Address) Prefix() string { return a.addr.Prefix() }

// Compare 按数值比较，与厂商信息无关。
func (a Address) Compare(b Address) int { return a.addr.Compare(b.addr) }

// Next 返回数值加一（按 2^48 回绕）的地址，不携带厂商信息。
func (a Address) Next() Address { return Address{addr: a.addr.Next()} }

// Name 返回厂商名称，未知时为空。
func (a Address) Name() string { return a.name }

// AddressLines 返回厂商地址行的副本。
func (a Address) AddressLines() []string { return slices.Clone(a.addressLines) }

// ISOCode 返回两位国家代码，未知时为空。
func (a Address) ISOCode() string { return a.isoCode }

// FullAddress 返回以 ", " 连接的厂商地址。
func (a Address) FullAddress() string { return strings.Join(a.addressLines, ", ") }

// IsOUIKnown 报告是否带有厂商名称。
func (a Address) IsOUIKnown() bool { return a.name != "" }

// Vendor 返回厂商记录，未知厂商时 ok 为 false。
func (a Address) Vendor() (Vendor, bool) {
	if !a.IsOUIKnown() {
		return Vendor{}, false
	}
	return Vendor{
		Prefix:       a.Prefix(),
		Name:         a.name,
		AddressLines: slices.Clone(a.addressLines),
		ISOCode:      a.isoCode,
	}, true
}

// Equal 报告值与厂商信息是否都相同。
func (a Address) Equal(b Address) bool {
	return a.addr == b.addr && a.name == b.name && a.isoCode == b.isoCode &&
		slices.Equal(a.addressLines, b.addressLines)
}

// IsBroadcast 报告是否为广播地址。
func (a Address) IsBroadcast() bool { return a.addr.IsBroadcast() }

// IsMulticast 报告是否为多播地址。
func (a Address) IsMulticast() bool { return a.addr.IsMulticast() }

// IsUnicast 报告是否为单播地址。
func (a Address) IsUnicast() bool { return a.addr.IsUnicast() }

// IsLocallyAdministered 报告是否为本地管理地址。
func (a Address) IsLocallyAdministered() bool { return a.addr.IsLocallyAdministered() }

// IsGlobalUnique 报告是否为全球唯一（厂商分配）地址。
func (a Address) IsGlobalUnique() bool { return a.addr.IsUniversallyAdministered() }

// MarshalText 输出大写冒号格式，不含厂商信息。
func (a Address) MarshalText() ([]byte, error) { return a.addr.MarshalText() }
