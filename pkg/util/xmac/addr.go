package xmac

import "net"

const (
	// MaxValue 是 48 位地址空间的最大值（ff:ff:ff:ff:ff:ff）。
	MaxValue uint64 = 1<<48 - 1

	// nicMask 取低 24 位（NIC 部分）。
	nicMask uint64 = 1<<24 - 1
)

// Addr 表示 48 位 MAC 地址（EUI-48/MAC-48）。
//
// Addr 是不可变值类型：
//   - 可直接比较（==）和用作 map key
//   - 并发安全，无需加锁
//   - 零值为 00:00:00:00:00:00
//
// 使用 [New]、[Parse] 或 [MustParse] 创建：
//
//	addr, err := xmac.Parse("E0:43:DB:12:34:56")
//	addr, err := xmac.New(0xE043DB123456)
type Addr struct {
	v uint64
}

// New 从整数创建 MAC 地址。
// v 超过 [MaxValue] 时返回 [ErrOutOfRange]。
func New(v uint64) (Addr, error) {
	if v > MaxValue {
		return Addr{}, ErrOutOfRange
	}
	return Addr{v: v}, nil
}

// FromParts 由 24 位 OUI 与 24 位 NIC 拼装地址。
// 两个参数都只取低 24 位。
func FromParts(oui, nic uint32) Addr {
	return Addr{v: (uint64(oui)&nicMask)<<24 | uint64(nic)&nicMask}
}

// FromBytes 从 6 字节数组创建 MAC 地址（网络字节序）。
func FromBytes(b [6]byte) Addr {
	return Addr{v: uint64(b[0])<<40 | uint64(b[1])<<32 | uint64(b[2])<<24 |
		uint64(b[3])<<16 | uint64(b[4])<<8 | uint64(b[5])}
}

// ParseBytes 从字节切片创建 MAC 地址。
// 切片长度必须为 6。
func ParseBytes(b []byte) (Addr, error) {
	if len(b) != 6 {
		return Addr{}, ErrInvalidLength
	}
	return FromBytes([6]byte(b)), nil
}

// FromHardwareAddr 从 [net.HardwareAddr] 创建 MAC 地址。
// 长度必须为 6 字节。
func FromHardwareAddr(hw net.HardwareAddr) (Addr, error) {
	return ParseBytes([]byte(hw))
}

// Uint64 返回地址的整数值，范围 [0, MaxValue]。
func (a Addr) Uint64() uint64 {
	return a.v
}

// Bytes 返回 MAC 地址的字节表示（网络字节序）。
func (a Addr) Bytes() [6]byte {
	return [6]byte{
		byte(a.v >> 40), byte(a.v >> 32), byte(a.v >> 24),
		byte(a.v >> 16), byte(a.v >> 8), byte(a.v),
	}
}

// HardwareAddr 返回 [net.HardwareAddr] 表示。
// 返回副本，修改不影响原值。
func (a Addr) HardwareAddr() net.HardwareAddr {
	b := a.Bytes()
	hw := make(net.HardwareAddr, 6)
	copy(hw, b[:])
	return hw
}

// Compare 按数值比较两个 MAC 地址。
// 返回值：-1 (a < b), 0 (a == b), 1 (a > b)。
func (a Addr) Compare(b Addr) int {
	switch {
	case a.v < b.v:
		return -1
	case a.v > b.v:
		return 1
	default:
		return 0
	}
}

// Next 返回下一个 MAC 地址，ff:ff:ff:ff:ff:ff 之后回绕到 00:00:00:00:00:00。
func (a Addr) Next() Addr {
	return Addr{v: (a.v + 1) & MaxValue}
}

// Prev 返回前一个 MAC 地址，00:00:00:00:00:00 之前回绕到 ff:ff:ff:ff:ff:ff。
func (a Addr) Prev() Addr {
	return Addr{v: (a.v - 1) & MaxValue}
}

// OUI 返回高 24 位组织唯一标识符（Organizationally Unique Identifier）。
func (a Addr) OUI() uint32 {
	return uint32(a.v >> 24)
}

// NIC 返回低 24 位网络接口标识，由制造商分配。
func (a Addr) NIC() uint32 {
	return uint32(a.v & nicMask)
}

// WithNIC 返回保留 OUI、替换低 24 位后的新地址。
func (a Addr) WithNIC(nic uint32) Addr {
	return FromParts(a.OUI(), nic)
}
