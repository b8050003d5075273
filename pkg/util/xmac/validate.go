package xmac

// 地址属性位，按 48 位整数的位号计算。
const (
	// multicastBit 是首字节最低位（I/G 位）。
	multicastBit uint64 = 1 << 40
	// localBit 是首字节次低位（U/L 位）。
	localBit uint64 = 2 << 40
)

// IsUnicast 报告 a 是否为单播地址（I/G 位为 0）。
func (a Addr) IsUnicast() bool {
	return !a.IsMulticast()
}

// IsMulticast 报告 a 是否为多播地址（I/G 位为 1）。
// 广播地址也是一种特殊的多播地址。
func (a Addr) IsMulticast() bool {
	return a.v&multicastBit != 0
}

// IsBroadcast 报告 a 是否为广播地址（FF:FF:FF:FF:FF:FF）。
func (a Addr) IsBroadcast() bool {
	return a.v == MaxValue
}

// IsLocallyAdministered 报告 a 是否为本地管理地址（LAA，U/L 位为 1）。
// 虚拟机、容器等通常使用 LAA。
func (a Addr) IsLocallyAdministered() bool {
	return a.v&localBit != 0
}

// IsUniversallyAdministered 报告 a 是否为全球唯一地址（UAA，U/L 位为 0）。
// 只有 UAA 的前缀才可能在 IEEE 注册表中找到厂商。
func (a Addr) IsUniversallyAdministered() bool {
	return !a.IsLocallyAdministered()
}

// IsZero 报告 a 是否为全零地址。
func (a Addr) IsZero() bool {
	return a.v == 0
}
