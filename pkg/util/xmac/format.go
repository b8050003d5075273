package xmac

// Format 定义 MAC 地址的格式化风格。
type Format uint8

const (
	// FormatColonUpper 使用冒号分隔，大写：AA:BB:CC:DD:EE:FF（默认）
	FormatColonUpper Format = iota
	// FormatDashUpper 使用短线分隔，大写：AA-BB-CC-DD-EE-FF
	FormatDashUpper
	// FormatBareUpper 无分隔符，大写：AABBCCDDEEFF
	FormatBareUpper
	// FormatColon 使用冒号分隔，小写：aa:bb:cc:dd:ee:ff
	FormatColon
	// FormatDash 使用短线分隔，小写：aa-bb-cc-dd-ee-ff
	FormatDash
	// FormatDot 使用点分隔（Cisco 风格），小写：aabb.ccdd.eeff
	FormatDot
	// FormatBare 无分隔符，小写：aabbccddeeff
	FormatBare
)

// 十六进制字符表。
const (
	hexLower = "0123456789abcdef"
	hexUpper = "0123456789ABCDEF"
)

// String 返回大写冒号格式：AA:BB:CC:DD:EE:FF。
func (a Addr) String() string {
	return formatWithSep(a.Bytes(), ":", hexUpper)
}

// Join 返回大写十六进制，每两位之间插入 sep（共 5 处）。
// sep 为空时即 12 位无分隔格式。
func (a Addr) Join(sep string) string {
	return formatWithSep(a.Bytes(), sep, hexUpper)
}

// Prefix 返回高 24 位的 6 位大写十六进制表示，即 Join("") 的前 6 个字符。
func (a Addr) Prefix() string {
	b := a.Bytes()
	return string([]byte{
		hexUpper[b[0]>>4], hexUpper[b[0]&0x0f],
		hexUpper[b[1]>>4], hexUpper[b[1]&0x0f],
		hexUpper[b[2]>>4], hexUpper[b[2]&0x0f],
	})
}

// FormatString 按指定格式返回 MAC 地址字符串。
// 未知格式按 [FormatColonUpper] 输出。
func (a Addr) FormatString(f Format) string {
	b := a.Bytes()
	switch f {
	case FormatDashUpper:
		return formatWithSep(b, "-", hexUpper)
	case FormatBareUpper:
		return formatWithSep(b, "", hexUpper)
	case FormatColon:
		return formatWithSep(b, ":", hexLower)
	case FormatDash:
		return formatWithSep(b, "-", hexLower)
	case FormatDot:
		return formatDot(b, hexLower)
	case FormatBare:
		return formatWithSep(b, "", hexLower)
	default:
		return formatWithSep(b, ":", hexUpper)
	}
}

// formatWithSep 每个字节输出两位十六进制，字节之间插入 sep。
func formatWithSep(b [6]byte, sep string, hex string) string {
	buf := make([]byte, 0, 12+5*len(sep))
	for i, c := range b {
		if i > 0 {
			buf = append(buf, sep...)
		}
		buf = append(buf, hex[c>>4], hex[c&0x0f])
	}
	return string(buf)
}

// formatDot 格式化为点分隔格式（xxxx.xxxx.xxxx）。
func formatDot(b [6]byte, hex string) string {
	// 4+1+4+1+4 = 14 字节
	var buf [14]byte
	buf[0] = hex[b[0]>>4]
	buf[1] = hex[b[0]&0x0f]
	buf[2] = hex[b[1]>>4]
	buf[3] = hex[b[1]&0x0f]
	buf[4] = '.'
	buf[5] = hex[b[2]>>4]
	buf[6] = hex[b[2]&0x0f]
	buf[7] = hex[b[3]>>4]
	buf[8] = hex[b[3]&0x0f]
	buf[9] = '.'
	buf[10] = hex[b[4]>>4]
	buf[11] = hex[b[4]&0x0f]
	buf[12] = hex[b[5]>>4]
	buf[13] = hex[b[5]&0x0f]
	return string(buf[:])
}
