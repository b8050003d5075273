package xmac

import (
	"fmt"
	"strings"
)

// digits 是 48 位地址的十六进制位数。
const digits = 12

// Parse 解析 MAC 地址字符串。
//
// 解析是宽松的，以下写法都得到同一个地址：
//   - 冒号分隔：e0:43:db:12:34:56, E0:43:DB:12:34:56
//   - 短线分隔：E0-43-DB-12-34-56
//   - 点分隔：e043.db12.3456
//   - 无分隔：E043DB123456, 0xE043DB123456
//
// 不足 12 位时在右侧补零，"E0:43:DB" 即 E0:43:DB:00:00:00。
//
// 错误：
//   - 去除空白后为空：[ErrEmpty]
//   - 不含任何十六进制数字：[ErrInvalidFormat]
//   - 数值超出 48 位：[ErrOutOfRange]
//
// 多于 12 位时按整数取值，"000000E043DB123456" 即 E0:43:DB:12:34:56。
func Parse(s string) (Addr, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Addr{}, ErrEmpty
	}
	s = strings.ToUpper(s)
	s = strings.TrimPrefix(s, "0X")

	n := 0
	var v uint64
	for i := range len(s) {
		h := hexValue(s[i])
		if h < 0 {
			continue
		}
		if v > MaxValue>>4 {
			return Addr{}, fmt.Errorf("%w: %q exceeds 48 bits", ErrOutOfRange, s)
		}
		n++
		v = v<<4 | uint64(h)
	}
	if n == 0 {
		return Addr{}, fmt.Errorf("%w: no hex digits in %q", ErrInvalidFormat, s)
	}
	// 不足 12 位时右侧补零；超过 12 位时按整数取值，前导零不影响结果
	if n < digits {
		v <<= 4 * uint(digits-n)
	}
	return Addr{v: v}, nil
}

// MustParse 类似 [Parse]，但解析失败时 panic。
// 仅用于包级常量初始化或测试。
func MustParse(s string) Addr {
	addr, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("xmac.MustParse(%q): %v", s, err))
	}
	return addr
}

// IsValidString 报告 s 能否被 [Parse] 成功解析。
func IsValidString(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// hexValue 返回十六进制字符的数值，无效字符返回 -1。
func hexValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'A' <= c && c <= 'F':
		return int(c - 'A' + 10)
	case 'a' <= c && c <= 'f':
		return int(c - 'a' + 10)
	default:
		return -1
	}
}
