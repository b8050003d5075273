package xmac

import "errors"

// 预定义错误变量，支持 errors.Is 判断。
var (
	// ErrEmpty 表示输入为空字符串。
	ErrEmpty = errors.New("xmac: empty input")

	// ErrInvalidFormat 表示输入中没有任何十六进制数字，或类型不受支持。
	ErrInvalidFormat = errors.New("xmac: invalid format")

	// ErrInvalidLength 表示字节输入长度不正确（期望 6 字节）。
	ErrInvalidLength = errors.New("xmac: invalid length")

	// ErrOutOfRange 表示数值超出 48 位地址空间。
	ErrOutOfRange = errors.New("xmac: value out of 48-bit range")

	// ErrNilReceiver 表示在 nil 指针上调用了反序列化方法。
	ErrNilReceiver = errors.New("xmac: nil receiver")
)
