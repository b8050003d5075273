package xmac

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// MarshalText 实现 [encoding.TextMarshaler]。
// 输出大写冒号格式（AA:BB:CC:DD:EE:FF）。
func (a Addr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText 实现 [encoding.TextUnmarshaler]。
// 支持所有 [Parse] 支持的格式，空输入设置为零值。
// 对 nil 接收者返回 [ErrNilReceiver]。
func (a *Addr) UnmarshalText(text []byte) error {
	if a == nil {
		return ErrNilReceiver
	}
	if len(text) == 0 {
		*a = Addr{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalJSON 实现 [json.Marshaler]。
// 输出带引号的大写冒号格式字符串。
func (a Addr) MarshalJSON() ([]byte, error) {
	s := a.String()
	buf := make([]byte, 0, len(s)+2)
	buf = append(buf, '"')
	buf = append(buf, s...)
	buf = append(buf, '"')
	return buf, nil
}

// UnmarshalJSON 实现 [json.Unmarshaler]。
// 空字符串或 null 设置为零值。
// 对 nil 接收者返回 [ErrNilReceiver]。
func (a *Addr) UnmarshalJSON(data []byte) error {
	if a == nil {
		return ErrNilReceiver
	}
	if string(data) == "null" {
		*a = Addr{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return a.UnmarshalText([]byte(s))
}

// Value 实现 [database/sql/driver.Valuer]，写入大写冒号格式字符串。
func (a Addr) Value() (driver.Value, error) {
	return a.String(), nil
}

// Scan 实现 [database/sql.Scanner]。
// 支持 string、[]byte（字符串或 6 字节二进制）、int64 与 nil 输入。
// 对 nil 接收者返回 [ErrNilReceiver]。
func (a *Addr) Scan(src any) error {
	if a == nil {
		return ErrNilReceiver
	}
	switch v := src.(type) {
	case nil:
		*a = Addr{}
		return nil
	case string:
		return a.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == 6 {
			*a = FromBytes([6]byte(v))
			return nil
		}
		return a.UnmarshalText(v)
	case int64:
		if v < 0 {
			return fmt.Errorf("%w: negative value %d", ErrOutOfRange, v)
		}
		parsed, err := New(uint64(v))
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T into xmac.Addr", ErrInvalidFormat, src)
	}
}
