package xmac

// Zero 返回全零地址 00:00:00:00:00:00。
func Zero() Addr { return Addr{} }

// Broadcast 返回广播地址 FF:FF:FF:FF:FF:FF。
func Broadcast() Addr { return Addr{v: MaxValue} }
