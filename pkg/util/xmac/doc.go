// Package xmac 提供 48 位 MAC 地址值类型。
//
// xmac 将 MAC 地址表示为 48 位无符号整数，提供：
//
//   - 宽松解析：忽略分隔符、支持 0x 前缀、右侧补零到 12 位十六进制
//   - 多格式输出（默认大写冒号分隔，可指定任意分隔符）
//   - 地址属性判断（单播/多播、本地/全局管理、广播）
//   - 地址运算（Next/Prev，按 2^48 取模回绕）
//   - OUI 前缀提取与拼装（[Addr.Prefix]、[FromParts]）
//   - JSON/Text/SQL 序列化支持
//
// # 快速示例
//
//	addr, err := xmac.Parse("e0-43-db-12-34-56")
//	fmt.Println(addr)                  // E0:43:DB:12:34:56
//	fmt.Println(addr.Join(""))         // E043DB123456
//	fmt.Println(addr.Prefix())         // E043DB
//
// # 解析规则
//
// [Parse] 依次执行：去除首尾空白、转大写、去掉一个前导 "0X"、删除所有
// 非 [0-9A-F] 字符、右侧补 '0' 到 12 位，最后按十六进制解析。
// 因此 "E0:43:DB" 解析为 E0:43:DB:00:00:00，便于直接用 OUI 前缀构造地址。
// 超过 12 位有效数字返回 [ErrOutOfRange]。
//
// # 零值
//
// 零值 Addr{} 即 00:00:00:00:00:00，是合法地址（与整数 0 对应）。
// 需要区分"未设置"时请使用指针或额外的标志位。
//
// # 设计决策
//
//   - 使用 uint64 存储而非 [6]byte：地址运算（回绕、拼装前缀）直接是整数运算
//   - 仅支持 EUI-48，不支持 EUI-64
//   - 默认输出大写，与 IEEE 注册表的书写方式一致
package xmac
