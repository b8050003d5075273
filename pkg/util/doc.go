// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xmac: MAC 地址值类型，多格式解析、验证、序列化
package util
