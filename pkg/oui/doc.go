// Package oui 提供 IEEE OUI 注册表相关的子包。
//
// 子包列表：
//   - xoui: 注册表快照、厂商查找、MAC 地址生成、配置与后台刷新
//   - xouistore: 注册表原始文本的获取（HTTP）与缓存（文件、Redis、回调、内存）
package oui
