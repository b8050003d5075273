package xoui

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseWarning 描述一个被跳过的注册表块。
// 注册表是第三方数据，个别块格式异常不应导致整体加载失败。
type ParseWarning struct {
	// Block 是块序号（按空行切分，0 为文件头）。
	Block int
	// Prefix 是已识别出的前缀，未识别时为空。
	Prefix string
	// Reason 是跳过原因。
	Reason string
}

// Error 实现 error 接口。
func (w ParseWarning) Error() string {
	if w.Prefix != "" {
		return fmt.Sprintf("xoui: registry block %d (%s): %s", w.Block, w.Prefix, w.Reason)
	}
	return fmt.Sprintf("xoui: registry block %d: %s", w.Block, w.Reason)
}

var (
	tabRuns        = regexp.MustCompile(`\t+`)
	spaceRuns      = regexp.MustCompile(`\s+`)
	unspacedPunct  = regexp.MustCompile(`([,;])(\S)`)
	trailingPunct  = regexp.MustCompile(`[,;]+$`)
	trailingBlanks = regexp.MustCompile(`[ \t]+\n`)
)

// Parse 把 IEEE OUI 文本注册表解析为前缀表。
//
// 格式：块之间以空行分隔，第一块为文件头。每块形如
//
//	E0-43-DB   (hex)		Shenzhen ViewAt Technology Co.,Ltd.
//	E043DB     (base 16)		Shenzhen ViewAt Technology Co.,Ltd.
//					9A,Microprofit,6th Gaoxin South Road
//					Shenzhen  Guangdong  518057
//					CN
//
// 第二行的第一个字段取前 6 个字符为前缀，最后一个字段为厂商名；
// 第三行起为地址行，最后一行恰为两个字符时作为国家代码。
//
// 同一前缀重复出现时保留第一条。格式异常的块被跳过并记入返回的警告列表。
func Parse(raw string) (*PrefixTable, []ParseWarning) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = tabRuns.ReplaceAllString(raw, "\t")
	// 只含空白的分隔行视为空行
	raw = trailingBlanks.ReplaceAllString(raw, "\n")

	blocks := strings.Split(raw, "\n\n")
	table := newPrefixTable(len(blocks))
	var warnings []ParseWarning

	for i, block := range blocks {
		if i == 0 {
			continue
		}
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		v, reason := parseBlock(block)
		if reason != "" {
			warnings = append(warnings, ParseWarning{Block: i, Prefix: v.Prefix, Reason: reason})
			continue
		}
		if !table.add(v) {
			warnings = append(warnings, ParseWarning{Block: i, Prefix: v.Prefix, Reason: "duplicate prefix"})
		}
	}
	return table, warnings
}

// parseBlock 解析单个已去除首尾空白的块，失败时返回原因。
func parseBlock(block string) (Vendor, string) {
	lines := strings.Split(block, "\n")
	if len(lines) < 2 {
		return Vendor{}, "missing prefix line"
	}

	fields := strings.Split(lines[1], "\t")
	prefix, ok := parsePrefix(fields[0])
	if !ok {
		return Vendor{}, fmt.Sprintf("invalid prefix %q", strings.TrimSpace(fields[0]))
	}
	if len(fields) < 2 {
		return Vendor{Prefix: prefix}, "missing vendor name"
	}
	name := normalizeName(fields[len(fields)-1])
	if name == "" {
		return Vendor{Prefix: prefix}, "empty vendor name"
	}

	v := Vendor{Prefix: prefix, Name: name}

	group := strings.Split(strings.ReplaceAll(block, "\t", ""), "\n")
	for _, line := range group[2:] {
		if line = normalizeLine(line); line != "" {
			v.AddressLines = append(v.AddressLines, line)
		}
	}
	if n := len(v.AddressLines); n > 0 {
		if last := v.AddressLines[n-1]; len(last) == 2 && isASCIILetter(last[0]) && isASCIILetter(last[1]) {
			v.ISOCode = strings.ToUpper(last)
		}
	}
	return v, ""
}

// parsePrefix 取字段前 6 个字符作为前缀，要求全部为十六进制数字。
func parsePrefix(field string) (string, bool) {
	field = strings.TrimSpace(field)
	if len(field) < 6 {
		return "", false
	}
	p := strings.ToUpper(field[:6])
	for i := range len(p) {
		c := p[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return "", false
		}
	}
	return p, true
}

// normalizeName 折叠空白、去掉结尾的逗号分号、首字母大写。
// 名称中的 "Co.,Ltd." 等写法保持原样。
func normalizeName(s string) string {
	s = strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
	s = strings.TrimSpace(trailingPunct.ReplaceAllString(s, ""))
	return upperFirst(s)
}

// normalizeLine 在 normalizeName 的基础上，为紧跟字符的逗号分号补一个空格。
func normalizeLine(s string) string {
	s = strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
	s = unspacedPunct.ReplaceAllString(s, "$1 $2")
	s = strings.TrimSpace(trailingPunct.ReplaceAllString(s, ""))
	return upperFirst(s)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
