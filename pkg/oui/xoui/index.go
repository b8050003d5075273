package xoui

import (
	"maps"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Field 选择 [Invert] 的分组字段。
type Field uint8

const (
	// FieldName 按厂商名分组。
	FieldName Field = iota
	// FieldISOCode 按国家代码分组。
	FieldISOCode
)

// String 返回字段名。
func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldISOCode:
		return "iso_code"
	default:
		return "unknown"
	}
}

func (f Field) value(v Vendor) string {
	switch f {
	case FieldName:
		return v.Name
	case FieldISOCode:
		return v.ISOCode
	default:
		return ""
	}
}

// Invert 按 field 对前缀表分组。
// 每条记录都带有其前缀；桶内顺序与 table 的迭代顺序一致；字段为空的记录不进入任何桶。
func Invert(table *PrefixTable, field Field) map[string][]Vendor {
	out := make(map[string][]Vendor)
	for _, v := range table.All() {
		key := field.value(v)
		if key == "" {
			continue
		}
		out[key] = append(out[key], v)
	}
	return out
}

// Tables 是一次解析得到的三张表的只读快照。
// 三张表总是一起构建、一起发布，读者不会看到混合状态。
type Tables struct {
	prefixes  *PrefixTable
	byISOCode map[string][]Vendor
	byVendor  map[string][]Vendor
	checksum  uint64
	warnings  []ParseWarning
}

// BuildTables 解析原始文本并构建全部三张表。
func BuildTables(raw string) *Tables {
	prefixes, warnings := Parse(raw)
	return &Tables{
		prefixes:  prefixes,
		byISOCode: Invert(prefixes, FieldISOCode),
		byVendor:  Invert(prefixes, FieldName),
		checksum:  xxhash.Sum64String(raw),
		warnings:  warnings,
	}
}

// Prefixes 返回前缀表。
func (t *Tables) Prefixes() *PrefixTable { return t.prefixes }

// Len 返回前缀表记录数。
func (t *Tables) Len() int { return t.prefixes.Len() }

// ByISOCode 返回国家代码 code 下的记录副本。
func (t *Tables) ByISOCode(code string) []Vendor { return cloneBucket(t.byISOCode[code]) }

// ByVendor 返回厂商名 name 下的记录副本。
func (t *Tables) ByVendor(name string) []Vendor { return cloneBucket(t.byVendor[name]) }

// ISOCodes 返回所有国家代码（已排序）。
func (t *Tables) ISOCodes() []string { return slices.Sorted(maps.Keys(t.byISOCode)) }

// VendorNames 返回所有厂商名（已排序）。
func (t *Tables) VendorNames() []string { return slices.Sorted(maps.Keys(t.byVendor)) }

// Checksum 返回原始文本的 xxhash 指纹。
func (t *Tables) Checksum() uint64 { return t.checksum }

// Warnings 返回解析时跳过的块。
func (t *Tables) Warnings() []ParseWarning { return slices.Clone(t.warnings) }

// Equal 报告两个快照的三张表是否结构相同。
func (t *Tables) Equal(o *Tables) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.prefixes.Equal(o.prefixes) &&
		bucketsEqual(t.byISOCode, o.byISOCode) &&
		bucketsEqual(t.byVendor, o.byVendor)
}

func cloneBucket(b []Vendor) []Vendor {
	if len(b) == 0 {
		return nil
	}
	out := make([]Vendor, len(b))
	for i, v := range b {
		out[i] = v.clone()
	}
	return out
}

func bucketsEqual(a, b map[string][]Vendor) bool {
	return maps.EqualFunc(a, b, func(x, y []Vendor) bool {
		return slices.EqualFunc(x, y, Vendor.Equal)
	})
}
