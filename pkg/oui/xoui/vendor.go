package xoui

import (
	"iter"
	"slices"
	"strings"
)

// Vendor 是注册表中的一条厂商记录。
type Vendor struct {
	// Prefix 是 6 位大写十六进制 OUI，如 "E043DB"。
	Prefix string `json:"prefix"`

	// Name 是规范化后的厂商名称。
	Name string `json:"name"`

	// AddressLines 是规范化后的地址行，最后一行通常为国家代码。
	AddressLines []string `json:"address,omitempty"`

	// ISOCode 是两位大写国家代码，未知时为空。
	ISOCode string `json:"iso_code,omitempty"`
}

// FullAddress 返回以 ", " 连接的地址。
func (v Vendor) FullAddress() string {
	return strings.Join(v.AddressLines, ", ")
}

// Equal 报告两条记录是否完全相同。
func (v Vendor) Equal(o Vendor) bool {
	return v.Prefix == o.Prefix && v.Name == o.Name && v.ISOCode == o.ISOCode &&
		slices.Equal(v.AddressLines, o.AddressLines)
}

// clone 返回不共享 AddressLines 的副本。
func (v Vendor) clone() Vendor {
	v.AddressLines = slices.Clone(v.AddressLines)
	return v
}

// PrefixTable 是前缀到厂商记录的有序映射，迭代顺序即解析时的出现顺序。
// 构建完成后只读。
type PrefixTable struct {
	order   []string
	records map[string]Vendor
}

func newPrefixTable(capacity int) *PrefixTable {
	return &PrefixTable{
		order:   make([]string, 0, capacity),
		records: make(map[string]Vendor, capacity),
	}
}

// add 插入记录，前缀已存在时不覆盖并返回 false。
func (t *PrefixTable) add(v Vendor) bool {
	if _, ok := t.records[v.Prefix]; ok {
		return false
	}
	t.order = append(t.order, v.Prefix)
	t.records[v.Prefix] = v
	return true
}

// Len 返回记录数。
func (t *PrefixTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Get 按前缀查找，prefix 需为 6 位大写十六进制。
func (t *PrefixTable) Get(prefix string) (Vendor, bool) {
	if t == nil {
		return Vendor{}, false
	}
	v, ok := t.records[prefix]
	if !ok {
		return Vendor{}, false
	}
	return v.clone(), true
}

// At 返回第 i 条记录（按出现顺序）。
func (t *PrefixTable) At(i int) Vendor {
	return t.records[t.order[i]].clone()
}

// All 按出现顺序迭代所有记录。
func (t *PrefixTable) All() iter.Seq2[string, Vendor] {
	return func(yield func(string, Vendor) bool) {
		if t == nil {
			return
		}
		for _, p := range t.order {
			if !yield(p, t.records[p].clone()) {
				return
			}
		}
	}
}

// Equal 报告两张表的内容与顺序是否完全相同。
func (t *PrefixTable) Equal(o *PrefixTable) bool {
	if t.Len() != o.Len() {
		return false
	}
	if t.Len() == 0 {
		return true
	}
	for i, p := range t.order {
		if o.order[i] != p || !t.records[p].Equal(o.records[p]) {
			return false
		}
	}
	return true
}
