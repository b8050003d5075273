package xoui

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvert(t *testing.T) {
	table, _ := Parse(loadSample(t))

	byISO := Invert(table, FieldISOCode)
	assert.Len(t, byISO["CN"], 3)
	assert.Len(t, byISO["US"], 6)
	assert.Len(t, byISO["TW"], 1)
	_, hasEmpty := byISO[""]
	assert.False(t, hasEmpty)

	total := 0
	for code, bucket := range byISO {
		for _, v := range bucket {
			assert.Equal(t, code, v.ISOCode)
			assert.NotEmpty(t, v.Prefix)
			got, ok := table.Get(v.Prefix)
			require.True(t, ok)
			assert.True(t, got.Equal(v))
		}
		total += len(bucket)
	}
	// ACDE48 没有国家代码
	assert.Equal(t, table.Len()-1, total)

	byName := Invert(table, FieldName)
	google := byName["Google, Inc."]
	require.Len(t, google, 2)
	assert.Equal(t, "001A11", google[0].Prefix)
	assert.Equal(t, "3C5AB4", google[1].Prefix)

	total = 0
	for _, bucket := range byName {
		total += len(bucket)
	}
	assert.Equal(t, table.Len(), total)
}

func TestInvert_Empty(t *testing.T) {
	table, _ := Parse("")
	assert.Empty(t, Invert(table, FieldName))
	assert.Empty(t, Invert(table, FieldISOCode))
}

func TestField_String(t *testing.T) {
	assert.Equal(t, "name", FieldName.String())
	assert.Equal(t, "iso_code", FieldISOCode.String())
	assert.Equal(t, "unknown", Field(9).String())
}

func TestBuildTables(t *testing.T) {
	raw := loadSample(t)
	tables := BuildTables(raw)

	assert.Equal(t, 11, tables.Len())
	assert.Equal(t, xxhash.Sum64String(raw), tables.Checksum())
	assert.Len(t, tables.Warnings(), 3)
	assert.Equal(t, []string{"CN", "TW", "US"}, tables.ISOCodes())
	assert.Contains(t, tables.VendorNames(), "Google, Inc.")
	assert.Len(t, tables.ByISOCode("CN"), 3)
	assert.Empty(t, tables.ByISOCode("ZZ"))
	assert.Len(t, tables.ByVendor("Google, Inc."), 2)

	// 返回副本，修改不影响快照
	bucket := tables.ByVendor("Google, Inc.")
	bucket[0].AddressLines[0] = "changed"
	assert.Equal(t, "1600 Amphitheatre Parkway", tables.ByVendor("Google, Inc.")[0].AddressLines[0])
}

func TestTables_Equal(t *testing.T) {
	raw := loadSample(t)
	a := BuildTables(raw)
	b := BuildTables(raw)
	assert.True(t, a.Equal(b))
	assert.True(t, a.Prefixes().Equal(b.Prefixes()))

	c := BuildTables(header + "\n" + "AA-BB-CC (hex)\t\tAcme\nAABBCC (base 16)\t\tAcme\n")
	assert.False(t, a.Equal(c))

	var nilTables *Tables
	assert.False(t, a.Equal(nilTables))
	assert.True(t, nilTables.Equal(nil))
}
