package xoui

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "OUI/MA-L\t\tOrganization\ncompany_id\t\tOrganization\n\t\tAddress\n"

func loadSample(t testing.TB) string {
	t.Helper()
	data, err := os.ReadFile("testdata/oui_sample.txt")
	require.NoError(t, err)
	return string(data)
}

func TestParse_Sample(t *testing.T) {
	table, warnings := Parse(loadSample(t))

	assert.Equal(t, 11, table.Len())

	v, ok := table.Get("E043DB")
	require.True(t, ok)
	assert.Equal(t, "E043DB", v.Prefix)
	assert.Equal(t, "Shenzhen ViewAt Technology Co.,Ltd.", v.Name)
	assert.Equal(t, []string{
		"9A, Microprofit, 6th Gaoxin South Road",
		"Shenzhen Guangdong 518057",
		"CN",
	}, v.AddressLines)
	assert.Equal(t, "CN", v.ISOCode)

	v, ok = table.Get("00000C")
	require.True(t, ok)
	assert.Equal(t, "Cisco Systems, Inc", v.Name)
	assert.Equal(t, "US", v.ISOCode)
	assert.Equal(t, "170 WEST TASMAN DRIVE, SAN JOSE CA 95134-1706, US", v.FullAddress())

	v, ok = table.Get("286FB9")
	require.True(t, ok)
	assert.Equal(t, "No.388 Ning Qiao Road, Jin Qiao Pudong Shanghai", v.AddressLines[0])
	assert.Equal(t, "Shanghai 201206", v.AddressLines[1])

	v, ok = table.Get("0015EB")
	require.True(t, ok)
	assert.Equal(t, "Zte corporation", v.Name)
	assert.Equal(t, "12/F ZTE R&D Building, Kejinan Road", v.AddressLines[0])

	// 只有两行的私有块
	v, ok = table.Get("ACDE48")
	require.True(t, ok)
	assert.Equal(t, "Private", v.Name)
	assert.Empty(t, v.AddressLines)
	assert.Empty(t, v.ISOCode)

	require.Len(t, warnings, 3)
	assert.Equal(t, 9, warnings[0].Block)
	assert.Contains(t, warnings[0].Reason, "invalid prefix")
	assert.Equal(t, ParseWarning{Block: 11, Prefix: "E043DB", Reason: "duplicate prefix"}, warnings[1])
	assert.Equal(t, 13, warnings[2].Block)
	assert.Equal(t, "missing prefix line", warnings[2].Reason)
	assert.Empty(t, warnings[2].Prefix)
}

func TestParse_Order(t *testing.T) {
	table, _ := Parse(loadSample(t))

	var prefixes []string
	for p, v := range table.All() {
		assert.Equal(t, p, v.Prefix)
		prefixes = append(prefixes, p)
	}
	assert.Equal(t, []string{
		"E043DB", "00000C", "00005E", "001A11", "3C5AB4", "002272",
		"00E04C", "001B63", "286FB9", "ACDE48", "0015EB",
	}, prefixes)
	assert.Equal(t, "00000C", table.At(1).Prefix)
}

func TestParse_DuplicateKeepsFirst(t *testing.T) {
	table, _ := Parse(loadSample(t))
	v, ok := table.Get("E043DB")
	require.True(t, ok)
	assert.NotEqual(t, "Duplicate Vendor Ltd", v.Name)
}

func TestParse_CRLF(t *testing.T) {
	raw := "OUI/MA-L\r\n\r\n" +
		"AA-BB-CC   (hex)\t\tAcme\r\n" +
		"AABBCC     (base 16)\t\tAcme\r\n" +
		"\t\t\t\tStreet 1\r\n" +
		"\t\t\t\tUS\r\n"
	table, warnings := Parse(raw)
	assert.Empty(t, warnings)
	require.Equal(t, 1, table.Len())

	v, ok := table.Get("AABBCC")
	require.True(t, ok)
	assert.Equal(t, Vendor{Prefix: "AABBCC", Name: "Acme", AddressLines: []string{"Street 1", "US"}, ISOCode: "US"}, v)
}

func TestParse_BlankLinesWithWhitespace(t *testing.T) {
	raw := header + " \t\n" +
		"AA-BB-CC   (hex)\t\tAcme\n" +
		"AABBCC     (base 16)\t\tAcme\n" +
		"\t\t\t\tUS\n" +
		"\t \n" +
		"11-22-33   (hex)\t\tOther\n" +
		"112233     (base 16)\t\tOther\n"
	table, warnings := Parse(raw)
	assert.Empty(t, warnings)
	assert.Equal(t, 2, table.Len())
}

func TestParse_Normalization(t *testing.T) {
	tests := []struct {
		name      string
		vendor    string
		lines     []string
		wantName  string
		wantLines []string
		wantISO   string
	}{
		{
			name:      "collapse and trim",
			vendor:    "acme  corp;,",
			lines:     []string{"1 Main St,Suite 2;Floor 3,", "us"},
			wantName:  "Acme corp",
			wantLines: []string{"1 Main St, Suite 2; Floor 3", "Us"},
			wantISO:   "US",
		},
		{
			name:      "no country line",
			vendor:    "Acme",
			lines:     []string{"Somewhere far away"},
			wantName:  "Acme",
			wantLines: []string{"Somewhere far away"},
		},
		{
			name:      "two-byte rune is not a country",
			vendor:    "Acme",
			lines:     []string{"Somewhere", "é"},
			wantName:  "Acme",
			wantLines: []string{"Somewhere", "É"},
		},
		{
			name:      "two digits are not a country",
			vendor:    "Acme",
			lines:     []string{"Somewhere", "42"},
			wantName:  "Acme",
			wantLines: []string{"Somewhere", "42"},
		},
		{
			name:     "name keeps unspaced comma",
			vendor:   "Foo Co.,Ltd.",
			wantName: "Foo Co.,Ltd.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := header + "\n" +
				"aa-bb-cc   (hex)\t\t" + tt.vendor + "\n" +
				"aabbcc     (base 16)\t\t" + tt.vendor + "\n"
			for _, l := range tt.lines {
				raw += "\t\t\t\t" + l + "\n"
			}
			table, warnings := Parse(raw)
			require.Empty(t, warnings)
			v, ok := table.Get("AABBCC")
			require.True(t, ok)
			assert.Equal(t, tt.wantName, v.Name)
			assert.Equal(t, tt.wantLines, v.AddressLines)
			assert.Equal(t, tt.wantISO, v.ISOCode)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name       string
		block      string
		wantPrefix string
		wantReason string
	}{
		{"missing tab", "AA-BB-CC (hex) Acme\nAABBCC (base 16) Acme", "AABBCC", "missing vendor name"},
		{"short prefix", "AA (hex)\t\tAcme\nAA\t\tAcme", "", `invalid prefix "AA"`},
		{"empty name", "AA-BB-CC (hex)\t\t,\nAABBCC (base 16)\t\t,", "AABBCC", "empty vendor name"},
		{"single line", "AA-BB-CC (hex)\t\tAcme", "", "missing prefix line"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, warnings := Parse(header + "\n" + tt.block + "\n")
			assert.Equal(t, 0, table.Len())
			require.Len(t, warnings, 1)
			assert.Equal(t, tt.wantPrefix, warnings[0].Prefix)
			assert.Equal(t, tt.wantReason, warnings[0].Reason)
			assert.Contains(t, warnings[0].Error(), tt.wantReason)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	for _, raw := range []string{"", header, "\n\n\n\n"} {
		table, warnings := Parse(raw)
		assert.Equal(t, 0, table.Len())
		assert.Empty(t, warnings)
	}
}

func TestParseWarning_Error(t *testing.T) {
	assert.Equal(t, "xoui: registry block 3 (AABBCC): duplicate prefix",
		ParseWarning{Block: 3, Prefix: "AABBCC", Reason: "duplicate prefix"}.Error())
	assert.Equal(t, "xoui: registry block 4: missing prefix line",
		ParseWarning{Block: 4, Reason: "missing prefix line"}.Error())
}

func BenchmarkParse(b *testing.B) {
	raw := loadSample(b)
	b.ReportAllocs()
	for b.Loop() {
		Parse(raw)
	}
}
