package xmac

import "testing"

func TestFormat(t *testing.T) {
	a := MustParse("0a:1b:2c:3d:4e:5f")

	if got := a.String(); got != "0A:1B:2C:3D:4E:5F" {
		t.Errorf("String() = %q", got)
	}
	if got := a.Join(""); got != "0A1B2C3D4E5F" {
		t.Errorf("Join(\"\") = %q", got)
	}
	if got := a.Join("::"); got != "0A::1B::2C::3D::4E::5F" {
		t.Errorf("Join(\"::\") = %q", got)
	}
	if got := a.Prefix(); got != "0A1B2C" {
		t.Errorf("Prefix() = %q", got)
	}
	if a.Prefix() != a.Join("")[:6] {
		t.Error("Prefix() must equal the first 6 chars of Join(\"\")")
	}

	tests := []struct {
		format Format
		want   string
	}{
		{FormatColonUpper, "0A:1B:2C:3D:4E:5F"},
		{FormatDashUpper, "0A-1B-2C-3D-4E-5F"},
		{FormatBareUpper, "0A1B2C3D4E5F"},
		{FormatColon, "0a:1b:2c:3d:4e:5f"},
		{FormatDash, "0a-1b-2c-3d-4e-5f"},
		{FormatDot, "0a1b.2c3d.4e5f"},
		{FormatBare, "0a1b2c3d4e5f"},
		{Format(99), "0A:1B:2C:3D:4E:5F"},
	}
	for _, tt := range tests {
		if got := a.FormatString(tt.format); got != tt.want {
			t.Errorf("FormatString(%d) = %q, want %q", tt.format, got, tt.want)
		}
	}
}
