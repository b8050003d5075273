package xmac

import (
	"errors"
	"net"
	"testing"
)

func TestNew(t *testing.T) {
	if _, err := New(MaxValue); err != nil {
		t.Errorf("New(MaxValue) unexpected error = %v", err)
	}
	if _, err := New(MaxValue + 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("New(MaxValue+1) error = %v, want %v", err, ErrOutOfRange)
	}
}

func TestFromParts(t *testing.T) {
	a := FromParts(0xE043DB, 0x123456)
	if a.Uint64() != 0xE043DB123456 {
		t.Errorf("FromParts() = %#x", a.Uint64())
	}
	if a.OUI() != 0xE043DB || a.NIC() != 0x123456 {
		t.Errorf("OUI/NIC = %#x/%#x", a.OUI(), a.NIC())
	}
	// 只取低 24 位
	if got := FromParts(0xFFE043DB, 0xFF000001); got.Uint64() != 0xE043DB000001 {
		t.Errorf("FromParts(overflow) = %#x", got.Uint64())
	}
	if got := a.WithNIC(1); got.Uint64() != 0xE043DB000001 {
		t.Errorf("WithNIC(1) = %#x", got.Uint64())
	}
}

func TestBytesConversion(t *testing.T) {
	b := [6]byte{0xE0, 0x43, 0xDB, 0x12, 0x34, 0x56}
	a := FromBytes(b)
	if a.Bytes() != b {
		t.Errorf("Bytes() = %v, want %v", a.Bytes(), b)
	}

	if _, err := ParseBytes([]byte{1, 2, 3}); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("ParseBytes(short) error = %v", err)
	}

	hw, _ := net.ParseMAC("e0:43:db:12:34:56")
	fromHW, err := FromHardwareAddr(hw)
	if err != nil || fromHW != a {
		t.Errorf("FromHardwareAddr() = %v, %v", fromHW, err)
	}

	out := a.HardwareAddr()
	out[0] = 0
	if a.Bytes()[0] != 0xE0 {
		t.Error("HardwareAddr() shares memory with Addr")
	}
}

func TestCompare(t *testing.T) {
	lo, hi := MustParse("00:00:00:00:00:01"), MustParse("00:00:00:00:00:02")
	if lo.Compare(hi) != -1 || hi.Compare(lo) != 1 || lo.Compare(lo) != 0 {
		t.Error("Compare() order broken")
	}
}

func TestNextPrev(t *testing.T) {
	tests := []struct {
		name string
		in   uint64
		next uint64
	}{
		{"zero", 0, 1},
		{"carry", 0xFFFFFF, 0x1000000},
		{"wrap", MaxValue, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := New(tt.in)
			if got := a.Next().Uint64(); got != tt.next {
				t.Errorf("Next(%#x) = %#x, want %#x", tt.in, got, tt.next)
			}
			if got := a.Next().Prev().Uint64(); got != tt.in {
				t.Errorf("Next().Prev() = %#x, want %#x", got, tt.in)
			}
		})
	}
	if Zero().Prev() != Broadcast() {
		t.Error("Zero().Prev() should wrap to broadcast")
	}
}
