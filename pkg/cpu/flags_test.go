package cpu

import "testing"

func TestParityTable(t *testing.T) {
	if parityTable[0] != FlagPF {
		t.Error("parityTable[0] should have PF (even parity)")
	}
	if parityTable[1] != 0 {
		t.Error("parityTable[1] should not have PF (odd parity)")
	}
	if parityTable[3] != FlagPF {
		t.Error("parityTable[3] should have PF")
	}
	if parityTable[0xFF] != FlagPF {
		t.Error("parityTable[FF] should have PF")
	}
}

func TestUpdateFlags(t *testing.T) {
	tests := []struct {
		name       string
		wide       uint32
		isByte     bool
		checkCarry bool
		wantZF     bool
		wantSF     bool
		wantCF     bool
		wantPF     bool
	}{
		{"zero byte", 0, true, true, true, false, false, true},
		{"byte carry out", 0x100, true, true, true, false, true, true},
		{"byte sign", 0x80, true, true, false, true, false, false},
		{"word sign", 0x8000, false, true, false, true, false, true},
		{"word carry out", 0x1FFFF, false, true, false, true, true, true},
		{"borrow shows as carry", 0xFFFFFFFF, false, true, false, true, true, true},
		{"carry not checked", 0x100, true, false, true, false, false, true},
	}
	for _, tc := range tests {
		var s State
		s.UpdateFlags(tc.wide, tc.isByte, tc.checkCarry)
		if got := s.Flag(FlagZF); got != tc.wantZF {
			t.Errorf("%s: ZF=%v, want %v", tc.name, got, tc.wantZF)
		}
		if got := s.Flag(FlagSF); got != tc.wantSF {
			t.Errorf("%s: SF=%v, want %v", tc.name, got, tc.wantSF)
		}
		if got := s.Flag(FlagCF); got != tc.wantCF {
			t.Errorf("%s: CF=%v, want %v", tc.name, got, tc.wantCF)
		}
		if got := s.Flag(FlagPF); got != tc.wantPF {
			t.Errorf("%s: PF=%v, want %v", tc.name, got, tc.wantPF)
		}
	}
}

func TestOverflowFlags(t *testing.T) {
	add := []struct {
		a, b, r  uint16
		isByte   bool
		wantOF   bool
		wantAF   bool
	}{
		{0x7F, 0x01, 0x80, true, true, true},    // pos + pos = neg
		{0x80, 0x80, 0x00, true, true, false},   // neg + neg = pos
		{0x01, 0x01, 0x02, true, false, false},
		{0x0F, 0x01, 0x10, true, false, true},   // nibble carry
		{0x7FFF, 0x0001, 0x8000, false, true, true},
	}
	for _, tc := range add {
		var s State
		s.SetAddFlags(tc.a, tc.b, tc.r, tc.isByte)
		if got := s.Flag(FlagOF); got != tc.wantOF {
			t.Errorf("add %04X+%04X: OF=%v, want %v", tc.a, tc.b, got, tc.wantOF)
		}
		if got := s.Flag(FlagAF); got != tc.wantAF {
			t.Errorf("add %04X+%04X: AF=%v, want %v", tc.a, tc.b, got, tc.wantAF)
		}
	}

	sub := []struct {
		a, b, r uint16
		isByte  bool
		wantOF  bool
	}{
		{0x80, 0x01, 0x7F, true, true}, // neg - pos = pos
		{0x05, 0x03, 0x02, true, false},
		{0x8000, 0x0001, 0x7FFF, false, true},
	}
	for _, tc := range sub {
		var s State
		s.SetSubFlags(tc.a, tc.b, tc.r, tc.isByte)
		if got := s.Flag(FlagOF); got != tc.wantOF {
			t.Errorf("sub %04X-%04X: OF=%v, want %v", tc.a, tc.b, got, tc.wantOF)
		}
	}
}
