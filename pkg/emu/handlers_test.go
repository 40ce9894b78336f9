package emu

import (
	"testing"

	"github.com/asmbox/emu8086/pkg/cpu"
)

// execLines executes instructions one at a time against a fresh
// emulator, outside any program stream.
func execLines(t *testing.T, e *Emulator, lines ...string) {
	t.Helper()
	for _, l := range lines {
		if err := e.ExecuteLine(l); err != nil {
			t.Fatalf("%q: %v", l, err)
		}
	}
}

func TestAddFlags(t *testing.T) {
	tests := []struct {
		a, b   uint16
		line   string
		wantAX uint16
		wantCF bool
		wantZF bool
		wantSF bool
		wantOF bool
	}{
		{0x0001, 0x0001, "ADD AX, BX", 0x0002, false, false, false, false},
		{0xFFFF, 0x0001, "ADD AX, BX", 0x0000, true, true, false, false},
		{0x7FFF, 0x0001, "ADD AX, BX", 0x8000, false, false, true, true},
		{0x8000, 0x8000, "ADD AX, BX", 0x0000, true, true, false, true},
	}
	for _, tc := range tests {
		e := New(testMemSize)
		e.State().SetReg(cpu.AX, tc.a)
		e.State().SetReg(cpu.BX, tc.b)
		execLines(t, e, tc.line)
		r := e.Registers()
		if r.AX != tc.wantAX {
			t.Errorf("%04X+%04X: AX=%04X, want %04X", tc.a, tc.b, r.AX, tc.wantAX)
		}
		s := e.State()
		if s.Flag(cpu.FlagCF) != tc.wantCF {
			t.Errorf("%04X+%04X: CF=%v, want %v", tc.a, tc.b, s.Flag(cpu.FlagCF), tc.wantCF)
		}
		if s.Flag(cpu.FlagZF) != tc.wantZF {
			t.Errorf("%04X+%04X: ZF=%v, want %v", tc.a, tc.b, s.Flag(cpu.FlagZF), tc.wantZF)
		}
		if s.Flag(cpu.FlagSF) != tc.wantSF {
			t.Errorf("%04X+%04X: SF=%v, want %v", tc.a, tc.b, s.Flag(cpu.FlagSF), tc.wantSF)
		}
		if s.Flag(cpu.FlagOF) != tc.wantOF {
			t.Errorf("%04X+%04X: OF=%v, want %v", tc.a, tc.b, s.Flag(cpu.FlagOF), tc.wantOF)
		}
	}
}

func TestAdcSbb(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e,
		"MOV AX, 0FFFFh",
		"ADD AX, 1", // sets CF
		"MOV BX, 0",
		"ADC BX, 0", // BX = 0 + 0 + carry
	)
	if r := e.Registers(); r.BX != 1 {
		t.Errorf("ADC carry-in: BX=%04X, want 0001", r.BX)
	}

	e = New(testMemSize)
	execLines(t, e,
		"MOV AX, 0",
		"SUB AX, 1", // borrow sets CF
		"MOV BX, 10h",
		"SBB BX, 0", // BX = 10h - 0 - borrow
	)
	if r := e.Registers(); r.BX != 0x0F {
		t.Errorf("SBB borrow-in: BX=%04X, want 000F", r.BX)
	}
}

func TestIncDecPreserveCarry(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e, "STC", "MOV AX, 5", "INC AX")
	if !e.State().Flag(cpu.FlagCF) {
		t.Error("INC must not touch CF")
	}
	execLines(t, e, "DEC AX")
	if !e.State().Flag(cpu.FlagCF) {
		t.Error("DEC must not touch CF")
	}
	if r := e.Registers(); r.AX != 5 {
		t.Errorf("AX: got %04X, want 0005", r.AX)
	}
}

func TestIncOverflow(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e, "MOV AL, 7Fh", "INC AL")
	if !e.State().Flag(cpu.FlagOF) {
		t.Error("INC 7Fh should set OF")
	}
	if got := e.State().Reg8(cpu.AL); got != 0x80 {
		t.Errorf("AL: got %02X, want 80", got)
	}
}

func TestNeg(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e, "MOV AX, 1", "NEG AX")
	if r := e.Registers(); r.AX != 0xFFFF {
		t.Errorf("NEG 1: AX=%04X, want FFFF", r.AX)
	}
	if !e.State().Flag(cpu.FlagCF) {
		t.Error("NEG nonzero sets CF")
	}
	execLines(t, e, "MOV AX, 0", "NEG AX")
	if e.State().Flag(cpu.FlagCF) {
		t.Error("NEG zero clears CF")
	}
}

func TestMulDiv(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e, "MOV AL, 7", "MOV BL, 6", "MUL BL")
	if r := e.Registers(); r.AX != 42 {
		t.Errorf("MUL byte: AX=%04X, want 002A", r.AX)
	}

	e = New(testMemSize)
	execLines(t, e, "MOV AX, 1000h", "MOV BX, 10h", "MUL BX")
	r := e.Registers()
	if r.AX != 0x0000 || r.DX != 0x0001 {
		t.Errorf("MUL word: DX:AX=%04X:%04X, want 0001:0000", r.DX, r.AX)
	}
	if !e.State().Flag(cpu.FlagCF) || !e.State().Flag(cpu.FlagOF) {
		t.Error("MUL with significant upper half sets CF and OF")
	}

	e = New(testMemSize)
	execLines(t, e, "MOV AX, 2Bh", "MOV BL, 8", "DIV BL")
	if got := e.State().Reg8(cpu.AL); got != 5 {
		t.Errorf("DIV quotient: AL=%02X, want 05", got)
	}
	if got := e.State().Reg8(cpu.AH); got != 3 {
		t.Errorf("DIV remainder: AH=%02X, want 03", got)
	}

	e = New(testMemSize)
	execLines(t, e, "MOV DX, 0", "MOV AX, 100h", "MOV BX, 10h", "DIV BX")
	r = e.Registers()
	if r.AX != 0x10 || r.DX != 0 {
		t.Errorf("DIV word: AX=%04X DX=%04X, want 0010 0000", r.AX, r.DX)
	}
}

func TestIdivSigned(t *testing.T) {
	e := New(testMemSize)
	// AX = -7 via CWD-ready value, divide by 2: quotient -3, remainder -1.
	execLines(t, e, "MOV AX, 0FFF9h", "MOV BL, 2", "IDIV BL")
	if got := e.State().Reg8(cpu.AL); got != 0xFD {
		t.Errorf("IDIV quotient: AL=%02X, want FD (-3)", got)
	}
	if got := e.State().Reg8(cpu.AH); got != 0xFF {
		t.Errorf("IDIV remainder: AH=%02X, want FF (-1)", got)
	}
}

func TestCbwCwd(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e, "MOV AL, 80h", "CBW")
	if r := e.Registers(); r.AX != 0xFF80 {
		t.Errorf("CBW: AX=%04X, want FF80", r.AX)
	}
	execLines(t, e, "CWD")
	if r := e.Registers(); r.DX != 0xFFFF {
		t.Errorf("CWD: DX=%04X, want FFFF", r.DX)
	}

	// Double CBW is idempotent: the high byte stays the sign fill.
	execLines(t, e, "MOV AL, 7Fh", "CBW", "CBW")
	if r := e.Registers(); r.AX != 0x007F {
		t.Errorf("double CBW: AX=%04X, want 007F", r.AX)
	}
}

func TestDoubleNot(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e, "MOV AX, 5A5Ah", "NOT AX")
	if r := e.Registers(); r.AX != 0xA5A5 {
		t.Errorf("NOT: AX=%04X, want A5A5", r.AX)
	}
	execLines(t, e, "NOT AX")
	if r := e.Registers(); r.AX != 0x5A5A {
		t.Errorf("double NOT must restore: AX=%04X, want 5A5A", r.AX)
	}
}

func TestCarryFlagOps(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e, "CLC", "STC")
	if !e.State().Flag(cpu.FlagCF) {
		t.Error("CLC then STC leaves CF set")
	}
	execLines(t, e, "CMC")
	if e.State().Flag(cpu.FlagCF) {
		t.Error("CMC should toggle CF off")
	}
	execLines(t, e, "CMC")
	if !e.State().Flag(cpu.FlagCF) {
		t.Error("CMC should toggle CF on")
	}
}

func TestLogicalClearCarry(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e, "STC", "MOV AX, 0Fh", "AND AX, 3")
	s := e.State()
	if s.Flag(cpu.FlagCF) || s.Flag(cpu.FlagOF) {
		t.Error("AND clears CF and OF")
	}
	if r := e.Registers(); r.AX != 3 {
		t.Errorf("AND: AX=%04X, want 0003", r.AX)
	}
}

func TestTestDoesNotStore(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e, "MOV AX, 0F0h", "TEST AX, 0Fh")
	if r := e.Registers(); r.AX != 0xF0 {
		t.Errorf("TEST must not store: AX=%04X", r.AX)
	}
	if !e.State().Flag(cpu.FlagZF) {
		t.Error("TEST F0h & 0Fh is zero")
	}
}

func TestShifts(t *testing.T) {
	tests := []struct {
		setup  []string
		wantAX uint16
		wantCF bool
	}{
		{[]string{"MOV AX, 1", "SHL AX, 4"}, 0x10, false},
		{[]string{"MOV AX, 8000h", "SHL AX, 1"}, 0, true},
		{[]string{"MOV AX, 10h", "SHR AX, 4"}, 1, false},
		{[]string{"MOV AX, 1", "SHR AX, 1"}, 0, true},
		{[]string{"MOV AX, 8000h", "SAR AX, 1"}, 0xC000, false},
		{[]string{"MOV AX, 8001h", "ROL AX, 1"}, 0x0003, true},
		{[]string{"MOV AX, 1", "ROR AX, 1"}, 0x8000, true},
		{[]string{"CLC", "MOV AX, 8000h", "RCL AX, 1"}, 0, true},
		{[]string{"STC", "MOV AX, 0", "RCL AX, 1"}, 1, false},
		{[]string{"STC", "MOV AX, 0", "RCR AX, 1"}, 0x8000, false},
	}
	for _, tc := range tests {
		e := New(testMemSize)
		execLines(t, e, tc.setup...)
		if r := e.Registers(); r.AX != tc.wantAX {
			t.Errorf("%v: AX=%04X, want %04X", tc.setup, r.AX, tc.wantAX)
		}
		if got := e.State().Flag(cpu.FlagCF); got != tc.wantCF {
			t.Errorf("%v: CF=%v, want %v", tc.setup, got, tc.wantCF)
		}
	}
}

func TestShiftCountFromCL(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e, "MOV AX, 1", "MOV CL, 3", "SHL AX, CL")
	if r := e.Registers(); r.AX != 8 {
		t.Errorf("SHL by CL: AX=%04X, want 0008", r.AX)
	}
}

func TestShiftCountMasked(t *testing.T) {
	e := New(testMemSize)
	// 33 & 1Fh = 1
	execLines(t, e, "MOV AX, 1", "MOV CL, 33", "SHL AX, CL")
	if r := e.Registers(); r.AX != 2 {
		t.Errorf("masked count: AX=%04X, want 0002", r.AX)
	}
}

func TestXchg(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e, "MOV AX, 1", "MOV BX, 2", "XCHG AX, BX")
	r := e.Registers()
	if r.AX != 2 || r.BX != 1 {
		t.Errorf("XCHG: AX=%04X BX=%04X", r.AX, r.BX)
	}
}

func TestLea(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e, "MOV BX, 1000h", "MOV SI, 200h", "LEA AX, [BX+SI+10h]")
	if r := e.Registers(); r.AX != 0x1210 {
		t.Errorf("LEA: AX=%04X, want 1210", r.AX)
	}
	// LEA loads the address, never dereferences.
	b, _ := e.ReadByte(0x1210)
	if b != 0 {
		t.Error("LEA should not touch memory")
	}
}

func TestLdsLes(t *testing.T) {
	e := New(testMemSize)
	if err := e.WriteWord(0x400, 0x1234); err != nil {
		t.Fatal(err)
	}
	if err := e.WriteWord(0x402, 0x5678); err != nil {
		t.Fatal(err)
	}
	execLines(t, e, "MOV BX, 400h", "LDS SI, [BX]")
	r := e.Registers()
	if r.SI != 0x1234 || r.DS != 0x5678 {
		t.Errorf("LDS: SI=%04X DS=%04X, want 1234 5678", r.SI, r.DS)
	}
	execLines(t, e, "LES DI, [BX]")
	r = e.Registers()
	if r.DI != 0x1234 || r.ES != 0x5678 {
		t.Errorf("LES: DI=%04X ES=%04X, want 1234 5678", r.DI, r.ES)
	}
}

func TestPushaPopa(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e,
		"MOV AX, 1", "MOV CX, 2", "MOV DX, 3", "MOV BX, 4",
		"MOV BP, 5", "MOV SI, 6", "MOV DI, 7",
		"PUSHA",
		"MOV AX, 0", "MOV CX, 0", "MOV DX, 0", "MOV BX, 0",
		"MOV BP, 0", "MOV SI, 0", "MOV DI, 0",
		"POPA",
	)
	r := e.Registers()
	want := Snapshot{AX: 1, CX: 2, DX: 3, BX: 4, BP: 5, SI: 6, DI: 7, SP: cpu.InitialSP}
	if r.AX != want.AX || r.CX != want.CX || r.DX != want.DX || r.BX != want.BX ||
		r.BP != want.BP || r.SI != want.SI || r.DI != want.DI {
		t.Errorf("POPA: got %+v", r)
	}
	if r.SP != cpu.InitialSP {
		t.Errorf("SP after PUSHA/POPA: got %04X, want FFFE", r.SP)
	}
}

func TestLahfSahf(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e, "STC", "LAHF")
	if got := e.State().Reg8(cpu.AH); got&uint8(cpu.FlagCF) == 0 {
		t.Errorf("LAHF: AH=%02X should carry CF", got)
	}
	execLines(t, e, "CLC", "SAHF")
	if !e.State().Flag(cpu.FlagCF) {
		t.Error("SAHF should restore CF from AH")
	}
}

func TestPushfPopf(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e, "STC", "PUSHF", "CLC", "POPF")
	if !e.State().Flag(cpu.FlagCF) {
		t.Error("POPF should restore the pushed flags")
	}
}

func TestXlat(t *testing.T) {
	e := New(testMemSize)
	if err := e.WriteByte(0x505, 0x77); err != nil {
		t.Fatal(err)
	}
	execLines(t, e, "MOV BX, 500h", "MOV AL, 5", "XLAT")
	if got := e.State().Reg8(cpu.AL); got != 0x77 {
		t.Errorf("XLAT: AL=%02X, want 77", got)
	}
}

func TestByteMemoryMove(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e, "MOV AL, 0ABh", "MOV [200h], AL")
	b, _ := e.ReadByte(0x200)
	if b != 0xAB {
		t.Errorf("byte store: got %02X, want AB", b)
	}
	// Byte width comes from the register peer; the neighbour survives.
	b, _ = e.ReadByte(0x201)
	if b != 0 {
		t.Errorf("neighbour byte clobbered: %02X", b)
	}
	execLines(t, e, "MOV BL, [200h]")
	if got := e.State().Reg8(cpu.BL); got != 0xAB {
		t.Errorf("byte load: BL=%02X, want AB", got)
	}
}

func TestAsciiAdjust(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e, "MOV AX, 000Fh", "AAA")
	r := e.Registers()
	if e.State().Reg8(cpu.AL) != 5 || e.State().Reg8(cpu.AH) != 1 {
		t.Errorf("AAA 0Fh: AX=%04X, want AH=01 AL=05", r.AX)
	}
	if !e.State().Flag(cpu.FlagCF) {
		t.Error("AAA adjustment sets CF")
	}

	e = New(testMemSize)
	execLines(t, e, "MOV AL, 2Fh", "AAM")
	if e.State().Reg8(cpu.AH) != 4 || e.State().Reg8(cpu.AL) != 7 {
		t.Errorf("AAM 2Fh: AX=%04X, want 0407", e.Registers().AX)
	}
	execLines(t, e, "AAD")
	if e.Registers().AX != 0x002F {
		t.Errorf("AAD after AAM must restore AL: AX=%04X", e.Registers().AX)
	}
}
