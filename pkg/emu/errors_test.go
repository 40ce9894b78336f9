package emu

import (
	"errors"
	"testing"

	"github.com/asmbox/emu8086/pkg/asm"
	"github.com/asmbox/emu8086/pkg/cpu"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"FROB AX, 1", asm.ErrUnknownMnemonic},
		{"MOV AX", asm.ErrBadArity},
		{"MOV AX, BL", ErrOperandMismatch},
		{"MOV AL, BX", ErrOperandMismatch},
		{"PUSH AL", ErrOperandMismatch},
		{"JMP nowhere", ErrUnknownLabel},
		{"MOV [AX], 1", asm.ErrParse},
		{"MOV AX, [BX+", asm.ErrParse},
		{"ADD AX, somelabel", ErrInvalidRegister},
		{"ESC", ErrUnimplemented},
	}
	for _, tc := range tests {
		e := New(testMemSize)
		if err := e.ExecuteLine(tc.line); !errors.Is(err, tc.want) {
			t.Errorf("%q: got %v, want %v", tc.line, err, tc.want)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	e := New(testMemSize)
	execLines(t, e, "MOV AX, 10h", "MOV BL, 0")
	if err := e.ExecuteLine("DIV BL"); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("DIV by zero: got %v", err)
	}
	if err := e.ExecuteLine("IDIV BL"); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("IDIV by zero: got %v", err)
	}

	// A quotient that cannot fit the destination is a divide error too.
	execLines(t, e, "MOV DX, 1", "MOV AX, 0", "MOV BX, 1")
	if err := e.ExecuteLine("DIV BX"); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("DIV overflow: got %v", err)
	}
}

func TestAddressOutOfRange(t *testing.T) {
	e := New(0x100) // tiny memory
	if err := e.ExecuteLine("MOV AX, [200h]"); !errors.Is(err, cpu.ErrAddressOutOfRange) {
		t.Errorf("read past end: got %v", err)
	}
	if err := e.ExecuteLine("MOV [200h], AX"); !errors.Is(err, cpu.ErrAddressOutOfRange) {
		t.Errorf("write past end: got %v", err)
	}
	// The stack lives at the top of the 16-bit range; with a 256-byte
	// memory every push is out of range.
	if err := e.ExecuteLine("PUSH AX"); !errors.Is(err, cpu.ErrAddressOutOfRange) {
		t.Errorf("push outside memory: got %v", err)
	}
}

// A failing step surfaces the offending instruction index and leaves
// prior state visible.
func TestStepErrorContext(t *testing.T) {
	e := New(testMemSize)
	err := e.LoadProgram([]string{
		"MOV AX, 5",
		"MOV BL, 0",
		"DIV BL",
	})
	if err != nil {
		t.Fatal(err)
	}
	var stepErr error
	for i := 0; i < 3; i++ {
		if _, stepErr = e.Step(); stepErr != nil {
			break
		}
	}
	if !errors.Is(stepErr, ErrDivisionByZero) {
		t.Fatalf("got %v", stepErr)
	}
	if r := e.Registers(); r.AX != 5 {
		t.Errorf("state before the error must remain: AX=%04X", r.AX)
	}
}

func TestLoadProgramErrorKeepsOld(t *testing.T) {
	e := New(testMemSize)
	if err := e.LoadProgram([]string{"NOP"}); err != nil {
		t.Fatal(err)
	}
	if err := e.LoadProgram([]string{"BOGUS"}); err == nil {
		t.Fatal("loading a bad program must fail")
	}
	// The previous program is still loaded and runnable.
	if _, err := e.Step(); err != nil {
		t.Errorf("old program should survive a failed load: %v", err)
	}
}
