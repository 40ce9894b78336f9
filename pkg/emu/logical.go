package emu

import (
	"github.com/asmbox/emu8086/pkg/asm"
	"github.com/asmbox/emu8086/pkg/cpu"
)

type boolOp uint8

const (
	opAnd boolOp = iota
	opOr
	opXor
)

// logical implements AND/OR/XOR and, with store=false, TEST. The 8086
// clears CF and OF after every logical operation.
func (e *Emulator) logical(dst, src asm.Operand, op boolOp, store bool) error {
	isByte, err := width(dst, src)
	if err != nil {
		return err
	}
	a, err := e.get(dst, isByte)
	if err != nil {
		return err
	}
	b, err := e.get(src, isByte)
	if err != nil {
		return err
	}
	var r uint16
	switch op {
	case opAnd:
		r = a & b
	case opOr:
		r = a | b
	case opXor:
		r = a ^ b
	}
	r = truncate(uint32(r), isByte)
	if store {
		if err := e.set(dst, r, isByte); err != nil {
			return err
		}
	}
	e.state.UpdateFlags(uint32(r), isByte, false)
	e.state.SetFlag(cpu.FlagCF, false)
	e.state.SetFlag(cpu.FlagOF, false)
	return nil
}

// not inverts all bits and leaves every flag untouched.
func (e *Emulator) not(dst asm.Operand) error {
	isByte, err := widthOne(dst)
	if err != nil {
		return err
	}
	a, err := e.get(dst, isByte)
	if err != nil {
		return err
	}
	return e.set(dst, truncate(uint32(^a), isByte), isByte)
}
