package emu

import (
	"fmt"

	"github.com/asmbox/emu8086/pkg/asm"
	"github.com/asmbox/emu8086/pkg/cpu"
)

type pointerSeg uint8

const (
	segDS pointerSeg = iota
	segES
)

func (e *Emulator) mov(dst, src asm.Operand) error {
	isByte, err := width(dst, src)
	if err != nil {
		return err
	}
	v, err := e.get(src, isByte)
	if err != nil {
		return err
	}
	return e.set(dst, v, isByte)
}

// pushOp pushes a 16-bit value; 8-bit sources cannot be reconciled
// with the word-wide stack slot.
func (e *Emulator) pushOp(src asm.Operand) error {
	if src.Kind == asm.KindReg8 {
		return fmt.Errorf("PUSH %s: %w", src.Text, ErrOperandMismatch)
	}
	v, err := e.get(src, false)
	if err != nil {
		return err
	}
	return e.push(v)
}

func (e *Emulator) popOp(dst asm.Operand) error {
	if dst.Kind == asm.KindReg8 {
		return fmt.Errorf("POP %s: %w", dst.Text, ErrOperandMismatch)
	}
	v, err := e.pop()
	if err != nil {
		return err
	}
	return e.set(dst, v, false)
}

func (e *Emulator) xchg(a, b asm.Operand) error {
	isByte, err := width(a, b)
	if err != nil {
		return err
	}
	va, err := e.get(a, isByte)
	if err != nil {
		return err
	}
	vb, err := e.get(b, isByte)
	if err != nil {
		return err
	}
	if err := e.set(a, vb, isByte); err != nil {
		return err
	}
	return e.set(b, va, isByte)
}

// lea loads the effective address itself, without dereferencing.
func (e *Emulator) lea(dst, src asm.Operand) error {
	if dst.Kind != asm.KindReg16 {
		return fmt.Errorf("LEA destination %s: %w", dst.Text, ErrInvalidRegister)
	}
	if src.Kind != asm.KindMem {
		return fmt.Errorf("LEA source must be a memory expression: %w", asm.ErrParse)
	}
	e.state.SetReg(dst.R16, src.Mem.EffectiveAddress(&e.state))
	return nil
}

// loadPointer implements LDS/LES: a 4-byte region holds the offset at
// the effective address and the segment word at EA+2.
func (e *Emulator) loadPointer(dst, src asm.Operand, seg pointerSeg) error {
	if dst.Kind != asm.KindReg16 {
		return fmt.Errorf("pointer load destination %s: %w", dst.Text, ErrInvalidRegister)
	}
	if src.Kind != asm.KindMem {
		return fmt.Errorf("pointer load source must be a memory expression: %w", asm.ErrParse)
	}
	ea := src.Mem.EffectiveAddress(&e.state)
	off, err := e.mem.ReadWord(ea)
	if err != nil {
		return err
	}
	segVal, err := e.mem.ReadWord(ea + 2)
	if err != nil {
		return err
	}
	e.state.SetReg(dst.R16, off)
	if seg == segDS {
		e.state.SetSeg(cpu.DS, segVal)
	} else {
		e.state.SetSeg(cpu.ES, segVal)
	}
	return nil
}

func (e *Emulator) lahf() error {
	e.state.SetReg8(cpu.AH, uint8(e.state.Flags))
	return nil
}

func (e *Emulator) sahf() error {
	e.state.Flags = (e.state.Flags & 0xFF00) | uint16(e.state.Reg8(cpu.AH))
	return nil
}

func (e *Emulator) popf() error {
	v, err := e.pop()
	if err != nil {
		return err
	}
	e.state.Flags = v
	return nil
}

// pusha saves AX, CX, DX, BX, the pre-push SP, BP, SI, DI.
func (e *Emulator) pusha() error {
	sp0 := e.state.Reg(cpu.SP)
	for _, r := range [...]cpu.Reg{cpu.AX, cpu.CX, cpu.DX, cpu.BX} {
		if err := e.push(e.state.Reg(r)); err != nil {
			return err
		}
	}
	if err := e.push(sp0); err != nil {
		return err
	}
	for _, r := range [...]cpu.Reg{cpu.BP, cpu.SI, cpu.DI} {
		if err := e.push(e.state.Reg(r)); err != nil {
			return err
		}
	}
	return nil
}

// popa restores in reverse order, discarding the saved-SP slot.
func (e *Emulator) popa() error {
	for _, r := range [...]cpu.Reg{cpu.DI, cpu.SI, cpu.BP} {
		v, err := e.pop()
		if err != nil {
			return err
		}
		e.state.SetReg(r, v)
	}
	if _, err := e.pop(); err != nil { // saved SP, discarded
		return err
	}
	for _, r := range [...]cpu.Reg{cpu.BX, cpu.DX, cpu.CX, cpu.AX} {
		v, err := e.pop()
		if err != nil {
			return err
		}
		e.state.SetReg(r, v)
	}
	return nil
}

// xlat translates AL through the table at BX: AL <- memory[BX+AL].
func (e *Emulator) xlat() error {
	addr := e.state.Reg(cpu.BX) + uint16(e.state.Reg8(cpu.AL))
	b, err := e.mem.ReadByte(addr)
	if err != nil {
		return err
	}
	e.state.SetReg8(cpu.AL, b)
	return nil
}
