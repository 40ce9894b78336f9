package emu

import (
	"fmt"

	"github.com/asmbox/emu8086/pkg/asm"
	"github.com/asmbox/emu8086/pkg/cpu"
)

// width decides the operand width of a two-operand instruction from
// its destination, falling back to the source when the destination is
// a memory expression. Immediate and label destinations are rejected
// with ErrInvalidRegister. Irreconcilable widths fail with
// ErrOperandMismatch; a plain immediate-to-memory store defaults to
// word.
func width(dst, src asm.Operand) (isByte bool, err error) {
	switch dst.Kind {
	case asm.KindReg8:
		if src.Kind == asm.KindReg16 || src.Kind == asm.KindSeg {
			return false, fmt.Errorf("%s, %s: %w", dst.Text, src.Text, ErrOperandMismatch)
		}
		return true, nil
	case asm.KindReg16, asm.KindSeg:
		if src.Kind == asm.KindReg8 {
			return false, fmt.Errorf("%s, %s: %w", dst.Text, src.Text, ErrOperandMismatch)
		}
		return false, nil
	case asm.KindMem:
		return src.Kind == asm.KindReg8, nil
	default:
		return false, fmt.Errorf("%s is not a valid destination: %w", dst.Text, ErrInvalidRegister)
	}
}

// widthOne decides the width of a single-operand instruction: 8-bit
// registers are byte-wide, everything else is word-wide.
func widthOne(op asm.Operand) (isByte bool, err error) {
	switch op.Kind {
	case asm.KindReg8:
		return true, nil
	case asm.KindReg16, asm.KindSeg, asm.KindMem:
		return false, nil
	default:
		return false, fmt.Errorf("%s is not a valid operand: %w", op.Text, ErrInvalidRegister)
	}
}

// get reads an operand value at the given width. Byte reads of a
// 16-bit register or segment register are a width mismatch; label
// operands name a register that does not exist.
func (e *Emulator) get(op asm.Operand, isByte bool) (uint16, error) {
	switch op.Kind {
	case asm.KindImm:
		if isByte {
			return op.Imm & 0xFF, nil
		}
		return op.Imm, nil
	case asm.KindReg8:
		if !isByte {
			return 0, fmt.Errorf("%s is 8-bit: %w", op.Text, ErrOperandMismatch)
		}
		return uint16(e.state.Reg8(op.R8)), nil
	case asm.KindReg16:
		if isByte {
			return 0, fmt.Errorf("%s is 16-bit: %w", op.Text, ErrOperandMismatch)
		}
		return e.state.Reg(op.R16), nil
	case asm.KindSeg:
		if isByte {
			return 0, fmt.Errorf("%s is 16-bit: %w", op.Text, ErrOperandMismatch)
		}
		return e.state.SegVal(op.Seg), nil
	case asm.KindMem:
		ea := op.Mem.EffectiveAddress(&e.state)
		if isByte {
			b, err := e.mem.ReadByte(ea)
			return uint16(b), err
		}
		return e.mem.ReadWord(ea)
	default:
		return 0, fmt.Errorf("%q: %w", op.Text, ErrInvalidRegister)
	}
}

// set writes an operand at the given width.
func (e *Emulator) set(op asm.Operand, v uint16, isByte bool) error {
	switch op.Kind {
	case asm.KindReg8:
		if !isByte {
			return fmt.Errorf("%s is 8-bit: %w", op.Text, ErrOperandMismatch)
		}
		e.state.SetReg8(op.R8, uint8(v))
		return nil
	case asm.KindReg16:
		if isByte {
			return fmt.Errorf("%s is 16-bit: %w", op.Text, ErrOperandMismatch)
		}
		e.state.SetReg(op.R16, v)
		return nil
	case asm.KindSeg:
		if isByte {
			return fmt.Errorf("%s is 16-bit: %w", op.Text, ErrOperandMismatch)
		}
		e.state.SetSeg(op.Seg, v)
		return nil
	case asm.KindMem:
		ea := op.Mem.EffectiveAddress(&e.state)
		if isByte {
			return e.mem.WriteByte(ea, uint8(v))
		}
		return e.mem.WriteWord(ea, v)
	default:
		return fmt.Errorf("%s is not a writable destination: %w", op.Text, ErrInvalidRegister)
	}
}

// push decrements SP by 2 and stores a word there.
func (e *Emulator) push(v uint16) error {
	sp := e.state.Reg(cpu.SP) - 2
	if err := e.mem.WriteWord(sp, v); err != nil {
		return err
	}
	e.state.SetReg(cpu.SP, sp)
	return nil
}

// pop reads the word at SP and increments SP by 2.
func (e *Emulator) pop() (uint16, error) {
	sp := e.state.Reg(cpu.SP)
	v, err := e.mem.ReadWord(sp)
	if err != nil {
		return 0, err
	}
	e.state.SetReg(cpu.SP, sp+2)
	return v, nil
}
