package emu

import (
	"fmt"

	"github.com/asmbox/emu8086/pkg/asm"
	"github.com/asmbox/emu8086/pkg/cpu"
	"github.com/asmbox/emu8086/pkg/inst"
)

// shiftRotate implements the eight shift/rotate mnemonics. The count
// comes from an immediate or from CL and is masked to its low 5 bits
// before iterating; CF receives the last bit shifted or rotated out,
// and ZF/SF/PF are updated from the final value.
func (e *Emulator) shiftRotate(op inst.Op, dst, cnt asm.Operand) error {
	isByte, err := widthOne(dst)
	if err != nil {
		return err
	}

	var count uint8
	switch {
	case cnt.IsRegCL():
		count = e.state.Reg8(cpu.CL)
	case cnt.Kind == asm.KindImm:
		count = uint8(cnt.Imm)
	default:
		return fmt.Errorf("shift count must be an immediate or CL, got %s: %w", cnt.Text, ErrOperandMismatch)
	}
	count &= 0x1F

	v, err := e.get(dst, isByte)
	if err != nil {
		return err
	}

	sign := uint16(0x8000)
	if isByte {
		sign = 0x80
	}

	for i := uint8(0); i < count; i++ {
		switch op {
		case inst.SHL:
			e.state.SetFlag(cpu.FlagCF, v&sign != 0)
			v <<= 1
		case inst.SHR:
			e.state.SetFlag(cpu.FlagCF, v&1 != 0)
			v >>= 1
		case inst.SAR:
			e.state.SetFlag(cpu.FlagCF, v&1 != 0)
			v = (v >> 1) | (v & sign)
		case inst.ROL:
			carry := v&sign != 0
			v <<= 1
			if carry {
				v |= 1
			}
			e.state.SetFlag(cpu.FlagCF, carry)
		case inst.ROR:
			carry := v&1 != 0
			v >>= 1
			if carry {
				v |= sign
			}
			e.state.SetFlag(cpu.FlagCF, carry)
		case inst.RCL:
			oldCF := e.state.Flag(cpu.FlagCF)
			e.state.SetFlag(cpu.FlagCF, v&sign != 0)
			v <<= 1
			if oldCF {
				v |= 1
			}
		case inst.RCR:
			oldCF := e.state.Flag(cpu.FlagCF)
			e.state.SetFlag(cpu.FlagCF, v&1 != 0)
			v >>= 1
			if oldCF {
				v |= sign
			}
		}
		v = truncate(uint32(v), isByte)
	}

	if err := e.set(dst, v, isByte); err != nil {
		return err
	}
	e.state.UpdateFlags(uint32(v), isByte, false)
	return nil
}
