package emu

import (
	"github.com/asmbox/emu8086/pkg/asm"
	"github.com/asmbox/emu8086/pkg/cpu"
	"github.com/asmbox/emu8086/pkg/inst"
)

// stringDelta returns the index-register adjustment for one string
// step: forward when DF is clear, backward when set.
func (e *Emulator) stringDelta(word bool) uint16 {
	d := uint16(1)
	if word {
		d = 2
	}
	if e.state.Flag(cpu.FlagDF) {
		return -d
	}
	return d
}

// stringStep executes one iteration of a string primitive, adjusting
// the involved index register(s).
func (e *Emulator) stringStep(op inst.Op) error {
	si := e.state.Reg(cpu.SI)
	di := e.state.Reg(cpu.DI)

	switch op {
	case inst.MOVSB:
		b, err := e.mem.ReadByte(si)
		if err != nil {
			return err
		}
		if err := e.mem.WriteByte(di, b); err != nil {
			return err
		}
		d := e.stringDelta(false)
		e.state.SetReg(cpu.SI, si+d)
		e.state.SetReg(cpu.DI, di+d)
	case inst.MOVSW:
		w, err := e.mem.ReadWord(si)
		if err != nil {
			return err
		}
		if err := e.mem.WriteWord(di, w); err != nil {
			return err
		}
		d := e.stringDelta(true)
		e.state.SetReg(cpu.SI, si+d)
		e.state.SetReg(cpu.DI, di+d)
	case inst.CMPSB:
		a, err := e.mem.ReadByte(si)
		if err != nil {
			return err
		}
		b, err := e.mem.ReadByte(di)
		if err != nil {
			return err
		}
		e.compare(uint16(a), uint16(b), true)
		d := e.stringDelta(false)
		e.state.SetReg(cpu.SI, si+d)
		e.state.SetReg(cpu.DI, di+d)
	case inst.CMPSW:
		a, err := e.mem.ReadWord(si)
		if err != nil {
			return err
		}
		b, err := e.mem.ReadWord(di)
		if err != nil {
			return err
		}
		e.compare(a, b, false)
		d := e.stringDelta(true)
		e.state.SetReg(cpu.SI, si+d)
		e.state.SetReg(cpu.DI, di+d)
	case inst.SCASB:
		b, err := e.mem.ReadByte(di)
		if err != nil {
			return err
		}
		e.compare(uint16(e.state.Reg8(cpu.AL)), uint16(b), true)
		e.state.SetReg(cpu.DI, di+e.stringDelta(false))
	case inst.SCASW:
		w, err := e.mem.ReadWord(di)
		if err != nil {
			return err
		}
		e.compare(e.state.Reg(cpu.AX), w, false)
		e.state.SetReg(cpu.DI, di+e.stringDelta(true))
	case inst.LODSB:
		b, err := e.mem.ReadByte(si)
		if err != nil {
			return err
		}
		e.state.SetReg8(cpu.AL, b)
		e.state.SetReg(cpu.SI, si+e.stringDelta(false))
	case inst.LODSW:
		w, err := e.mem.ReadWord(si)
		if err != nil {
			return err
		}
		e.state.SetReg(cpu.AX, w)
		e.state.SetReg(cpu.SI, si+e.stringDelta(true))
	case inst.STOSB:
		if err := e.mem.WriteByte(di, e.state.Reg8(cpu.AL)); err != nil {
			return err
		}
		e.state.SetReg(cpu.DI, di+e.stringDelta(false))
	case inst.STOSW:
		if err := e.mem.WriteWord(di, e.state.Reg(cpu.AX)); err != nil {
			return err
		}
		e.state.SetReg(cpu.DI, di+e.stringDelta(true))
	}
	return nil
}

// compare performs a subtraction for flags only, as CMP does.
func (e *Emulator) compare(a, b uint16, isByte bool) {
	wide := uint32(a) - uint32(b)
	r := truncate(wide, isByte)
	e.state.UpdateFlags(wide, isByte, true)
	e.state.SetSubFlags(a, b, r, isByte)
}

// execRep drives a REP-prefixed string primitive: CX counts the
// iterations down to zero, and the conditional prefixes additionally
// stop on the ZF condition after each iteration.
func (e *Emulator) execRep(ins *asm.Instruction) error {
	for e.state.Reg(cpu.CX) != 0 {
		if err := e.stringStep(ins.Op); err != nil {
			return err
		}
		e.state.SetReg(cpu.CX, e.state.Reg(cpu.CX)-1)
		if ins.Prefix == inst.RepE && !e.state.Flag(cpu.FlagZF) {
			break
		}
		if ins.Prefix == inst.RepNE && e.state.Flag(cpu.FlagZF) {
			break
		}
	}
	return nil
}
