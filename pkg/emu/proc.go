package emu

import (
	"github.com/asmbox/emu8086/pkg/cpu"
	"github.com/asmbox/emu8086/pkg/inst"
)

// flagOp implements the explicit flag mutators.
func (e *Emulator) flagOp(op inst.Op) error {
	switch op {
	case inst.CLC:
		e.state.SetFlag(cpu.FlagCF, false)
	case inst.STC:
		e.state.SetFlag(cpu.FlagCF, true)
	case inst.CMC:
		e.state.SetFlag(cpu.FlagCF, !e.state.Flag(cpu.FlagCF))
	case inst.CLD:
		e.state.SetFlag(cpu.FlagDF, false)
	case inst.STD:
		e.state.SetFlag(cpu.FlagDF, true)
	case inst.CLI:
		e.state.SetFlag(cpu.FlagIF, false)
	case inst.STI:
		e.state.SetFlag(cpu.FlagIF, true)
	}
	return nil
}
