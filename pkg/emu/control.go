package emu

import (
	"fmt"

	"github.com/asmbox/emu8086/pkg/asm"
	"github.com/asmbox/emu8086/pkg/cpu"
	"github.com/asmbox/emu8086/pkg/inst"
)

// target resolves a control-transfer operand through the label index.
func (e *Emulator) target(op asm.Operand) (uint16, error) {
	if op.Kind != asm.KindLabel {
		return 0, fmt.Errorf("branch target %s must be a label: %w", op.Text, asm.ErrParse)
	}
	idx, ok := e.prog.LabelAddress(op.Sym)
	if !ok {
		return 0, fmt.Errorf("%q: %w", op.Sym, ErrUnknownLabel)
	}
	return uint16(idx), nil
}

func (e *Emulator) jump(op asm.Operand) error {
	t, err := e.target(op)
	if err != nil {
		return err
	}
	e.state.IP = t
	return nil
}

// call pushes the return index (the already-advanced IP) then jumps.
func (e *Emulator) call(op asm.Operand) error {
	t, err := e.target(op)
	if err != nil {
		return err
	}
	if err := e.push(e.state.IP); err != nil {
		return err
	}
	e.state.IP = t
	return nil
}

func (e *Emulator) ret() error {
	t, err := e.pop()
	if err != nil {
		return err
	}
	e.state.IP = t
	return nil
}

// retf pops IP then CS.
func (e *Emulator) retf() error {
	t, err := e.pop()
	if err != nil {
		return err
	}
	cs, err := e.pop()
	if err != nil {
		return err
	}
	e.state.IP = t
	e.state.SetSeg(cpu.CS, cs)
	return nil
}

// condJump branches iff the flag condition for op holds. A not-taken
// jump leaves IP to the stepper's default advance.
func (e *Emulator) condJump(op inst.Op, arg asm.Operand) error {
	t, err := e.target(arg)
	if err != nil {
		return err
	}
	if e.condition(op) {
		e.state.IP = t
	}
	return nil
}

func (e *Emulator) condition(op inst.Op) bool {
	s := &e.state
	zf := s.Flag(cpu.FlagZF)
	cf := s.Flag(cpu.FlagCF)
	sf := s.Flag(cpu.FlagSF)
	of := s.Flag(cpu.FlagOF)
	switch op {
	case inst.JE:
		return zf
	case inst.JNE:
		return !zf
	case inst.JB:
		return cf
	case inst.JNB:
		return !cf
	case inst.JBE:
		return cf || zf
	case inst.JA:
		return !cf && !zf
	case inst.JL:
		return sf != of
	case inst.JNL:
		return sf == of
	case inst.JLE:
		return zf || sf != of
	case inst.JG:
		return !zf && sf == of
	case inst.JP:
		return s.Flag(cpu.FlagPF)
	case inst.JNP:
		return !s.Flag(cpu.FlagPF)
	case inst.JO:
		return of
	case inst.JNO:
		return !of
	case inst.JS:
		return sf
	case inst.JNS:
		return !sf
	case inst.JCXZ:
		return s.Reg(cpu.CX) == 0
	}
	return false
}

// loop decrements CX, then branches while CX is non-zero (and, for the
// conditional forms, while the ZF condition holds).
func (e *Emulator) loop(op inst.Op, arg asm.Operand) error {
	t, err := e.target(arg)
	if err != nil {
		return err
	}
	cx := e.state.Reg(cpu.CX) - 1
	e.state.SetReg(cpu.CX, cx)
	taken := cx != 0
	switch op {
	case inst.LOOPZ:
		taken = taken && e.state.Flag(cpu.FlagZF)
	case inst.LOOPNZ:
		taken = taken && !e.state.Flag(cpu.FlagZF)
	}
	if taken {
		e.state.IP = t
	}
	return nil
}
